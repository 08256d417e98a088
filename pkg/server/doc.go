// Package server exposes the plugin's tools, the latest-note resource and the
// summary prompt to an assistant host over the Model Context Protocol.
//
// The host talks to the process over a transport (stdio in production). Each
// request is handled synchronously: a tool call runs the registered
// tools.Tool, a resource read hits the note store, and a prompt request
// renders the summary text.
package server
