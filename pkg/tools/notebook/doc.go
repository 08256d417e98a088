// Package notebook provides the tools that manage the sticky note log.
//
// Tool Overview:
//
// add_note: Append a note (one line of text) to the log
//
// read_notes: Return every note, newline separated
//
// clear_note: Remove all notes
//
// Usage Example:
//
//	store := notes.NewStore("/path/to/notes.txt")
//
//	registry := tools.NewRegistry()
//	registry.MustRegister(
//		notebook.NewAddNoteTool(store),
//		notebook.NewReadNotesTool(store),
//		notebook.NewClearNoteTool(store),
//	)
//
// Filesystem failures are returned as errors; the host sees them as failed
// tool calls.
package notebook
