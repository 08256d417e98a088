package server

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/stickynotes/pkg/logging"
	"github.com/entrhq/stickynotes/pkg/notes"
	"github.com/entrhq/stickynotes/pkg/tools"
)

const (
	// ImplementationName is reported to hosts during initialization.
	ImplementationName = "AI Sticky Notes"

	// DefaultVersion is used when Options.Version is empty.
	DefaultVersion = "dev"
)

// NoteReader is the part of the note store the server reads directly.
type NoteReader interface {
	Latest(ctx context.Context) (string, error)
	Content(ctx context.Context) (string, error)
}

var _ NoteReader = (*notes.Store)(nil)

// Options configures New.
type Options struct {
	Registry *tools.Registry
	Store    NoteReader
	Logger   *logging.Logger
	Version  string
}

// Server binds a tool registry and a note store to an MCP server.
type Server struct {
	mcp      *mcp.Server
	registry *tools.Registry
	store    NoteReader
	logger   *logging.Logger
}

// New builds the MCP server and registers every tool, the notes://latest
// resource and the note_summary_prompt prompt.
func New(opts Options) (*Server, error) {
	if opts.Registry == nil {
		return nil, errors.New("server: registry is required")
	}
	if opts.Store == nil {
		return nil, errors.New("server: note store is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	version := opts.Version
	if version == "" {
		version = DefaultVersion
	}

	s := &Server{
		registry: opts.Registry,
		store:    opts.Store,
		logger:   logger,
	}
	s.mcp = mcp.NewServer(
		&mcp.Implementation{Name: ImplementationName, Version: version},
		&mcp.ServerOptions{Logger: logger.Named("mcp").Slog()},
	)

	for _, tool := range opts.Registry.List() {
		s.mcp.AddTool(&mcp.Tool{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.Schema(),
		}, s.toolHandler(tool))
	}
	s.registerResources()
	s.registerPrompts()

	logger.Infof("registered %d tools", opts.Registry.Len())
	return s, nil
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Run serves a single session on transport until the host disconnects or
// ctx is cancelled.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Infof("serving %s", ImplementationName)
	if err := s.mcp.Run(ctx, transport); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// toolHandler adapts a tools.Tool to the protocol. Calls missing a required
// argument never reach the tool. Errors returned by the tool are reported to the host as an error result rather than failing the
// request.
func (s *Server) toolHandler(tool tools.Tool) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args []byte
		if req.Params != nil {
			args = req.Params.Arguments
		}

		if err := tools.CheckRequired(tool.Schema(), args); err != nil {
			s.logger.Warnf("rejected call to %s: %v", tool.Name(), err)
			return errorResult(err), nil
		}

		s.logger.Debugf("calling tool %s", tool.Name())
		result, metadata, err := tool.Execute(ctx, args)
		if err != nil {
			s.logger.Errorf("tool %s failed: %v", tool.Name(), err)
			return errorResult(err), nil
		}

		out := &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: result}},
		}
		if len(metadata) > 0 {
			out.Meta = maps.Clone(metadata)
			s.logger.Infof("tool %s completed: %v", tool.Name(), metadata)
		} else {
			s.logger.Infof("tool %s completed", tool.Name())
		}
		return out, nil
	}
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
		IsError: true,
	}
}
