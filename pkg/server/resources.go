package server

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/stickynotes/pkg/prompts"
)

const (
	// LatestNoteURI names the resource holding the most recent note.
	LatestNoteURI = "notes://latest"

	textMIMEType = "text/plain"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         LatestNoteURI,
		Name:        "latest_note",
		Description: "The most recently added sticky note.",
		MIMEType:    textMIMEType,
	}, s.readLatest)
}

func (s *Server) readLatest(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	latest, err := s.store.Latest(ctx)
	if err != nil {
		s.logger.Errorf("reading %s: %v", LatestNoteURI, err)
		return nil, fmt.Errorf("read latest note: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      LatestNoteURI,
			MIMEType: textMIMEType,
			Text:     latest,
		}},
	}, nil
}

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        prompts.SummaryPromptName,
		Description: "Generate a prompt asking the AI to summarize all current notes.",
	}, s.summaryPrompt)
}

func (s *Server) summaryPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text, err := prompts.BuildSummary(ctx, s.store)
	if err != nil {
		s.logger.Errorf("building %s: %v", prompts.SummaryPromptName, err)
		return nil, fmt.Errorf("build summary prompt: %w", err)
	}

	return &mcp.GetPromptResult{
		Description: "Summary of the current notes",
		Messages: []*mcp.PromptMessage{{
			Role:    "user",
			Content: &mcp.TextContent{Text: text},
		}},
	}, nil
}
