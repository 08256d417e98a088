// Package prompts builds the prompt templates the plugin hands to the host's
// language model. It does not call a model itself.
package prompts

import (
	"context"
	"strings"
)

const (
	// SummaryPromptName is the prompt identifier exposed to hosts.
	SummaryPromptName = "note_summary_prompt"

	// NoNotesPrompt is returned instead of a summary request when the log is empty.
	NoNotesPrompt = "There are no notes yet."

	summaryPrefix = "Summarize the current notes: "
)

// ContentSource supplies the full, trimmed note log.
type ContentSource interface {
	Content(ctx context.Context) (string, error)
}

// Summary returns the summary request for content, or NoNotesPrompt when
// content is blank.
func Summary(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return NoNotesPrompt
	}

	var builder strings.Builder
	builder.Grow(len(summaryPrefix) + len(content))
	builder.WriteString(summaryPrefix)
	builder.WriteString(content)
	return builder.String()
}

// BuildSummary reads the current log from src and renders it with Summary.
func BuildSummary(ctx context.Context, src ContentSource) (string, error) {
	content, err := src.Content(ctx)
	if err != nil {
		return "", err
	}
	return Summary(content), nil
}
