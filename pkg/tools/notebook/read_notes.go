package notebook

import (
	"context"
	"strings"

	"github.com/entrhq/stickynotes/pkg/notes"
	"github.com/entrhq/stickynotes/pkg/tools"
)

// ReadNotesTool returns the whole note log.
type ReadNotesTool struct {
	store *notes.Store
}

// NewReadNotesTool creates a new ReadNotesTool.
func NewReadNotesTool(store *notes.Store) *ReadNotesTool {
	return &ReadNotesTool{
		store: store,
	}
}

// Name returns the tool name.
func (t *ReadNotesTool) Name() string {
	return "read_notes"
}

// Description returns the tool description.
func (t *ReadNotesTool) Description() string {
	return "Read and return all notes from the sticky note file, separated by line breaks. Returns a default message when no notes exist."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *ReadNotesTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute reads the log.
func (t *ReadNotesTool) Execute(ctx context.Context, _ []byte) (string, map[string]interface{}, error) {
	content, err := t.store.Read(ctx)
	if err != nil {
		return "", nil, err
	}

	count := 0
	if content != notes.NoNotesSentinel {
		count = strings.Count(content, "\n") + 1
	}
	metadata := map[string]interface{}{
		"line_count": count,
	}
	return content, metadata, nil
}
