package notebook

import (
	"context"

	"github.com/entrhq/stickynotes/pkg/notes"
	"github.com/entrhq/stickynotes/pkg/tools"
)

// NotesClearedMessage confirms a successful clear_note call.
const NotesClearedMessage = "Notes Cleared!!"

// ClearNoteTool empties the note log.
type ClearNoteTool struct {
	store *notes.Store
}

// NewClearNoteTool creates a new ClearNoteTool.
func NewClearNoteTool(store *notes.Store) *ClearNoteTool {
	return &ClearNoteTool{
		store: store,
	}
}

// Name returns the tool name.
func (t *ClearNoteTool) Name() string {
	return "clear_note"
}

// Description returns the tool description.
func (t *ClearNoteTool) Description() string {
	return "Clear all the notes from the sticky note file. Prior notes cannot be recovered."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *ClearNoteTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}

// Execute truncates the log.
func (t *ClearNoteTool) Execute(ctx context.Context, _ []byte) (string, map[string]interface{}, error) {
	if err := t.store.Clear(ctx); err != nil {
		return "", nil, err
	}
	return NotesClearedMessage, nil, nil
}
