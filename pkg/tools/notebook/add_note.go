package notebook

import (
	"context"

	"github.com/entrhq/stickynotes/pkg/notes"
	"github.com/entrhq/stickynotes/pkg/tools"
)

// NoteSavedMessage confirms a successful add_note call.
const NoteSavedMessage = "Note saved!"

// AddNoteTool appends a note to the log.
type AddNoteTool struct {
	store *notes.Store
}

// NewAddNoteTool creates a new AddNoteTool.
func NewAddNoteTool(store *notes.Store) *AddNoteTool {
	return &AddNoteTool{
		store: store,
	}
}

// Name returns the tool name.
func (t *AddNoteTool) Name() string {
	return "add_note"
}

// Description returns the tool description.
func (t *AddNoteTool) Description() string {
	return "Append a new note to the sticky note file."
}

// Schema returns the JSON schema for the tool's input parameters.
func (t *AddNoteTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"message": tools.StringProperty("The note content to be added"),
		},
		[]string{"message"},
	)
}

// Execute appends the message. Any text is accepted, including an empty string.
func (t *AddNoteTool) Execute(ctx context.Context, argsJSON []byte) (string, map[string]interface{}, error) {
	var input struct {
		Message string `json:"message"`
	}
	if err := tools.DecodeArguments(argsJSON, &input); err != nil {
		return "", nil, err
	}

	if err := t.store.Add(ctx, input.Message); err != nil {
		return "", nil, err
	}

	metadata := map[string]interface{}{
		"bytes_written": len(input.Message) + 1,
	}
	return NoteSavedMessage, metadata, nil
}
