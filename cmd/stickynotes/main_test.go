package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/stickynotes/pkg/mail"
	"github.com/entrhq/stickynotes/pkg/notes"
)

func TestNewRegistry(t *testing.T) {
	store := notes.NewStore(filepath.Join(t.TempDir(), "notes.txt"))
	sender, err := mail.NewSMTPSender(mail.Config{})
	require.NoError(t, err)

	registry, err := newRegistry(store, sender)
	require.NoError(t, err)

	var names []string
	for _, tool := range registry.List() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{"add_note", "clear_note", "read_notes", "send_mail"}, names)
}
