package server

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/stickynotes/pkg/mail"
	"github.com/entrhq/stickynotes/pkg/notes"
	"github.com/entrhq/stickynotes/pkg/prompts"
	"github.com/entrhq/stickynotes/pkg/tools"
	"github.com/entrhq/stickynotes/pkg/tools/mailer"
	"github.com/entrhq/stickynotes/pkg/tools/notebook"
)

type recordingSender struct {
	sent []mail.Message
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

type failingTool struct{}

func (failingTool) Name() string        { return "always_fails" }
func (failingTool) Description() string { return "fails" }
func (failingTool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(map[string]interface{}{}, nil)
}
func (failingTool) Execute(ctx context.Context, args []byte) (string, map[string]interface{}, error) {
	return "", nil, errors.New("disk on fire")
}

type fixture struct {
	store   *notes.Store
	sender  *recordingSender
	session *mcp.ClientSession
}

func newFixture(t *testing.T, extra ...tools.Tool) *fixture {
	t.Helper()

	store := notes.NewStore(filepath.Join(t.TempDir(), "notes.txt"))
	sender := &recordingSender{}

	registry := tools.NewRegistry()
	registry.MustRegister(
		notebook.NewAddNoteTool(store),
		notebook.NewReadNotesTool(store),
		notebook.NewClearNoteTool(store),
		mailer.NewSendMailTool(sender),
	)
	registry.MustRegister(extra...)

	srv, err := New(Options{Registry: registry, Store: store, Version: "test"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := srv.MCP().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-host", Version: "v0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return &fixture{store: store, sender: sender, session: session}
}

func (f *fixture) call(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := f.session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func textOf(t *testing.T, content []mcp.Content) string {
	t.Helper()
	require.Len(t, content, 1)
	text, ok := content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", content[0])
	return text.Text
}

func TestNewRequiresDependencies(t *testing.T) {
	store := notes.NewStore(filepath.Join(t.TempDir(), "notes.txt"))

	_, err := New(Options{Store: store})
	assert.Error(t, err)

	_, err = New(Options{Registry: tools.NewRegistry()})
	assert.Error(t, err)
}

func TestListTools(t *testing.T) {
	f := newFixture(t)

	res, err := f.session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"add_note", "clear_note", "read_notes", "send_mail"}, names)
}

func TestNoteToolsRoundTrip(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, notes.NoNotesSentinel, textOf(t, f.call(t, "read_notes", nil).Content))

	for _, msg := range []string{"buy milk", "call mom"} {
		res := f.call(t, "add_note", map[string]any{"message": msg})
		assert.False(t, res.IsError)
		assert.Equal(t, notebook.NoteSavedMessage, textOf(t, res.Content))
	}

	res := f.call(t, "read_notes", nil)
	assert.Equal(t, "buy milk\ncall mom", textOf(t, res.Content))
	assert.EqualValues(t, 2, res.Meta["line_count"])

	res = f.call(t, "clear_note", nil)
	assert.Equal(t, notebook.NotesClearedMessage, textOf(t, res.Content))
	assert.Equal(t, notes.NoNotesSentinel, textOf(t, f.call(t, "read_notes", nil).Content))
}

func TestToolErrorBecomesErrorResult(t *testing.T) {
	f := newFixture(t, failingTool{})

	res := f.call(t, "always_fails", nil)
	assert.True(t, res.IsError)
	assert.Equal(t, "disk on fire", textOf(t, res.Content))
}

func TestMissingRequiredArgumentIsRejected(t *testing.T) {
	f := newFixture(t)

	for name, args := range map[string]map[string]any{
		"empty object": {},
		"null message": {"message": nil},
	} {
		t.Run(name, func(t *testing.T) {
			res := f.call(t, "add_note", args)
			assert.True(t, res.IsError)
			assert.Equal(t, "missing required argument: message", textOf(t, res.Content))
		})
	}

	_, err := os.Stat(f.store.Path())
	assert.True(t, os.IsNotExist(err), "rejected calls must not touch the note file")
	assert.Equal(t, notes.NoNotesSentinel, textOf(t, f.call(t, "read_notes", nil).Content))

	res := f.call(t, "send_mail", map[string]any{"senderMailId": "me@example.com"})
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res.Content), "recieverMailId")
	assert.Empty(t, f.sender.sent)
}

func TestStoreFailureSurfacesAsToolError(t *testing.T) {
	f := newFixture(t)

	// Replace the note file with a directory so every open fails.
	require.NoError(t, os.MkdirAll(f.store.Path(), 0o750))

	res := f.call(t, "add_note", map[string]any{"message": "lost"})
	assert.True(t, res.IsError)
	assert.Contains(t, textOf(t, res.Content), "notes:")
}

func TestSendMailReportsStatusString(t *testing.T) {
	f := newFixture(t)

	args := map[string]any{
		"senderMailId":   "me@example.com",
		"senderPassword": "app-password",
		"recieverMailId": "you@example.com",
		"subject":        "Hi",
		"body":           "Hello there",
	}

	res := f.call(t, "send_mail", args)
	assert.False(t, res.IsError)
	assert.Equal(t, mailer.SentMessage, textOf(t, res.Content))
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "you@example.com", f.sender.sent[0].To)

	f.sender.err = &mail.SendError{Stage: mail.StageConnect, Err: errors.New("connection refused")}
	res = f.call(t, "send_mail", args)
	assert.False(t, res.IsError, "send failures are reported as text, not as tool errors")
	assert.Equal(t, mailer.FailurePrefix+"connect: connection refused", textOf(t, res.Content))
	assert.NotContains(t, res.Meta, "senderPassword")
}

func TestLatestNoteResource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	read := func() *mcp.ResourceContents {
		t.Helper()
		res, err := f.session.ReadResource(ctx, &mcp.ReadResourceParams{URI: LatestNoteURI})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		return res.Contents[0]
	}

	first := read()
	assert.Equal(t, notes.NoNotesSentinel, first.Text)
	assert.Equal(t, "text/plain", first.MIMEType)
	assert.Equal(t, LatestNoteURI, first.URI)

	for _, msg := range []string{"a", "b", "c"} {
		require.NoError(t, f.store.Add(ctx, msg))
	}
	assert.Equal(t, "c", read().Text)

	res, err := f.session.ListResources(ctx, nil)
	require.NoError(t, err)
	require.Len(t, res.Resources, 1)
	assert.Equal(t, LatestNoteURI, res.Resources[0].URI)
}

func TestSummaryPrompt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	get := func() string {
		t.Helper()
		res, err := f.session.GetPrompt(ctx, &mcp.GetPromptParams{Name: prompts.SummaryPromptName})
		require.NoError(t, err)
		require.Len(t, res.Messages, 1)
		assert.Equal(t, mcp.Role("user"), res.Messages[0].Role)
		text, ok := res.Messages[0].Content.(*mcp.TextContent)
		require.True(t, ok)
		return text.Text
	}

	assert.Equal(t, prompts.NoNotesPrompt, get())

	require.NoError(t, f.store.Add(ctx, "ship release"))
	require.NoError(t, f.store.Add(ctx, "write changelog"))
	assert.Equal(t, "Summarize the current notes: ship release\nwrite changelog", get())
}
