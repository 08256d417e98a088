package notes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// NoNotesSentinel is returned by Read and Latest when the log holds no notes.
	NoNotesSentinel = "No notes yet."

	// DefaultFileName is the name of the note log when no path is configured.
	DefaultFileName = "notes.txt"
)

// ErrNoPath is returned by every operation on a store created with an empty path.
var ErrNoPath = errors.New("notes: store path is empty")

// Store is a flat-file note log. Every record is one line of text.
//
// Each operation opens the file, works on it and closes it again. There is
// no locking between calls: concurrent writers may interleave.
type Store struct {
	path string
}

// NewStore creates a store backed by the file at path. The file is created
// lazily on first access.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns notes.txt next to the running executable, falling
// back to the working directory when the executable cannot be resolved.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName)
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// ensureFile creates the log (and its directory) if it does not exist yet.
func (s *Store) ensureFile() error {
	if s.path == "" {
		return ErrNoPath
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("notes: stat %s: %w", s.path, err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("notes: create directory %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("notes: create %s: %w", s.path, err)
	}
	return f.Close()
}

// Clear truncates the log. Clearing an empty log is not an error.
func (s *Store) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureFile(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("notes: truncate %s: %w", s.path, err)
	}
	return f.Close()
}

// Add appends message followed by a newline. The message is stored as is.
func (s *Store) Add(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ensureFile(); err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("notes: open %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(message + "\n"); err != nil {
		return fmt.Errorf("notes: append to %s: %w", s.path, err)
	}
	return f.Close()
}

// Content returns the whole log with surrounding whitespace trimmed.
// An empty log yields "".
func (s *Store) Content(ctx context.Context) (string, error) {
	raw, err := s.readAll(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

// Read returns the trimmed log, or NoNotesSentinel when it is empty.
func (s *Store) Read(ctx context.Context) (string, error) {
	content, err := s.Content(ctx)
	if err != nil {
		return "", err
	}
	if content == "" {
		return NoNotesSentinel, nil
	}
	return content, nil
}

// Latest returns the last line of the log, trimmed, or NoNotesSentinel when
// the log has no lines at all.
func (s *Store) Latest(ctx context.Context) (string, error) {
	raw, err := s.readAll(ctx)
	if err != nil {
		return "", err
	}

	lines := splitLines(raw)
	if len(lines) == 0 {
		return NoNotesSentinel, nil
	}
	return strings.TrimSpace(lines[len(lines)-1]), nil
}

func (s *Store) readAll(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.ensureFile(); err != nil {
		return "", err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return "", fmt.Errorf("notes: open %s: %w", s.path, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("notes: read %s: %w", s.path, err)
	}
	return string(b), nil
}

// splitLines splits after every newline, keeping a trailing partial line.
// "a\nb\n" gives ["a\n", "b\n"]; "" gives none.
func splitLines(s string) []string {
	var lines []string
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}
