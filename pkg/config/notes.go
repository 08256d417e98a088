package config

import (
	"sync"
)

// SectionIDNotes is the identifier for the note log section.
const SectionIDNotes = "notes"

// NotesSection holds where the note log lives. An empty File means the
// default location next to the executable.
type NotesSection struct {
	File string `json:"file"`
	mu   sync.RWMutex
}

// NewNotesSection returns the section with its defaults applied.
func NewNotesSection() *NotesSection {
	return &NotesSection{}
}

// ID returns the section key used in the config file.
func (s *NotesSection) ID() string { return SectionIDNotes }

// Title returns a human-readable section name.
func (s *NotesSection) Title() string { return "Notes" }

// Description summarizes what the section controls.
func (s *NotesSection) Description() string { return "Location of the sticky note log file." }

// Data returns a snapshot of the section for persistence.
func (s *NotesSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{"file": s.File}
}

// SetData applies persisted values. Unknown keys are ignored and a
// non-string value is an error.
func (s *NotesSection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := data["file"]; ok {
		file, err := stringValue("file", value)
		if err != nil {
			return err
		}
		s.File = file
	}
	return nil
}

// Validate always succeeds; any path is accepted and checked on first use.
func (s *NotesSection) Validate() error { return nil }

// Reset restores the defaults.
func (s *NotesSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.File = ""
}

// FilePath returns the configured note file, possibly empty.
func (s *NotesSection) FilePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.File
}

// SetFilePath overrides the note file location.
func (s *NotesSection) SetFilePath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.File = path
}
