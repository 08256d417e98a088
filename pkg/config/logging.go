package config

import (
	"sync"

	"github.com/entrhq/stickynotes/pkg/logging"
)

// SectionIDLogging is the identifier for the log output section.
const SectionIDLogging = "logging"

const defaultLogLevel = "info"

// LoggingSection controls where the session log goes and how verbose it is.
type LoggingSection struct {
	Dir   string `json:"dir"`
	Level string `json:"level"`
	mu    sync.RWMutex
}

// NewLoggingSection returns the section with its defaults applied.
func NewLoggingSection() *LoggingSection {
	return &LoggingSection{Level: defaultLogLevel}
}

// ID returns the section key used in the config file.
func (s *LoggingSection) ID() string { return SectionIDLogging }

// Title returns a human-readable section name.
func (s *LoggingSection) Title() string { return "Logging" }

// Description summarizes what the section controls.
func (s *LoggingSection) Description() string {
	return "Session log directory and minimum level. Logs never go to stdout."
}

// Data returns a snapshot of the section for persistence.
func (s *LoggingSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]interface{}{
		"dir":   s.Dir,
		"level": s.Level,
	}
}

// SetData applies persisted values. Unknown keys are ignored and a
// non-string value is an error.
func (s *LoggingSection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value, ok := data["dir"]; ok {
		dir, err := stringValue("dir", value)
		if err != nil {
			return err
		}
		s.Dir = dir
	}
	if value, ok := data["level"]; ok {
		level, err := stringValue("level", value)
		if err != nil {
			return err
		}
		s.Level = level
	}
	return nil
}

// Validate rejects levels ParseLevel does not recognize.
func (s *LoggingSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, err := logging.ParseLevel(s.Level)
	return err
}

// Reset restores the defaults.
func (s *LoggingSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Dir = ""
	s.Level = defaultLogLevel
}

// Options converts the section into logger options. An unparsable level
// falls back to info.
func (s *LoggingSection) Options() logging.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()

	level, err := logging.ParseLevel(s.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.Options{Dir: s.Dir, Level: level}
}

// Override replaces dir and level when the given values are non-empty.
func (s *LoggingSection) Override(dir, level string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir != "" {
		s.Dir = dir
	}
	if level != "" {
		s.Level = level
	}
}
