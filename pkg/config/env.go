package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables recognised at startup. They override file values.
const (
	EnvConfigPath = "STICKYNOTES_CONFIG"
	EnvNotesFile  = "STICKYNOTES_NOTES_FILE"
	EnvSMTPHost   = "STICKYNOTES_SMTP_HOST"
	EnvSMTPPort   = "STICKYNOTES_SMTP_PORT"
	EnvLogDir     = "STICKYNOTES_LOG_DIR"
	EnvLogLevel   = "STICKYNOTES_LOG_LEVEL"
)

// LoadDotEnv loads variables from the given files, or ./.env when none are
// given. Missing files are skipped; variables already set are kept.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// PathFromEnv returns the config file named by STICKYNOTES_CONFIG, or "".
func PathFromEnv() string {
	return os.Getenv(EnvConfigPath)
}

// ApplyEnv copies environment overrides into the manager's sections.
// Sections that are not registered are skipped.
func ApplyEnv(m *Manager) error {
	if section, ok := m.GetSection(SectionIDNotes); ok {
		if notes, ok := section.(*NotesSection); ok {
			if file := os.Getenv(EnvNotesFile); file != "" {
				notes.SetFilePath(file)
			}
		}
	}

	if section, ok := m.GetSection(SectionIDMail); ok {
		if mailSection, ok := section.(*MailSection); ok {
			port := 0
			if raw := os.Getenv(EnvSMTPPort); raw != "" {
				p, err := strconv.Atoi(raw)
				if err != nil || p < 1 || p > 65535 {
					return fmt.Errorf("invalid %s %q: must be a port number", EnvSMTPPort, raw)
				}
				port = p
			}
			mailSection.SetRelay(os.Getenv(EnvSMTPHost), port)
		}
	}

	if section, ok := m.GetSection(SectionIDLogging); ok {
		if loggingSection, ok := section.(*LoggingSection); ok {
			loggingSection.Override(os.Getenv(EnvLogDir), os.Getenv(EnvLogLevel))
			if err := loggingSection.Validate(); err != nil {
				return fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
			}
		}
	}

	return nil
}
