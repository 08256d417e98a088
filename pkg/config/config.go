package config

import (
	"sync"
)

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// NewDefaultManager builds a manager over store with the notes, mail and
// logging sections registered at their defaults.
func NewDefaultManager(store Store) (*Manager, error) {
	manager := NewManager(store)

	for _, section := range []Section{
		NewNotesSection(),
		NewMailSection(),
		NewLoggingSection(),
	} {
		if err := manager.RegisterSection(section); err != nil {
			return nil, err
		}
	}
	return manager, nil
}

// Initialize loads configPath (DefaultPath when empty), applies environment
// overrides and installs the result as the global manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(configPath)
	if err != nil {
		return err
	}

	manager, err := NewDefaultManager(store)
	if err != nil {
		return err
	}

	if err := manager.LoadAll(); err != nil {
		return err
	}

	if err := ApplyEnv(manager); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}

	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// GetNotes returns the notes section from global config.
// Returns nil if config is not initialized.
func GetNotes() *NotesSection {
	return globalSection[*NotesSection](SectionIDNotes)
}

// GetMail returns the mail relay section from global config.
// Returns nil if config is not initialized.
func GetMail() *MailSection {
	return globalSection[*MailSection](SectionIDMail)
}

// GetLogging returns the logging section from global config.
// Returns nil if config is not initialized.
func GetLogging() *LoggingSection {
	return globalSection[*LoggingSection](SectionIDLogging)
}

func globalSection[T Section](id string) T {
	var zero T
	if !IsInitialized() {
		return zero
	}

	section, ok := Global().GetSection(id)
	if !ok {
		return zero
	}

	typed, ok := section.(T)
	if !ok {
		return zero
	}
	return typed
}
