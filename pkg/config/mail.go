package config

import (
	"fmt"
	"sync"

	"github.com/entrhq/stickynotes/pkg/mail"
)

// SectionIDMail is the identifier for the SMTP relay section.
const SectionIDMail = "mail"

// MailSection configures the outbound relay. Credentials are never part of
// it: they arrive with each send_mail call.
type MailSection struct {
	Host               string   `json:"host"`
	Port               int      `json:"port"`
	LocalName          string   `json:"local_name"`
	InsecureSkipVerify bool     `json:"insecure_skip_verify"`
	AllowedRecipients  []string `json:"allowed_recipients"`
	DeniedRecipients   []string `json:"denied_recipients"`
	mu                 sync.RWMutex
}

// NewMailSection returns the Gmail submission defaults.
func NewMailSection() *MailSection {
	return &MailSection{
		Host: mail.DefaultHost,
		Port: mail.DefaultPort,
	}
}

// ID returns the section identifier.
func (s *MailSection) ID() string {
	return SectionIDMail
}

// Title returns the section title.
func (s *MailSection) Title() string {
	return "Mail Relay"
}

// Description returns the section description.
func (s *MailSection) Description() string {
	return "SMTP relay used by send_mail and the recipients it may deliver to."
}

// Data returns the current configuration data.
func (s *MailSection) Data() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"host":                 s.Host,
		"port":                 s.Port,
		"local_name":           s.LocalName,
		"insecure_skip_verify": s.InsecureSkipVerify,
		"allowed_recipients":   stringsToInterfaces(s.AllowedRecipients),
		"denied_recipients":    stringsToInterfaces(s.DeniedRecipients),
	}
}

// SetData updates the configuration from the provided data.
func (s *MailSection) SetData(data map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		var err error
		switch key {
		case "host":
			s.Host, err = stringValue(key, value)
		case "port":
			s.Port, err = intValue(key, value)
		case "local_name":
			s.LocalName, err = stringValue(key, value)
		case "insecure_skip_verify":
			s.InsecureSkipVerify, err = boolValue(key, value)
		case "allowed_recipients":
			s.AllowedRecipients, err = stringSliceValue(key, value)
		case "denied_recipients":
			s.DeniedRecipients, err = stringSliceValue(key, value)
		default:
			// Ignore unknown keys for forward compatibility
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the port range and that every recipient pattern compiles.
func (s *MailSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", s.Port)
	}
	if _, err := mail.NewRecipientPolicy(s.AllowedRecipients, s.DeniedRecipients); err != nil {
		return err
	}
	return nil
}

// Reset resets the section to default configuration.
func (s *MailSection) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Host = mail.DefaultHost
	s.Port = mail.DefaultPort
	s.LocalName = ""
	s.InsecureSkipVerify = false
	s.AllowedRecipients = nil
	s.DeniedRecipients = nil
}

// SetRelay overrides host and port. Zero values leave the current setting.
func (s *MailSection) SetRelay(host string, port int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if host != "" {
		s.Host = host
	}
	if port > 0 {
		s.Port = port
	}
}

// SenderConfig converts the section into the mail package's Config.
func (s *MailSection) SenderConfig() mail.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return mail.Config{
		Host:               s.Host,
		Port:               s.Port,
		LocalName:          s.LocalName,
		InsecureSkipVerify: s.InsecureSkipVerify,
		AllowedRecipients:  append([]string(nil), s.AllowedRecipients...),
		DeniedRecipients:   append([]string(nil), s.DeniedRecipients...),
	}
}
