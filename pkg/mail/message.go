package mail

import (
	"fmt"
	netmail "net/mail"
	"strings"

	"golang.org/x/net/idna"
)

// Message is a single plain-text email. Password authenticates From against
// the relay and is used for this message only.
type Message struct {
	From     string
	Password string
	To       string
	Subject  string
	Body     string
}

// normalizeAddress parses raw as an RFC 5322 address and converts its
// domain to ASCII so internationalized domains survive the SMTP envelope.
func normalizeAddress(raw string) (string, error) {
	parsed, err := netmail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", raw, err)
	}

	at := strings.LastIndexByte(parsed.Address, '@')
	if at <= 0 || at == len(parsed.Address)-1 {
		return "", fmt.Errorf("invalid address %q: missing local part or domain", raw)
	}

	domain, err := idna.Lookup.ToASCII(parsed.Address[at+1:])
	if err != nil {
		return "", fmt.Errorf("invalid domain in %q: %w", raw, err)
	}
	return parsed.Address[:at+1] + domain, nil
}

// domainOf returns the part after the last '@' of a normalized address.
func domainOf(addr string) string {
	return addr[strings.LastIndexByte(addr, '@')+1:]
}
