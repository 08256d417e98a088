package mail

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

var (
	// ErrAuthUnavailable is returned when the relay offers no usable AUTH
	// mechanism.
	ErrAuthUnavailable = errors.New("relay does not offer authentication")

	// ErrPlaintextAuth is returned when credentials would cross an
	// unencrypted connection.
	ErrPlaintextAuth = errors.New("refusing to authenticate over an unencrypted connection")
)

// relayAuth chooses PLAIN or LOGIN from what the relay advertises once the
// connection is encrypted. Authentication is mandatory: a relay without AUTH
// fails the send instead of accepting it anonymously.
type relayAuth struct {
	username string
	password string
	host     string
	next     smtp.Auth
}

func newRelayAuth(username, password, host string) *relayAuth {
	return &relayAuth{username: username, password: password, host: host}
}

func (a *relayAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	if !server.TLS {
		return "", nil, ErrPlaintextAuth
	}
	if len(server.Auth) == 0 {
		return "", nil, ErrAuthUnavailable
	}

	switch {
	case hasMechanism(server.Auth, "PLAIN"):
		a.next = smtp.PlainAuth("", a.username, a.password, a.host)
	case hasMechanism(server.Auth, "LOGIN"):
		a.next = &loginAuth{username: a.username, password: a.password}
	default:
		return "", nil, fmt.Errorf("%w: relay offers %s", ErrAuthUnavailable, strings.Join(server.Auth, " "))
	}
	return a.next.Start(server)
}

func (a *relayAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	return a.next.Next(fromServer, more)
}

func hasMechanism(mechanisms []string, name string) bool {
	for _, m := range mechanisms {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	return false
}

// loginAuth implements the LOGIN mechanism, which net/smtp lacks.
type loginAuth struct {
	username string
	password string
}

func (a *loginAuth) Start(server *smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", nil, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}

	switch strings.ToLower(strings.TrimSpace(string(fromServer))) {
	case "username:":
		return []byte(a.username), nil
	case "password:":
		return []byte(a.password), nil
	default:
		return nil, fmt.Errorf("unexpected LOGIN challenge %q", fromServer)
	}
}
