package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/google/uuid"
	gomail "gopkg.in/mail.v2"
)

const (
	// DefaultHost is the relay used when no host is configured.
	DefaultHost = "smtp.gmail.com"
	// DefaultPort is the relay submission port (STARTTLS).
	DefaultPort = 587

	// implicitTLSPort is the SMTPS port, where TLS starts before the greeting.
	implicitTLSPort = 465
)

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Config describes the relay endpoint and recipient restrictions.
type Config struct {
	Host               string
	Port               int
	LocalName          string // HELO name; "localhost" when empty
	InsecureSkipVerify bool
	AllowedRecipients  []string
	DeniedRecipients   []string
}

// SMTPSender sends mail through an SMTP relay, one connection per message.
type SMTPSender struct {
	host               string
	port               int
	localName          string
	insecureSkipVerify bool
	policy             *RecipientPolicy
	now                func() time.Time
}

// NewSMTPSender builds a sender from cfg, filling in DefaultHost and
// DefaultPort for zero values.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	policy, err := NewRecipientPolicy(cfg.AllowedRecipients, cfg.DeniedRecipients)
	if err != nil {
		return nil, err
	}

	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	port := cfg.Port
	if port <= 0 {
		port = DefaultPort
	}

	return &SMTPSender{
		host:               host,
		port:               port,
		localName:          cfg.LocalName,
		insecureSkipVerify: cfg.InsecureSkipVerify,
		policy:             policy,
		now:                time.Now,
	}, nil
}

// Host returns the relay host.
func (s *SMTPSender) Host() string {
	return s.host
}

// Port returns the relay port.
func (s *SMTPSender) Port() int {
	return s.port
}

// Send dials the relay, authenticates as msg.From and transmits msg.
// Every failure is returned as a *SendError.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return &SendError{Stage: StageValidate, Err: err}
	}

	from, err := normalizeAddress(msg.From)
	if err != nil {
		return &SendError{Stage: StageValidate, Err: err}
	}
	to, err := normalizeAddress(msg.To)
	if err != nil {
		return &SendError{Stage: StageValidate, Err: err}
	}
	if !s.policy.Allows(to) {
		return &SendError{Stage: StageValidate, Err: fmt.Errorf("%w: %s", ErrRecipientDenied, to)}
	}

	m := s.buildMessage(from, to, msg)

	sc, err := s.dialer(from, msg.Password).Dial()
	if err != nil {
		return classifyDial(err)
	}

	if err := ctx.Err(); err != nil {
		_ = sc.Close()
		return &SendError{Stage: StageDeliver, Err: err}
	}

	if err := gomail.Send(sc, m); err != nil {
		_ = sc.Close()
		return &SendError{Stage: StageDeliver, Err: err}
	}

	// The relay has accepted the message; a failed QUIT does not undo that.
	_ = sc.Close()
	return nil
}

func (s *SMTPSender) buildMessage(from, to string, msg Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetDateHeader("Date", s.now())
	m.SetHeader("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(from)))
	m.SetBody("text/plain", msg.Body)
	return m
}

// dialer connects with TLS always on: implicit TLS on port 465, mandatory
// STARTTLS everywhere else. Authentication always runs.
func (s *SMTPSender) dialer(username, password string) *gomail.Dialer {
	d := gomail.NewDialer(s.host, s.port, username, password)
	d.SSL = s.port == implicitTLSPort
	d.StartTLSPolicy = gomail.MandatoryStartTLS
	d.Auth = newRelayAuth(username, password, s.host)
	d.LocalName = s.localName
	d.RetryFailure = false
	d.TLSConfig = &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}
	if s.insecureSkipVerify {
		d.TLSConfig.InsecureSkipVerify = true // #nosec G402
	}
	return d
}
