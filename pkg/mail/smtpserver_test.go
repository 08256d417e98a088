package mail

import (
	"bufio"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"fmt"
	"math/big"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeRelay is a minimal SMTP server handling one connection at a time. By
// default it behaves like a submission relay: STARTTLS with a self-signed
// certificate, then AUTH PLAIN LOGIN once the channel is encrypted.
type fakeRelay struct {
	Host string
	Port int

	startTLS      bool
	authMechs     string
	authBeforeTLS bool
	rejectAuth    bool
	rejectRcpt    bool
	tlsConfig     *tls.Config

	mu       sync.Mutex
	commands []string
	data     string
	tlsUsed  bool
	conns    []net.Conn

	ln net.Listener
	wg sync.WaitGroup
}

type relayOption func(*fakeRelay)

// withoutStartTLS makes the relay speak plaintext only. AUTH is then
// advertised before any TLS so a careless client would leak the password.
func withoutStartTLS() relayOption {
	return func(r *fakeRelay) {
		r.startTLS = false
		r.authBeforeTLS = true
	}
}

func withoutAuth() relayOption {
	return func(r *fakeRelay) {
		r.authMechs = ""
	}
}

func withAuthMechanisms(mechs string) relayOption {
	return func(r *fakeRelay) {
		r.authMechs = mechs
	}
}

func withRejectedAuth() relayOption {
	return func(r *fakeRelay) {
		r.rejectAuth = true
	}
}

func withRejectedRecipients() relayOption {
	return func(r *fakeRelay) {
		r.rejectRcpt = true
	}
}

func startFakeRelay(t *testing.T, opts ...relayOption) *fakeRelay {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	r := &fakeRelay{
		ln:        ln,
		Host:      "127.0.0.1",
		Port:      ln.Addr().(*net.TCPAddr).Port,
		startTLS:  true,
		authMechs: "PLAIN LOGIN",
		tlsConfig: selfSignedTLSConfig(t),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			r.track(conn)
			r.serve(conn)
		}
	}()

	t.Cleanup(func() {
		ln.Close()
		r.mu.Lock()
		for _, c := range r.conns {
			c.Close()
		}
		r.mu.Unlock()
		r.wg.Wait()
	})
	return r
}

func (r *fakeRelay) track(conn net.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns = append(r.conns, conn)
}

func (r *fakeRelay) serve(conn net.Conn) {
	defer func() { conn.Close() }()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))
	rd := bufio.NewReader(conn)
	secure := false

	reply := func(format string, args ...interface{}) {
		fmt.Fprintf(conn, format+"\r\n", args...)
	}
	readLine := func() (string, bool) {
		line, err := rd.ReadString('\n')
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(line), true
	}

	reply("220 127.0.0.1 fake relay ready")
	for {
		line, ok := readLine()
		if !ok {
			return
		}
		r.record(line)

		switch {
		case strings.HasPrefix(line, "EHLO"), strings.HasPrefix(line, "HELO"):
			ext := []string{"127.0.0.1 Hello"}
			if r.startTLS && !secure {
				ext = append(ext, "STARTTLS")
			}
			if r.authMechs != "" && (secure || r.authBeforeTLS) {
				ext = append(ext, "AUTH "+r.authMechs)
			}
			for _, e := range ext {
				reply("250-%s", e)
			}
			reply("250 OK")
		case line == "STARTTLS" && r.startTLS && !secure:
			reply("220 2.0.0 Ready to start TLS")
			tlsConn := tls.Server(conn, r.tlsConfig)
			if err := tlsConn.Handshake(); err != nil {
				return
			}
			conn = tlsConn
			rd = bufio.NewReader(conn)
			secure = true
			r.mu.Lock()
			r.tlsUsed = true
			r.mu.Unlock()
		case strings.HasPrefix(line, "AUTH"):
			if strings.HasPrefix(line, "AUTH LOGIN") {
				reply("334 %s", base64.StdEncoding.EncodeToString([]byte("Username:")))
				if l, ok := readLine(); ok {
					r.record(l)
				} else {
					return
				}
				reply("334 %s", base64.StdEncoding.EncodeToString([]byte("Password:")))
				if l, ok := readLine(); ok {
					r.record(l)
				} else {
					return
				}
			}
			if r.rejectAuth {
				reply("535 5.7.8 Username and Password not accepted")
			} else {
				reply("235 2.7.0 Accepted")
			}
		case strings.HasPrefix(line, "MAIL FROM:"):
			reply("250 OK")
		case strings.HasPrefix(line, "RCPT TO:"):
			if r.rejectRcpt {
				reply("550 5.1.1 No such user")
			} else {
				reply("250 OK")
			}
		case line == "DATA":
			reply("354 End data with <CR><LF>.<CR><LF>")
			var data strings.Builder
			for {
				dline, derr := rd.ReadString('\n')
				if derr != nil {
					return
				}
				if strings.TrimSpace(dline) == "." {
					break
				}
				data.WriteString(dline)
			}
			r.mu.Lock()
			r.data = data.String()
			r.mu.Unlock()
			reply("250 OK: queued as 12345")
		case line == "QUIT":
			reply("221 Bye")
			return
		default:
			reply("502 5.5.2 Command not implemented")
		}
	}
}

func (r *fakeRelay) record(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, line)
}

// Commands returns every line received so far, AUTH continuations included.
func (r *fakeRelay) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.commands...)
}

// Data returns the message body of the last DATA command.
func (r *fakeRelay) Data() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// TLSUsed reports whether any session was upgraded with STARTTLS.
func (r *fakeRelay) TLSUsed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tlsUsed
}

// unusedAddr returns a loopback port with nothing listening on it.
func unusedAddr(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return "127.0.0.1", port
}

func selfSignedTLSConfig(t *testing.T) *tls.Config {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "fake relay"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	return &tls.Config{
		Certificates: []tls.Certificate{{Certificate: [][]byte{der}, PrivateKey: key}},
		MinVersion:   tls.VersionTLS12,
	}
}
