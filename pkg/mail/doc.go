// Package mail delivers one-shot plain-text email through an SMTP relay.
//
// A Sender dials the relay for every message, upgrades the connection with
// STARTTLS (or uses implicit TLS on port 465), authenticates with the
// caller's address and password, sends and hangs up. A relay that cannot
// encrypt or does not offer AUTH fails the send. Nothing is retried, queued or cached, and the password
// never outlives the call that carried it.
//
// Failures are reported as *SendError values tagged with the Stage at which
// delivery stopped:
//
//	validate  the message was rejected before any network traffic
//	connect   the relay could not be reached, lacks STARTTLS, or the TLS upgrade failed
//	auth      the relay offers no AUTH or refused the credentials
//	deliver   the relay refused the envelope or the message data
package mail
