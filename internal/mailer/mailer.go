// Package mailer delivers transactional email for the auth lifecycle
// (verification links, password reset links). Two implementations exist:
// an SMTP client for real deployments and a log-only sink for development.
package mailer

import "context"

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a message. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
