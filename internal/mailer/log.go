package mailer

import (
	"context"

	"github.com/walleto/walleto/pkg/slogx"
)

// Log writes messages to the application log instead of delivering them.
// Useful in development where no SMTP relay is available; the verification
// and reset links end up in the log output.
type Log struct{}

func NewLog() *Log {
	return &Log{}
}

func (m *Log) Send(ctx context.Context, msg Message) error {
	slogx.FromContext(ctx).Info("mail (not delivered)",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
