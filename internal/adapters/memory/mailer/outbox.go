package mailer

import (
	"context"
	"sync"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
)

// Message is a single email captured by Outbox.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Outbox is a mailer.Dispatcher that records messages instead of sending them.
// Set Err to make every Send fail. It is safe for concurrent use.
type Outbox struct {
	mu   sync.Mutex
	sent []Message

	Err error
}

func NewOutbox() *Outbox {
	return &Outbox{}
}

func (o *Outbox) Send(ctx context.Context, recipient domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	o.sent = append(o.sent, Message{
		To:       recipient.String(),
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	return nil
}

// Sent returns a copy of the recorded messages in send order.
func (o *Outbox) Sent() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.sent...)
}
