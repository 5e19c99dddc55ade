package mailer

import (
	"context"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
)

// Dispatcher sends transactional email.
//
// Send makes exactly one delivery attempt. Implementations must not block the caller's
// goroutine on network I/O beyond waiting for the result or ctx.
type Dispatcher interface {
	Send(ctx context.Context, recipient domain.SubscriberEmail, subject, htmlBody, textBody string) error
}
