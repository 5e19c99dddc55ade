package subscriptionrepo

import (
	"context"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
)

// Repository persists newsletter subscriptions.
//
// Implementations generate the subscription ID and timestamp on every Insert call
// and issue at most one write per call; retries are the caller's decision.
type Repository interface {
	// Insert stores s with a fresh ID and the current UTC time.
	// It returns ErrConstraintViolation when a uniqueness constraint rejects the row
	// and ErrConnectivity for any other storage failure.
	Insert(ctx context.Context, s domain.NewSubscriber) (domain.Subscription, error)

	// FindByEmail returns the subscription stored for email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (domain.Subscription, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}
