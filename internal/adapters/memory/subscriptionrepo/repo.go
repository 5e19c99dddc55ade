package subscriptionrepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	clockport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriptionrepo"
)

// Repo is an in-memory implementation of subscriptionrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	clock clockport.Clock

	mu      sync.RWMutex
	byEmail map[string]domain.Subscription
}

func NewRepo(clock clockport.Clock) *Repo {
	return &Repo{
		clock:   clock,
		byEmail: make(map[string]domain.Subscription),
	}
}

func (r *Repo) Insert(ctx context.Context, s domain.NewSubscriber) (domain.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return domain.Subscription{}, fmt.Errorf("%w: %v", subscriptionrepo.ErrConnectivity, err)
	}
	sub := domain.Subscription{
		ID:           domain.NewSubscriptionID(),
		Email:        s.Email.String(),
		Name:         s.Name.String(),
		SubscribedAt: r.clock.Now().UTC().Truncate(time.Microsecond),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[sub.Email]; ok {
		return domain.Subscription{}, subscriptionrepo.ErrConstraintViolation
	}
	r.byEmail[sub.Email] = sub
	return sub, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (domain.Subscription, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.byEmail[email]
	if !ok {
		return domain.Subscription{}, subscriptionrepo.ErrNotFound
	}
	return sub, nil
}

func (r *Repo) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", subscriptionrepo.ErrConnectivity, err)
	}
	return nil
}

// Len reports the number of stored subscriptions.
func (r *Repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}
