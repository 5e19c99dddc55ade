package subscriptionrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/sqldb"
	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	clockport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriptionrepo"
)

// Repo is a database/sql implementation of subscriptionrepo.Repository.
type Repo struct {
	db      *sql.DB
	dialect sqldb.Dialect
	clock   clockport.Clock

	insertSQL string
	findSQL   string
}

func NewRepo(db *sql.DB, dialect sqldb.Dialect, clock clockport.Clock) *Repo {
	return &Repo{
		db:        db,
		dialect:   dialect,
		clock:     clock,
		insertSQL: dialect.Rebind(`INSERT INTO subscriptions (id, email, name, subscribed_at) VALUES (?, ?, ?, ?)`),
		findSQL:   dialect.Rebind(`SELECT id, email, name, subscribed_at FROM subscriptions WHERE email = ?`),
	}
}

func (r *Repo) Insert(ctx context.Context, s domain.NewSubscriber) (domain.Subscription, error) {
	if r.db == nil {
		return domain.Subscription{}, fmt.Errorf("%w: nil sql db", subscriptionrepo.ErrConnectivity)
	}
	sub := domain.Subscription{
		ID:           domain.NewSubscriptionID(),
		Email:        s.Email.String(),
		Name:         s.Name.String(),
		SubscribedAt: r.clock.Now().UTC().Truncate(time.Microsecond),
	}
	if _, err := r.db.ExecContext(ctx, r.insertSQL, sub.ID.String(), sub.Email, sub.Name, sub.SubscribedAt); err != nil {
		if sqldb.IsConstraintViolation(err) {
			return domain.Subscription{}, fmt.Errorf("%w: %v", subscriptionrepo.ErrConstraintViolation, err)
		}
		return domain.Subscription{}, fmt.Errorf("%w: %v", subscriptionrepo.ErrConnectivity, err)
	}
	return sub, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (domain.Subscription, error) {
	if r.db == nil {
		return domain.Subscription{}, fmt.Errorf("%w: nil sql db", subscriptionrepo.ErrConnectivity)
	}
	var (
		id  string
		sub domain.Subscription
	)
	err := r.db.QueryRowContext(ctx, r.findSQL, email).Scan(&id, &sub.Email, &sub.Name, &sub.SubscribedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Subscription{}, subscriptionrepo.ErrNotFound
		}
		return domain.Subscription{}, fmt.Errorf("%w: %v", subscriptionrepo.ErrConnectivity, err)
	}
	sub.ID, err = domain.ParseSubscriptionID(id)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("stored subscription id %q: %w", id, err)
	}
	sub.SubscribedAt = sub.SubscribedAt.UTC()
	return sub, nil
}

func (r *Repo) Ping(ctx context.Context) error {
	if r.db == nil {
		return fmt.Errorf("%w: nil sql db", subscriptionrepo.ErrConnectivity)
	}
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", subscriptionrepo.ErrConnectivity, err)
	}
	return nil
}
