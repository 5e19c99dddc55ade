package subscriptionrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	clockport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/clock"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriptionrepo"
)

// Repo is a Postgres implementation of subscriptionrepo.Repository.
type Repo struct {
	pool  *pgxpool.Pool
	clock clockport.Clock
}

func NewRepo(pool *pgxpool.Pool, clock clockport.Clock) *Repo {
	return &Repo{pool: pool, clock: clock}
}

func (r *Repo) Insert(ctx context.Context, s domain.NewSubscriber) (domain.Subscription, error) {
	if r.pool == nil {
		return domain.Subscription{}, fmt.Errorf("%w: nil postgres pool", subscriptionrepo.ErrConnectivity)
	}
	sub := domain.Subscription{
		ID:           domain.NewSubscriptionID(),
		Email:        s.Email.String(),
		Name:         s.Name.String(),
		SubscribedAt: r.clock.Now().UTC().Truncate(time.Microsecond),
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO subscriptions (id, email, name, subscribed_at)
		VALUES ($1, $2, $3, $4)
	`,
		sub.ID.UUID(),
		sub.Email,
		sub.Name,
		sub.SubscribedAt,
	)
	if err != nil {
		if postgres.IsIntegrityViolation(err) {
			return domain.Subscription{}, fmt.Errorf("%w: %v", subscriptionrepo.ErrConstraintViolation, err)
		}
		return domain.Subscription{}, fmt.Errorf("%w: %v", subscriptionrepo.ErrConnectivity, err)
	}
	return sub, nil
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (domain.Subscription, error) {
	if r.pool == nil {
		return domain.Subscription{}, fmt.Errorf("%w: nil postgres pool", subscriptionrepo.ErrConnectivity)
	}
	var (
		id  uuid.UUID
		sub domain.Subscription
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, subscribed_at
		FROM subscriptions
		WHERE email = $1
	`, email).Scan(&id, &sub.Email, &sub.Name, &sub.SubscribedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscription{}, subscriptionrepo.ErrNotFound
		}
		return domain.Subscription{}, fmt.Errorf("%w: %v", subscriptionrepo.ErrConnectivity, err)
	}
	sub.ID = domain.SubscriptionID(id)
	sub.SubscribedAt = sub.SubscribedAt.UTC()
	return sub, nil
}

func (r *Repo) Ping(ctx context.Context) error {
	if r.pool == nil {
		return fmt.Errorf("%w: nil postgres pool", subscriptionrepo.ErrConnectivity)
	}
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", subscriptionrepo.ErrConnectivity, err)
	}
	return nil
}
