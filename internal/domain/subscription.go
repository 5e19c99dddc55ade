package domain

import "time"

// Subscription is a persisted newsletter subscription.
type Subscription struct {
	ID           SubscriptionID
	Email        string
	Name         string
	SubscribedAt time.Time
}
