package domain

import "github.com/google/uuid"

// SubscriptionID is the identifier of a persisted subscription row.
type SubscriptionID uuid.UUID

// NewSubscriptionID returns a fresh random (v4) identifier.
func NewSubscriptionID() SubscriptionID { return SubscriptionID(uuid.New()) }

// ParseSubscriptionID parses the canonical textual form of an identifier.
func ParseSubscriptionID(s string) (SubscriptionID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return SubscriptionID{}, err
	}
	return SubscriptionID(id), nil
}

func (id SubscriptionID) UUID() uuid.UUID { return uuid.UUID(id) }

func (id SubscriptionID) String() string { return uuid.UUID(id).String() }
