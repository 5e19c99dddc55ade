package subscriptionrepo

import (
	"testing"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/contracttest"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/clock"
	subscriptionrepoport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriptionrepo"
)

func TestContract_SubscriptionRepo(t *testing.T) {
	contracttest.RunSubscriptionRepo(t, func(t *testing.T) (subscriptionrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(clock.NewSystemClock()), nil
	})
}

func TestContract_SubscriptionRepoConcurrent(t *testing.T) {
	contracttest.RunSubscriptionRepoConcurrent(t, func(t *testing.T) (subscriptionrepoport.Repository, func()) {
		t.Helper()
		return NewRepo(clock.NewSystemClock()), nil
	})
}
