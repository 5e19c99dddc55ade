package contracttest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	idempotencyport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriptionrepo"
)

type CleanupFunc = func()

type SubscriptionRepoFactory func(t *testing.T) (subscriptionrepo.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	meta := idempotencyport.Fingerprint{
		Key:      "k-1",
		Method:   "POST",
		Route:    "/subscribe",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, meta); err != nil || ok {
		t.Fatalf("Get(missing) ok=%v err=%v, want ok=false", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, meta, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, meta)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, meta, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, meta)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// Response records are keyed by body hash and independent of the meta record.
	resp := meta
	resp.BodyHash = "hash-def"
	if err := store.Put(ctx, resp, idempotencyport.Record{StatusCode: 400, ContentType: "text/plain", Body: []byte("bad name")}); err != nil {
		t.Fatalf("Put response: %v", err)
	}
	got, ok, err = store.Get(ctx, resp)
	if err != nil || !ok || got.StatusCode != 400 || string(got.Body) != "bad name" {
		t.Fatalf("Get response ok=%v err=%v rec=%+v", ok, err, got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set on stored record")
	}
	got, _, _ = store.Get(ctx, meta)
	if string(got.Body) != "hash-def" {
		t.Fatalf("meta record changed: %q", string(got.Body))
	}
}

func mustNewSubscriber(t *testing.T, name, email string) domain.NewSubscriber {
	t.Helper()
	s, err := domain.NewSubscriberFromForm(name, email)
	if err != nil {
		t.Fatalf("NewSubscriberFromForm(%q, %q) err=%v", name, email, err)
	}
	return s
}

func RunSubscriptionRepo(t *testing.T, newRepo SubscriptionRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping() err=%v", err)
	}

	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, subscriptionrepo.ErrNotFound) {
		t.Fatalf("FindByEmail(missing) err=%v, want %v", err, subscriptionrepo.ErrNotFound)
	}

	a, err := repo.Insert(ctx, mustNewSubscriber(t, "Ursula Le Guin", "ursula@example.com"))
	if err != nil {
		t.Fatalf("Insert(a) err=%v", err)
	}
	if a.ID == (domain.SubscriptionID{}) {
		t.Fatalf("Insert(a) returned zero id")
	}
	if a.Email != "ursula@example.com" || a.Name != "Ursula Le Guin" {
		t.Fatalf("Insert(a)=%+v", a)
	}
	if a.SubscribedAt.IsZero() || a.SubscribedAt.Location() != time.UTC {
		t.Fatalf("Insert(a).SubscribedAt=%v, want non-zero UTC", a.SubscribedAt)
	}

	got, err := repo.FindByEmail(ctx, "ursula@example.com")
	if err != nil {
		t.Fatalf("FindByEmail() err=%v", err)
	}
	if got.ID != a.ID || got.Name != a.Name || got.Email != a.Email || !got.SubscribedAt.Equal(a.SubscribedAt) {
		t.Fatalf("FindByEmail()=%+v, want %+v", got, a)
	}

	// Email uniqueness is enforced by storage.
	_, err = repo.Insert(ctx, mustNewSubscriber(t, "Someone Else", "ursula@example.com"))
	if !errors.Is(err, subscriptionrepo.ErrConstraintViolation) {
		t.Fatalf("Insert(duplicate) err=%v, want %v", err, subscriptionrepo.ErrConstraintViolation)
	}
	got, err = repo.FindByEmail(ctx, "ursula@example.com")
	if err != nil || got.Name != "Ursula Le Guin" {
		t.Fatalf("duplicate insert modified stored row: %+v err=%v", got, err)
	}

	// No case-folding: a differently cased address is a distinct subscriber.
	b, err := repo.Insert(ctx, mustNewSubscriber(t, "Ursula", "Ursula@example.com"))
	if err != nil {
		t.Fatalf("Insert(b) err=%v", err)
	}
	if b.ID == a.ID {
		t.Fatalf("expected distinct ids, both %s", a.ID)
	}
}

// RunSubscriptionRepoConcurrent inserts the same address from several goroutines;
// exactly one insert must win.
func RunSubscriptionRepoConcurrent(t *testing.T, newRepo SubscriptionRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	const n = 8
	s := mustNewSubscriber(t, "Race Condition", "race@example.com")
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Insert(ctx, s)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, subscriptionrepo.ErrConstraintViolation):
			conflicts++
		default:
			t.Fatalf("Insert() unexpected err=%v", err)
		}
	}
	if ok != 1 || conflicts != n-1 {
		t.Fatalf("ok=%d conflicts=%d, want 1 and %d", ok, conflicts, n-1)
	}
}
