package itest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/httpapi"
	memclock "github.com/Overland-East-Bay/newsletter-api/internal/adapters/memory/clock"
	memidempotency "github.com/Overland-East-Bay/newsletter-api/internal/adapters/memory/idempotency"
	memmailer "github.com/Overland-East-Bay/newsletter-api/internal/adapters/memory/mailer"
	memsubscriptionrepo "github.com/Overland-East-Bay/newsletter-api/internal/adapters/memory/subscriptionrepo"
	pgidempotency "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres/idempotency"
	pgsubscriptionrepo "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres/subscriptionrepo"
	postgres_testutil "github.com/Overland-East-Bay/newsletter-api/internal/adapters/postgres/testutil"
	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/sqldb"
	sqlsubscriptionrepo "github.com/Overland-East-Bay/newsletter-api/internal/adapters/sqldb/subscriptionrepo"
	"github.com/Overland-East-Bay/newsletter-api/internal/app/subscriptions"
	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logger"
	idempotencyport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/idempotency"
	subscriptionrepoport "github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriptionrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
	backendSQL      backend = "sql"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "sql":
		return []backend{backendSQL}
	case "all":
		return []backend{backendMemory, backendPostgres, backendSQL}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|sql|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
	repo    subscriptionrepoport.Repository
	outbox  *memmailer.Outbox
}

// openSQL uses SQLDB_DRIVER/SQLDB_DSN when set and an in-memory sqlite database otherwise.
func openSQL(t *testing.T) (*sqlsubscriptionrepo.Repo, error) {
	t.Helper()
	ctx := context.Background()
	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	d, dsn := sqldb.SQLite, "file:"+strings.ReplaceAll(uuid.NewString(), "-", "")+"?mode=memory&cache=shared"
	opts := sqldb.Options{MaxOpenConns: 1}
	if driver := os.Getenv("SQLDB_DRIVER"); driver != "" {
		var err error
		if d, err = sqldb.ParseDialect(driver); err != nil {
			return nil, err
		}
		dsn, opts = os.Getenv("SQLDB_DSN"), sqldb.Options{}
	}
	db, err := sqldb.Open(ctx, d, dsn, opts)
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := sqldb.EnsureSchema(ctx, db, d); err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM subscriptions"); err != nil {
		return nil, err
	}
	return sqlsubscriptionrepo.NewRepo(db, d, clk), nil
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		repo      subscriptionrepoport.Repository
		idemStore idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		repo = pgsubscriptionrepo.NewRepo(pool, clk)
		idemStore = pgidempotency.NewStore(pool)
	case backendSQL:
		r, err := openSQL(t)
		if err != nil {
			t.Fatalf("open sql backend: %v", err)
		}
		repo = r
		idemStore = memidempotency.NewStore()
	case backendMemory:
		repo = memsubscriptionrepo.NewRepo(clk)
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	outbox := memmailer.NewOutbox()
	svc := subscriptions.NewService(repo, outbox, nil, logger.ForTest())
	api := httpapi.NewServer(svc, idemStore, logger.ForTest())
	handler := httpapi.NewRouter(api, httpapi.RouterOptions{Log: logger.ForTest()})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
		repo:    repo,
		outbox:  outbox,
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, []byte, http.Header) {
	t.Helper()
	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

func (s *testServer) get(t *testing.T, path string) (int, []byte, http.Header) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, s.url(path), nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return s.do(t, req)
}

func (s *testServer) postForm(t *testing.T, path string, body string, idemKey string) (int, []byte, http.Header) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, s.url(path), strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	return s.do(t, req)
}

func formBody(name, email string) string {
	v := url.Values{}
	if name != "" {
		v.Set("name", name)
	}
	if email != "" {
		v.Set("email", email)
	}
	return v.Encode()
}
