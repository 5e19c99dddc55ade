package subscriptionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	memclock "github.com/Overland-East-Bay/newsletter-api/internal/adapters/memory/clock"
	"github.com/Overland-East-Bay/newsletter-api/internal/adapters/sqldb"
	"github.com/Overland-East-Bay/newsletter-api/internal/domain"
	"github.com/Overland-East-Bay/newsletter-api/internal/ports/out/subscriptionrepo"
)

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 123456000, time.UTC)

func newMockRepo(t *testing.T, d sqldb.Dialect) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() err=%v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewRepo(db, d, memclock.NewManualClock(fixedNow)), mock
}

func subscriber(t *testing.T) domain.NewSubscriber {
	t.Helper()
	s, err := domain.NewSubscriberFromForm("cxw prog", "cxw@progcxw.com")
	if err != nil {
		t.Fatalf("NewSubscriberFromForm() err=%v", err)
	}
	return s
}

func TestInsert_WritesOneRow(t *testing.T) {
	repo, mock := newMockRepo(t, sqldb.Postgres)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO subscriptions (id, email, name, subscribed_at) VALUES ($1, $2, $3, $4)`)).
		WithArgs(sqlmock.AnyArg(), "cxw@progcxw.com", "cxw prog", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Insert(context.Background(), subscriber(t))
	if err != nil {
		t.Fatalf("Insert() err=%v", err)
	}
	if got.Email != "cxw@progcxw.com" || got.Name != "cxw prog" {
		t.Fatalf("Insert()=%+v", got)
	}
	if !got.SubscribedAt.Equal(fixedNow) {
		t.Fatalf("SubscribedAt=%v, want %v", got.SubscribedAt, fixedNow)
	}
	if got.ID == (domain.SubscriptionID{}) {
		t.Fatalf("Insert() returned zero id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet() err=%v", err)
	}
}

func TestInsert_ErrorClassification(t *testing.T) {
	cases := []struct {
		name    string
		dialect sqldb.Dialect
		driver  error
		want    error
	}{
		{"postgres unique", sqldb.Postgres, &pq.Error{Code: "23505"}, subscriptionrepo.ErrConstraintViolation},
		{"mysql duplicate", sqldb.MySQL, &mysql.MySQLError{Number: 1062}, subscriptionrepo.ErrConstraintViolation},
		{"sqlite unique", sqldb.SQLite, sqlite3.Error{Code: sqlite3.ErrConstraint}, subscriptionrepo.ErrConstraintViolation},
		{"connection refused", sqldb.Postgres, errConnRefused, subscriptionrepo.ErrConnectivity},
		{"mysql server gone", sqldb.MySQL, &mysql.MySQLError{Number: 2006}, subscriptionrepo.ErrConnectivity},
		{"context deadline", sqldb.SQLite, context.DeadlineExceeded, subscriptionrepo.ErrConnectivity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock := newMockRepo(t, tc.dialect)
			mock.ExpectExec("INSERT INTO subscriptions").WillReturnError(tc.driver)

			_, err := repo.Insert(context.Background(), subscriber(t))
			if !errors.Is(err, tc.want) {
				t.Fatalf("Insert() err=%v, want %v", err, tc.want)
			}
			// Exactly one statement, no retry.
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("ExpectationsWereMet() err=%v", err)
			}
		})
	}
}

func TestFindByEmail(t *testing.T) {
	repo, mock := newMockRepo(t, sqldb.MySQL)
	id := domain.NewSubscriptionID()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, email, name, subscribed_at FROM subscriptions WHERE email = ?`)).
		WithArgs("cxw@progcxw.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "subscribed_at"}).
			AddRow(id.String(), "cxw@progcxw.com", "cxw prog", fixedNow))

	got, err := repo.FindByEmail(context.Background(), "cxw@progcxw.com")
	if err != nil {
		t.Fatalf("FindByEmail() err=%v", err)
	}
	if got.ID != id || got.Name != "cxw prog" {
		t.Fatalf("FindByEmail()=%+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet() err=%v", err)
	}
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t, sqldb.SQLite)
	mock.ExpectQuery("SELECT id, email, name, subscribed_at FROM subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "subscribed_at"}))

	if _, err := repo.FindByEmail(context.Background(), "nobody@example.com"); !errors.Is(err, subscriptionrepo.ErrNotFound) {
		t.Fatalf("FindByEmail() err=%v, want ErrNotFound", err)
	}
}

func TestPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New() err=%v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := NewRepo(db, sqldb.Postgres, memclock.NewManualClock(fixedNow))

	mock.ExpectPing().WillReturnError(errConnRefused)
	if err := repo.Ping(context.Background()); !errors.Is(err, subscriptionrepo.ErrConnectivity) {
		t.Fatalf("Ping() err=%v, want ErrConnectivity", err)
	}

	mock.ExpectPing()
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() err=%v", err)
	}
}
