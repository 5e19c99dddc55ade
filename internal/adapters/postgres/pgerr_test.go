package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsIntegrityViolation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"unique", &pgconn.PgError{Code: UniqueViolationCode}, true},
		{"not null wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: NotNullViolationCode}), true},
		{"check", &pgconn.PgError{Code: CheckViolationCode}, true},
		{"undefined table", &pgconn.PgError{Code: "42P01"}, false},
		{"plain error", errors.New("connection refused"), false},
		{"nil", nil, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsIntegrityViolation(tc.err); got != tc.want {
				t.Fatalf("IsIntegrityViolation(%v)=%v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestAsPgError(t *testing.T) {
	t.Parallel()

	pe := &pgconn.PgError{Code: UniqueViolationCode, ConstraintName: "subscriptions_email_unique"}
	got, ok := AsPgError(fmt.Errorf("wrap: %w", pe))
	if !ok || got.ConstraintName != "subscriptions_email_unique" {
		t.Fatalf("AsPgError() = %v, %v", got, ok)
	}
	if _, ok := AsPgError(errors.New("x")); ok {
		t.Fatalf("AsPgError(plain) ok=true, want false")
	}
}
