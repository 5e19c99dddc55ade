package domain

import (
	"errors"
	"testing"
)

func TestParseSubscriberEmail_Valid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"user@example.com", "cxw@progcxw.com", "First.Last+tag@Sub.Example.org"} {
		got, err := ParseSubscriberEmail(raw)
		if err != nil {
			t.Fatalf("ParseSubscriberEmail(%q) err=%v", raw, err)
		}
		if got.String() != raw {
			t.Fatalf("ParseSubscriberEmail(%q)=%q, want unchanged", raw, got.String())
		}
	}
}

func TestParseSubscriberEmail_EmptyIsMalformed(t *testing.T) {
	t.Parallel()
	_, err := ParseSubscriberEmail("")
	if !errors.Is(err, ErrMalformedAddress) {
		t.Fatalf("ParseSubscriberEmail(\"\") err=%v, want ErrMalformedAddress", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "email" {
		t.Fatalf("ParseSubscriberEmail(\"\") err=%v, want email ValidationError", err)
	}
}

func TestParseSubscriberEmail_Malformed(t *testing.T) {
	t.Parallel()
	cases := []string{
		"userexample.com",
		"user@",
		"@example.com",
		"user@localhost",
		"user@example.",
		"user@.com",
		"Jane <jane@example.com>",
		" user@example.com",
		"user@@example.com",
	}
	for _, raw := range cases {
		if _, err := ParseSubscriberEmail(raw); !errors.Is(err, ErrMalformedAddress) {
			t.Fatalf("ParseSubscriberEmail(%q) err=%v, want ErrMalformedAddress", raw, err)
		}
	}
}
