package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSubscriberName_GraphemeBoundary(t *testing.T) {
	t.Parallel()
	// e + combining diaeresis: one grapheme, two runes.
	unit := "e\u0308"

	want := strings.Repeat(unit, MaxSubscriberNameLength)
	got, err := ParseSubscriberName(want)
	if err != nil {
		t.Fatalf("ParseSubscriberName(256 graphemes) err=%v", err)
	}
	if got.String() != want {
		t.Fatalf("ParseSubscriberName() changed its input")
	}

	_, err = ParseSubscriberName(strings.Repeat(unit, MaxSubscriberNameLength+1))
	if !errors.Is(err, ErrTooLong) {
		t.Fatalf("ParseSubscriberName(257 graphemes) err=%v, want ErrTooLong", err)
	}
}

func TestParseSubscriberName_ExactlyMaxASCII(t *testing.T) {
	t.Parallel()
	if _, err := ParseSubscriberName(strings.Repeat("a", 256)); err != nil {
		t.Fatalf("ParseSubscriberName(256) err=%v", err)
	}
	if _, err := ParseSubscriberName(strings.Repeat("a", 257)); !errors.Is(err, ErrTooLong) {
		t.Fatalf("ParseSubscriberName(257) err=%v, want ErrTooLong", err)
	}
}

func TestParseSubscriberName_RejectsBlank(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", " ", "\t\n", "  "} {
		if _, err := ParseSubscriberName(raw); !errors.Is(err, ErrEmpty) {
			t.Fatalf("ParseSubscriberName(%q) err=%v, want ErrEmpty", raw, err)
		}
	}
}

func TestParseSubscriberName_RejectsForbiddenCharacters(t *testing.T) {
	t.Parallel()
	for _, c := range []string{"/", "(", ")", `"`, "<", ">", `\`, "{", "}"} {
		_, err := ParseSubscriberName("Ursula " + c + " Le Guin")
		if !errors.Is(err, ErrForbiddenCharacter) {
			t.Fatalf("ParseSubscriberName(%q) err=%v, want ErrForbiddenCharacter", c, err)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "name" {
			t.Fatalf("ParseSubscriberName(%q) err=%v, want name ValidationError", c, err)
		}
	}
}

func TestParseSubscriberName_PreservesContent(t *testing.T) {
	t.Parallel()
	got, err := ParseSubscriberName("  Jane  DOE ")
	if err != nil {
		t.Fatalf("ParseSubscriberName() err=%v", err)
	}
	if got.String() != "  Jane  DOE " {
		t.Fatalf("ParseSubscriberName()=%q", got.String())
	}
}
