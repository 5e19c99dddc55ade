package domain

import "github.com/rivo/uniseg"

// MaxSubscriberNameLength is the maximum length of a name, counted in grapheme clusters.
const MaxSubscriberNameLength = 256

// SubscriberName is a validated subscriber display name.
// The zero value is not a valid name; use ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw form input. The original content and casing are kept as-is.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	if isBlank(raw) {
		return SubscriberName{}, &ValidationError{Field: "name", Reason: ErrEmpty}
	}
	if uniseg.GraphemeClusterCount(raw) > MaxSubscriberNameLength {
		return SubscriberName{}, &ValidationError{Field: "name", Reason: ErrTooLong}
	}
	if containsForbidden(raw) {
		return SubscriberName{}, &ValidationError{Field: "name", Reason: ErrForbiddenCharacter}
	}
	return SubscriberName{value: raw}, nil
}

func (n SubscriberName) String() string { return n.value }
