package domain

import (
	"net/mail"
	"strings"
)

// SubscriberEmail is a validated, bare email address (no display name).
// It is used both for subscribers and for the configured sender.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw input as an email address. No normalization is applied.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if raw == "" {
		return SubscriberEmail{}, &ValidationError{Field: "email", Reason: ErrMalformedAddress}
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return SubscriberEmail{}, &ValidationError{Field: "email", Reason: ErrMalformedAddress, Detail: raw}
	}
	// Reject "Name <user@example.com>" and anything the parser rewrote.
	if addr.Address != raw {
		return SubscriberEmail{}, &ValidationError{Field: "email", Reason: ErrMalformedAddress, Detail: raw}
	}
	at := strings.LastIndexByte(raw, '@')
	local, host := raw[:at], raw[at+1:]
	if local == "" || !hasDottedDomain(host) {
		return SubscriberEmail{}, &ValidationError{Field: "email", Reason: ErrMalformedAddress, Detail: raw}
	}
	return SubscriberEmail{value: raw}, nil
}

func (e SubscriberEmail) String() string { return e.value }

// hasDottedDomain requires at least two non-empty dot-separated labels.
func hasDottedDomain(host string) bool {
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}
	return true
}
