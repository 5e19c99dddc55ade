package mailer

import "errors"

var (
	// ErrInvalidAddress indicates the sender or recipient could not be used as a mailbox.
	ErrInvalidAddress = errors.New("invalid email address")

	// ErrBuild indicates the message could not be assembled.
	ErrBuild = errors.New("failed to build email")

	// ErrTransport indicates the SMTP exchange failed.
	ErrTransport = errors.New("smtp send failed")
)
