package subscriptions

// Error is an application-layer error that can be mapped to an HTTP response.
// Message is safe to show to the client; Err carries the internal cause for logs.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
