package domain

// NewSubscriber is a validated subscription request, ready to be persisted.
type NewSubscriber struct {
	Name  SubscriberName
	Email SubscriberEmail
}

// NewSubscriberFromForm validates raw form values.
//
// The email is validated before the name; when both are invalid the email error is returned.
func NewSubscriberFromForm(name, email string) (NewSubscriber, error) {
	e, err := ParseSubscriberEmail(email)
	if err != nil {
		return NewSubscriber{}, err
	}
	n, err := ParseSubscriberName(name)
	if err != nil {
		return NewSubscriber{}, err
	}
	return NewSubscriber{Name: n, Email: e}, nil
}
