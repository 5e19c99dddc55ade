package subscriptions

// Form is the raw subscription request as submitted by the browser.
type Form struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
