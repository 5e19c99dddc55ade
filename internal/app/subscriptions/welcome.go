package subscriptions

import (
	"fmt"
	"html"
)

const welcomeSubject = "Welcome to our newsletter!"

func welcomeBodies(name string) (htmlBody, textBody string) {
	htmlBody = fmt.Sprintf("<p>Hi %s,</p><p>Welcome to our newsletter! You're on the list.</p>", html.EscapeString(name))
	textBody = fmt.Sprintf("Hi %s,\n\nWelcome to our newsletter! You're on the list.\n", name)
	return htmlBody, textBody
}
