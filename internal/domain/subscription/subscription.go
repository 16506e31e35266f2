package subscription

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// Subscription is a newsletter signup.
type Subscription struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// New validates and normalizes an email address into a subscription.
func New(email string) (*Subscription, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, fmt.Errorf("invalid email address %q", email)
	}
	return &Subscription{Email: email, CreatedAt: time.Now().UTC()}, nil
}
