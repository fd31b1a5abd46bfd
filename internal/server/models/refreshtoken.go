package models

import "time"

// RefreshToken is a long-lived credential exchanged for a new token pair.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}
