// Package models defines server-side data models persisted in PostgreSQL.
package models

import "time"

type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	CreatedAt    time.Time
}
