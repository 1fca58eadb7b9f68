package domain

import "time"

// User is an account that owns leads and everything hanging off them.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
