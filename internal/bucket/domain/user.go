package domain

import "time"

// User is an identity record in the credential store. Users are created at
// registration and immutable afterwards.
type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2id encoded, never plaintext
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
