package models

import "time"

// User is the credential record owned by the store. PasswordHash is a bcrypt
// hash and must not travel past the credential verifier.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
