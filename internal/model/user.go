package model

import "time"

// User is an identity-provider account record. All projects and investors are
// scoped under one user's account; there is no cross-account sharing.
type User struct {
	CreatedAt    time.Time
	ID           string
	Email        string
	PasswordHash string
}
