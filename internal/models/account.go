package models

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered user account.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string `json:"id"`

	// Email is the account's email address (unique, natural key for login).
	Email string `json:"email"`

	// DisplayName is the name shown in the UI.
	DisplayName string `json:"displayName"`

	// PasswordHash is the bcrypt hash of the account's password.
	// Never serialized in responses.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// NewAccount creates an account with a generated ID and creation time.
// The credential must already be hashed by the caller.
func NewAccount(email, displayName, passwordHash string) *Account {
	return &Account{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
