package model

import (
	"time"

	"github.com/google/uuid"
)

// Account is a purchaser, keyed by unique email. Created on first purchase
// and reused on every later one.
type Account struct {
	ID        string // UUID
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewAccount(email string) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
