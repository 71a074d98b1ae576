package auth

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// Session is handed to a client after it authenticates.
type Session struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}
