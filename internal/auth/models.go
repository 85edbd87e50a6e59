package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents an application user.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// View is the external representation of a user.
type View struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// View strips sensitive fields for response payloads.
func (u User) View() View {
	return View{ID: u.ID, Email: u.Email}
}
