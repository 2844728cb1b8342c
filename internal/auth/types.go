package auth

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// SavedComparison is a named set of up to five hops a brewer wants to
// look at side by side.
type SavedComparison struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	HopIDs    []string  `json:"hop_ids"` // uniqueIds, "Name (Source)"
	CreatedAt time.Time `json:"created_at"`
}

type SaveComparisonRequest struct {
	Name   string   `json:"name"`
	HopIDs []string `json:"hop_ids"`
}
