package models

import (
	"time"

	"github.com/google/uuid"
)

// Plan constants
const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// User represents a user authenticated via OIDC.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Plan      string    `json:"plan"` // free, pro
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPro returns true if the user is on the paid plan (unmetered searches).
func (u *User) IsPro() bool {
	return u.Plan == PlanPro
}
