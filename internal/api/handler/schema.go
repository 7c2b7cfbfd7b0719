package handler

import (
	"time"

	"github.com/adminboard/dashboard-api/internal/core/domain"
)

// registerRequest is the body of POST /register. Presence of email and
// password is checked by the registration workflow so the reason text stays
// "missing email or password".
type registerRequest struct {
	Email    string `json:"email"    validate:"max=320"`
	Password string `json:"password"`
	Name     string `json:"name"     validate:"max=200"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expiresAt"`
	User      domain.UserView `json:"user"`
}
