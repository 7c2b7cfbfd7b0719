package domain

import (
	"encoding/json"
	"time"
)

// Role is the coarse-grained permission level attached to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole resolves a caller-supplied role. An empty string means "not
// supplied" and yields RoleUser.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", NewValidationError("invalid role")
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a registered account. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DisplayName is an optional name on outward projections. An empty name is
// encoded as null.
type DisplayName string

func (n DisplayName) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(n))
}

// UserView is the outward projection of a User returned by registration.
type UserView struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  DisplayName `json:"name"`
	Role  Role        `json:"role"`
}

// UserListing is a row of the administrative user listing.
type UserListing struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      DisplayName `json:"name"`
	Role      Role        `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Email: u.Email, Name: DisplayName(u.Name), Role: u.Role}
}

func (u *User) Listing() UserListing {
	return UserListing{ID: u.ID, Email: u.Email, Name: DisplayName(u.Name), Role: u.Role, CreatedAt: u.CreatedAt}
}

// Assertion is the per-request identity claim produced by a session provider.
// A nil *Assertion means the request carried no session.
type Assertion struct {
	UserID string
	Role   Role
}
