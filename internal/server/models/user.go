package models

import (
	"strings"
	"time"
)

// Role is the closed set of user roles. Values read from the database or a
// token that are not recognised become RoleUnknown.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
	RoleUser       Role = "user"
	RoleUnknown    Role = "unknown"
)

// ParseRole maps a raw role string onto Role. Matching ignores case and
// surrounding whitespace.
func ParseRole(s string) Role {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleManager, RoleTechnician, RoleUser:
		return r
	default:
		return RoleUnknown
	}
}

// CanEditInventory reports whether the role may create tools and upload
// tool documents.
func (r Role) CanEditInventory() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician:
		return true
	default:
		return false
	}
}

// User is a credential-store record. PasswordHash never leaves the server.
type User struct {
	ID           string
	Name         string
	PasswordHash string
	Email        string
	Role         Role
	Active       bool
	CreatedAt    time.Time
}

// PublicUser is the view of a user that may be sent to clients.
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
