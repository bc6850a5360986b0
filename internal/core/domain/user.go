package domain

import (
	"errors"
	"time"
)

// Role is the closed set of access levels a user can hold. Keeping it a
// dedicated type instead of raw string compares lets the permission checks in
// the task engine switch over it exhaustively.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// ParseRole maps an external role string onto the closed Role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleUser:
		return RoleUser, true
	}
	return "", false
}

// IsAdmin reports whether the role grants unrestricted task/user access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

var ErrUserNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("validation failed")
var ErrUserHasTasks = errors.New("user still has assigned tasks")

// User models an authenticated actor in the system.
type User struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	Phone              string     `json:"phone,omitempty"`
	Position           string     `json:"position,omitempty"`
	Role               Role       `json:"role"`
	MustChangePassword bool       `json:"must_change_password"`
	InviteToken        string     `json:"-"`
	InviteTokenExpiry  *time.Time `json:"-"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// Caller is the identity resolved from a validated bearer token. Every engine
// operation takes it as an explicit parameter; there is no ambient security
// context.
type Caller struct {
	ID   string
	Role Role
}
