package models

import "time"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOrganizer UserRole = "organizer"
	RolePlayer    UserRole = "player"
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Name         *string   `json:"name,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID int
	Role   UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanOrganize reports whether the caller may create events and leagues.
func (a Actor) CanOrganize() bool {
	return a.Role == RoleAdmin || a.Role == RoleOrganizer
}
