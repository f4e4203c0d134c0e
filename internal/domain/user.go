package domain

import "time"

// User roles. Role checks are centralized in the authorization policy; these
// helpers exist for the few places that branch on the caller's own role.
const (
	RoleAdministrator = "administrator"
	RoleOrganizer     = "organizer"
	RoleParticipant   = "participant"
)

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
	switch s {
	case RoleAdministrator, RoleOrganizer, RoleParticipant:
		return true
	}
	return false
}

// User is an account in the platform.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdministrator reports whether the user holds the administrator role.
func (u *User) IsAdministrator() bool {
	return u.Role == RoleAdministrator
}
