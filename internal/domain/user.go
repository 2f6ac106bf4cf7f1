package domain

import "time"

// Role is the access level attached to a session.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

// User is an account row. Sessions are issued by the external auth
// provider; the backend only reads them.
type User struct {
	ID        string
	Email     string
	Name      *string
	Role      Role
	IsActive  bool
	BannedAt  *time.Time
	CreatedAt time.Time
}

// AuthenticatedUser is the session snapshot attached to a request after
// cookie resolution.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"is_active"`
}

// IsPrivileged reports whether the caller may see drafts and mutate content.
func (u *AuthenticatedUser) IsPrivileged() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleEditor)
}

// CanEdit reports whether the caller may mutate a row authored by authorID.
func (u *AuthenticatedUser) CanEdit(authorID string) bool {
	if u == nil {
		return false
	}
	return u.Role == RoleAdmin || u.ID == authorID
}
