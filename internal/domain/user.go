package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserStatus enumerates account lifecycle states. Public registration
// yields a pending account that an admin must approve before login.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusPending UserStatus = "pending"
	UserStatusBlocked UserStatus = "blocked"
)

// User represents an authenticated account within the platform. The gallery
// layers only consume the ID as a partition key.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
}

// IsAdmin reports whether the user may manage other accounts.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
