package domain

import "time"

// UserRole enumerates tenant-scoped roles.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleAgent   UserRole = "AGENT"
	RoleEndUser UserRole = "END_USER"
)

// User is the domain model for anyone who can authenticate against a tenant:
// tenant admins, support agents and end-users.
type User struct {
	ID           string
	TenantID     string
	Name         string
	Email        string
	PasswordHash string
	Role         UserRole
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
