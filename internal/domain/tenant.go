package domain

import "time"

// Tenant is one customer organization of the SaaS. Every other record is
// scoped to exactly one tenant.
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
