package domain

import "time"

// Customer is an organization or person the tenant provides support to.
// Hour banks hang off customers; tickets reference them as requesters.
type Customer struct {
	ID        string
	TenantID  string
	Name      string
	Email     string
	Phone     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
