package domain

import "time"

// HourBank is a prepaid block of support hours belonging to a customer.
// ConsumedHours only ever grows, and only through time-entry debits.
type HourBank struct {
	ID            string
	TenantID      string
	CustomerID    string
	Name          string
	TotalHours    float64
	ConsumedHours float64
	HourlyRate    *float64
	ExpiresAt     *time.Time
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
