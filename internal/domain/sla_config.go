package domain

import "time"

// SlaConfig defines response/resolution targets for one (tenant, priority)
// pair, optionally narrowed to a ticket category. At most one active config
// may exist per (tenant, priority, category) combination.
type SlaConfig struct {
	ID                   string
	TenantID             string
	Priority             TicketPriority
	CategoryID           *string
	FirstResponseMinutes int
	ResolutionMinutes    int
	// BusinessHoursStart/End are "HH:MM" times of day in the config timezone.
	BusinessHoursStart string
	BusinessHoursEnd   string
	// BusinessDays holds weekday indices, 0=Sunday .. 6=Saturday.
	BusinessDays []int
	Timezone     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
