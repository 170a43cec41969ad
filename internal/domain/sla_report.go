package domain

import "time"

// SlaReport aggregates compliance over tickets created in a date range.
// It is computed at read time and never persisted. Averages are expressed
// in business minutes, not wall-clock minutes.
type SlaReport struct {
	StartDate                time.Time
	EndDate                  time.Time
	TotalTickets             int
	CompliantTickets         int
	BreachedTickets          int
	ComplianceRate           float64
	AverageResponseMinutes   float64
	AverageResolutionMinutes float64
}
