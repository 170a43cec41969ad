package domain

import "time"

// TimeEntry logs work against a ticket. A running timer is a row with a nil
// EndTime; elapsed time is always derived from StartTime on read, never held
// in memory. Once EndTime is set the entry is immutable.
type TimeEntry struct {
	ID            string
	TenantID      string
	TicketID      string
	UserID        string
	HourBankID    *string
	StartTime     time.Time
	EndTime       *time.Time
	DurationHours float64
	Description   string
	CreatedAt     time.Time
}

// Running reports whether the entry is an open timer.
func (e *TimeEntry) Running() bool {
	return e.EndTime == nil
}

// Elapsed returns the wall-clock duration of a running timer as of now.
// Stopped entries report their recorded duration instead.
func (e *TimeEntry) Elapsed(now time.Time) time.Duration {
	if e.EndTime != nil {
		return time.Duration(e.DurationHours * float64(time.Hour))
	}
	if now.Before(e.StartTime) {
		return 0
	}
	return now.Sub(e.StartTime)
}
