// Package sla implements the business-hours deadline engine: calendar
// arithmetic, per-deadline status classification and compliance reporting.
package sla

import (
	"fmt"
	"time"

	"github.com/rickar/cal/v2"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

// Calendar converts between calendar time and business time for one
// SlaConfig. All arithmetic happens in the config's timezone.
type Calendar struct {
	bc  *cal.BusinessCalendar
	loc *time.Location
}

// NewCalendar validates the config's business-hours window and builds a
// calendar from it. A zero-length window, an empty business-days set or an
// unresolvable timezone is a configuration error; deadline math must fail
// fast instead of walking days forever looking for open time.
func NewCalendar(cfg *domain.SlaConfig) (*Calendar, error) {
	start, err := parseClock(cfg.BusinessHoursStart)
	if err != nil {
		return nil, apperrors.NewConfigurationError("invalid business hours start", map[string]any{"value": cfg.BusinessHoursStart})
	}
	end, err := parseClock(cfg.BusinessHoursEnd)
	if err != nil {
		return nil, apperrors.NewConfigurationError("invalid business hours end", map[string]any{"value": cfg.BusinessHoursEnd})
	}
	if end <= start {
		return nil, apperrors.NewConfigurationError("business hours window is empty", map[string]any{
			"start": cfg.BusinessHoursStart,
			"end":   cfg.BusinessHoursEnd,
		})
	}
	if len(cfg.BusinessDays) == 0 {
		return nil, apperrors.NewConfigurationError("business days set is empty", nil)
	}

	days := make(map[time.Weekday]bool, len(cfg.BusinessDays))
	for _, d := range cfg.BusinessDays {
		if d < 0 || d > 6 {
			return nil, apperrors.NewConfigurationError("invalid business day index", map[string]any{"value": d})
		}
		days[time.Weekday(d)] = true
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, apperrors.NewConfigurationError("invalid timezone", map[string]any{"value": cfg.Timezone})
	}

	bc := cal.NewBusinessCalendar()
	bc.SetWorkHours(start, end)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		bc.SetWorkday(wd, days[wd])
	}

	return &Calendar{bc: bc, loc: loc}, nil
}

// DeadlineAfter returns the instant at which the given budget of business
// minutes is exhausted, counting from start. A start outside business hours
// snaps forward to the next window open before the budget begins to drain.
// A budget that exhausts exactly at window close rolls to the next window
// open: no business time remains at the close instant, so an event there has
// consumed exactly the budget and nothing more.
func (c *Calendar) DeadlineAfter(start time.Time, minutes int) time.Time {
	deadline := c.bc.AddWorkHours(start.In(c.loc), time.Duration(minutes)*time.Minute)
	if end := c.bc.WorkdayEnd(deadline); !end.IsZero() && deadline.Equal(end) {
		deadline = c.bc.NextWorkdayStart(deadline)
	}
	return deadline
}

// BusinessMinutesBetween returns the business minutes elapsed between two
// instants. Non-business days and hours outside the window contribute zero.
func (c *Calendar) BusinessMinutesBetween(start, end time.Time) float64 {
	if !end.After(start) {
		return 0
	}
	return c.bc.WorkHoursInRange(start.In(c.loc), end.In(c.loc)).Minutes()
}

// IsBusinessTime reports whether t falls inside the business-hours window.
func (c *Calendar) IsBusinessTime(t time.Time) bool {
	return c.bc.IsWorkTime(t.In(c.loc))
}

// parseClock converts "HH:MM" to a duration since midnight.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
