package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

func weekdayConfig() *domain.SlaConfig {
	return &domain.SlaConfig{
		Priority:             domain.TicketPriorityHigh,
		FirstResponseMinutes: 60,
		ResolutionMinutes:    480,
		BusinessHoursStart:   "09:00",
		BusinessHoursEnd:     "18:00",
		BusinessDays:         []int{1, 2, 3, 4, 5},
		Timezone:             "UTC",
	}
}

func TestNewCalendarRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.SlaConfig)
	}{
		{"bad start clock", func(c *domain.SlaConfig) { c.BusinessHoursStart = "9am" }},
		{"bad end clock", func(c *domain.SlaConfig) { c.BusinessHoursEnd = "25:00" }},
		{"empty window", func(c *domain.SlaConfig) { c.BusinessHoursStart = "18:00"; c.BusinessHoursEnd = "09:00" }},
		{"equal start and end", func(c *domain.SlaConfig) { c.BusinessHoursEnd = "09:00" }},
		{"no business days", func(c *domain.SlaConfig) { c.BusinessDays = nil }},
		{"day index out of range", func(c *domain.SlaConfig) { c.BusinessDays = []int{7} }},
		{"unknown timezone", func(c *domain.SlaConfig) { c.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := weekdayConfig()
			tt.mutate(cfg)

			_, err := NewCalendar(cfg)
			require.Error(t, err)

			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "CONFIGURATION_ERROR", domainErr.Code)
		})
	}
}

func TestNewCalendarDefaultsTimezoneToUTC(t *testing.T) {
	cfg := weekdayConfig()
	cfg.Timezone = ""

	c, err := NewCalendar(cfg)
	require.NoError(t, err)
	assert.True(t, c.IsBusinessTime(time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)))
}

func TestDeadlineAfter(t *testing.T) {
	c, err := NewCalendar(weekdayConfig())
	require.NoError(t, err)

	tests := []struct {
		name    string
		start   time.Time
		minutes int
		want    time.Time
	}{
		{
			name:    "within one business day",
			start:   time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC), // Monday
			minutes: 60,
			want:    time.Date(2025, 1, 6, 11, 0, 0, 0, time.UTC),
		},
		{
			name:    "friday evening spills into monday",
			start:   time.Date(2025, 1, 10, 17, 30, 0, 0, time.UTC), // Friday 17:30
			minutes: 60,
			want:    time.Date(2025, 1, 13, 9, 30, 0, 0, time.UTC), // Monday 09:30
		},
		{
			name:    "weekend start snaps to monday open",
			start:   time.Date(2025, 1, 11, 12, 0, 0, 0, time.UTC), // Saturday
			minutes: 30,
			want:    time.Date(2025, 1, 13, 9, 30, 0, 0, time.UTC),
		},
		{
			name:    "before opening snaps to same day open",
			start:   time.Date(2025, 1, 6, 7, 0, 0, 0, time.UTC),
			minutes: 90,
			want:    time.Date(2025, 1, 6, 10, 30, 0, 0, time.UTC),
		},
		{
			name:    "multi-day budget",
			start:   time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
			minutes: 2 * 9 * 60, // two full business days
			want:    time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "budget exhausting at window close rolls to next open",
			start:   time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
			minutes: 480, // lands exactly on the 18:00 close
			want:    time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC),
		},
		{
			name:    "friday close rolls over the weekend",
			start:   time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC), // Friday
			minutes: 60,
			want:    time.Date(2025, 1, 13, 9, 0, 0, 0, time.UTC), // Monday open
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.DeadlineAfter(tt.start, tt.minutes)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestBusinessMinutesBetween(t *testing.T) {
	c, err := NewCalendar(weekdayConfig())
	require.NoError(t, err)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{
			name:  "same business day",
			start: time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 1, 6, 11, 30, 0, 0, time.UTC),
			want:  90,
		},
		{
			name:  "across a weekend only window time counts",
			start: time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC), // Friday 17:00
			end:   time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC), // Monday 10:00
			want:  120,
		},
		{
			name:  "entirely outside business hours",
			start: time.Date(2025, 1, 11, 10, 0, 0, 0, time.UTC), // Saturday
			end:   time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC), // Sunday
			want:  0,
		},
		{
			name:  "end before start",
			start: time.Date(2025, 1, 6, 11, 0, 0, 0, time.UTC),
			end:   time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, c.BusinessMinutesBetween(tt.start, tt.end), 0.01)
		})
	}
}

func TestCalendarHonorsTimezone(t *testing.T) {
	cfg := weekdayConfig()
	cfg.Timezone = "America/New_York"

	c, err := NewCalendar(cfg)
	require.NoError(t, err)

	// 15:00 UTC in winter is 10:00 in New York, inside the window.
	assert.True(t, c.IsBusinessTime(time.Date(2025, 1, 6, 15, 0, 0, 0, time.UTC)))
	// 09:00 UTC is 04:00 in New York, outside it.
	assert.False(t, c.IsBusinessTime(time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)))
}
