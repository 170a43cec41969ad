package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReportEmpty(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	report := BuildReport(start, end, nil)

	assert.Equal(t, 0, report.TotalTickets)
	assert.Equal(t, 0.0, report.ComplianceRate)
	assert.Equal(t, 0.0, report.AverageResponseMinutes)
	assert.Equal(t, 0.0, report.AverageResolutionMinutes)
}

func TestBuildReportMixedOutcomes(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	outcomes := []TicketOutcome{
		{Compliant: true, ResponseMinutes: floatPtr(30), ResolutionMinutes: floatPtr(120)},
		{Compliant: true, ResponseMinutes: floatPtr(50), ResolutionMinutes: floatPtr(200)},
		{Breached: true, ResponseMinutes: floatPtr(100)}, // still unresolved
	}

	report := BuildReport(start, end, outcomes)

	assert.Equal(t, 3, report.TotalTickets)
	assert.Equal(t, 2, report.CompliantTickets)
	assert.Equal(t, 1, report.BreachedTickets)
	assert.InDelta(t, 66.67, report.ComplianceRate, 0.001)
	assert.InDelta(t, 60.0, report.AverageResponseMinutes, 0.001)
	// Average only covers the two resolved tickets.
	assert.InDelta(t, 160.0, report.AverageResolutionMinutes, 0.001)
}

func TestBuildReportComplianceRateBounds(t *testing.T) {
	outcomes := []TicketOutcome{{Compliant: true}, {Compliant: true}}
	report := BuildReport(time.Time{}, time.Time{}, outcomes)
	assert.Equal(t, 100.0, report.ComplianceRate)

	outcomes = []TicketOutcome{{Breached: true}}
	report = BuildReport(time.Time{}, time.Time{}, outcomes)
	assert.Equal(t, 0.0, report.ComplianceRate)
}

func TestOutcome(t *testing.T) {
	ev := newTestEvaluator(t)

	t.Run("resolved in time", func(t *testing.T) {
		ticket := ticketAt(createdAt)
		ticket.FirstResponseAt = timePtr(createdAt.Add(30 * time.Minute))
		ticket.ResolvedAt = timePtr(createdAt.Add(4 * time.Hour))

		out := ev.Outcome(ticket, createdAt.Add(24*time.Hour))
		assert.True(t, out.Compliant)
		assert.False(t, out.Breached)
		require.NotNil(t, out.ResponseMinutes)
		assert.InDelta(t, 30, *out.ResponseMinutes, 0.01)
		require.NotNil(t, out.ResolutionMinutes)
		assert.InDelta(t, 240, *out.ResolutionMinutes, 0.01)
	})

	t.Run("open ticket contributes no durations", func(t *testing.T) {
		ticket := ticketAt(createdAt)

		out := ev.Outcome(ticket, createdAt.Add(10*time.Minute))
		assert.False(t, out.Compliant)
		assert.False(t, out.Breached)
		assert.Nil(t, out.ResponseMinutes)
		assert.Nil(t, out.ResolutionMinutes)
	})

	t.Run("durations count business minutes only", func(t *testing.T) {
		// Created Friday 17:00, responded Monday 10:00: one hour Friday
		// plus one hour Monday.
		friday := time.Date(2025, 1, 10, 17, 0, 0, 0, time.UTC)
		ticket := ticketAt(friday)
		ticket.FirstResponseAt = timePtr(time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC))

		out := ev.Outcome(ticket, friday.AddDate(0, 0, 7))
		require.NotNil(t, out.ResponseMinutes)
		assert.InDelta(t, 120, *out.ResponseMinutes, 0.01)
	})
}

func floatPtr(v float64) *float64 {
	return &v
}
