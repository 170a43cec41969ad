package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// Monday 2025-01-06, inside the Mon-Fri 09:00-18:00 window.
var createdAt = time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)

func newTestEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	ev, err := NewEvaluator(weekdayConfig())
	require.NoError(t, err)
	return ev
}

func ticketAt(created time.Time) *domain.Ticket {
	return &domain.Ticket{
		ID:        "t-1",
		TenantID:  "tenant-1",
		Priority:  domain.TicketPriorityHigh,
		Status:    domain.TicketStatusOpen,
		CreatedAt: created,
	}
}

func TestEvaluateFirstResponseStates(t *testing.T) {
	ev := newTestEvaluator(t)

	// 60 minute budget from 10:00: due 11:00, at risk from 10:48.
	tests := []struct {
		name    string
		now     time.Time
		eventAt *time.Time
		want    DeadlineState
	}{
		{"pending well before risk", createdAt.Add(10 * time.Minute), nil, StatePending},
		{"pending just before risk", createdAt.Add(47 * time.Minute), nil, StatePending},
		{"at risk exactly at threshold", createdAt.Add(48 * time.Minute), nil, StateAtRisk},
		{"at risk before due", createdAt.Add(59 * time.Minute), nil, StateAtRisk},
		{"not breached exactly at due", createdAt.Add(60 * time.Minute), nil, StateAtRisk},
		{"breached after due", createdAt.Add(61 * time.Minute), nil, StateBreached},
		{"met in time", createdAt.Add(90 * time.Minute), timePtr(createdAt.Add(30 * time.Minute)), StateMet},
		{"met exactly at due", createdAt.Add(90 * time.Minute), timePtr(createdAt.Add(60 * time.Minute)), StateMet},
		{"met late", createdAt.Add(90 * time.Minute), timePtr(createdAt.Add(70 * time.Minute)), StateMetLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := ticketAt(createdAt)
			ticket.FirstResponseAt = tt.eventAt

			eval := ev.Evaluate(ticket, tt.now)
			assert.Equal(t, tt.want, eval.FirstResponse.State)
			assert.True(t, eval.FirstResponse.DueAt.Equal(createdAt.Add(60*time.Minute)))
			assert.True(t, eval.FirstResponse.RiskAt.Equal(createdAt.Add(48*time.Minute)))
		})
	}
}

func TestEvaluateExactBudgetConsumptionIsMet(t *testing.T) {
	ev := newTestEvaluator(t)

	// 480 minute resolution budget from Monday 10:00 runs out at the 18:00
	// close, so the deadline is Tuesday 09:00. A resolution at any instant
	// up to and including that open consumed exactly the budget in business
	// minutes, zero more.
	ticket := ticketAt(createdAt)
	ticket.FirstResponseAt = timePtr(createdAt.Add(30 * time.Minute))
	resolvedAt := time.Date(2025, 1, 7, 9, 0, 0, 0, time.UTC)
	ticket.ResolvedAt = &resolvedAt

	elapsed := ev.Calendar().BusinessMinutesBetween(ticket.CreatedAt, resolvedAt)
	assert.InDelta(t, 480, elapsed, 0.01)

	eval := ev.Evaluate(ticket, resolvedAt.Add(time.Hour))
	assert.Equal(t, StateMet, eval.Resolution.State)
	assert.True(t, eval.Resolution.DueAt.Equal(resolvedAt))
}

func TestEvaluateDeadlinesAreIndependent(t *testing.T) {
	ev := newTestEvaluator(t)

	// Response made in time, resolution still pending past the response due.
	ticket := ticketAt(createdAt)
	ticket.FirstResponseAt = timePtr(createdAt.Add(20 * time.Minute))

	eval := ev.Evaluate(ticket, createdAt.Add(2*time.Hour))
	assert.Equal(t, StateMet, eval.FirstResponse.State)
	assert.Equal(t, StatePending, eval.Resolution.State)
}

func TestEvaluateTerminalStatesIgnoreClock(t *testing.T) {
	ev := newTestEvaluator(t)

	ticket := ticketAt(createdAt)
	ticket.FirstResponseAt = timePtr(createdAt.Add(30 * time.Minute))
	ticket.ResolvedAt = timePtr(createdAt.Add(3 * time.Hour))

	// Weeks later the states stay where the events froze them.
	eval := ev.Evaluate(ticket, createdAt.AddDate(0, 1, 0))
	assert.Equal(t, StateMet, eval.FirstResponse.State)
	assert.Equal(t, StateMet, eval.Resolution.State)
	assert.True(t, eval.Compliant())
	assert.False(t, eval.Breached())
}

func TestEvaluationBreached(t *testing.T) {
	tests := []struct {
		name       string
		response   DeadlineState
		resolution DeadlineState
		want       bool
	}{
		{"both met", StateMet, StateMet, false},
		{"response breached", StateBreached, StatePending, true},
		{"resolution met late", StateMet, StateMetLate, true},
		{"at risk is not breached", StateAtRisk, StateAtRisk, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := Evaluation{
				FirstResponse: DeadlineStatus{State: tt.response},
				Resolution:    DeadlineStatus{State: tt.resolution},
			}
			assert.Equal(t, tt.want, eval.Breached())
		})
	}
}

func TestAlertTypes(t *testing.T) {
	tests := []struct {
		name       string
		response   DeadlineState
		resolution DeadlineState
		want       []domain.SlaAlertType
	}{
		{"nothing pending", StatePending, StatePending, nil},
		{"response at risk", StateAtRisk, StatePending, []domain.SlaAlertType{domain.AlertFirstResponseAtRisk}},
		{"response breached resolution at risk", StateBreached, StateAtRisk, []domain.SlaAlertType{
			domain.AlertFirstResponseBreached, domain.AlertResolutionAtRisk,
		}},
		{"both breached", StateBreached, StateBreached, []domain.SlaAlertType{
			domain.AlertFirstResponseBreached, domain.AlertResolutionBreached,
		}},
		{"terminal states warrant nothing", StateMet, StateMetLate, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := Evaluation{
				FirstResponse: DeadlineStatus{State: tt.response},
				Resolution:    DeadlineStatus{State: tt.resolution},
			}
			assert.Equal(t, tt.want, eval.AlertTypes())
		})
	}
}

func TestNewEvaluatorWithRiskClampsFraction(t *testing.T) {
	for _, bad := range []float64{-0.5, 0, 1, 2} {
		ev, err := NewEvaluatorWithRisk(weekdayConfig(), bad)
		require.NoError(t, err)
		assert.Equal(t, DefaultRiskFraction, ev.riskFraction)
	}
}

func TestNewEvaluatorRejectsBadCalendar(t *testing.T) {
	cfg := weekdayConfig()
	cfg.BusinessDays = nil
	_, err := NewEvaluator(cfg)
	require.Error(t, err)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
