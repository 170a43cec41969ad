package sla

import (
	"math"
	"time"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// TicketOutcome is one ticket's contribution to a compliance report.
// Response/resolution durations are business minutes and are nil when the
// corresponding event has not happened yet.
type TicketOutcome struct {
	Compliant         bool
	Breached          bool
	ResponseMinutes   *float64
	ResolutionMinutes *float64
}

// Outcome derives a report contribution for one ticket. Tickets with no
// applicable SLA config never reach this point; the caller excludes them
// from the denominator entirely.
func (ev *Evaluator) Outcome(t *domain.Ticket, now time.Time) TicketOutcome {
	eval := ev.Evaluate(t, now)
	out := TicketOutcome{
		Compliant: eval.Compliant(),
		Breached:  eval.Breached(),
	}
	if t.FirstResponseAt != nil {
		m := ev.calendar.BusinessMinutesBetween(t.CreatedAt, *t.FirstResponseAt)
		out.ResponseMinutes = &m
	}
	if t.ResolvedAt != nil {
		m := ev.calendar.BusinessMinutesBetween(t.CreatedAt, *t.ResolvedAt)
		out.ResolutionMinutes = &m
	}
	return out
}

// BuildReport aggregates per-ticket outcomes into an SlaReport. The
// compliance rate is 0 when there are no tickets; averages only cover
// tickets with the event recorded.
func BuildReport(start, end time.Time, outcomes []TicketOutcome) domain.SlaReport {
	report := domain.SlaReport{StartDate: start, EndDate: end, TotalTickets: len(outcomes)}

	var responseSum, resolutionSum float64
	var responseCount, resolutionCount int
	for _, out := range outcomes {
		if out.Compliant {
			report.CompliantTickets++
		}
		if out.Breached {
			report.BreachedTickets++
		}
		if out.ResponseMinutes != nil {
			responseSum += *out.ResponseMinutes
			responseCount++
		}
		if out.ResolutionMinutes != nil {
			resolutionSum += *out.ResolutionMinutes
			resolutionCount++
		}
	}

	if report.TotalTickets > 0 {
		report.ComplianceRate = round2(float64(report.CompliantTickets) / float64(report.TotalTickets) * 100)
	}
	if responseCount > 0 {
		report.AverageResponseMinutes = round2(responseSum / float64(responseCount))
	}
	if resolutionCount > 0 {
		report.AverageResolutionMinutes = round2(resolutionSum / float64(resolutionCount))
	}
	return report
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
