package sla

import (
	"time"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// DeadlineState is one state of the per-deadline machine. met and met_late
// are terminal; the others depend on the clock.
type DeadlineState string

const (
	StatePending  DeadlineState = "pending"
	StateAtRisk   DeadlineState = "at_risk"
	StateBreached DeadlineState = "breached"
	StateMet      DeadlineState = "met"
	StateMetLate  DeadlineState = "met_late"
)

// DefaultRiskFraction is the share of budget remaining at which a deadline
// becomes at_risk.
const DefaultRiskFraction = 0.2

// DeadlineStatus is the classification of a single deadline.
type DeadlineStatus struct {
	State  DeadlineState
	DueAt  time.Time
	RiskAt time.Time
}

// Compliant reports whether the deadline was met in time. Only meaningful
// once the state is terminal.
func (d DeadlineStatus) Compliant() bool {
	return d.State == StateMet
}

// Terminal reports whether the state can no longer change.
func (d DeadlineStatus) Terminal() bool {
	return d.State == StateMet || d.State == StateMetLate
}

// Evaluation classifies both of a ticket's deadlines against one SlaConfig.
type Evaluation struct {
	FirstResponse DeadlineStatus
	Resolution    DeadlineStatus
}

// Compliant reports whether both deadlines were met in time.
func (e Evaluation) Compliant() bool {
	return e.FirstResponse.Compliant() && e.Resolution.Compliant()
}

// Breached reports whether either deadline was missed, whether or not the
// event eventually happened.
func (e Evaluation) Breached() bool {
	return breachedState(e.FirstResponse.State) || breachedState(e.Resolution.State)
}

func breachedState(s DeadlineState) bool {
	return s == StateBreached || s == StateMetLate
}

// AlertTypes returns the alert types warranted by the current states. The
// caller deduplicates against already-recorded alerts; classification itself
// is side-effect free and safe to run on every read.
func (e Evaluation) AlertTypes() []domain.SlaAlertType {
	var types []domain.SlaAlertType
	switch e.FirstResponse.State {
	case StateAtRisk:
		types = append(types, domain.AlertFirstResponseAtRisk)
	case StateBreached:
		types = append(types, domain.AlertFirstResponseBreached)
	}
	switch e.Resolution.State {
	case StateAtRisk:
		types = append(types, domain.AlertResolutionAtRisk)
	case StateBreached:
		types = append(types, domain.AlertResolutionBreached)
	}
	return types
}

// Evaluator computes deadline evaluations for tickets governed by a single
// SlaConfig. Construction validates the config's calendar up front.
type Evaluator struct {
	cfg          *domain.SlaConfig
	calendar     *Calendar
	riskFraction float64
}

// NewEvaluator builds an evaluator for cfg using DefaultRiskFraction.
func NewEvaluator(cfg *domain.SlaConfig) (*Evaluator, error) {
	return NewEvaluatorWithRisk(cfg, DefaultRiskFraction)
}

// NewEvaluatorWithRisk builds an evaluator with a custom risk fraction.
func NewEvaluatorWithRisk(cfg *domain.SlaConfig, riskFraction float64) (*Evaluator, error) {
	calendar, err := NewCalendar(cfg)
	if err != nil {
		return nil, err
	}
	if riskFraction <= 0 || riskFraction >= 1 {
		riskFraction = DefaultRiskFraction
	}
	return &Evaluator{cfg: cfg, calendar: calendar, riskFraction: riskFraction}, nil
}

// Calendar exposes the underlying business calendar for duration reporting.
func (ev *Evaluator) Calendar() *Calendar {
	return ev.calendar
}

// Evaluate classifies both ticket deadlines as of now.
func (ev *Evaluator) Evaluate(t *domain.Ticket, now time.Time) Evaluation {
	return Evaluation{
		FirstResponse: ev.classify(t.CreatedAt, t.FirstResponseAt, ev.cfg.FirstResponseMinutes, now),
		Resolution:    ev.classify(t.CreatedAt, t.ResolvedAt, ev.cfg.ResolutionMinutes, now),
	}
}

func (ev *Evaluator) classify(anchor time.Time, eventAt *time.Time, budgetMinutes int, now time.Time) DeadlineStatus {
	dueAt := ev.calendar.DeadlineAfter(anchor, budgetMinutes)
	// The risk threshold is budget*(1-riskFraction) business minutes in, so
	// "20% of budget remaining" is measured in business time like the
	// deadline itself.
	riskAt := ev.calendar.DeadlineAfter(anchor, int(float64(budgetMinutes)*(1-ev.riskFraction)))

	status := DeadlineStatus{DueAt: dueAt, RiskAt: riskAt}
	switch {
	case eventAt != nil && !eventAt.After(dueAt):
		status.State = StateMet
	case eventAt != nil:
		status.State = StateMetLate
	case now.After(dueAt):
		status.State = StateBreached
	case !now.Before(riskAt):
		status.State = StateAtRisk
	default:
		status.State = StatePending
	}
	return status
}
