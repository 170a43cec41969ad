package domain

import "time"

// SlaAlertType identifies which deadline an alert refers to and whether it
// crossed the risk threshold or the deadline itself.
type SlaAlertType string

const (
	AlertFirstResponseAtRisk   SlaAlertType = "first_response_at_risk"
	AlertResolutionAtRisk      SlaAlertType = "resolution_at_risk"
	AlertFirstResponseBreached SlaAlertType = "first_response_breached"
	AlertResolutionBreached    SlaAlertType = "resolution_breached"
)

// SlaAlert records a risk or breach event for one ticket deadline. The pair
// (TicketID, Type) is unique so re-running classification never duplicates
// an alert.
type SlaAlert struct {
	ID         string
	TenantID   string
	TicketID   string
	Type       SlaAlertType
	Severity   TicketPriority
	Message    string
	ResolvedAt *time.Time
	CreatedAt  time.Time
}
