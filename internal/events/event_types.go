package events

import (
	"time"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketResponded    EventType = "ticket_responded"
	EventTicketResolved     EventType = "ticket_resolved"
	EventSlaAlertRaised     EventType = "sla_alert_raised"
	EventTimeEntryCompleted EventType = "time_entry_completed"
	EventHourBankLowBalance EventType = "hour_bank_low_balance"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TenantID  string      `json:"tenant_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SlaAlertRaisedPayload payload.
type SlaAlertRaisedPayload struct {
	AlertID  string                `json:"alert_id"`
	TicketID string                `json:"ticket_id"`
	Type     domain.SlaAlertType   `json:"alert_type"`
	Severity domain.TicketPriority `json:"severity"`
	Message  string                `json:"message"`
}

// TicketLifecyclePayload payload for created/responded/resolved events.
type TicketLifecyclePayload struct {
	TicketID string                `json:"ticket_id"`
	Priority domain.TicketPriority `json:"priority"`
	At       time.Time             `json:"at"`
}

// TimeEntryCompletedPayload payload.
type TimeEntryCompletedPayload struct {
	TimeEntryID   string  `json:"time_entry_id"`
	TicketID      string  `json:"ticket_id"`
	HourBankID    *string `json:"hour_bank_id,omitempty"`
	DurationHours float64 `json:"duration_hours"`
}

// HourBankLowBalancePayload payload.
type HourBankLowBalancePayload struct {
	HourBankID      string  `json:"hour_bank_id"`
	CustomerID      string  `json:"customer_id"`
	RemainingHours  float64 `json:"remaining_hours"`
	UsagePercentage float64 `json:"usage_percentage"`
}
