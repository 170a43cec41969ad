package dto

import (
	"time"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	"github.com/pedro17pedroo/tts-sub001/internal/service"
)

// CreateTicketRequest payload. Priority defaults to MEDIUM when omitted.
type CreateTicketRequest struct {
	CustomerID  string                `json:"customer_id" validate:"required,uuid4"`
	CategoryID  *string               `json:"category_id"`
	Subject     string                `json:"subject" validate:"required"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
}

// TicketResponse is a ticket with its SLA section, null when no SLA config
// applies to the ticket.
type TicketResponse struct {
	ID              string                `json:"id"`
	ExternalKey     string                `json:"external_key"`
	CustomerID      string                `json:"customer_id"`
	CategoryID      *string               `json:"category_id"`
	AssigneeID      *string               `json:"assignee_id"`
	Subject         string                `json:"subject"`
	Description     string                `json:"description"`
	Status          domain.TicketStatus   `json:"status"`
	Priority        domain.TicketPriority `json:"priority"`
	FirstResponseAt *time.Time            `json:"first_response_at"`
	ResolvedAt      *time.Time            `json:"resolved_at"`
	ClosedAt        *time.Time            `json:"closed_at"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	Sla             *TicketSlaResponse    `json:"sla"`
}

// TicketFromDomain maps a bare ticket to its response shape.
func TicketFromDomain(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              t.ID,
		ExternalKey:     t.ExternalKey,
		CustomerID:      t.CustomerID,
		CategoryID:      t.CategoryID,
		AssigneeID:      t.AssigneeID,
		Subject:         t.Subject,
		Description:     t.Description,
		Status:          t.Status,
		Priority:        t.Priority,
		FirstResponseAt: t.FirstResponseAt,
		ResolvedAt:      t.ResolvedAt,
		ClosedAt:        t.ClosedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

// TicketFromView maps a ticket with its SLA view to the response shape.
func TicketFromView(view *service.TicketSlaView) TicketResponse {
	resp := TicketFromDomain(view.Ticket)
	resp.Sla = TicketSlaFromView(view)
	return resp
}
