package dto

import (
	"time"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	"github.com/pedro17pedroo/tts-sub001/internal/service"
	"github.com/pedro17pedroo/tts-sub001/internal/sla"
)

// CreateSlaConfigRequest payload. Create and update are distinct shapes:
// creation enumerates required fields, updates are all-optional pointers.
type CreateSlaConfigRequest struct {
	Priority             domain.TicketPriority `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH CRITICAL"`
	CategoryID           *string               `json:"category_id"`
	FirstResponseMinutes int                   `json:"first_response_minutes" validate:"required,gt=0"`
	ResolutionMinutes    int                   `json:"resolution_minutes" validate:"required,gt=0"`
	BusinessHoursStart   string                `json:"business_hours_start" validate:"required"`
	BusinessHoursEnd     string                `json:"business_hours_end" validate:"required"`
	BusinessDays         []int                 `json:"business_days" validate:"required,min=1,dive,gte=0,lte=6"`
	Timezone             string                `json:"timezone" validate:"required"`
}

// UpdateSlaConfigRequest payload.
type UpdateSlaConfigRequest struct {
	FirstResponseMinutes *int    `json:"first_response_minutes" validate:"omitempty,gt=0"`
	ResolutionMinutes    *int    `json:"resolution_minutes" validate:"omitempty,gt=0"`
	BusinessHoursStart   *string `json:"business_hours_start"`
	BusinessHoursEnd     *string `json:"business_hours_end"`
	BusinessDays         []int   `json:"business_days" validate:"omitempty,min=1,dive,gte=0,lte=6"`
	Timezone             *string `json:"timezone"`
	IsActive             *bool   `json:"is_active"`
}

// SlaConfigResponse response.
type SlaConfigResponse struct {
	ID                   string                `json:"id"`
	Priority             domain.TicketPriority `json:"priority"`
	CategoryID           *string               `json:"category_id"`
	FirstResponseMinutes int                   `json:"first_response_minutes"`
	ResolutionMinutes    int                   `json:"resolution_minutes"`
	BusinessHoursStart   string                `json:"business_hours_start"`
	BusinessHoursEnd     string                `json:"business_hours_end"`
	BusinessDays         []int                 `json:"business_days"`
	Timezone             string                `json:"timezone"`
	IsActive             bool                  `json:"is_active"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// SlaConfigFromDomain maps a config to its response shape.
func SlaConfigFromDomain(cfg *domain.SlaConfig) SlaConfigResponse {
	return SlaConfigResponse{
		ID:                   cfg.ID,
		Priority:             cfg.Priority,
		CategoryID:           cfg.CategoryID,
		FirstResponseMinutes: cfg.FirstResponseMinutes,
		ResolutionMinutes:    cfg.ResolutionMinutes,
		BusinessHoursStart:   cfg.BusinessHoursStart,
		BusinessHoursEnd:     cfg.BusinessHoursEnd,
		BusinessDays:         cfg.BusinessDays,
		Timezone:             cfg.Timezone,
		IsActive:             cfg.IsActive,
		CreatedAt:            cfg.CreatedAt,
		UpdatedAt:            cfg.UpdatedAt,
	}
}

// SlaAlertResponse response.
type SlaAlertResponse struct {
	ID         string                `json:"id"`
	TicketID   string                `json:"ticket_id"`
	Type       domain.SlaAlertType   `json:"type"`
	Severity   domain.TicketPriority `json:"severity"`
	Message    string                `json:"message"`
	ResolvedAt *time.Time            `json:"resolved_at"`
	CreatedAt  time.Time             `json:"created_at"`
}

// SlaAlertFromDomain maps an alert to its response shape.
func SlaAlertFromDomain(alert *domain.SlaAlert) SlaAlertResponse {
	return SlaAlertResponse{
		ID:         alert.ID,
		TicketID:   alert.TicketID,
		Type:       alert.Type,
		Severity:   alert.Severity,
		Message:    alert.Message,
		ResolvedAt: alert.ResolvedAt,
		CreatedAt:  alert.CreatedAt,
	}
}

// SlaReportResponse response.
type SlaReportResponse struct {
	StartDate                time.Time `json:"start_date"`
	EndDate                  time.Time `json:"end_date"`
	TotalTickets             int       `json:"total_tickets"`
	CompliantTickets         int       `json:"compliant_tickets"`
	BreachedTickets          int       `json:"breached_tickets"`
	ComplianceRate           float64   `json:"compliance_rate"`
	AverageResponseMinutes   float64   `json:"average_response_minutes"`
	AverageResolutionMinutes float64   `json:"average_resolution_minutes"`
}

// SlaReportFromDomain maps a report to its response shape.
func SlaReportFromDomain(report *domain.SlaReport) SlaReportResponse {
	return SlaReportResponse{
		StartDate:                report.StartDate,
		EndDate:                  report.EndDate,
		TotalTickets:             report.TotalTickets,
		CompliantTickets:         report.CompliantTickets,
		BreachedTickets:          report.BreachedTickets,
		ComplianceRate:           report.ComplianceRate,
		AverageResponseMinutes:   report.AverageResponseMinutes,
		AverageResolutionMinutes: report.AverageResolutionMinutes,
	}
}

// DeadlineStatusResponse is one deadline's classification.
type DeadlineStatusResponse struct {
	State  sla.DeadlineState `json:"state"`
	DueAt  time.Time         `json:"due_at"`
	RiskAt time.Time         `json:"risk_at"`
}

// TicketSlaResponse is the SLA section of a ticket detail. Null when no
// config applies to the ticket.
type TicketSlaResponse struct {
	ConfigID      string                 `json:"config_id"`
	FirstResponse DeadlineStatusResponse `json:"first_response"`
	Resolution    DeadlineStatusResponse `json:"resolution"`
}

// TicketSlaFromView maps an evaluation to its response shape, or nil when
// SLA tracking is off for the ticket.
func TicketSlaFromView(view *service.TicketSlaView) *TicketSlaResponse {
	if view == nil || view.Evaluation == nil {
		return nil
	}
	return &TicketSlaResponse{
		ConfigID: view.Config.ID,
		FirstResponse: DeadlineStatusResponse{
			State:  view.Evaluation.FirstResponse.State,
			DueAt:  view.Evaluation.FirstResponse.DueAt,
			RiskAt: view.Evaluation.FirstResponse.RiskAt,
		},
		Resolution: DeadlineStatusResponse{
			State:  view.Evaluation.Resolution.State,
			DueAt:  view.Evaluation.Resolution.DueAt,
			RiskAt: view.Evaluation.Resolution.RiskAt,
		},
	}
}
