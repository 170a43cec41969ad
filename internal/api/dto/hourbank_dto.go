package dto

import (
	"time"

	"github.com/pedro17pedroo/tts-sub001/internal/service"
)

// CreateHourBankRequest payload.
type CreateHourBankRequest struct {
	CustomerID string     `json:"customer_id" validate:"required,uuid4"`
	Name       string     `json:"name" validate:"required"`
	TotalHours float64    `json:"total_hours" validate:"required,gt=0"`
	HourlyRate *float64   `json:"hourly_rate" validate:"omitempty,gte=0"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

// HourBankResponse is a bank with its derived balance and locale-formatted
// display strings.
type HourBankResponse struct {
	ID               string     `json:"id"`
	CustomerID       string     `json:"customer_id"`
	Name             string     `json:"name"`
	TotalHours       float64    `json:"total_hours"`
	ConsumedHours    float64    `json:"consumed_hours"`
	RemainingHours   float64    `json:"remaining_hours"`
	UsagePercentage  float64    `json:"usage_percentage"`
	HourlyRate       *float64   `json:"hourly_rate"`
	TotalValue       *float64   `json:"total_value"`
	Status           string     `json:"status"`
	RemainingDisplay string     `json:"remaining_display"`
	ValueDisplay     *string    `json:"value_display"`
	ExpiresAt        *time.Time `json:"expires_at"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// HourBankFromView maps a bank view to its response shape.
func HourBankFromView(view *service.BankView) HourBankResponse {
	return HourBankResponse{
		ID:               view.Bank.ID,
		CustomerID:       view.Bank.CustomerID,
		Name:             view.Bank.Name,
		TotalHours:       view.Bank.TotalHours,
		ConsumedHours:    view.Bank.ConsumedHours,
		RemainingHours:   view.Balance.RemainingHours,
		UsagePercentage:  view.Balance.UsagePercentage,
		HourlyRate:       view.Bank.HourlyRate,
		TotalValue:       view.Balance.TotalValue,
		Status:           string(view.Balance.Status),
		RemainingDisplay: view.RemainingDisplay,
		ValueDisplay:     view.ValueDisplay,
		ExpiresAt:        view.Bank.ExpiresAt,
		IsActive:         view.Bank.IsActive,
		CreatedAt:        view.Bank.CreatedAt,
		UpdatedAt:        view.Bank.UpdatedAt,
	}
}

// CreateTimeEntryRequest starts a timer or records a manual entry. When
// duration_hours is present the entry is manual and complete on arrival;
// otherwise a timer starts.
type CreateTimeEntryRequest struct {
	TicketID      string     `json:"ticket_id" validate:"required,uuid4"`
	HourBankID    *string    `json:"hour_bank_id" validate:"omitempty,uuid4"`
	StartTime     *time.Time `json:"start_time"`
	DurationHours *float64   `json:"duration_hours" validate:"omitempty,gt=0"`
	Description   string     `json:"description"`
}

// StopTimeEntryRequest payload. EndTime defaults to the server clock.
type StopTimeEntryRequest struct {
	EndTime *time.Time `json:"end_time"`
}

// TimeEntryResponse response.
type TimeEntryResponse struct {
	ID            string     `json:"id"`
	TicketID      string     `json:"ticket_id"`
	UserID        string     `json:"user_id"`
	HourBankID    *string    `json:"hour_bank_id"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	DurationHours float64    `json:"duration_hours"`
	ElapsedHours  float64    `json:"elapsed_hours"`
	Running       bool       `json:"running"`
	Description   string     `json:"description"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TimeEntryFromView maps an entry view to its response shape.
func TimeEntryFromView(view *service.EntryView) TimeEntryResponse {
	return TimeEntryResponse{
		ID:            view.Entry.ID,
		TicketID:      view.Entry.TicketID,
		UserID:        view.Entry.UserID,
		HourBankID:    view.Entry.HourBankID,
		StartTime:     view.Entry.StartTime,
		EndTime:       view.Entry.EndTime,
		DurationHours: view.Entry.DurationHours,
		ElapsedHours:  view.ElapsedHours,
		Running:       view.Entry.Running(),
		Description:   view.Entry.Description,
		CreatedAt:     view.Entry.CreatedAt,
	}
}
