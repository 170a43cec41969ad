package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pedro17pedroo/tts-sub001/internal/config"
	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	"github.com/pedro17pedroo/tts-sub001/internal/events"
	"github.com/pedro17pedroo/tts-sub001/internal/hourbank"
	"github.com/pedro17pedroo/tts-sub001/internal/i18n"
	"github.com/pedro17pedroo/tts-sub001/internal/repository"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

// HourBankService manages prepaid hour banks and the time entries that
// debit them.
type HourBankService struct {
	banks      repository.HourBankRepository
	entries    repository.TimeEntryRepository
	tickets    repository.TicketRepository
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	formatter  *i18n.Formatter
	currency   string
	policy     config.HourBankConfig
	now        func() time.Time
}

// HourBankDependencies bundles collaborators for the hour-bank service.
type HourBankDependencies struct {
	BankRepo     repository.HourBankRepository
	EntryRepo    repository.TimeEntryRepository
	TicketRepo   repository.TicketRepository
	CustomerRepo repository.CustomerRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
	Formatter    *i18n.Formatter
	Currency     string
}

// HourBankInput describes bank creation payload.
type HourBankInput struct {
	CustomerID string
	Name       string
	TotalHours float64
	HourlyRate *float64
	ExpiresAt  *time.Time
}

// TimeEntryInput starts a timer or records a manual entry. A manual entry
// supplies DurationHours; a timer start leaves it nil and the duration is
// derived at stop time from the persisted start instant.
type TimeEntryInput struct {
	TicketID      string
	HourBankID    *string
	StartTime     *time.Time
	DurationHours *float64
	Description   string
}

// BankView is a bank together with its derived balance figures and
// locale-formatted display values.
type BankView struct {
	Bank             *domain.HourBank
	Balance          hourbank.Balance
	RemainingDisplay string
	ValueDisplay     *string
}

// EntryView is a time entry with its elapsed time resolved against the
// clock, so a reloaded UI can rebuild a running timer from persisted state.
type EntryView struct {
	Entry        *domain.TimeEntry
	ElapsedHours float64
}

// NewHourBankService constructs the service.
func NewHourBankService(policy config.HourBankConfig, deps HourBankDependencies) *HourBankService {
	return &HourBankService{
		banks:      deps.BankRepo,
		entries:    deps.EntryRepo,
		tickets:    deps.TicketRepo,
		customers:  deps.CustomerRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		formatter:  deps.Formatter,
		currency:   deps.Currency,
		policy:     policy,
		now:        time.Now,
	}
}

// CreateBank validates and persists a new hour bank for a customer.
func (s *HourBankService) CreateBank(ctx context.Context, tenantID string, input HourBankInput) (*BankView, error) {
	details := map[string]any{}
	if input.TotalHours <= 0 {
		details["total_hours"] = "must be positive"
	}
	if input.HourlyRate != nil && *input.HourlyRate < 0 {
		details["hourly_rate"] = "must not be negative"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid hour bank", details)
	}

	customer, err := s.customers.GetByID(ctx, tenantID, input.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"id": input.CustomerID})
		}
		return nil, err
	}

	bank := &domain.HourBank{
		TenantID:   tenantID,
		CustomerID: customer.ID,
		Name:       input.Name,
		TotalHours: input.TotalHours,
		HourlyRate: input.HourlyRate,
		ExpiresAt:  input.ExpiresAt,
		IsActive:   true,
	}
	if err := s.banks.Create(ctx, bank); err != nil {
		return nil, err
	}
	return s.view(bank), nil
}

// ListBanks returns tenant banks with derived balances, optionally filtered
// by customer.
func (s *HourBankService) ListBanks(ctx context.Context, tenantID string, customerID *string) ([]BankView, error) {
	banks, err := s.banks.ListByTenant(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	views := make([]BankView, 0, len(banks))
	for i := range banks {
		views = append(views, *s.view(&banks[i]))
	}
	return views, nil
}

// GetBank returns one bank with derived balances.
func (s *HourBankService) GetBank(ctx context.Context, tenantID, id string) (*BankView, error) {
	bank, err := s.banks.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("hour bank", map[string]any{"id": id})
		}
		return nil, err
	}
	return s.view(bank), nil
}

// CreateEntry starts a timer or records a manual entry. Manual entries are
// complete on arrival (end time equals start time, duration supplied) and
// debit their bank immediately; timer starts persist only the start instant.
func (s *HourBankService) CreateEntry(ctx context.Context, tenantID, userID string, input TimeEntryInput) (*EntryView, error) {
	if _, err := s.tickets.GetByID(ctx, tenantID, input.TicketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": input.TicketID})
		}
		return nil, err
	}
	if input.HourBankID != nil {
		if _, err := s.banks.GetByID(ctx, tenantID, *input.HourBankID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("hour bank", map[string]any{"id": *input.HourBankID})
			}
			return nil, err
		}
	}

	now := s.now()
	start := now
	if input.StartTime != nil {
		start = *input.StartTime
	}

	entry := &domain.TimeEntry{
		TenantID:    tenantID,
		TicketID:    input.TicketID,
		UserID:      userID,
		HourBankID:  input.HourBankID,
		StartTime:   start,
		Description: input.Description,
	}

	if input.DurationHours != nil {
		// Manual entry.
		if *input.DurationHours <= 0 {
			return nil, apperrors.NewValidationError("invalid time entry", map[string]any{
				"duration_hours": "must be positive",
			})
		}
		entry.EndTime = &start
		entry.DurationHours = round2(*input.DurationHours)
	}

	if entry.EndTime != nil {
		if err := s.checkDebitPolicy(ctx, tenantID, entry.HourBankID); err != nil {
			return nil, err
		}
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, err
	}
	if entry.EndTime != nil {
		if err := s.completed(ctx, entry); err != nil {
			return nil, err
		}
	}
	return s.entryView(entry), nil
}

// StopEntry closes a running timer and debits the attributed bank. The
// duration is derived from the persisted start instant, never from state
// held in memory. Stopping an already-stopped entry is a conflict.
func (s *HourBankService) StopEntry(ctx context.Context, tenantID, id string, endTime *time.Time) (*EntryView, error) {
	entry, err := s.entries.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("time entry", map[string]any{"id": id})
		}
		return nil, err
	}
	if !entry.Running() {
		return nil, apperrors.NewConflict("time entry already stopped", map[string]any{"id": id})
	}

	end := s.now()
	if endTime != nil {
		end = *endTime
	}
	if end.Before(entry.StartTime) {
		return nil, apperrors.NewValidationError("invalid time entry", map[string]any{
			"end_time": "must not precede start time",
		})
	}

	if err := s.checkDebitPolicy(ctx, tenantID, entry.HourBankID); err != nil {
		return nil, err
	}

	duration := round2(end.Sub(entry.StartTime).Hours())
	if err := s.entries.Stop(ctx, tenantID, id, end, duration); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race with a concurrent stop.
			return nil, apperrors.NewConflict("time entry already stopped", map[string]any{"id": id})
		}
		return nil, err
	}
	entry.EndTime = &end
	entry.DurationHours = duration

	if err := s.completed(ctx, entry); err != nil {
		return nil, err
	}
	return s.entryView(entry), nil
}

// ListEntries returns a ticket's time entries with elapsed time resolved.
func (s *HourBankService) ListEntries(ctx context.Context, tenantID, ticketID string) ([]EntryView, error) {
	entries, err := s.entries.ListByTicket(ctx, tenantID, ticketID)
	if err != nil {
		return nil, err
	}
	views := make([]EntryView, 0, len(entries))
	for i := range entries {
		views = append(views, *s.entryView(&entries[i]))
	}
	return views, nil
}

// checkDebitPolicy optionally blocks debits against expired or inactive
// banks. Default behavior allows them: late logging and overage stay legal
// and surface as negative balances.
func (s *HourBankService) checkDebitPolicy(ctx context.Context, tenantID string, bankID *string) error {
	if bankID == nil || !s.policy.EnforceActive {
		return nil
	}
	bank, err := s.banks.GetByID(ctx, tenantID, *bankID)
	if err != nil {
		return err
	}
	balance := hourbank.Classify(bank, s.now())
	if balance.Expired {
		return apperrors.NewValidationError("hour bank expired", map[string]any{"hour_bank_id": bank.ID})
	}
	if !bank.IsActive {
		return apperrors.NewValidationError("hour bank inactive", map[string]any{"hour_bank_id": bank.ID})
	}
	return nil
}

// completed publishes a finished entry and checks the attributed bank's
// balance. The debit itself already happened in the repository, inside the
// transaction that closed or created the entry.
func (s *HourBankService) completed(ctx context.Context, entry *domain.TimeEntry) error {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTimeEntryCompleted,
		TenantID:  entry.TenantID,
		Timestamp: s.now(),
		Payload: events.TimeEntryCompletedPayload{
			TimeEntryID:   entry.ID,
			TicketID:      entry.TicketID,
			HourBankID:    entry.HourBankID,
			DurationHours: entry.DurationHours,
		},
	})

	if entry.HourBankID == nil {
		return nil
	}
	bank, err := s.banks.GetByID(ctx, entry.TenantID, *entry.HourBankID)
	if err != nil {
		return err
	}
	balance := hourbank.Classify(bank, s.now())
	if balance.RunningLow {
		s.logger.Warn("hour bank running low",
			zap.String("hour_bank_id", bank.ID),
			zap.Float64("usage_percentage", balance.UsagePercentage))
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventHourBankLowBalance,
			TenantID:  bank.TenantID,
			Timestamp: s.now(),
			Payload: events.HourBankLowBalancePayload{
				HourBankID:      bank.ID,
				CustomerID:      bank.CustomerID,
				RemainingHours:  balance.RemainingHours,
				UsagePercentage: balance.UsagePercentage,
			},
		})
	}
	return nil
}

func (s *HourBankService) view(bank *domain.HourBank) *BankView {
	balance := hourbank.Classify(bank, s.now())
	view := &BankView{
		Bank:             bank,
		Balance:          balance,
		RemainingDisplay: s.formatter.FormatHours(balance.RemainingHours),
	}
	if balance.TotalValue != nil {
		if formatted, err := s.formatter.FormatMoney(*balance.TotalValue, s.currency); err == nil {
			view.ValueDisplay = &formatted
		}
	}
	return view
}

func (s *HourBankService) entryView(entry *domain.TimeEntry) *EntryView {
	return &EntryView{
		Entry:        entry,
		ElapsedHours: round2(entry.Elapsed(s.now()).Hours()),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
