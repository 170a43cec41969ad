package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pedro17pedroo/tts-sub001/internal/config"
	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	"github.com/pedro17pedroo/tts-sub001/internal/events"
	"github.com/pedro17pedroo/tts-sub001/internal/repository"
	"github.com/pedro17pedroo/tts-sub001/internal/sla"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

// SlaService coordinates SLA configuration, classification, alerting and
// reporting. There is no standing engine: every evaluation is a one-shot
// computation over current record state, triggered on read or write.
type SlaService struct {
	configs    repository.SlaConfigRepository
	alerts     repository.SlaAlertRepository
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cache      *redis.Client
	settings   config.SlaConfig
	reportPage int
	now        func() time.Time
}

// reportPageSize bounds a single ticket fetch while reporting; the report
// itself pages through the whole window.
const reportPageSize = 500

// SlaDependencies bundles collaborators for the SLA service.
type SlaDependencies struct {
	ConfigRepo repository.SlaConfigRepository
	AlertRepo  repository.SlaAlertRepository
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Cache      *redis.Client
}

// SlaConfigInput describes config creation payload.
type SlaConfigInput struct {
	Priority             domain.TicketPriority
	CategoryID           *string
	FirstResponseMinutes int
	ResolutionMinutes    int
	BusinessHoursStart   string
	BusinessHoursEnd     string
	BusinessDays         []int
	Timezone             string
}

// SlaConfigUpdate describes a partial config update. Nil fields are left
// unchanged; unknown fields are rejected at the DTO layer.
type SlaConfigUpdate struct {
	FirstResponseMinutes *int
	ResolutionMinutes    *int
	BusinessHoursStart   *string
	BusinessHoursEnd     *string
	BusinessDays         []int
	Timezone             *string
	IsActive             *bool
}

// TicketSlaView pairs a ticket with its SLA evaluation. Evaluation is nil
// when no config applies and SLA tracking is off for the ticket.
type TicketSlaView struct {
	Ticket     *domain.Ticket
	Config     *domain.SlaConfig
	Evaluation *sla.Evaluation
}

// NewSlaService constructs the service.
func NewSlaService(settings config.SlaConfig, deps SlaDependencies) *SlaService {
	return &SlaService{
		configs:    deps.ConfigRepo,
		alerts:     deps.AlertRepo,
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		cache:      deps.Cache,
		settings:   settings,
		reportPage: reportPageSize,
		now:        time.Now,
	}
}

// CreateConfig validates and persists an SLA config. The business-hours
// window is dry-run through the calendar so a config that cannot produce
// deadlines is rejected before it is stored.
func (s *SlaService) CreateConfig(ctx context.Context, tenantID string, input SlaConfigInput) (*domain.SlaConfig, error) {
	cfg := &domain.SlaConfig{
		TenantID:             tenantID,
		Priority:             input.Priority,
		CategoryID:           input.CategoryID,
		FirstResponseMinutes: input.FirstResponseMinutes,
		ResolutionMinutes:    input.ResolutionMinutes,
		BusinessHoursStart:   input.BusinessHoursStart,
		BusinessHoursEnd:     input.BusinessHoursEnd,
		BusinessDays:         input.BusinessDays,
		Timezone:             input.Timezone,
		IsActive:             true,
	}
	if err := validateSlaConfig(cfg); err != nil {
		return nil, err
	}

	existing, err := s.configs.FindActive(ctx, tenantID, cfg.Priority, cfg.CategoryID)
	if err != nil {
		return nil, err
	}
	if existing != nil && sameCategory(existing.CategoryID, cfg.CategoryID) {
		return nil, apperrors.NewConflict("an active SLA config already exists for this priority and category", map[string]any{
			"existing_id": existing.ID,
		})
	}

	if err := s.configs.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateConfig applies a partial update to a config.
func (s *SlaService) UpdateConfig(ctx context.Context, tenantID, id string, update SlaConfigUpdate) (*domain.SlaConfig, error) {
	cfg, err := s.configs.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if update.FirstResponseMinutes != nil {
		cfg.FirstResponseMinutes = *update.FirstResponseMinutes
	}
	if update.ResolutionMinutes != nil {
		cfg.ResolutionMinutes = *update.ResolutionMinutes
	}
	if update.BusinessHoursStart != nil {
		cfg.BusinessHoursStart = *update.BusinessHoursStart
	}
	if update.BusinessHoursEnd != nil {
		cfg.BusinessHoursEnd = *update.BusinessHoursEnd
	}
	if update.BusinessDays != nil {
		cfg.BusinessDays = update.BusinessDays
	}
	if update.Timezone != nil {
		cfg.Timezone = *update.Timezone
	}
	if update.IsActive != nil {
		cfg.IsActive = *update.IsActive
	}

	if err := validateSlaConfig(cfg); err != nil {
		return nil, err
	}
	if err := s.configs.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DeactivateConfig turns a config off without deleting it.
func (s *SlaService) DeactivateConfig(ctx context.Context, tenantID, id string) error {
	return s.configs.Deactivate(ctx, tenantID, id)
}

// GetConfig returns one config.
func (s *SlaService) GetConfig(ctx context.Context, tenantID, id string) (*domain.SlaConfig, error) {
	return s.configs.GetByID(ctx, tenantID, id)
}

// ListConfigs returns every config for the tenant, active or not.
func (s *SlaService) ListConfigs(ctx context.Context, tenantID string) ([]domain.SlaConfig, error) {
	return s.configs.ListByTenant(ctx, tenantID)
}

// EvaluateTicket classifies a ticket's deadlines and records any newly
// warranted alerts. Safe to call on every read: recording is deduplicated
// per (ticket, alert type), so a ticket already breached stays at one alert.
// Returns a nil Evaluation when no config applies.
func (s *SlaService) EvaluateTicket(ctx context.Context, ticket *domain.Ticket) (*TicketSlaView, error) {
	view := &TicketSlaView{Ticket: ticket}

	cfg, err := s.configs.FindActive(ctx, ticket.TenantID, ticket.Priority, ticket.CategoryID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		// SLA tracking is off for this ticket. A valid terminal outcome,
		// logged apart from configuration failures.
		s.logger.Debug("no sla config applies", zap.String("ticket_id", ticket.ID))
		return view, nil
	}
	view.Config = cfg

	evaluator, err := sla.NewEvaluatorWithRisk(cfg, s.settings.RiskFraction)
	if err != nil {
		s.logger.Error("sla config cannot produce deadlines",
			zap.String("config_id", cfg.ID), zap.Error(err))
		return nil, err
	}

	eval := evaluator.Evaluate(ticket, s.now())
	view.Evaluation = &eval

	for _, alertType := range eval.AlertTypes() {
		if err := s.recordAlert(ctx, ticket, alertType); err != nil {
			return nil, err
		}
	}
	return view, nil
}

func (s *SlaService) recordAlert(ctx context.Context, ticket *domain.Ticket, alertType domain.SlaAlertType) error {
	alert := &domain.SlaAlert{
		TenantID: ticket.TenantID,
		TicketID: ticket.ID,
		Type:     alertType,
		Severity: ticket.Priority,
		Message:  alertMessage(ticket, alertType),
	}
	created, err := s.alerts.CreateIfAbsent(ctx, alert)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}

	s.logger.Warn("sla alert raised",
		zap.String("ticket_id", ticket.ID),
		zap.String("type", string(alertType)),
		zap.String("severity", string(ticket.Priority)))
	return s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventSlaAlertRaised,
		TenantID:  ticket.TenantID,
		Timestamp: s.now(),
		Payload: events.SlaAlertRaisedPayload{
			AlertID:  alert.ID,
			TicketID: ticket.ID,
			Type:     alertType,
			Severity: ticket.Priority,
			Message:  alert.Message,
		},
	})
}

// ListOpenAlerts re-evaluates the tenant's open tickets so the alert list
// reflects the current clock, then returns unresolved alerts.
func (s *SlaService) ListOpenAlerts(ctx context.Context, tenantID string) ([]domain.SlaAlert, error) {
	open, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		TenantID: tenantID,
		OpenOnly: true,
	})
	if err != nil {
		return nil, err
	}
	for i := range open {
		if _, err := s.EvaluateTicket(ctx, &open[i]); err != nil {
			// Configuration errors on one ticket must not hide the rest
			// of the tenant's alerts.
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == "CONFIGURATION_ERROR" {
				continue
			}
			return nil, err
		}
	}
	return s.alerts.ListOpen(ctx, tenantID)
}

// ResolveAlert marks an alert as handled.
func (s *SlaService) ResolveAlert(ctx context.Context, tenantID, id string) error {
	err := s.alerts.Resolve(ctx, tenantID, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("alert", map[string]any{"id": id})
	}
	return err
}

// Report computes the tenant's compliance report for tickets created in
// [start, end]. Tickets with no applicable config are excluded from the
// denominator entirely. Results are cached briefly.
func (s *SlaService) Report(ctx context.Context, tenantID string, start, end time.Time) (*domain.SlaReport, error) {
	cacheKey := fmt.Sprintf("sla:report:%s:%d:%d", tenantID, start.Unix(), end.Unix())
	if cached := s.cachedReport(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	tickets, err := s.reportTickets(ctx, tenantID, start, end)
	if err != nil {
		return nil, err
	}

	now := s.now()
	evaluators := make(map[string]*sla.Evaluator)
	var outcomes []sla.TicketOutcome
	for i := range tickets {
		ticket := &tickets[i]
		cfg, err := s.configs.FindActive(ctx, tenantID, ticket.Priority, ticket.CategoryID)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			continue
		}
		evaluator, ok := evaluators[cfg.ID]
		if !ok {
			evaluator, err = sla.NewEvaluatorWithRisk(cfg, s.settings.RiskFraction)
			if err != nil {
				return nil, err
			}
			evaluators[cfg.ID] = evaluator
		}
		outcomes = append(outcomes, evaluator.Outcome(ticket, now))
	}

	report := sla.BuildReport(start, end, outcomes)
	s.storeReport(ctx, cacheKey, &report)
	return &report, nil
}

// reportTickets pages through every ticket created in the window. A busy
// tenant's report must count all of them; a fixed cap would silently
// truncate the denominator.
func (s *SlaService) reportTickets(ctx context.Context, tenantID string, start, end time.Time) ([]domain.Ticket, error) {
	var all []domain.Ticket
	for offset := 0; ; offset += s.reportPage {
		batch, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
			TenantID:    tenantID,
			CreatedFrom: &start,
			CreatedTo:   &end,
			Limit:       s.reportPage,
			Offset:      offset,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < s.reportPage {
			return all, nil
		}
	}
}

func (s *SlaService) cachedReport(ctx context.Context, key string) *domain.SlaReport {
	if s.cache == nil || s.settings.ReportCacheTTL() <= 0 {
		return nil
	}
	payload, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var report domain.SlaReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil
	}
	return &report
}

func (s *SlaService) storeReport(ctx context.Context, key string, report *domain.SlaReport) {
	if s.cache == nil || s.settings.ReportCacheTTL() <= 0 {
		return
	}
	if payload, err := json.Marshal(report); err == nil {
		s.cache.Set(ctx, key, payload, s.settings.ReportCacheTTL())
	}
}

func validateSlaConfig(cfg *domain.SlaConfig) error {
	details := map[string]any{}
	if !domain.ValidPriority(cfg.Priority) {
		details["priority"] = "unknown priority"
	}
	if cfg.FirstResponseMinutes <= 0 {
		details["first_response_minutes"] = "must be positive"
	}
	if cfg.ResolutionMinutes <= 0 {
		details["resolution_minutes"] = "must be positive"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid sla config", details)
	}
	// Calendar construction checks the window, days and timezone and
	// reports CONFIGURATION_ERROR for anything it cannot schedule with.
	_, err := sla.NewCalendar(cfg)
	return err
}

func sameCategory(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func alertMessage(ticket *domain.Ticket, alertType domain.SlaAlertType) string {
	switch alertType {
	case domain.AlertFirstResponseAtRisk:
		return fmt.Sprintf("ticket %s is approaching its first response deadline", ticket.ExternalKey)
	case domain.AlertResolutionAtRisk:
		return fmt.Sprintf("ticket %s is approaching its resolution deadline", ticket.ExternalKey)
	case domain.AlertFirstResponseBreached:
		return fmt.Sprintf("ticket %s missed its first response deadline", ticket.ExternalKey)
	case domain.AlertResolutionBreached:
		return fmt.Sprintf("ticket %s missed its resolution deadline", ticket.ExternalKey)
	}
	return string(alertType)
}
