package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	"github.com/pedro17pedroo/tts-sub001/internal/events"
	"github.com/pedro17pedroo/tts-sub001/internal/repository"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

// TicketService owns the minimal ticket lifecycle the SLA engine reads:
// creation and the first-response/resolution timestamps. Each lifecycle
// write triggers a one-shot SLA evaluation of the ticket.
type TicketService struct {
	tickets    repository.TicketRepository
	customers  repository.CustomerRepository
	sla        *SlaService
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	CustomerRepo repository.CustomerRepository
	Sla          *SlaService
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CustomerID  string
	CategoryID  *string
	Subject     string
	Description string
	Priority    domain.TicketPriority
}

// TicketListFilter describes listing filters.
type TicketListFilter struct {
	CustomerID  *string
	Statuses    []domain.TicketStatus
	Priorities  []domain.TicketPriority
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		customers:  deps.CustomerRepo,
		sla:        deps.Sla,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// CreateTicket creates a ticket and computes its initial SLA view.
func (s *TicketService) CreateTicket(ctx context.Context, tenantID string, input TicketCreateInput) (*TicketSlaView, error) {
	customer, err := s.customers.GetByID(ctx, tenantID, input.CustomerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"id": input.CustomerID})
		}
		return nil, err
	}
	if !customer.IsActive {
		return nil, apperrors.NewValidationError("customer inactive", map[string]any{"customer_id": customer.ID})
	}

	ticket := &domain.Ticket{
		TenantID:    tenantID,
		ExternalKey: generateTicketKey(),
		CustomerID:  customer.ID,
		CategoryID:  input.CategoryID,
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(ticket.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": ticket.Priority})
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketCreated,
		TenantID:  tenantID,
		Timestamp: s.now(),
		Payload: events.TicketLifecyclePayload{
			TicketID: ticket.ID,
			Priority: ticket.Priority,
			At:       ticket.CreatedAt,
		},
	})
	return s.sla.EvaluateTicket(ctx, ticket)
}

// GetTicket fetches a ticket with its current SLA view. Evaluating on read
// keeps the alert table honest without any background process.
func (s *TicketService) GetTicket(ctx context.Context, tenantID, id string) (*TicketSlaView, error) {
	ticket, err := s.tickets.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	return s.sla.EvaluateTicket(ctx, ticket)
}

// ListTickets returns tenant tickets.
func (s *TicketService) ListTickets(ctx context.Context, tenantID string, filter TicketListFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		TenantID:    tenantID,
		CustomerID:  filter.CustomerID,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
}

// RecordFirstResponse stamps the first agent reply. Only the earliest reply
// counts; later calls leave the timestamp untouched.
func (s *TicketService) RecordFirstResponse(ctx context.Context, tenantID, id string) (*TicketSlaView, error) {
	ticket, err := s.tickets.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}

	at := s.now()
	if ticket.FirstResponseAt == nil {
		if err := s.tickets.MarkFirstResponse(ctx, tenantID, id, at); err != nil {
			return nil, err
		}
		ticket.FirstResponseAt = &at
		ticket.Status = domain.TicketStatusInProgress
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketResponded,
			TenantID:  tenantID,
			Timestamp: at,
			Payload: events.TicketLifecyclePayload{
				TicketID: ticket.ID,
				Priority: ticket.Priority,
				At:       at,
			},
		})
	}
	return s.sla.EvaluateTicket(ctx, ticket)
}

// ResolveTicket stamps resolution and freezes both deadline states.
func (s *TicketService) ResolveTicket(ctx context.Context, tenantID, id string) (*TicketSlaView, error) {
	ticket, err := s.tickets.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	if ticket.ResolvedAt != nil {
		return nil, apperrors.NewConflict("ticket already resolved", map[string]any{"id": id})
	}

	at := s.now()
	if err := s.tickets.MarkResolved(ctx, tenantID, id, at); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("ticket already resolved", map[string]any{"id": id})
		}
		return nil, err
	}
	ticket.ResolvedAt = &at
	ticket.Status = domain.TicketStatusResolved
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketResolved,
		TenantID:  tenantID,
		Timestamp: at,
		Payload: events.TicketLifecyclePayload{
			TicketID: ticket.ID,
			Priority: ticket.Priority,
			At:       at,
		},
	})
	return s.sla.EvaluateTicket(ctx, ticket)
}

func generateTicketKey() string {
	return fmt.Sprintf("TKT-%s", strings.ToUpper(uuid.NewString()[:8]))
}
