package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	"github.com/pedro17pedroo/tts-sub001/internal/events"
	"github.com/pedro17pedroo/tts-sub001/internal/sla"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

type ticketFixture struct {
	svc        *TicketService
	slaFix     *slaFixture
	customers  *fakeCustomerRepo
	dispatcher *capturingDispatcher
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	slaFix := newSlaFixture(t)
	f := &ticketFixture{
		slaFix:     slaFix,
		customers:  newFakeCustomerRepo(),
		dispatcher: slaFix.dispatcher,
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:   slaFix.tickets,
		CustomerRepo: f.customers,
		Sla:          slaFix.svc,
		Dispatcher:   f.dispatcher,
		Logger:       testLogger(),
	})
	f.svc.now = func() time.Time { return slaFix.clock }
	return f
}

func (f *ticketFixture) seedCustomer(t *testing.T, active bool) *domain.Customer {
	t.Helper()
	customer := &domain.Customer{TenantID: tenantID, Name: "Acme", Email: "it@acme.test", IsActive: active}
	require.NoError(t, f.customers.Create(context.Background(), customer))
	return customer
}

func TestCreateTicket(t *testing.T) {
	f := newTicketFixture(t)
	f.slaFix.seedConfig(t)
	customer := f.seedCustomer(t, true)

	view, err := f.svc.CreateTicket(context.Background(), tenantID, TicketCreateInput{
		CustomerID:  customer.ID,
		Subject:     "  printer on fire  ",
		Description: "third floor",
		Priority:    domain.TicketPriorityHigh,
	})
	require.NoError(t, err)

	ticket := view.Ticket
	assert.Equal(t, "printer on fire", ticket.Subject)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.True(t, strings.HasPrefix(ticket.ExternalKey, "TKT-"))

	// A matching config means the SLA view is populated from creation.
	require.NotNil(t, view.Evaluation)
	assert.Equal(t, sla.StatePending, view.Evaluation.FirstResponse.State)

	assert.Len(t, f.dispatcher.ofType(events.EventTicketCreated), 1)
}

func TestCreateTicketDefaultsPriority(t *testing.T) {
	f := newTicketFixture(t)
	customer := f.seedCustomer(t, true)

	view, err := f.svc.CreateTicket(context.Background(), tenantID, TicketCreateInput{
		CustomerID: customer.ID,
		Subject:    "no priority given",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TicketPriorityMedium, view.Ticket.Priority)
	// No config seeded: tracking is off, not an error.
	assert.Nil(t, view.Evaluation)
}

func TestCreateTicketRejectsInactiveCustomer(t *testing.T) {
	f := newTicketFixture(t)
	customer := f.seedCustomer(t, false)

	_, err := f.svc.CreateTicket(context.Background(), tenantID, TicketCreateInput{
		CustomerID: customer.ID,
		Subject:    "nope",
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestCreateTicketRejectsUnknownPriority(t *testing.T) {
	f := newTicketFixture(t)
	customer := f.seedCustomer(t, true)

	_, err := f.svc.CreateTicket(context.Background(), tenantID, TicketCreateInput{
		CustomerID: customer.ID,
		Subject:    "bad",
		Priority:   "URGENT",
	})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestRecordFirstResponseIsIdempotent(t *testing.T) {
	f := newTicketFixture(t)
	f.slaFix.seedConfig(t)
	customer := f.seedCustomer(t, true)

	created, err := f.svc.CreateTicket(context.Background(), tenantID, TicketCreateInput{
		CustomerID: customer.ID,
		Subject:    "vpn down",
		Priority:   domain.TicketPriorityHigh,
	})
	require.NoError(t, err)

	f.slaFix.clock = f.slaFix.clock.Add(10 * time.Minute)
	first, err := f.svc.RecordFirstResponse(context.Background(), tenantID, created.Ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, first.Ticket.FirstResponseAt)
	firstAt := *first.Ticket.FirstResponseAt

	// A later reply does not move the stamp.
	f.slaFix.clock = f.slaFix.clock.Add(30 * time.Minute)
	second, err := f.svc.RecordFirstResponse(context.Background(), tenantID, created.Ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, second.Ticket.FirstResponseAt)
	assert.True(t, firstAt.Equal(*second.Ticket.FirstResponseAt))

	assert.Len(t, f.dispatcher.ofType(events.EventTicketResponded), 1)
	assert.Equal(t, sla.StateMet, second.Evaluation.FirstResponse.State)
}

func TestResolveTicket(t *testing.T) {
	f := newTicketFixture(t)
	f.slaFix.seedConfig(t)
	customer := f.seedCustomer(t, true)

	created, err := f.svc.CreateTicket(context.Background(), tenantID, TicketCreateInput{
		CustomerID: customer.ID,
		Subject:    "vpn down",
		Priority:   domain.TicketPriorityHigh,
	})
	require.NoError(t, err)

	f.slaFix.clock = f.slaFix.clock.Add(2 * time.Hour)
	view, err := f.svc.ResolveTicket(context.Background(), tenantID, created.Ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, view.Ticket.Status)
	// Resolved within its 480-minute budget, but the response deadline was
	// missed along the way.
	assert.Equal(t, sla.StateMet, view.Evaluation.Resolution.State)
	assert.Equal(t, sla.StateBreached, view.Evaluation.FirstResponse.State)

	_, err = f.svc.ResolveTicket(context.Background(), tenantID, created.Ticket.ID)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestGetTicketNotFound(t *testing.T) {
	f := newTicketFixture(t)
	_, err := f.svc.GetTicket(context.Background(), tenantID, "missing")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}
