package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	"github.com/pedro17pedroo/tts-sub001/internal/events"
	"github.com/pedro17pedroo/tts-sub001/internal/repository"
)

// In-memory fakes mirroring the repository contracts, including the
// conditional-update semantics the services rely on.

type fakeSlaConfigRepo struct {
	mu      sync.Mutex
	seq     int
	configs map[string]*domain.SlaConfig
}

func newFakeSlaConfigRepo() *fakeSlaConfigRepo {
	return &fakeSlaConfigRepo{configs: map[string]*domain.SlaConfig{}}
}

func (r *fakeSlaConfigRepo) Create(ctx context.Context, cfg *domain.SlaConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cfg.ID = fmt.Sprintf("cfg-%d", r.seq)
	cfg.CreatedAt = time.Now()
	cfg.UpdatedAt = cfg.CreatedAt
	copied := *cfg
	r.configs[cfg.ID] = &copied
	return nil
}

func (r *fakeSlaConfigRepo) Update(ctx context.Context, cfg *domain.SlaConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.configs[cfg.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *cfg
	r.configs[cfg.ID] = &copied
	return nil
}

func (r *fakeSlaConfigRepo) Deactivate(ctx context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[id]
	if !ok || cfg.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	cfg.IsActive = false
	return nil
}

func (r *fakeSlaConfigRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.SlaConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[id]
	if !ok || cfg.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	copied := *cfg
	return &copied, nil
}

func (r *fakeSlaConfigRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.SlaConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.SlaConfig
	for _, cfg := range r.configs {
		if cfg.TenantID == tenantID {
			result = append(result, *cfg)
		}
	}
	return result, nil
}

func (r *fakeSlaConfigRepo) FindActive(ctx context.Context, tenantID string, priority domain.TicketPriority, categoryID *string) (*domain.SlaConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var fallback *domain.SlaConfig
	for _, cfg := range r.configs {
		if cfg.TenantID != tenantID || cfg.Priority != priority || !cfg.IsActive {
			continue
		}
		if cfg.CategoryID == nil {
			fallback = cfg
			continue
		}
		if categoryID != nil && *cfg.CategoryID == *categoryID {
			copied := *cfg
			return &copied, nil
		}
	}
	if fallback != nil {
		copied := *fallback
		return &copied, nil
	}
	return nil, nil
}

type fakeSlaAlertRepo struct {
	mu     sync.Mutex
	seq    int
	alerts map[string]*domain.SlaAlert
	byKey  map[string]string
}

func newFakeSlaAlertRepo() *fakeSlaAlertRepo {
	return &fakeSlaAlertRepo{alerts: map[string]*domain.SlaAlert{}, byKey: map[string]string{}}
}

func alertKey(ticketID string, alertType domain.SlaAlertType) string {
	return ticketID + "|" + string(alertType)
}

func (r *fakeSlaAlertRepo) CreateIfAbsent(ctx context.Context, alert *domain.SlaAlert) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := alertKey(alert.TicketID, alert.Type)
	if _, exists := r.byKey[key]; exists {
		return false, nil
	}
	r.seq++
	alert.ID = fmt.Sprintf("alert-%d", r.seq)
	alert.CreatedAt = time.Now()
	copied := *alert
	r.alerts[alert.ID] = &copied
	r.byKey[key] = alert.ID
	return true, nil
}

func (r *fakeSlaAlertRepo) Exists(ctx context.Context, ticketID string, alertType domain.SlaAlertType) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.byKey[alertKey(ticketID, alertType)]
	return exists, nil
}

func (r *fakeSlaAlertRepo) ListOpen(ctx context.Context, tenantID string) ([]domain.SlaAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.SlaAlert
	for _, alert := range r.alerts {
		if alert.TenantID == tenantID && alert.ResolvedAt == nil {
			result = append(result, *alert)
		}
	}
	return result, nil
}

func (r *fakeSlaAlertRepo) Resolve(ctx context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	alert, ok := r.alerts[id]
	if !ok || alert.TenantID != tenantID || alert.ResolvedAt != nil {
		return pgx.ErrNoRows
	}
	now := time.Now()
	alert.ResolvedAt = &now
	return nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	seq     int
	clock   func() time.Time
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{clock: time.Now, tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	ticket.ID = fmt.Sprintf("ticket-%d", r.seq)
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = r.clock()
	}
	ticket.UpdatedAt = ticket.CreatedAt
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ListWithFilter(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if ticket.TenantID != filter.TenantID {
			continue
		}
		if filter.OpenOnly && (ticket.Status == domain.TicketStatusResolved || ticket.Status == domain.TicketStatusClosed) {
			continue
		}
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.CreatedFrom != nil && ticket.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && ticket.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		result = append(result, *ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	if filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return nil, nil
		}
		result = result[filter.Offset:]
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeTicketRepo) MarkFirstResponse(ctx context.Context, tenantID, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.TenantID != tenantID || ticket.FirstResponseAt != nil {
		return nil
	}
	ticket.FirstResponseAt = &at
	ticket.Status = domain.TicketStatusInProgress
	return nil
}

func (r *fakeTicketRepo) MarkResolved(ctx context.Context, tenantID, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.TenantID != tenantID || ticket.ResolvedAt != nil {
		return pgx.ErrNoRows
	}
	ticket.ResolvedAt = &at
	ticket.Status = domain.TicketStatusResolved
	return nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	seq       int
	customers map[string]*domain.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]*domain.Customer{}}
}

func (r *fakeCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	customer.ID = fmt.Sprintf("cust-%d", r.seq)
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok || customer.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	copied := *customer
	return &copied, nil
}

func (r *fakeCustomerRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Customer
	for _, customer := range r.customers {
		if customer.TenantID == tenantID {
			result = append(result, *customer)
		}
	}
	return result, nil
}

func (r *fakeCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.customers[customer.ID]
	if !ok || existing.TenantID != customer.TenantID {
		return pgx.ErrNoRows
	}
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

type fakeHourBankRepo struct {
	mu    sync.Mutex
	seq   int
	banks map[string]*domain.HourBank
}

func newFakeHourBankRepo() *fakeHourBankRepo {
	return &fakeHourBankRepo{banks: map[string]*domain.HourBank{}}
}

func (r *fakeHourBankRepo) Create(ctx context.Context, bank *domain.HourBank) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	bank.ID = fmt.Sprintf("bank-%d", r.seq)
	bank.CreatedAt = time.Now()
	bank.UpdatedAt = bank.CreatedAt
	copied := *bank
	r.banks[bank.ID] = &copied
	return nil
}

func (r *fakeHourBankRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.HourBank, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bank, ok := r.banks[id]
	if !ok || bank.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	copied := *bank
	return &copied, nil
}

func (r *fakeHourBankRepo) ListByTenant(ctx context.Context, tenantID string, customerID *string) ([]domain.HourBank, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.HourBank
	for _, bank := range r.banks {
		if bank.TenantID != tenantID {
			continue
		}
		if customerID != nil && bank.CustomerID != *customerID {
			continue
		}
		result = append(result, *bank)
	}
	return result, nil
}

func (r *fakeHourBankRepo) debit(tenantID, id string, hours float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bank, ok := r.banks[id]
	if !ok || bank.TenantID != tenantID {
		return pgx.ErrNoRows
	}
	bank.ConsumedHours += hours
	return nil
}

// fakeTimeEntryRepo debits the bank together with the write that completes
// an entry, mirroring the single-transaction contract of the real
// repository. stopErr injects a failure into Stop before anything changes.
type fakeTimeEntryRepo struct {
	mu      sync.Mutex
	seq     int
	banks   *fakeHourBankRepo
	stopErr error
	entries map[string]*domain.TimeEntry
}

func newFakeTimeEntryRepo(banks *fakeHourBankRepo) *fakeTimeEntryRepo {
	return &fakeTimeEntryRepo{banks: banks, entries: map[string]*domain.TimeEntry{}}
}

func (r *fakeTimeEntryRepo) Create(ctx context.Context, entry *domain.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.EndTime != nil && entry.HourBankID != nil {
		if err := r.banks.debit(entry.TenantID, *entry.HourBankID, entry.DurationHours); err != nil {
			return err
		}
	}
	r.seq++
	entry.ID = fmt.Sprintf("entry-%d", r.seq)
	entry.CreatedAt = time.Now()
	copied := *entry
	r.entries[entry.ID] = &copied
	return nil
}

func (r *fakeTimeEntryRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok || entry.TenantID != tenantID {
		return nil, pgx.ErrNoRows
	}
	copied := *entry
	return &copied, nil
}

func (r *fakeTimeEntryRepo) ListByTicket(ctx context.Context, tenantID, ticketID string) ([]domain.TimeEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TimeEntry
	for _, entry := range r.entries {
		if entry.TenantID == tenantID && entry.TicketID == ticketID {
			result = append(result, *entry)
		}
	}
	return result, nil
}

func (r *fakeTimeEntryRepo) Stop(ctx context.Context, tenantID, id string, endTime time.Time, durationHours float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopErr != nil {
		return r.stopErr
	}
	entry, ok := r.entries[id]
	if !ok || entry.TenantID != tenantID || entry.EndTime != nil {
		return pgx.ErrNoRows
	}
	if entry.HourBankID != nil {
		if err := r.banks.debit(tenantID, *entry.HourBankID, durationHours); err != nil {
			return err
		}
	}
	entry.EndTime = &endTime
	entry.DurationHours = durationHours
	return nil
}

type capturingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *capturingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func (d *capturingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) ofType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var result []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
