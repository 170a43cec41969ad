package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	"github.com/pedro17pedroo/tts-sub001/internal/repository"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

// CustomerService manages the customer registry tickets and hour banks
// hang off.
type CustomerService struct {
	customers repository.CustomerRepository
}

// CustomerInput describes customer creation payload.
type CustomerInput struct {
	Name  string
	Email string
	Phone *string
}

// CustomerUpdate describes a partial customer update.
type CustomerUpdate struct {
	Name     *string
	Email    *string
	Phone    *string
	IsActive *bool
}

// NewCustomerService constructs the service.
func NewCustomerService(customers repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// Create persists a new active customer.
func (s *CustomerService) Create(ctx context.Context, tenantID string, input CustomerInput) (*domain.Customer, error) {
	customer := &domain.Customer{
		TenantID: tenantID,
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:    input.Phone,
		IsActive: true,
	}
	if customer.Name == "" || customer.Email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Get returns one customer.
func (s *CustomerService) Get(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"id": id})
		}
		return nil, err
	}
	return customer, nil
}

// List returns the tenant's customers.
func (s *CustomerService) List(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	return s.customers.ListByTenant(ctx, tenantID)
}

// Update applies a partial update. Deactivating a customer leaves existing
// tickets and banks intact; only new ticket creation is blocked.
func (s *CustomerService) Update(ctx context.Context, tenantID, id string, update CustomerUpdate) (*domain.Customer, error) {
	customer, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		customer.Name = strings.TrimSpace(*update.Name)
	}
	if update.Email != nil {
		customer.Email = strings.ToLower(strings.TrimSpace(*update.Email))
	}
	if update.Phone != nil {
		customer.Phone = update.Phone
	}
	if update.IsActive != nil {
		customer.IsActive = *update.IsActive
	}
	if customer.Name == "" || customer.Email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}
