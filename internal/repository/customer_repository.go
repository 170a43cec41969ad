package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository returns a Postgres-backed implementation.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (tenant_id, name, email, phone, is_active)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		customer.TenantID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.IsActive,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
}

func (r *customerRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Customer, error) {
	const query = `
        SELECT id, tenant_id, name, email, phone, is_active, created_at, updated_at
        FROM customers WHERE id=$1 AND tenant_id=$2`

	var customer domain.Customer
	if err := scanCustomer(r.pool.QueryRow(ctx, query, id, tenantID), &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	const query = `
        SELECT id, tenant_id, name, email, phone, is_active, created_at, updated_at
        FROM customers WHERE tenant_id=$1 ORDER BY name`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := scanCustomer(rows, &customer); err != nil {
			return nil, err
		}
		result = append(result, customer)
	}
	return result, rows.Err()
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers
        SET name=$3, email=$4, phone=$5, is_active=$6, updated_at=NOW()
        WHERE id=$1 AND tenant_id=$2
        RETURNING updated_at`

	return r.pool.QueryRow(ctx, query,
		customer.ID,
		customer.TenantID,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.IsActive,
	).Scan(&customer.UpdatedAt)
}

func scanCustomer(row pgx.Row, customer *domain.Customer) error {
	return row.Scan(
		&customer.ID,
		&customer.TenantID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.IsActive,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
}
