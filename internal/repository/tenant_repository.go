package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// TenantRepository defines persistence access for tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository returns a Postgres-backed implementation.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	const query = `
        INSERT INTO tenants (name, slug, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		tenant.Name,
		tenant.Slug,
		tenant.IsActive,
	).Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	const query = `
        SELECT id, name, slug, is_active, created_at, updated_at
        FROM tenants WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *tenantRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	const query = `
        SELECT id, name, slug, is_active, created_at, updated_at
        FROM tenants WHERE slug=$1`
	return r.fetchSingle(ctx, query, slug)
}

func (r *tenantRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Slug,
		&tenant.IsActive,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tenant, nil
}
