package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
	apperrors "github.com/pedro17pedroo/tts-sub001/pkg/util"
)

// SlaConfigRepository encapsulates SLA configuration persistence.
// FindActive returns (nil, nil) when no config applies: SLA tracking is off
// for such tickets and callers must treat that as a valid terminal outcome,
// not an error.
type SlaConfigRepository interface {
	Create(ctx context.Context, cfg *domain.SlaConfig) error
	Update(ctx context.Context, cfg *domain.SlaConfig) error
	Deactivate(ctx context.Context, tenantID, id string) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.SlaConfig, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.SlaConfig, error)
	FindActive(ctx context.Context, tenantID string, priority domain.TicketPriority, categoryID *string) (*domain.SlaConfig, error)
}

type slaConfigRepository struct {
	pool *pgxpool.Pool
}

// NewSlaConfigRepository returns a Postgres-backed implementation.
func NewSlaConfigRepository(pool *pgxpool.Pool) SlaConfigRepository {
	return &slaConfigRepository{pool: pool}
}

const slaConfigColumns = `
        id, tenant_id, priority, category_id, first_response_minutes, resolution_minutes,
        business_hours_start, business_hours_end, business_days, timezone, is_active,
        created_at, updated_at`

func (r *slaConfigRepository) Create(ctx context.Context, cfg *domain.SlaConfig) error {
	const query = `
        INSERT INTO sla_configs (tenant_id, priority, category_id, first_response_minutes,
            resolution_minutes, business_hours_start, business_hours_end, business_days,
            timezone, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		cfg.TenantID,
		cfg.Priority,
		cfg.CategoryID,
		cfg.FirstResponseMinutes,
		cfg.ResolutionMinutes,
		cfg.BusinessHoursStart,
		cfg.BusinessHoursEnd,
		cfg.BusinessDays,
		cfg.Timezone,
		cfg.IsActive,
	).Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	return slaConfigWriteError(err)
}

func (r *slaConfigRepository) Update(ctx context.Context, cfg *domain.SlaConfig) error {
	const query = `
        UPDATE sla_configs SET first_response_minutes=$1, resolution_minutes=$2,
            business_hours_start=$3, business_hours_end=$4, business_days=$5,
            timezone=$6, is_active=$7, updated_at=NOW()
        WHERE id=$8 AND tenant_id=$9`

	cmd, err := r.pool.Exec(ctx, query,
		cfg.FirstResponseMinutes,
		cfg.ResolutionMinutes,
		cfg.BusinessHoursStart,
		cfg.BusinessHoursEnd,
		cfg.BusinessDays,
		cfg.Timezone,
		cfg.IsActive,
		cfg.ID,
		cfg.TenantID,
	)
	if err != nil {
		return slaConfigWriteError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// slaConfigWriteError maps a lost race on the one-active-config unique index
// to the same CONFLICT the service reports when it sees the duplicate first.
func slaConfigWriteError(err error) error {
	if isUniqueViolation(err) {
		return apperrors.NewConflict("an active SLA config already exists for this priority and category", nil)
	}
	return err
}

// Deactivate soft-deletes a config. Configs are never hard-deleted so
// historical evaluations stay explainable.
func (r *slaConfigRepository) Deactivate(ctx context.Context, tenantID, id string) error {
	const query = `
        UPDATE sla_configs SET is_active=FALSE, updated_at=NOW()
        WHERE id=$1 AND tenant_id=$2`

	cmd, err := r.pool.Exec(ctx, query, id, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *slaConfigRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.SlaConfig, error) {
	query := `SELECT` + slaConfigColumns + ` FROM sla_configs WHERE id=$1 AND tenant_id=$2`
	return r.fetchSingle(ctx, query, id, tenantID)
}

func (r *slaConfigRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.SlaConfig, error) {
	query := `SELECT` + slaConfigColumns + ` FROM sla_configs WHERE tenant_id=$1 ORDER BY priority, created_at`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SlaConfig
	for rows.Next() {
		cfg, err := scanSlaConfig(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *cfg)
	}
	return result, rows.Err()
}

// FindActive resolves the governing config for a ticket. A category-specific
// config wins over a priority-only one; ordering by category_id NULLS LAST
// makes the first row the most specific match.
func (r *slaConfigRepository) FindActive(ctx context.Context, tenantID string, priority domain.TicketPriority, categoryID *string) (*domain.SlaConfig, error) {
	query := `SELECT` + slaConfigColumns + `
        FROM sla_configs
        WHERE tenant_id=$1 AND priority=$2 AND is_active=TRUE
          AND (category_id IS NULL OR category_id=$3)
        ORDER BY category_id NULLS LAST
        LIMIT 1`

	cfg, err := r.fetchSingle(ctx, query, tenantID, priority, categoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return cfg, err
}

func (r *slaConfigRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.SlaConfig, error) {
	return scanSlaConfig(r.pool.QueryRow(ctx, query, args...))
}

func scanSlaConfig(row pgx.Row) (*domain.SlaConfig, error) {
	var cfg domain.SlaConfig
	if err := row.Scan(
		&cfg.ID,
		&cfg.TenantID,
		&cfg.Priority,
		&cfg.CategoryID,
		&cfg.FirstResponseMinutes,
		&cfg.ResolutionMinutes,
		&cfg.BusinessHoursStart,
		&cfg.BusinessHoursEnd,
		&cfg.BusinessDays,
		&cfg.Timezone,
		&cfg.IsActive,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cfg, nil
}
