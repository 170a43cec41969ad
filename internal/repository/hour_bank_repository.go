package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// HourBankRepository encapsulates hour-bank persistence. consumed_hours is
// never mutated through this interface: debits run inside the time-entry
// repository, in the transaction that completes the entry.
type HourBankRepository interface {
	Create(ctx context.Context, bank *domain.HourBank) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.HourBank, error)
	ListByTenant(ctx context.Context, tenantID string, customerID *string) ([]domain.HourBank, error)
}

type hourBankRepository struct {
	pool *pgxpool.Pool
}

// NewHourBankRepository returns a Postgres-backed implementation.
func NewHourBankRepository(pool *pgxpool.Pool) HourBankRepository {
	return &hourBankRepository{pool: pool}
}

const hourBankColumns = `
        id, tenant_id, customer_id, name, total_hours, consumed_hours, hourly_rate,
        expires_at, is_active, created_at, updated_at`

func (r *hourBankRepository) Create(ctx context.Context, bank *domain.HourBank) error {
	const query = `
        INSERT INTO hour_banks (tenant_id, customer_id, name, total_hours, consumed_hours,
            hourly_rate, expires_at, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		bank.TenantID,
		bank.CustomerID,
		bank.Name,
		bank.TotalHours,
		bank.ConsumedHours,
		bank.HourlyRate,
		bank.ExpiresAt,
		bank.IsActive,
	).Scan(&bank.ID, &bank.CreatedAt, &bank.UpdatedAt)
}

func (r *hourBankRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.HourBank, error) {
	query := `SELECT` + hourBankColumns + ` FROM hour_banks WHERE id=$1 AND tenant_id=$2`

	var bank domain.HourBank
	if err := scanHourBank(r.pool.QueryRow(ctx, query, id, tenantID), &bank); err != nil {
		return nil, err
	}
	return &bank, nil
}

func (r *hourBankRepository) ListByTenant(ctx context.Context, tenantID string, customerID *string) ([]domain.HourBank, error) {
	query := `SELECT` + hourBankColumns + ` FROM hour_banks WHERE tenant_id=$1`
	args := []any{tenantID}
	if customerID != nil {
		query += ` AND customer_id=$2`
		args = append(args, *customerID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HourBank
	for rows.Next() {
		var bank domain.HourBank
		if err := scanHourBank(rows, &bank); err != nil {
			return nil, err
		}
		result = append(result, bank)
	}
	return result, rows.Err()
}

// debitHourBank increments consumed_hours atomically. The relative update
// relies on row-level locking instead of an application-side
// read-modify-write, so concurrent timer-stops against the same bank cannot
// lose increments. It runs against the pool or an open transaction alike.
func debitHourBank(ctx context.Context, db dbtx, tenantID, id string, hours float64) error {
	const query = `
        UPDATE hour_banks SET consumed_hours = consumed_hours + $1, updated_at=NOW()
        WHERE id=$2 AND tenant_id=$3`

	cmd, err := db.Exec(ctx, query, hours, id, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanHourBank(row pgx.Row, bank *domain.HourBank) error {
	return row.Scan(
		&bank.ID,
		&bank.TenantID,
		&bank.CustomerID,
		&bank.Name,
		&bank.TotalHours,
		&bank.ConsumedHours,
		&bank.HourlyRate,
		&bank.ExpiresAt,
		&bank.IsActive,
		&bank.CreatedAt,
		&bank.UpdatedAt,
	)
}
