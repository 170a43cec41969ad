package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// SlaAlertRepository encapsulates alert persistence. CreateIfAbsent is the
// only insert path; the (ticket_id, type) uniqueness it relies on lives in
// the schema, so two concurrent classifications of the same ticket cannot
// record the same alert twice.
type SlaAlertRepository interface {
	// CreateIfAbsent inserts the alert unless one with the same ticket and
	// type exists. Returns true when a row was actually created.
	CreateIfAbsent(ctx context.Context, alert *domain.SlaAlert) (bool, error)
	Exists(ctx context.Context, ticketID string, alertType domain.SlaAlertType) (bool, error)
	ListOpen(ctx context.Context, tenantID string) ([]domain.SlaAlert, error)
	Resolve(ctx context.Context, tenantID, id string) error
}

type slaAlertRepository struct {
	pool *pgxpool.Pool
}

// NewSlaAlertRepository returns a Postgres-backed implementation.
func NewSlaAlertRepository(pool *pgxpool.Pool) SlaAlertRepository {
	return &slaAlertRepository{pool: pool}
}

func (r *slaAlertRepository) CreateIfAbsent(ctx context.Context, alert *domain.SlaAlert) (bool, error) {
	const query = `
        INSERT INTO sla_alerts (tenant_id, ticket_id, type, severity, message)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (ticket_id, type) DO NOTHING
        RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		alert.TenantID,
		alert.TicketID,
		alert.Type,
		alert.Severity,
		alert.Message,
	).Scan(&alert.ID, &alert.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict: the alert was already recorded. Treated as success.
		return false, nil
	}
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *slaAlertRepository) Exists(ctx context.Context, ticketID string, alertType domain.SlaAlertType) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM sla_alerts WHERE ticket_id=$1 AND type=$2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, ticketID, alertType).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *slaAlertRepository) ListOpen(ctx context.Context, tenantID string) ([]domain.SlaAlert, error) {
	const query = `
        SELECT id, tenant_id, ticket_id, type, severity, message, resolved_at, created_at
        FROM sla_alerts
        WHERE tenant_id=$1 AND resolved_at IS NULL
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SlaAlert
	for rows.Next() {
		var alert domain.SlaAlert
		if err := rows.Scan(
			&alert.ID,
			&alert.TenantID,
			&alert.TicketID,
			&alert.Type,
			&alert.Severity,
			&alert.Message,
			&alert.ResolvedAt,
			&alert.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, alert)
	}
	return result, rows.Err()
}

func (r *slaAlertRepository) Resolve(ctx context.Context, tenantID, id string) error {
	const query = `
        UPDATE sla_alerts SET resolved_at=NOW()
        WHERE id=$1 AND tenant_id=$2 AND resolved_at IS NULL`

	cmd, err := r.pool.Exec(ctx, query, id, tenantID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
