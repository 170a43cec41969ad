package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro17pedroo/tts-sub001/internal/domain"
)

// TimeEntryRepository encapsulates time-entry persistence. An entry and the
// bank debit it causes always commit together: Create debits for completed
// manual entries, Stop debits when it closes a timer.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.TimeEntry) error
	GetByID(ctx context.Context, tenantID, id string) (*domain.TimeEntry, error)
	ListByTicket(ctx context.Context, tenantID, ticketID string) ([]domain.TimeEntry, error)
	// Stop closes a running entry. Stopping an already-stopped entry
	// returns pgx.ErrNoRows; entries are immutable once closed.
	Stop(ctx context.Context, tenantID, id string, endTime time.Time, durationHours float64) error
}

type timeEntryRepository struct {
	pool *pgxpool.Pool
}

// NewTimeEntryRepository returns a Postgres-backed implementation.
func NewTimeEntryRepository(pool *pgxpool.Pool) TimeEntryRepository {
	return &timeEntryRepository{pool: pool}
}

const timeEntryColumns = `
        id, tenant_id, ticket_id, user_id, hour_bank_id, start_time, end_time,
        duration_hours, description, created_at`

// Create persists an entry. A completed manual entry attributed to a bank
// debits it in the same transaction, so the entry and the hours it consumed
// never diverge.
func (r *timeEntryRepository) Create(ctx context.Context, entry *domain.TimeEntry) error {
	if entry.EndTime == nil || entry.HourBankID == nil {
		return insertTimeEntry(ctx, r.pool, entry)
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := insertTimeEntry(ctx, tx, entry); err != nil {
			return err
		}
		return debitHourBank(ctx, tx, entry.TenantID, *entry.HourBankID, entry.DurationHours)
	})
}

func insertTimeEntry(ctx context.Context, db dbtx, entry *domain.TimeEntry) error {
	const query = `
        INSERT INTO time_entries (tenant_id, ticket_id, user_id, hour_bank_id, start_time,
            end_time, duration_hours, description)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`

	return db.QueryRow(ctx, query,
		entry.TenantID,
		entry.TicketID,
		entry.UserID,
		entry.HourBankID,
		entry.StartTime,
		entry.EndTime,
		entry.DurationHours,
		entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *timeEntryRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.TimeEntry, error) {
	query := `SELECT` + timeEntryColumns + ` FROM time_entries WHERE id=$1 AND tenant_id=$2`

	var entry domain.TimeEntry
	if err := scanTimeEntry(r.pool.QueryRow(ctx, query, id, tenantID), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *timeEntryRepository) ListByTicket(ctx context.Context, tenantID, ticketID string) ([]domain.TimeEntry, error) {
	query := `SELECT` + timeEntryColumns + `
        FROM time_entries WHERE tenant_id=$1 AND ticket_id=$2
        ORDER BY start_time`

	rows, err := r.pool.Query(ctx, query, tenantID, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TimeEntry
	for rows.Next() {
		var entry domain.TimeEntry
		if err := scanTimeEntry(rows, &entry); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

// Stop closes the entry and debits its bank inside one transaction: a
// failure on either side leaves both rows untouched, so a stopped entry can
// never exist without its debit.
func (r *timeEntryRepository) Stop(ctx context.Context, tenantID, id string, endTime time.Time, durationHours float64) error {
	const query = `
        UPDATE time_entries SET end_time=$1, duration_hours=$2
        WHERE id=$3 AND tenant_id=$4 AND end_time IS NULL
        RETURNING hour_bank_id`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var bankID *string
		if err := tx.QueryRow(ctx, query, endTime, durationHours, id, tenantID).Scan(&bankID); err != nil {
			return err
		}
		if bankID == nil {
			return nil
		}
		return debitHourBank(ctx, tx, tenantID, *bankID, durationHours)
	})
}

func scanTimeEntry(row pgx.Row, entry *domain.TimeEntry) error {
	return row.Scan(
		&entry.ID,
		&entry.TenantID,
		&entry.TicketID,
		&entry.UserID,
		&entry.HourBankID,
		&entry.StartTime,
		&entry.EndTime,
		&entry.DurationHours,
		&entry.Description,
		&entry.CreatedAt,
	)
}
