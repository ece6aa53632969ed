package storage

import (
	"context"

	"github.com/barberbook/barberbook/internal/booking"
	"github.com/barberbook/barberbook/libs/db"
)

// ShiftRepository implements booking.ShiftStore on Postgres.
type ShiftRepository struct {
	pool *db.Pool
}

func NewShiftRepository(pool *db.Pool) *ShiftRepository {
	return &ShiftRepository{pool: pool}
}

// ReplaceAll deletes and reinserts the barber's shifts in one transaction,
// so readers see either the old set or the new set, never a mix.
func (r *ShiftRepository) ReplaceAll(ctx context.Context, barberID string, shifts []booking.Shift) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		DELETE FROM work_shifts WHERE barber_id::text = $1
	`, barberID); err != nil {
		return err
	}
	for _, s := range shifts {
		if _, err := tx.Exec(ctx, `
			INSERT INTO work_shifts (barber_id, weekday, start_min, end_min)
			VALUES ($1, $2, $3, $4)
		`, barberID, s.Weekday, s.StartMin, s.EndMin); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *ShiftRepository) ListByBarberAndWeekday(ctx context.Context, barberID string, weekday int) ([]booking.Shift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT weekday, start_min, end_min
		FROM work_shifts
		WHERE barber_id::text = $1 AND weekday = $2
		ORDER BY start_min ASC
	`, barberID, weekday)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

func (r *ShiftRepository) ListByBarber(ctx context.Context, barberID string) ([]booking.Shift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT weekday, start_min, end_min
		FROM work_shifts
		WHERE barber_id::text = $1
		ORDER BY weekday ASC, start_min ASC
	`, barberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanShifts(rows)
}

func scanShifts(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]booking.Shift, error) {
	var shifts []booking.Shift
	for rows.Next() {
		var s booking.Shift
		if err := rows.Scan(&s.Weekday, &s.StartMin, &s.EndMin); err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return shifts, nil
}
