package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/barberbook/barberbook/internal/availability"
	"github.com/barberbook/barberbook/internal/booking"
	"github.com/barberbook/barberbook/internal/outbox"
	"github.com/barberbook/barberbook/libs/db"
)

// AppointmentRepository implements booking.AppointmentStore on Postgres.
// The appointments table carries an exclusion constraint over
// (barber_id, date, [start_min, start_min+duration_min)) for scheduled rows,
// so even if two transactions slip past the in-transaction overlap check,
// at most one insert can commit.
type AppointmentRepository struct {
	pool   *db.Pool
	outbox *outbox.Repository
}

func NewAppointmentRepository(pool *db.Pool, outboxRepo *outbox.Repository) *AppointmentRepository {
	return &AppointmentRepository{pool: pool, outbox: outboxRepo}
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func listActive(ctx context.Context, q querier, barberID string, date time.Time, lock bool) ([]availability.Busy, error) {
	query := `
		SELECT start_min, duration_min
		FROM appointments
		WHERE barber_id::text = $1
			AND date = $2
			AND status = 'scheduled'
		ORDER BY start_min ASC`
	if lock {
		query += `
		FOR UPDATE`
	}
	rows, err := q.Query(ctx, query, barberID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var busy []availability.Busy
	for rows.Next() {
		var b availability.Busy
		if err := rows.Scan(&b.StartMin, &b.DurationMin); err != nil {
			return nil, err
		}
		busy = append(busy, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return busy, nil
}

func (r *AppointmentRepository) ListActiveByBarberAndDate(ctx context.Context, barberID string, date time.Time) ([]availability.Busy, error) {
	return listActive(ctx, r.pool, barberID, date, false)
}

// CreateScheduled re-reads the day's scheduled appointments with row locks,
// runs the caller's overlap validation, and inserts, all in one transaction.
func (r *AppointmentRepository) CreateScheduled(ctx context.Context, appt *booking.Appointment, validate func(existing []availability.Busy) error) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	existing, err := listActive(ctx, tx, appt.BarberID, appt.Date, true)
	if err != nil {
		return "", err
	}
	if err := validate(existing); err != nil {
		return "", err
	}

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO appointments
			(user_id, barber_id, service_id, date, start_min, duration_min, total_price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text
	`, appt.UserID, appt.BarberID, appt.ServiceID, appt.Date,
		appt.StartMin, appt.DurationMin, appt.TotalPriceCents, string(appt.Status)).Scan(&id)
	if err != nil {
		if isExclusionViolation(err) {
			return "", booking.ErrSlotUnavailable
		}
		return "", err
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id":    id,
		"user_id":           appt.UserID,
		"barber_id":         appt.BarberID,
		"service_id":        appt.ServiceID,
		"date":              booking.FormatDate(appt.Date),
		"start_min":         appt.StartMin,
		"duration_min":      appt.DurationMin,
		"total_price_cents": appt.TotalPriceCents,
	})
	if err != nil {
		return "", err
	}
	if err := r.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   id,
		EventType:     outbox.EventAppointmentScheduled,
		Payload:       payload,
	}); err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		if isExclusionViolation(err) {
			return "", booking.ErrSlotUnavailable
		}
		return "", err
	}
	return id, nil
}

// Cancel flips a scheduled appointment owned by the user to canceled.
// Returns 0 rows for anything else without distinguishing why.
func (r *AppointmentRepository) Cancel(ctx context.Context, appointmentID, userID string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		id         string
		barberID   string
		serviceID  string
		date       time.Time
		startMin   int
		canceledAt time.Time
	)
	err = tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'canceled',
			canceled_at = now()
		WHERE id::text = $1
			AND user_id::text = $2
			AND status = 'scheduled'
		RETURNING id::text, barber_id::text, service_id::text, date, start_min, canceled_at
	`, appointmentID, userID).Scan(&id, &barberID, &serviceID, &date, &startMin, &canceledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}

	payload, err := json.Marshal(map[string]any{
		"appointment_id": id,
		"user_id":        userID,
		"barber_id":      barberID,
		"service_id":     serviceID,
		"date":           booking.FormatDate(date),
		"start_min":      startMin,
		"canceled_at":    canceledAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, err
	}
	if err := r.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "appointment",
		AggregateID:   id,
		EventType:     outbox.EventAppointmentCanceled,
		Payload:       payload,
	}); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}

func (r *AppointmentRepository) ListByUser(ctx context.Context, userID string) ([]booking.Summary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id::text, to_char(a.date, 'YYYY-MM-DD'), a.start_min, a.duration_min,
			a.status, b.name, s.name, a.total_price_cents
		FROM appointments a
		JOIN barbers b ON b.id = a.barber_id
		JOIN services s ON s.id = a.service_id
		WHERE a.user_id::text = $1
		ORDER BY a.date DESC, a.start_min DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []booking.Summary
	for rows.Next() {
		var it booking.Summary
		if err := rows.Scan(&it.ID, &it.Date, &it.StartMin, &it.DurationMin,
			&it.Status, &it.BarberName, &it.ServiceName, &it.TotalPriceCents); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}
