package booking

import (
	"context"
	"time"

	"github.com/barberbook/barberbook/internal/availability"
)

// ShiftStore owns a barber's recurring weekly availability windows.
type ShiftStore interface {
	// ReplaceAll atomically discards every shift for the barber and inserts
	// the given set. Readers never observe a partial replacement.
	ReplaceAll(ctx context.Context, barberID string, shifts []Shift) error

	// ListByBarberAndWeekday returns the barber's shifts for one weekday,
	// ordered by start minute ascending.
	ListByBarberAndWeekday(ctx context.Context, barberID string, weekday int) ([]Shift, error)

	// ListByBarber returns all shifts ordered by weekday, then start minute.
	ListByBarber(ctx context.Context, barberID string) ([]Shift, error)
}

// AppointmentStore owns committed appointments.
type AppointmentStore interface {
	// ListActiveByBarberAndDate returns the occupied intervals of scheduled
	// appointments for the barber on the given date.
	ListActiveByBarberAndDate(ctx context.Context, barberID string, date time.Time) ([]availability.Busy, error)

	// CreateScheduled runs one atomic unit of work: re-read the active
	// appointments for (appt.BarberID, appt.Date) inside the transaction,
	// hand them to validate, and insert only if validate returns nil. Any
	// error rolls the transaction back.
	CreateScheduled(ctx context.Context, appt *Appointment, validate func(existing []availability.Busy) error) (string, error)

	// Cancel marks the appointment canceled only when the id, owning user,
	// and scheduled status all match, returning the number of rows changed.
	Cancel(ctx context.Context, appointmentID, userID string) (int64, error)

	ListByUser(ctx context.Context, userID string) ([]Summary, error)
}

// CatalogStore resolves the weak references a booking carries. The engine
// only checks existence and the active flag; it never mutates the catalog.
type CatalogStore interface {
	GetBarber(ctx context.Context, id string) (Barber, bool, error)
	GetService(ctx context.Context, id string) (Service, bool, error)
}
