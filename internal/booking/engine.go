// Package booking implements the availability computation and conflict-free
// booking engine. Availability listing is a cheap, lock-free projection that
// may go stale; correctness is enforced once, on the commit path, by
// re-validating inside the store's transactional unit of work.
package booking

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/barberbook/barberbook/internal/availability"
)

// DefaultSlotStep is the slot granularity offered to clients, independent of
// the duration of the service they eventually pick. A listed slot is an
// invitation to attempt booking, not a guarantee: longer services are
// re-checked precisely at commit time.
const DefaultSlotStep = 30

type Engine struct {
	shifts   ShiftStore
	appts    AppointmentStore
	catalog  CatalogStore
	logger   *slog.Logger
	slotStep int
}

func NewEngine(shifts ShiftStore, appts AppointmentStore, catalog CatalogStore, logger *slog.Logger) *Engine {
	return &Engine{
		shifts:   shifts,
		appts:    appts,
		catalog:  catalog,
		logger:   logger,
		slotStep: DefaultSlotStep,
	}
}

// GetAvailability returns the free slots for a barber on a calendar date,
// in ascending time order. An empty result means the barber does not work
// that weekday or every slot is taken; store failures are returned as
// errors, never as an empty list.
func (e *Engine) GetAvailability(ctx context.Context, barberID, dateISO string) ([]availability.Slot, error) {
	date, err := ParseDate(dateISO)
	if err != nil {
		return nil, err
	}
	weekday := int(date.Weekday())

	shifts, err := e.shifts.ListByBarberAndWeekday(ctx, barberID, weekday)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	if len(shifts) == 0 {
		return []availability.Slot{}, nil
	}

	busy, err := e.appts.ListActiveByBarberAndDate(ctx, barberID, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	slots := []availability.Slot{}
	for _, s := range shifts {
		for _, m := range availability.SlotStarts(s.StartMin, s.EndMin, e.slotStep) {
			if availability.OverlapsAny(m, e.slotStep, busy) {
				continue
			}
			slots = append(slots, availability.Slot{StartMin: m, Label: availability.Clock(m)})
		}
	}
	return slots, nil
}

type CreateInput struct {
	UserID    string
	BarberID  string
	ServiceID string
	DateISO   string
	StartMin  int
}

// CreateAppointment books a slot. Barber and service must exist and be
// active; the overlap check runs against the active appointments re-read
// inside the same transaction as the insert, so two concurrent requests for
// overlapping slots cannot both commit.
func (e *Engine) CreateAppointment(ctx context.Context, in CreateInput) (string, error) {
	barber, ok, err := e.catalog.GetBarber(ctx, in.BarberID)
	if err != nil {
		return "", fmt.Errorf("get barber: %w", err)
	}
	if !ok || !barber.Active {
		return "", ErrBarberNotFound
	}

	service, ok, err := e.catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		return "", fmt.Errorf("get service: %w", err)
	}
	if !ok || !service.Active {
		return "", ErrServiceNotFound
	}

	date, err := ParseDate(in.DateISO)
	if err != nil {
		return "", err
	}

	appt := &Appointment{
		UserID:          in.UserID,
		BarberID:        in.BarberID,
		ServiceID:       in.ServiceID,
		Date:            date,
		StartMin:        in.StartMin,
		DurationMin:     service.DurationMin,
		TotalPriceCents: service.PriceCents,
		Status:          StatusScheduled,
	}

	id, err := e.appts.CreateScheduled(ctx, appt, func(existing []availability.Busy) error {
		if availability.OverlapsAny(in.StartMin, service.DurationMin, existing) {
			return ErrSlotUnavailable
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	e.logger.Info("appointment scheduled",
		"appointment_id", id,
		"barber_id", in.BarberID,
		"date", in.DateISO,
		"start_min", in.StartMin,
	)
	return id, nil
}

// CancelAppointment cancels the user's own scheduled appointment. Not-found,
// already-canceled, and not-owned all surface as the same failure.
func (e *Engine) CancelAppointment(ctx context.Context, userID, appointmentID string) error {
	n, err := e.appts.Cancel(ctx, appointmentID, userID)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	if n == 0 {
		return ErrNotFoundOrAlreadyCanceled
	}
	e.logger.Info("appointment canceled", "appointment_id", appointmentID)
	return nil
}

func (e *Engine) ListForUser(ctx context.Context, userID string) ([]Summary, error) {
	items, err := e.appts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if items == nil {
		items = []Summary{}
	}
	return items, nil
}
