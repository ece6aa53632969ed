package booking

import (
	"context"
	"fmt"
	"sort"
)

const minutesPerDay = 1440

// ReplaceShifts atomically swaps a barber's weekly shift set for the given
// one. The whole set is validated first; on any failure nothing is written
// and the prior shifts stay visible. Returns the committed shifts ordered
// by weekday, then start minute.
func (e *Engine) ReplaceShifts(ctx context.Context, barberID string, shifts []Shift) ([]Shift, error) {
	barber, ok, err := e.catalog.GetBarber(ctx, barberID)
	if err != nil {
		return nil, fmt.Errorf("get barber: %w", err)
	}
	if !ok || !barber.Active {
		return nil, ErrBarberNotFound
	}

	if err := validateShiftSet(shifts); err != nil {
		return nil, err
	}

	if err := e.shifts.ReplaceAll(ctx, barberID, shifts); err != nil {
		return nil, fmt.Errorf("replace shifts: %w", err)
	}

	committed, err := e.shifts.ListByBarber(ctx, barberID)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	e.logger.Info("shifts replaced", "barber_id", barberID, "count", len(committed))
	return committed, nil
}

func (e *Engine) ListShifts(ctx context.Context, barberID string) ([]Shift, error) {
	shifts, err := e.shifts.ListByBarber(ctx, barberID)
	if err != nil {
		return nil, fmt.Errorf("list shifts: %w", err)
	}
	if shifts == nil {
		shifts = []Shift{}
	}
	return shifts, nil
}

func validateShiftSet(shifts []Shift) error {
	byDay := map[int][]Shift{}
	for _, s := range shifts {
		if s.Weekday < 0 || s.Weekday > 6 {
			return &ShiftValidationError{Weekday: s.Weekday, Reason: "weekday must be 0 (Sunday) through 6 (Saturday)"}
		}
		if s.StartMin < 0 || s.EndMin > minutesPerDay || s.EndMin <= s.StartMin {
			return &ShiftValidationError{Weekday: s.Weekday, Reason: "shift must satisfy 0 <= start < end <= 1440"}
		}
		byDay[s.Weekday] = append(byDay[s.Weekday], s)
	}

	for weekday, day := range byDay {
		sort.Slice(day, func(i, j int) bool { return day[i].StartMin < day[j].StartMin })
		for i := 1; i < len(day); i++ {
			if day[i].StartMin < day[i-1].EndMin {
				return &ShiftValidationError{Weekday: weekday, Reason: "shifts overlap"}
			}
		}
	}
	return nil
}
