package booking

import "time"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCanceled  Status = "canceled"
)

// Shift is one recurring weekly availability window for a barber.
// Weekday follows time.Weekday numbering: 0=Sunday .. 6=Saturday.
type Shift struct {
	Weekday  int `json:"weekday"`
	StartMin int `json:"start_min"`
	EndMin   int `json:"end_min"`
}

type Barber struct {
	ID     string
	Name   string
	Active bool
}

type Service struct {
	ID          string
	Code        string
	Name        string
	DurationMin int
	PriceCents  int
	Active      bool
}

// Appointment snapshots the service duration and price at creation time,
// so later catalog edits never change what was booked.
type Appointment struct {
	ID              string
	UserID          string
	BarberID        string
	ServiceID       string
	Date            time.Time // date only, midnight UTC
	StartMin        int
	DurationMin     int
	TotalPriceCents int
	Status          Status
	CreatedAt       time.Time
	CanceledAt      *time.Time
}

// Summary is the read projection returned to a user listing their bookings.
type Summary struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	StartMin        int    `json:"start_min"`
	DurationMin     int    `json:"duration_min"`
	Status          string `json:"status"`
	BarberName      string `json:"barber_name"`
	ServiceName     string `json:"service_name"`
	TotalPriceCents int    `json:"total_price_cents"`
}

const dateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" calendar date as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// FormatDate renders a calendar date as "YYYY-MM-DD".
func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}
