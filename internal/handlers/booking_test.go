package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/barberbook/barberbook/internal/availability"
	"github.com/barberbook/barberbook/internal/booking"
	"github.com/barberbook/barberbook/libs/auth"
)

const testSecret = "test-secret"

// Wednesday.
const testDate = "2026-01-28"

type fakeCatalog struct {
	barbers  map[string]booking.Barber
	services map[string]booking.Service
}

func (f *fakeCatalog) GetBarber(_ context.Context, id string) (booking.Barber, bool, error) {
	b, ok := f.barbers[id]
	return b, ok, nil
}

func (f *fakeCatalog) GetService(_ context.Context, id string) (booking.Service, bool, error) {
	s, ok := f.services[id]
	return s, ok, nil
}

type fakeShiftStore struct {
	shifts map[string][]booking.Shift
}

func (f *fakeShiftStore) ReplaceAll(_ context.Context, barberID string, shifts []booking.Shift) error {
	f.shifts[barberID] = append([]booking.Shift(nil), shifts...)
	return nil
}

func (f *fakeShiftStore) ListByBarberAndWeekday(_ context.Context, barberID string, weekday int) ([]booking.Shift, error) {
	var out []booking.Shift
	for _, s := range f.shifts[barberID] {
		if s.Weekday == weekday {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShiftStore) ListByBarber(_ context.Context, barberID string) ([]booking.Shift, error) {
	return append([]booking.Shift(nil), f.shifts[barberID]...), nil
}

type fakeApptStore struct {
	mu    sync.Mutex
	appts []*booking.Appointment
}

func (f *fakeApptStore) ListActiveByBarberAndDate(_ context.Context, barberID string, date time.Time) ([]availability.Busy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busyLocked(barberID, date), nil
}

func (f *fakeApptStore) busyLocked(barberID string, date time.Time) []availability.Busy {
	var out []availability.Busy
	for _, a := range f.appts {
		if a.BarberID == barberID && a.Date.Equal(date) && a.Status == booking.StatusScheduled {
			out = append(out, availability.Busy{StartMin: a.StartMin, DurationMin: a.DurationMin})
		}
	}
	return out
}

func (f *fakeApptStore) CreateScheduled(_ context.Context, appt *booking.Appointment, validate func([]availability.Busy) error) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := validate(f.busyLocked(appt.BarberID, appt.Date)); err != nil {
		return "", err
	}
	stored := *appt
	stored.ID = uuid.NewString()
	stored.Status = booking.StatusScheduled
	f.appts = append(f.appts, &stored)
	return stored.ID, nil
}

func (f *fakeApptStore) Cancel(_ context.Context, appointmentID, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.appts {
		if a.ID == appointmentID && a.UserID == userID && a.Status == booking.StatusScheduled {
			a.Status = booking.StatusCanceled
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeApptStore) ListByUser(_ context.Context, userID string) ([]booking.Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []booking.Summary
	for _, a := range f.appts {
		if a.UserID == userID {
			out = append(out, booking.Summary{
				ID:       a.ID,
				Date:     booking.FormatDate(a.Date),
				StartMin: a.StartMin,
				Status:   string(a.Status),
			})
		}
	}
	return out, nil
}

func newTestHandler() (*BookingHandler, *fakeApptStore) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := &fakeCatalog{
		barbers: map[string]booking.Barber{
			"barber-1": {ID: "barber-1", Name: "Tom Marelli", Active: true},
		},
		services: map[string]booking.Service{
			"svc-haircut": {ID: "svc-haircut", Code: "HAIRCUT", Name: "Haircut", DurationMin: 60, PriceCents: 4500, Active: true},
		},
	}
	shifts := &fakeShiftStore{shifts: map[string][]booking.Shift{
		"barber-1": {{Weekday: 3, StartMin: 540, EndMin: 720}},
	}}
	appts := &fakeApptStore{}
	engine := booking.NewEngine(shifts, appts, catalog, logger)
	return NewBookingHandler(engine, logger), appts
}

func bearerFor(t *testing.T, userID, role string) string {
	t.Helper()
	token, err := auth.SignHS256(auth.NewClaims(userID, "Test User", role, time.Hour), testSecret)
	if err != nil {
		t.Fatalf("SignHS256 failed: %v", err)
	}
	return "Bearer " + token
}

func TestAvailabilityEndpoint(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?barber_id=barber-1&date="+testDate, nil)
	rw := httptest.NewRecorder()
	h.Availability(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rw.Code, rw.Body.String())
	}

	var body struct {
		Slots []availability.Slot `json:"slots"`
	}
	if err := json.NewDecoder(rw.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := []int{540, 570, 600, 630, 660, 690}
	if len(body.Slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(body.Slots))
	}
	for i, s := range body.Slots {
		if s.StartMin != want[i] {
			t.Errorf("slot %d: expected start %d, got %d", i, want[i], s.StartMin)
		}
	}
	if body.Slots[0].Label != "09:00" {
		t.Errorf("expected label 09:00, got %q", body.Slots[0].Label)
	}
}

func TestAvailabilityRejectsBadDate(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?barber_id=barber-1&date=01-28-2026", nil)
	rw := httptest.NewRecorder()
	h.Availability(rw, req)
	if rw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rw.Code)
	}
}

func TestAvailabilityUnknownBarberIsEmpty(t *testing.T) {
	h, _ := newTestHandler()

	// Listing does not consult the catalog: a barber with no shifts, known
	// or not, has no slots. Existence is only enforced on the booking path.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/availability?barber_id=nope&date="+testDate, nil)
	rw := httptest.NewRecorder()
	h.Availability(rw, req)
	if rw.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rw.Code, rw.Body.String())
	}
	if !strings.Contains(rw.Body.String(), `"slots":[]`) {
		t.Fatalf("expected empty slots array, got %s", rw.Body.String())
	}
}

func TestCreateRequiresAuth(t *testing.T) {
	h, _ := newTestHandler()
	protected := RequireAuth(testSecret, h.Create)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader("{}"))
	rw := httptest.NewRecorder()
	protected(rw, req)
	if rw.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rw.Code)
	}
}

func TestCreateThenConflict(t *testing.T) {
	h, _ := newTestHandler()
	protected := RequireAuth(testSecret, h.Create)

	body := `{"barber_id":"barber-1","service_id":"svc-haircut","date":"` + testDate + `","start_min":600}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, "user-1", auth.RoleClient))
	rw := httptest.NewRecorder()
	protected(rw, req)
	if rw.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rw.Code, rw.Body.String())
	}
	var created struct {
		AppointmentID string `json:"appointment_id"`
	}
	if err := json.NewDecoder(rw.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.AppointmentID == "" {
		t.Fatal("expected non-empty appointment_id")
	}

	// Same slot again, different user: the commit-time check refuses it.
	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req2.Header.Set("Authorization", bearerFor(t, "user-2", auth.RoleClient))
	rw2 := httptest.NewRecorder()
	protected(rw2, req2)
	if rw2.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rw2.Code, rw2.Body.String())
	}
}

func TestCancelFlow(t *testing.T) {
	h, _ := newTestHandler()
	create := RequireAuth(testSecret, h.Create)
	cancel := RequireAuth(testSecret, h.Cancel)

	body := `{"barber_id":"barber-1","service_id":"svc-haircut","date":"` + testDate + `","start_min":540}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	req.Header.Set("Authorization", bearerFor(t, "user-1", auth.RoleClient))
	rw := httptest.NewRecorder()
	create(rw, req)
	if rw.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rw.Code)
	}
	var created struct {
		AppointmentID string `json:"appointment_id"`
	}
	if err := json.NewDecoder(rw.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	cancelBody := `{"appointment_id":"` + created.AppointmentID + `"}`

	// Someone else's token gets the ambiguous not-found, not a hint that
	// the appointment exists.
	reqOther := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/cancel", strings.NewReader(cancelBody))
	reqOther.Header.Set("Authorization", bearerFor(t, "user-2", auth.RoleClient))
	rwOther := httptest.NewRecorder()
	cancel(rwOther, reqOther)
	if rwOther.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-owner, got %d", rwOther.Code)
	}

	reqCancel := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/cancel", strings.NewReader(cancelBody))
	reqCancel.Header.Set("Authorization", bearerFor(t, "user-1", auth.RoleClient))
	rwCancel := httptest.NewRecorder()
	cancel(rwCancel, reqCancel)
	if rwCancel.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rwCancel.Code, rwCancel.Body.String())
	}

	// Second cancel of the same appointment also reports not found.
	reqAgain := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/cancel", strings.NewReader(cancelBody))
	reqAgain.Header.Set("Authorization", bearerFor(t, "user-1", auth.RoleClient))
	rwAgain := httptest.NewRecorder()
	cancel(rwAgain, reqAgain)
	if rwAgain.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for repeat cancel, got %d", rwAgain.Code)
	}
}

func TestRequireRoleForbidsClients(t *testing.T) {
	admin := RequireRole(testSecret, auth.RoleAdmin, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/barbers", nil)
	req.Header.Set("Authorization", bearerFor(t, "user-1", auth.RoleClient))
	rw := httptest.NewRecorder()
	admin(rw, req)
	if rw.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rw.Code)
	}

	reqOK := httptest.NewRequest(http.MethodPost, "/api/v1/admin/barbers", nil)
	reqOK.Header.Set("Authorization", bearerFor(t, "admin-1", auth.RoleAdmin))
	rwOK := httptest.NewRecorder()
	admin(rwOK, reqOK)
	if rwOK.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rwOK.Code)
	}
}
