package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/barberbook/barberbook/internal/booking"
)

type BookingHandler struct {
	engine *booking.Engine
	logger *slog.Logger
}

func NewBookingHandler(engine *booking.Engine, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{engine: engine, logger: logger}
}

type createAppointmentRequest struct {
	BarberID  string `json:"barber_id"`
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	StartMin  int    `json:"start_min"`
}

type createAppointmentResponse struct {
	AppointmentID string `json:"appointment_id"`
}

type cancelAppointmentRequest struct {
	AppointmentID string `json:"appointment_id"`
}

// Availability lists the open slot starts for a barber on a date. The list
// is a point-in-time read; a slot can still be lost to a concurrent booking,
// which Create reports as a conflict.
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	barberID := r.URL.Query().Get("barber_id")
	date := r.URL.Query().Get("date")
	if barberID == "" || date == "" {
		http.Error(w, "barber_id and date are required", http.StatusBadRequest)
		return
	}

	slots, err := h.engine.GetAvailability(r.Context(), barberID, date)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"slots": slots})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.BarberID == "" || req.ServiceID == "" || req.Date == "" {
		http.Error(w, "barber_id, service_id and date are required", http.StatusBadRequest)
		return
	}
	if req.StartMin < 0 || req.StartMin >= 1440 {
		http.Error(w, "start_min out of range", http.StatusBadRequest)
		return
	}

	id, err := h.engine.CreateAppointment(r.Context(), booking.CreateInput{
		UserID:    claims.Sub,
		BarberID:  req.BarberID,
		ServiceID: req.ServiceID,
		DateISO:   req.Date,
		StartMin:  req.StartMin,
	})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createAppointmentResponse{AppointmentID: id})
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	var req cancelAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.AppointmentID == "" {
		http.Error(w, "appointment_id is required", http.StatusBadRequest)
		return
	}

	if err := h.engine.CancelAppointment(r.Context(), claims.Sub, req.AppointmentID); err != nil {
		h.writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	items, err := h.engine.ListForUser(r.Context(), claims.Sub)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"appointments": items})
}

func (h *BookingHandler) writeEngineError(w http.ResponseWriter, err error) {
	var shiftErr *booking.ShiftValidationError
	switch {
	case errors.Is(err, booking.ErrInvalidDate):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, booking.ErrBarberNotFound),
		errors.Is(err, booking.ErrServiceNotFound),
		errors.Is(err, booking.ErrNotFoundOrAlreadyCanceled):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, booking.ErrSlotUnavailable):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &shiftErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("booking operation failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
