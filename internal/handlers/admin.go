package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/barberbook/barberbook/internal/booking"
	"github.com/barberbook/barberbook/internal/storage"
)

// AdminHandler covers catalog management and schedule editing. Every route
// here is registered behind RequireRole(ADMIN).
type AdminHandler struct {
	engine  *booking.Engine
	catalog *storage.CatalogRepository
	logger  *slog.Logger
}

func NewAdminHandler(engine *booking.Engine, catalog *storage.CatalogRepository, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{engine: engine, catalog: catalog, logger: logger}
}

type createBarberRequest struct {
	Name string `json:"name"`
}

type createServiceRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	DurationMin int    `json:"duration_min"`
	PriceCents  int    `json:"price_cents"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type replaceShiftsRequest struct {
	BarberID string          `json:"barber_id"`
	Shifts   []booking.Shift `json:"shifts"`
}

func (h *AdminHandler) CreateBarber(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createBarberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	id, err := h.catalog.CreateBarber(r.Context(), req.Name)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			http.Error(w, "barber already exists", http.StatusConflict)
			return
		}
		h.logger.Error("barber create failed", "err", err)
		http.Error(w, "failed to create barber", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createdResponse{ID: id})
}

func (h *AdminHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if req.Code == "" || req.Name == "" {
		http.Error(w, "code and name are required", http.StatusBadRequest)
		return
	}
	if req.DurationMin <= 0 || req.DurationMin > 1440 {
		http.Error(w, "duration_min out of range", http.StatusBadRequest)
		return
	}
	if req.PriceCents < 0 {
		http.Error(w, "price_cents must not be negative", http.StatusBadRequest)
		return
	}

	id, err := h.catalog.CreateService(r.Context(), booking.Service{
		Code:        req.Code,
		Name:        req.Name,
		DurationMin: req.DurationMin,
		PriceCents:  req.PriceCents,
		Active:      true,
	})
	if err != nil {
		if storage.IsUniqueViolation(err) {
			http.Error(w, "service code already exists", http.StatusConflict)
			return
		}
		h.logger.Error("service create failed", "err", err)
		http.Error(w, "failed to create service", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createdResponse{ID: id})
}

// ReplaceShifts swaps a barber's whole weekly schedule in one operation and
// echoes the stored set back.
func (h *AdminHandler) ReplaceShifts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req replaceShiftsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.BarberID == "" {
		http.Error(w, "barber_id is required", http.StatusBadRequest)
		return
	}

	stored, err := h.engine.ReplaceShifts(r.Context(), req.BarberID, req.Shifts)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"shifts": stored})
}

func (h *AdminHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	barberID := r.URL.Query().Get("barber_id")
	if barberID == "" {
		http.Error(w, "barber_id is required", http.StatusBadRequest)
		return
	}

	shifts, err := h.engine.ListShifts(r.Context(), barberID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{"shifts": shifts})
}

func (h *AdminHandler) writeError(w http.ResponseWriter, err error) {
	var shiftErr *booking.ShiftValidationError
	switch {
	case errors.Is(err, booking.ErrBarberNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &shiftErr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("admin operation failed", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
