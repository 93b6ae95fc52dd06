package adjustment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/centavo/centavo/internal/rest"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type AdjustmentDTO struct {
	Id           string          `json:"id"`
	CategoryName string          `json:"categoryName"`
	CurrentLimit decimal.Decimal `json:"currentLimit"`
	NewLimit     decimal.Decimal `json:"newLimit"`
	TargetYear   int             `json:"targetYear"`
	TargetMonth  int             `json:"targetMonth"`
	Reason       string          `json:"reason,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Schedule godoc
// @Summary Schedule a category limit change for the next month
// @Tags Adjustment
// @Accept json
// @Produce json
// @Param adjustment body AdjustmentDTO true "Adjustment"
// @Success 201 {object} AdjustmentDTO
// @Failure 400 {object} rest.ErrorResponse "Unknown category"
// @Router /api/adjustment [post]
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	log.Debug("Scheduling category limit adjustment")
	w.Header().Set("Content-Type", "application/json")

	var dto AdjustmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, "invalid request body format")
		return
	}
	if dto.CategoryName == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, "categoryName is required")
		return
	}

	created, err := h.service.Schedule(r.Context(), dto.CategoryName, dto.NewLimit, dto.Reason)
	if err != nil {
		if errors.Is(err, ErrUnknownCategory) {
			w.WriteHeader(http.StatusBadRequest)
			writeError(w, err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListPending godoc
// @Summary List pending adjustments for a target month
// @Tags Adjustment
// @Produce json
// @Param year query int true "Target year"
// @Param month query int true "Target month (1-12)"
// @Success 200 {array} AdjustmentDTO
// @Router /api/adjustment [get]
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, "invalid year query parameter")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, "invalid month query parameter")
		return
	}

	pending, err := h.service.ListPending(r.Context(), year, month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]AdjustmentDTO, 0, len(pending))
	for _, adj := range pending {
		dtos = append(dtos, toDTO(adj))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Cancel godoc
// @Summary Cancel a pending adjustment
// @Tags Adjustment
// @Success 204
// @Failure 404 {string} string "Adjustment not found"
// @Router /api/adjustment/{id} [delete]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if err := h.service.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, ErrAdjustmentNotFound) {
			http.Error(w, "adjustment not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toDTO(adj ScheduledAdjustment) AdjustmentDTO {
	return AdjustmentDTO{
		Id:           adj.Id,
		CategoryName: adj.CategoryName,
		CurrentLimit: adj.CurrentLimit,
		NewLimit:     adj.NewLimit,
		TargetYear:   adj.TargetYear,
		TargetMonth:  adj.TargetMonth,
		Reason:       adj.Reason,
	}
}

func writeError(w http.ResponseWriter, message string) {
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message}); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}
