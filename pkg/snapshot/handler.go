package snapshot

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/centavo/centavo/internal/rest"
	"github.com/centavo/centavo/pkg/template"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type SnapshotDTO struct {
	Month           string                 `json:"month"`
	Categories      []template.CategoryDTO `json:"categories"`
	Settings        template.SettingsDTO   `json:"settings"`
	AdjustmentCount int                    `json:"adjustmentCount"`
	IsLocked        bool                   `json:"isLocked"`
	TotalBudgeted   decimal.Decimal        `json:"totalBudgeted"`
}

type LimitChangeDTO struct {
	NewLimit decimal.Decimal `json:"newLimit"`
}

type LockDTO struct {
	Locked bool `json:"locked"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetForMonth godoc
// @Summary Get (or lazily create) the budget for a month
// @Tags MonthlyBudget
// @Produce json
// @Param month path string true "Month in 2006-01 format"
// @Success 200 {object} SnapshotDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid month"
// @Router /api/budget/{month} [get]
func (h *Handler) GetForMonth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromRequest(w, r)
	if !ok {
		return
	}

	snap, err := h.service.GetForMonth(r.Context(), month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SnapshotToDTO(snap)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// AdjustCategoryLimit godoc
// @Summary Change one category's limit for a month
// @Tags MonthlyBudget
// @Accept json
// @Produce json
// @Param month path string true "Month in 2006-01 format"
// @Param name path string true "Category name"
// @Param change body LimitChangeDTO true "New limit"
// @Success 200 {object} SnapshotDTO
// @Failure 404 {object} rest.ErrorResponse "Budget or category not found"
// @Failure 409 {object} rest.ErrorResponse "Budget is locked"
// @Router /api/budget/{month}/category/{name} [put]
func (h *Handler) AdjustCategoryLimit(w http.ResponseWriter, r *http.Request) {
	log.Debug("Adjusting monthly budget category limit")
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromRequest(w, r)
	if !ok {
		return
	}
	name := mux.Vars(r)["name"]

	var dto LimitChangeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, "invalid request body format")
		return
	}

	snap, err := h.service.AdjustCategoryLimit(r.Context(), month, name, dto.NewLimit)
	if err != nil {
		switch {
		case errors.Is(err, ErrSnapshotNotFound), errors.Is(err, ErrCategoryNotFound):
			w.WriteHeader(http.StatusNotFound)
			writeError(w, err.Error())
		case errors.Is(err, ErrSnapshotLocked):
			w.WriteHeader(http.StatusConflict)
			writeError(w, err.Error())
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SnapshotToDTO(snap)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SetLocked godoc
// @Summary Lock or unlock a month's budget
// @Tags MonthlyBudget
// @Accept json
// @Produce json
// @Param month path string true "Month in 2006-01 format"
// @Param lock body LockDTO true "Lock flag"
// @Success 200 {object} SnapshotDTO
// @Failure 404 {object} rest.ErrorResponse "Budget not found"
// @Router /api/budget/{month}/lock [put]
func (h *Handler) SetLocked(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromRequest(w, r)
	if !ok {
		return
	}

	var dto LockDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, "invalid request body format")
		return
	}

	snap, err := h.service.SetLocked(r.Context(), month, dto.Locked)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			w.WriteHeader(http.StatusNotFound)
			writeError(w, err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SnapshotToDTO(snap)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func SnapshotToDTO(snap Snapshot) SnapshotDTO {
	categories := make([]template.CategoryDTO, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		categories = append(categories, template.CategoryDTO{
			Name:             c.Name,
			MonthlyLimit:     c.MonthlyLimit,
			WarningThreshold: c.WarningThreshold,
			IsActive:         c.IsActive,
			Color:            c.Color,
			Description:      c.Description,
		})
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })

	return SnapshotDTO{
		Month:      snap.Month.String(),
		Categories: categories,
		Settings: template.SettingsDTO{
			Currency:        snap.Settings.Currency,
			NotifyOverspend: snap.Settings.NotifyOverspend,
			NotifyWarning:   snap.Settings.NotifyWarning,
		},
		AdjustmentCount: snap.AdjustmentCount,
		IsLocked:        snap.IsLocked,
		TotalBudgeted:   snap.ActiveTotal(),
	}
}

func monthFromRequest(w http.ResponseWriter, r *http.Request) (Month, bool) {
	month, err := MonthFromString(mux.Vars(r)["month"])
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, err.Error())
		return Month{}, false
	}
	return month, true
}

func writeError(w http.ResponseWriter, message string) {
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message}); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}
