package comparison

import (
	"encoding/json"
	"net/http"

	"github.com/centavo/centavo/internal/rest"
	"github.com/centavo/centavo/pkg/snapshot"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	CategoryName  string          `json:"categoryName"`
	TemplateLimit decimal.Decimal `json:"templateLimit"`
	MonthLimit    decimal.Decimal `json:"monthLimit"`
	Difference    decimal.Decimal `json:"difference"`
	PercentChange decimal.Decimal `json:"percentChange"`
	Status        string          `json:"status"`
}

type CountsDTO struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Adjusted int `json:"adjusted"`
}

type ResultDTO struct {
	Month           string          `json:"month"`
	Currency        string          `json:"currency"`
	Entries         []EntryDTO      `json:"entries"`
	Counts          CountsDTO       `json:"counts"`
	TotalTemplate   decimal.Decimal `json:"totalTemplate"`
	TotalMonth      decimal.Decimal `json:"totalMonth"`
	TotalDifference decimal.Decimal `json:"totalDifference"`
}

type Handler struct {
	service  Service
	renderer Renderer
}

func NewHandler(service Service, renderer Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// GetForMonth godoc
// @Summary Compare a month's budget against the active template
// @Tags Comparison
// @Produce json
// @Produce text/csv
// @Param month path string true "Month in 2006-01 format"
// @Success 200 {object} ResultDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid month"
// @Router /api/comparison/{month} [get]
func (h *Handler) GetForMonth(w http.ResponseWriter, r *http.Request) {
	month, err := snapshot.MonthFromString(mux.Vars(r)["month"])
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, err.Error())
		return
	}

	result, err := h.service.ForMonth(r.Context(), month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if r.Header.Get("Accept") == "text/csv" || r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		csv, err := h.renderer.Render(result)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := w.Write([]byte(csv)); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resultToDTO(result)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func resultToDTO(result Result) ResultDTO {
	entries := make([]EntryDTO, 0, len(result.Entries))
	for _, entry := range result.Entries {
		entries = append(entries, EntryDTO{
			CategoryName:  entry.CategoryName,
			TemplateLimit: entry.TemplateLimit,
			MonthLimit:    entry.MonthLimit,
			Difference:    entry.Difference,
			PercentChange: entry.PercentChange,
			Status:        string(entry.Status),
		})
	}

	return ResultDTO{
		Month:           snapshot.Month{Year: result.Year, Month: result.Month}.String(),
		Currency:        result.Currency,
		Entries:         entries,
		Counts: CountsDTO{
			Total:    result.Counts.Total,
			Active:   result.Counts.Active,
			Added:    result.Counts.Added,
			Removed:  result.Counts.Removed,
			Adjusted: result.Counts.Adjusted,
		},
		TotalTemplate:   result.TotalTemplate,
		TotalMonth:      result.TotalMonth,
		TotalDifference: result.TotalDifference,
	}
}

func writeError(w http.ResponseWriter, message string) {
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message}); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}
