package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/centavo/centavo/internal/rest"
	"github.com/centavo/centavo/pkg/snapshot"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type EntryDTO struct {
	Id           string          `json:"id,omitempty"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Note         string          `json:"note,omitempty"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`
}

type CategorySpendDTO struct {
	CategoryName string          `json:"categoryName"`
	Spent        decimal.Decimal `json:"spent"`
	EntryCount   int             `json:"entryCount"`
}

const dateLayout = "2006-01-02"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Record godoc
// @Summary Record an expense entry
// @Tags Transaction
// @Accept json
// @Produce json
// @Param entry body EntryDTO true "Entry to record"
// @Success 201 {object} EntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid entry"
// @Router /api/transaction [post]
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	log.Debug("Recording transaction entry")
	w.Header().Set("Content-Type", "application/json")

	var dto EntryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, "invalid request body format")
		return
	}
	date, err := time.Parse(dateLayout, dto.Date)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, "date must be in 2006-01-02 format")
		return
	}

	entry, err := h.service.Record(r.Context(), Entry{
		CategoryName: dto.CategoryName,
		Amount:       dto.Amount,
		Date:         date,
		Note:         dto.Note,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrUnknownCategory) {
			w.WriteHeader(http.StatusBadRequest)
			writeError(w, err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(entryToDTO(entry)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListByMonth godoc
// @Summary List expense entries for a month
// @Tags Transaction
// @Produce json
// @Param month query string true "Month in 2006-01 format"
// @Success 200 {array} EntryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid month"
// @Router /api/transaction [get]
func (h *Handler) ListByMonth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromQuery(w, r)
	if !ok {
		return
	}

	entries, err := h.service.ListByMonth(r.Context(), month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, entryToDTO(entry))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SummaryByMonth godoc
// @Summary Per-category spending summary for a month
// @Tags Transaction
// @Produce json
// @Param month query string true "Month in 2006-01 format"
// @Success 200 {array} CategorySpendDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid month"
// @Router /api/transaction/summary [get]
func (h *Handler) SummaryByMonth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month, ok := monthFromQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.service.SummaryByMonth(r.Context(), month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]CategorySpendDTO, 0, len(summary))
	for _, spend := range summary {
		dtos = append(dtos, CategorySpendDTO{
			CategoryName: spend.CategoryName,
			Spent:        spend.Spent,
			EntryCount:   spend.EntryCount,
		})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Delete godoc
// @Summary Delete an expense entry
// @Tags Transaction
// @Param id path string true "Entry id"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse "Entry not found"
// @Router /api/transaction/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			writeError(w, err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func entryToDTO(entry Entry) EntryDTO {
	return EntryDTO{
		Id:           entry.Id,
		CategoryName: entry.CategoryName,
		Amount:       entry.Amount,
		Date:         entry.Date.Format(dateLayout),
		Note:         entry.Note,
		CreatedAt:    entry.CreatedAt,
	}
}

func monthFromQuery(w http.ResponseWriter, r *http.Request) (snapshot.Month, bool) {
	month, err := snapshot.MonthFromString(r.URL.Query().Get("month"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, err.Error())
		return snapshot.Month{}, false
	}
	return month, true
}

func writeError(w http.ResponseWriter, message string) {
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message}); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}
