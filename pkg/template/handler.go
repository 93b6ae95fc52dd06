package template

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/centavo/centavo/internal/rest"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TemplateDTO struct {
	Version    int           `json:"version"`
	IsActive   bool          `json:"isActive"`
	Categories []CategoryDTO `json:"categories"`
	Settings   SettingsDTO   `json:"settings"`
	CreatedAt  string        `json:"createdAt,omitempty"`
}

type CategoryDTO struct {
	Name             string          `json:"name"`
	MonthlyLimit     decimal.Decimal `json:"monthlyLimit"`
	WarningThreshold int             `json:"warningThreshold"`
	IsActive         bool            `json:"isActive"`
	Color            string          `json:"color,omitempty"`
	Description      string          `json:"description,omitempty"`
}

type SettingsDTO struct {
	Currency        string `json:"currency"`
	NotifyOverspend bool   `json:"notifyOverspend"`
	NotifyWarning   bool   `json:"notifyWarning"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetActive godoc
// @Summary Get the active personal budget template
// @Tags Template
// @Produce json
// @Success 200 {object} TemplateDTO
// @Failure 404 {object} rest.ErrorResponse "No template saved yet"
// @Router /api/template [get]
func (h *Handler) GetActive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	tmpl, err := h.service.GetActive(r.Context())
	if err != nil {
		if errors.Is(err, ErrTemplateNotFound) {
			w.WriteHeader(http.StatusNotFound)
			writeError(w, "no template saved yet")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(TemplateToDTO(tmpl)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Save godoc
// @Summary Save the personal budget template as a new version
// @Tags Template
// @Accept json
// @Produce json
// @Param template body TemplateDTO true "Template"
// @Success 201 {object} TemplateDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/template [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	log.Debug("Saving new template version")
	w.Header().Set("Content-Type", "application/json")

	var dto TemplateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeError(w, "invalid request body format")
		return
	}

	categories := make(map[string]CategoryConfig, len(dto.Categories))
	for _, c := range dto.Categories {
		categories[c.Name] = CategoryConfig{
			Name:             c.Name,
			MonthlyLimit:     c.MonthlyLimit,
			WarningThreshold: c.WarningThreshold,
			IsActive:         c.IsActive,
			Color:            c.Color,
			Description:      c.Description,
		}
	}
	settings := GlobalSettings{
		Currency:        dto.Settings.Currency,
		NotifyOverspend: dto.Settings.NotifyOverspend,
		NotifyWarning:   dto.Settings.NotifyWarning,
	}

	created, err := h.service.Save(r.Context(), categories, settings)
	if err != nil {
		if errors.Is(err, ErrInvalidCategory) {
			w.WriteHeader(http.StatusBadRequest)
			writeError(w, err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(TemplateToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListVersions godoc
// @Summary List all template versions, newest first
// @Tags Template
// @Produce json
// @Success 200 {array} TemplateDTO
// @Router /api/template/versions [get]
func (h *Handler) ListVersions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	versions, err := h.service.ListVersions(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TemplateDTO, 0, len(versions))
	for _, tmpl := range versions {
		dtos = append(dtos, TemplateToDTO(tmpl))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func TemplateToDTO(tmpl Template) TemplateDTO {
	categories := make([]CategoryDTO, 0, len(tmpl.Categories))
	for _, c := range tmpl.Categories {
		categories = append(categories, CategoryDTO{
			Name:             c.Name,
			MonthlyLimit:     c.MonthlyLimit,
			WarningThreshold: c.WarningThreshold,
			IsActive:         c.IsActive,
			Color:            c.Color,
			Description:      c.Description,
		})
	}
	createdAt := ""
	if !tmpl.CreatedAt.IsZero() {
		createdAt = tmpl.CreatedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return TemplateDTO{
		Version:    tmpl.Version,
		IsActive:   tmpl.IsActive,
		Categories: categories,
		Settings: SettingsDTO{
			Currency:        tmpl.Settings.Currency,
			NotifyOverspend: tmpl.Settings.NotifyOverspend,
			NotifyWarning:   tmpl.Settings.NotifyWarning,
		},
		CreatedAt: createdAt,
	}
}

func writeError(w http.ResponseWriter, message string) {
	if err := json.NewEncoder(w).Encode(rest.ErrorResponse{Error: message}); err != nil {
		log.Errorf("failed to encode error response: %v", err)
	}
}
