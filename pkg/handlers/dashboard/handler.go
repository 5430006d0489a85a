package dashboard

import (
	"errors"
	"net/http"

	"github.com/de-tools/quarterly-synth/pkg/adapters"
	"github.com/de-tools/quarterly-synth/pkg/document"
	"github.com/de-tools/quarterly-synth/pkg/models/api"
	"github.com/de-tools/quarterly-synth/pkg/models/domain"
	"github.com/de-tools/quarterly-synth/pkg/services/preview"
	"github.com/de-tools/quarterly-synth/pkg/services/workflow"
	"github.com/go-chi/chi/v5"
	"github.com/go-json-experiment/json"
	"github.com/rs/zerolog"
)

type Handler struct {
	explorer preview.Explorer
}

func NewHandler(explorer preview.Explorer) *Handler {
	return &Handler{explorer: explorer}
}

func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, adapters.MapCalendarDomainToApi(h.explorer.Calendar()))
}

func (h *Handler) ListBusinessUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.explorer.ListBusinessUnits(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapUnitsToApi(units))
}

func (h *Handler) GetEnterprise(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")

	doc, err := h.explorer.GetEnterprise(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDocument(w, r, doc)
}

func (h *Handler) GetBusinessUnit(w http.ResponseWriter, r *http.Request) {
	unit := chi.URLParam(r, "unit")
	period := chi.URLParam(r, "period")

	doc, err := h.explorer.GetBusinessUnit(r.Context(), unit, period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeDocument(w, r, doc)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownPeriod),
		errors.Is(err, workflow.ErrBaselineNotFound),
		errors.Is(err, preview.ErrUnitNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("failed to synthesize document")
	} else {
		logger.Debug().Err(err).Msg("document not found")
	}
	writeJSON(w, r, status, api.Error{Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.MarshalWrite(w, v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeDocument(w http.ResponseWriter, r *http.Request, doc *document.Object) {
	w.Header().Set("Content-Type", "application/json")
	if err := document.Encode(w, doc); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode document")
	}
}
