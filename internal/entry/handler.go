package entry

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/income-expense-tracker/internal"
	"github.com/frahmantamala/income-expense-tracker/internal/transport"
	"github.com/go-chi/chi"
)

const maxBodyBytes = 64 << 10

type ServiceAPI interface {
	FormDefaults() FormDefaultsResponse
	SaveEntry(ctx context.Context, dto SaveEntryDTO) (*Entry, error)
	ReplaceEntry(ctx context.Context, periodKey string, dto SaveEntryDTO) (*Entry, error)
	LoadEntry(ctx context.Context, periodKey string) (*Entry, error)
	Summarize(ctx context.Context, periodKey string) (*Summary, error)
	ListPeriods(ctx context.Context) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetFormDefaults(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.FormDefaults())
}

func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	dto, ok := h.decode(w, r, "CreateEntry")
	if !ok {
		return
	}

	saved, err := h.Service.SaveEntry(r.Context(), dto)
	if err != nil {
		h.Log(r.Context()).Error("CreateEntry: service error", "error", err, "month", dto.Month, "year", dto.Year)
		h.HandleServiceError(w, r, err)
		return
	}

	h.Log(r.Context()).Info("CreateEntry: entry saved", "entry_id", saved.ID, "month", saved.Month, "year", saved.Year)
	h.WriteJSON(w, http.StatusCreated, saved)
}

func (h *Handler) ReplaceEntry(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")

	dto, ok := h.decode(w, r, "ReplaceEntry")
	if !ok {
		return
	}

	saved, err := h.Service.ReplaceEntry(r.Context(), period, dto)
	if err != nil {
		h.Log(r.Context()).Error("ReplaceEntry: service error", "error", err, "period", period)
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, saved)
}

func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")

	e, err := h.Service.LoadEntry(r.Context(), period)
	if err != nil {
		h.Log(r.Context()).Error("GetEntry: service error", "error", err, "period", period)
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")

	summary, err := h.Service.Summarize(r.Context(), period)
	if err != nil {
		h.Log(r.Context()).Error("GetSummary: service error", "error", err, "period", period)
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Service.ListPeriods(r.Context())
	if err != nil {
		h.Log(r.Context()).Error("ListPeriods: service error", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, PeriodsResponse{Periods: periods})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, op string) (SaveEntryDTO, bool) {
	var dto SaveEntryDTO

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dto); err != nil {
		h.Log(r.Context()).Error(op+": invalid request body", "error", err)
		h.HandleServiceError(w, r, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err))
		return dto, false
	}
	return dto, true
}
