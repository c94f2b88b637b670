package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"leafsense/internal/core"
	"leafsense/internal/types"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// RecordStore is the submission persistence surface consumed by the
// handlers.
type RecordStore interface {
	Create(ctx context.Context, rec *types.SubmissionRecord) error
	List(ctx context.Context, limit, skip int64) ([]types.SubmissionRecord, int64, error)
	GetByID(ctx context.Context, id string) (*types.SubmissionRecord, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*types.StoreStats, error)
}

// RecordsHandler serves the stored submission endpoints.
type RecordsHandler struct {
	logger    *slog.Logger
	validator *core.Validator
	store     RecordStore
}

// NewRecordsHandler builds the handler. store may be nil when the record
// store is unavailable; every endpoint then reports 503.
func NewRecordsHandler(logger *slog.Logger, validator *core.Validator, store RecordStore) *RecordsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecordsHandler{
		logger:    logger,
		validator: validator,
		store:     store,
	}
}

// RegisterRoutes mounts the record routes on the API router.
func (h *RecordsHandler) RegisterRoutes(r chi.Router) {
	r.Route("/records", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Delete("/{id}", h.HandleDelete)
	})
	r.Get("/stats", h.HandleStats)
}

// available guards every endpoint against a missing store connection.
func (h *RecordsHandler) available(w http.ResponseWriter, r *http.Request) bool {
	if h.store == nil {
		core.Error(w, r, types.NewAppError(types.ErrCodeUnavailableStore, "record store not connected", nil))
		return false
	}
	return true
}

// HandleCreate stores a submission record supplied by the client, for
// ingesting externally produced predictions.
func (h *RecordsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	var rec types.SubmissionRecord
	if err := core.DecodeJSON(w, r, &rec); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(rec); err != nil {
		core.Error(w, r, err)
		return
	}

	if err := h.store.Create(r.Context(), &rec); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusCreated, rec)
}

// HandleList returns stored submissions newest first, paginated by the
// limit and skip query parameters.
func (h *RecordsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	limit, skip, err := listParams(r)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	records, total, err := h.store.List(r.Context(), limit, skip)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	totalItems := int(total)
	core.JSON(w, r, http.StatusOK, types.ListResponse[types.SubmissionRecord]{
		Data: records,
		PageInfo: types.PageInfo{
			Limit:      int(limit),
			Skip:       int(skip),
			TotalItems: &totalItems,
		},
	})
}

// HandleGet returns one stored submission by id.
func (h *RecordsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	rec, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, rec)
}

type deleteResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// HandleDelete removes one stored submission by id.
func (h *RecordsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, deleteResponse{Deleted: true, ID: id})
}

// HandleStats returns aggregate statistics over the submission history.
func (h *RecordsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if !h.available(w, r) {
		return
	}

	stats, err := h.store.Stats(r.Context())
	if err != nil {
		core.Error(w, r, err)
		return
	}
	core.JSON(w, r, http.StatusOK, stats)
}

// listParams parses the limit and skip query parameters, applying the
// default and maximum limits.
func listParams(r *http.Request) (limit, skip int64, err error) {
	limit = defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || v < 1 {
			return 0, 0, types.NewAppErrorWithDetails(
				types.ErrCodeValidationQueryParam,
				"limit must be a positive integer",
				perr,
				map[string]any{"limit": raw},
			)
		}
		if v > maxListLimit {
			v = maxListLimit
		}
		limit = v
	}

	if raw := r.URL.Query().Get("skip"); raw != "" {
		v, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || v < 0 {
			return 0, 0, types.NewAppErrorWithDetails(
				types.ErrCodeValidationQueryParam,
				"skip must be a non-negative integer",
				perr,
				map[string]any{"skip": raw},
			)
		}
		skip = v
	}
	return limit, skip, nil
}
