// Package handlers implements the HTTP handlers mounted under /api:
// prediction, the stored submission records, and aggregate statistics.
// Each handler declares the narrow service interface it consumes, so tests
// can substitute lightweight fakes.
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"leafsense/internal/core"
	"leafsense/internal/predict"
	"leafsense/internal/types"
)

// Predictor is the prediction surface consumed by PredictHandler.
type Predictor interface {
	Ready() bool
	Predict(obs types.Observation) (types.Prediction, error)
	TreatmentFor(disease string) types.Treatment
	Diseases() []predict.DiseaseInfo
}

// PredictHandler serves the prediction endpoints.
type PredictHandler struct {
	logger    *slog.Logger
	validator *core.Validator
	service   Predictor
	store     RecordStore
	svcName   string
}

// NewPredictHandler builds the handler. store may be nil when the record
// store is unavailable; predictions still work, they are just not recorded.
func NewPredictHandler(logger *slog.Logger, validator *core.Validator, service Predictor, store RecordStore, svcName string) *PredictHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictHandler{
		logger:    logger,
		validator: validator,
		service:   service,
		store:     store,
		svcName:   svcName,
	}
}

// RegisterRoutes mounts the prediction routes on the API router.
func (h *PredictHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleBanner)
	r.Post("/predict", h.HandlePredict)
	r.Get("/diseases", h.HandleDiseases)
}

type bannerResponse struct {
	Service     string `json:"service"`
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// HandleBanner reports the service identity and whether the model is loaded.
func (h *PredictHandler) HandleBanner(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.service.Ready() {
		status = "degraded"
	}
	core.JSON(w, r, http.StatusOK, bannerResponse{
		Service:     h.svcName,
		Status:      status,
		ModelLoaded: h.service.Ready(),
	})
}

type predictResponse struct {
	Prediction       string             `json:"prediction"`
	Confidence       float64            `json:"confidence"`
	AllProbabilities map[string]float64 `json:"all_probabilities"`
	Treatment        types.Treatment    `json:"treatment"`
	Timestamp        time.Time          `json:"timestamp"`
}

// HandlePredict validates an observation, runs it through the model, and
// records the outcome. Recording is best effort: a store failure is logged
// but never fails the prediction response.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	var obs types.Observation
	if err := core.DecodeJSON(w, r, &obs); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(obs); err != nil {
		core.Error(w, r, err)
		return
	}

	pred, err := h.service.Predict(obs)
	if err != nil {
		core.Error(w, r, err)
		return
	}

	now := time.Now().UTC()
	if h.store != nil {
		rec := &types.SubmissionRecord{
			Observation:      obs,
			PredictedDisease: pred.Disease,
			Confidence:       pred.Confidence,
			Timestamp:        now,
		}
		if err := h.store.Create(r.Context(), rec); err != nil {
			h.logger.Warn("failed to record prediction", "error", err)
		}
	}

	core.JSON(w, r, http.StatusOK, predictResponse{
		Prediction:       pred.Disease,
		Confidence:       pred.Confidence,
		AllProbabilities: pred.Probabilities,
		Treatment:        h.service.TreatmentFor(pred.Disease),
		Timestamp:        now,
	})
}

type diseasesResponse struct {
	Diseases []predict.DiseaseInfo `json:"diseases"`
	Count    int                   `json:"count"`
}

// HandleDiseases lists every disease the loaded model can predict with its
// treatment entry.
func (h *PredictHandler) HandleDiseases(w http.ResponseWriter, r *http.Request) {
	if !h.service.Ready() {
		core.Error(w, r, types.NewAppError(types.ErrCodeUnavailableModel, "model not loaded", nil))
		return
	}
	ds := h.service.Diseases()
	core.JSON(w, r, http.StatusOK, diseasesResponse{Diseases: ds, Count: len(ds)})
}
