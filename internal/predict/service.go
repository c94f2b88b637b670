// Package predict serves inference over a loaded model artifact: raw
// observations in, disease predictions with treatment advice out. The
// service tolerates a missing artifact so the API can come up degraded and
// report the condition per request instead of failing to start.
package predict

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"leafsense/internal/pipeline"
	"leafsense/internal/types"
)

// fallbackTreatment is returned for diseases absent from the treatments
// file, so a prediction response always carries advice fields.
var fallbackTreatment = types.Treatment{
	Treatment:  "No treatment information available.",
	Prevention: "General preventive measures recommended.",
}

// DiseaseInfo pairs a predictable disease label with its treatment entry.
type DiseaseInfo struct {
	Name      string          `json:"name"`
	Treatment types.Treatment `json:"treatment"`
}

// Service answers predictions from a fitted artifact. Read-only after
// construction; safe for concurrent use.
type Service struct {
	logger     *slog.Logger
	artifact   *pipeline.Artifact
	pipe       *pipeline.Pipeline
	treatments map[string]types.Treatment
}

// NewService builds a prediction service. artifact may be nil, in which
// case every Predict call reports the model as unavailable.
func NewService(logger *slog.Logger, artifact *pipeline.Artifact, treatments map[string]types.Treatment) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		logger:     logger,
		artifact:   artifact,
		treatments: treatments,
	}
	if artifact != nil {
		s.pipe = artifact.Pipeline()
	}
	return s
}

// Ready reports whether a model artifact is loaded.
func (s *Service) Ready() bool {
	return s.artifact != nil
}

// Predict runs one observation through the feature pipeline and the forest
// and returns the winning disease with the full probability distribution.
func (s *Service) Predict(obs types.Observation) (types.Prediction, error) {
	if s.artifact == nil {
		return types.Prediction{}, types.NewAppError(
			types.ErrCodeUnavailableModel,
			"model not loaded",
			nil,
		)
	}

	vec, err := s.pipe.Transform(obs.Features())
	if err != nil {
		return types.Prediction{}, err
	}

	probs := s.artifact.Model.PredictProba(vec)
	best := 0
	dist := make(map[string]float64, len(probs))
	for c, p := range probs {
		dist[s.artifact.Classes[c]] = p
		if p > probs[best] {
			best = c
		}
	}

	return types.Prediction{
		Disease:       s.artifact.Classes[best],
		Confidence:    probs[best],
		Probabilities: dist,
	}, nil
}

// TreatmentFor returns the treatment entry for a disease label, or the
// generic fallback when no entry exists.
func (s *Service) TreatmentFor(disease string) types.Treatment {
	if t, ok := s.treatments[disease]; ok {
		return t
	}
	return fallbackTreatment
}

// Diseases lists every disease the loaded model can predict, each with its
// treatment entry, sorted by name. Empty when no model is loaded.
func (s *Service) Diseases() []DiseaseInfo {
	if s.artifact == nil {
		return nil
	}
	out := make([]DiseaseInfo, 0, len(s.artifact.Classes))
	for _, name := range s.artifact.Classes {
		out = append(out, DiseaseInfo{Name: name, Treatment: s.TreatmentFor(name)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// LoadTreatments reads the disease->treatment map from a JSON file.
func LoadTreatments(path string) (map[string]types.Treatment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading treatments file: %w", err)
	}
	var m map[string]types.Treatment
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding treatments file: %w", err)
	}
	return m, nil
}
