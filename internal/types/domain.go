package types

import "time"

// Canonical column names shared by the CSV dataset files, the feature
// pipeline, and the API payloads. The feature pipeline derives its column
// order from these at fit time, so they must never be renamed once a model
// artifact has been trained.
const (
	ColSampleID       = "sample_id"
	ColTimestamp      = "timestamp"
	ColCropType       = "crop_type"
	ColPlantAgeDays   = "plant_age_days"
	ColLocationRegion = "location_region"
	ColSoilPH         = "soil_ph"
	ColSoilMoisture   = "soil_moisture_pct"
	ColTemperature    = "ambient_temperature_c"
	ColHumidity       = "ambient_humidity_pct"
	ColLeafColor      = "leaf_color"
	ColLesionPresent  = "lesion_present"
	ColLesionCount    = "lesion_count"
	ColSpotSize       = "spot_size_mm"
	ColNutrientDef    = "nutrient_deficiency_signs"
	ColOtherNotes     = "other_notes"
	ColLabelDisease   = "label_disease"
	ColSeverity       = "severity"
)

// Observation is one raw plant-health record, the unit of prediction input
// and (embedded in Sample) of training data. Immutable once generated.
type Observation struct {
	CropType       string  `json:"crop_type" bson:"crop_type" validate:"required"`
	PlantAgeDays   int     `json:"plant_age_days" bson:"plant_age_days" validate:"gte=0"`
	LocationRegion string  `json:"location_region" bson:"location_region" validate:"required"`
	SoilPH         float64 `json:"soil_ph" bson:"soil_ph" validate:"gte=0,lte=14"`
	SoilMoisture   float64 `json:"soil_moisture_pct" bson:"soil_moisture_pct" validate:"gte=0,lte=100"`
	Temperature    float64 `json:"ambient_temperature_c" bson:"ambient_temperature_c"`
	Humidity       float64 `json:"ambient_humidity_pct" bson:"ambient_humidity_pct" validate:"gte=0,lte=100"`
	LeafColor      string  `json:"leaf_color" bson:"leaf_color" validate:"required"`
	LesionPresent  bool    `json:"lesion_present" bson:"lesion_present"`
	LesionCount    int     `json:"lesion_count" bson:"lesion_count" validate:"gte=0"`
	SpotSize       float64 `json:"spot_size_mm" bson:"spot_size_mm" validate:"gte=0"`
	NutrientDef    string  `json:"nutrient_deficiency_signs" bson:"nutrient_deficiency_signs" validate:"required"`
}

// Features returns the observation as a column-name keyed map of raw values,
// the input form consumed by the feature pipeline.
func (o Observation) Features() map[string]any {
	return map[string]any{
		ColCropType:       o.CropType,
		ColPlantAgeDays:   float64(o.PlantAgeDays),
		ColLocationRegion: o.LocationRegion,
		ColSoilPH:         o.SoilPH,
		ColSoilMoisture:   o.SoilMoisture,
		ColTemperature:    o.Temperature,
		ColHumidity:       o.Humidity,
		ColLeafColor:      o.LeafColor,
		ColLesionPresent:  o.LesionPresent,
		ColLesionCount:    float64(o.LesionCount),
		ColSpotSize:       o.SpotSize,
		ColNutrientDef:    o.NutrientDef,
	}
}

// Sample is a full labeled dataset row: an Observation plus the identifying
// and label columns that are dropped before feature encoding.
type Sample struct {
	SampleID  string
	Timestamp time.Time
	Observation
	OtherNotes   string
	LabelDisease string
	Severity     string
}

// SubmissionRecord is a stored prediction outcome plus its originating
// Observation. Created by the API layer, owned thereafter by the record store.
type SubmissionRecord struct {
	ID               string    `json:"id" bson:"id"`
	Observation      `bson:",inline"`
	PredictedDisease string    `json:"predicted_disease" bson:"predicted_disease" validate:"required"`
	Confidence       float64   `json:"confidence" bson:"confidence" validate:"gte=0,lte=1"`
	Timestamp        time.Time `json:"timestamp" bson:"timestamp"`
}

// Treatment holds the static advice entry for one disease label.
// Loaded once at startup; no lifecycle beyond that.
type Treatment struct {
	Treatment  string   `json:"treatment"`
	Prevention string   `json:"prevention"`
	Chemicals  []string `json:"chemicals"`
}

// Prediction is the outcome of running one Observation through the loaded
// model: the winning label, its probability, and the full distribution.
type Prediction struct {
	Disease       string             `json:"prediction"`
	Confidence    float64            `json:"confidence"`
	Probabilities map[string]float64 `json:"all_probabilities"`
}

// StoreStats aggregates the submission history for the dashboard.
type StoreStats struct {
	TotalPredictions    int            `json:"total_predictions"`
	DiseaseDistribution map[string]int `json:"disease_distribution"`
	AvgConfidence       float64        `json:"avg_confidence"`
	RecentPredictions   int            `json:"recent_predictions"`
	CropsAnalyzed       map[string]int `json:"crops_analyzed"`
}
