// Package config defines the global configuration structure for the LeafSense
// service. Configuration is loaded once at process initialization and is
// immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes the application to fail
// immediately on startup (fail fast).
package config

import "time"

// Config is the top-level configuration struct for the LeafSense service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"leafsense-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server   ServerConfig
	Mongo    MongoConfig
	Model    ModelConfig
	Security SecurityConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

// MongoConfig holds document-store connection parameters.
type MongoConfig struct {
	// Connection string, e.g. mongodb://localhost:27017
	URL      string `envconfig:"MONGO_URL" validate:"required"`
	Database string `envconfig:"DB_NAME" validate:"required"`

	// Tuning Parameters
	ConnectTimeout time.Duration `envconfig:"MONGO_CONNECT_TIMEOUT" default:"10s"`
}

// ModelConfig holds the filesystem locations of the trained model artifact
// and the static treatment table, both read once at startup.
type ModelConfig struct {
	ArtifactPath   string `envconfig:"MODEL_ARTIFACT_PATH" default:"models/plant_disease_model.json.gz"`
	TreatmentsPath string `envconfig:"TREATMENTS_PATH" default:"treatments.json"`
}

// SecurityConfig holds CORS settings for the browser-facing API.
type SecurityConfig struct {
	CorsAllowedOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
