package config

import (
	"errors"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MONGO_URL", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "leafsense_test")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Environment != "local" {
		t.Errorf("Environment = %q, want local", cfg.Environment)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Mongo.ConnectTimeout != 10*time.Second {
		t.Errorf("ConnectTimeout = %v, want 10s", cfg.Mongo.ConnectTimeout)
	}
	if cfg.Model.ArtifactPath != "models/plant_disease_model.json.gz" {
		t.Errorf("ArtifactPath = %q", cfg.Model.ArtifactPath)
	}
	if cfg.Model.TreatmentsPath != "treatments.json" {
		t.Errorf("TreatmentsPath = %q", cfg.Model.TreatmentsPath)
	}
	if len(cfg.Security.CorsAllowedOrigins) != 1 || cfg.Security.CorsAllowedOrigins[0] != "*" {
		t.Errorf("CorsAllowedOrigins = %v", cfg.Security.CorsAllowedOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Environment != "prod" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.Mongo.ConnectTimeout != 3*time.Second {
		t.Errorf("ConnectTimeout = %v", cfg.Mongo.ConnectTimeout)
	}
	if len(cfg.Security.CorsAllowedOrigins) != 2 {
		t.Errorf("CorsAllowedOrigins = %v", cfg.Security.CorsAllowedOrigins)
	}
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("MONGO_URL", "")
	t.Setenv("DB_NAME", "")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected validation error for missing required values")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cfgErr.Type != ErrValidation {
		t.Errorf("error type = %s, want %s", cfgErr.Type, ErrValidation)
	}
}

func TestLoadConfigInvalidEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "not-an-env")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected validation error for invalid APP_ENV")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cfgErr.Type != ErrValidation {
		t.Errorf("error type = %s, want %s", cfgErr.Type, ErrValidation)
	}
}

func TestLoadConfigParseFailure(t *testing.T) {
	setRequired(t)
	t.Setenv("MONGO_CONNECT_TIMEOUT", "not-a-duration")

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected parsing error for invalid duration")
	}

	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cfgErr.Type != ErrParsing {
		t.Errorf("error type = %s, want %s", cfgErr.Type, ErrParsing)
	}
}
