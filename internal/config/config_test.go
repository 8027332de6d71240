package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	d := LoadDefaults()

	if d.Matching.Threshold != 0.6 {
		t.Errorf("expected matching threshold 0.6, got %f", d.Matching.Threshold)
	}
	if d.Matching.Matcher != "linear" {
		t.Errorf("expected matcher 'linear', got '%s'", d.Matching.Matcher)
	}
	if d.Liveness.EARThreshold != 0.2 {
		t.Errorf("expected EAR threshold 0.2, got %f", d.Liveness.EARThreshold)
	}
	if d.Liveness.NoseMovementPx != 2 {
		t.Errorf("expected nose movement 2px, got %d", d.Liveness.NoseMovementPx)
	}
	if d.Enrollment.WebcamCaptures != 10 {
		t.Errorf("expected 10 webcam captures, got %d", d.Enrollment.WebcamCaptures)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ENCODINGS_DIR", "ATTENDANCE_FILE", "MODELS_DIR", "CAMERA_DEVICE",
		"MATCH_THRESHOLD", "MATCHER", "EAR_THRESHOLD", "NOSE_MOVEMENT_PX",
		"WEBCAM_CAPTURES", "DATABASE_URL", "MARIADB_DSN", "LOG_LEVEL", "WEB_HOST", "WEB_PORT",
		"WEB_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Storage.EncodingsDir != "trained_encodings" {
		t.Errorf("expected encodings dir 'trained_encodings', got '%s'", cfg.Storage.EncodingsDir)
	}
	if cfg.Storage.AttendanceFile != "attendance_log.csv" {
		t.Errorf("expected attendance file 'attendance_log.csv', got '%s'", cfg.Storage.AttendanceFile)
	}
	if cfg.Models.Dir != "models" {
		t.Errorf("expected models dir 'models', got '%s'", cfg.Models.Dir)
	}
	if cfg.Camera.Device != 0 {
		t.Errorf("expected camera device 0, got %d", cfg.Camera.Device)
	}
	if cfg.Matching.Threshold != 0.6 {
		t.Errorf("expected threshold 0.6, got %f", cfg.Matching.Threshold)
	}
	if cfg.Matching.UseHNSW() {
		t.Error("expected linear matcher by default")
	}
	if cfg.Database.URL != "" || cfg.Database.MariaDBDSN != "" {
		t.Errorf("expected no database configured, got '%s' / '%s'", cfg.Database.URL, cfg.Database.MariaDBDSN)
	}
	if cfg.Database.MaxOpenConns != 25 || cfg.Database.MaxIdleConns != 5 {
		t.Errorf("unexpected pool sizes %d/%d", cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Web.Port)
	}
	if len(cfg.Web.AllowedOrigins) != 0 {
		t.Errorf("expected no allowed origins, got %v", cfg.Web.AllowedOrigins)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.LogLevel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ENCODINGS_DIR", "/data/enc")
	t.Setenv("ATTENDANCE_FILE", "/data/log.csv")
	t.Setenv("CAMERA_DEVICE", "2")
	t.Setenv("MATCH_THRESHOLD", "0.45")
	t.Setenv("MATCHER", "HNSW")
	t.Setenv("EAR_THRESHOLD", "0.25")
	t.Setenv("NOSE_MOVEMENT_PX", "4")
	t.Setenv("WEBCAM_CAPTURES", "20")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("WEB_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()

	if cfg.Storage.EncodingsDir != "/data/enc" {
		t.Errorf("expected '/data/enc', got '%s'", cfg.Storage.EncodingsDir)
	}
	if cfg.Storage.AttendanceFile != "/data/log.csv" {
		t.Errorf("expected '/data/log.csv', got '%s'", cfg.Storage.AttendanceFile)
	}
	if cfg.Camera.Device != 2 {
		t.Errorf("expected device 2, got %d", cfg.Camera.Device)
	}
	if cfg.Matching.Threshold != 0.45 {
		t.Errorf("expected threshold 0.45, got %f", cfg.Matching.Threshold)
	}
	if !cfg.Matching.UseHNSW() {
		t.Error("expected hnsw matcher")
	}
	if cfg.Liveness.EARThreshold != 0.25 {
		t.Errorf("expected EAR threshold 0.25, got %f", cfg.Liveness.EARThreshold)
	}
	if cfg.Liveness.NoseMovementPx != 4 {
		t.Errorf("expected nose movement 4, got %d", cfg.Liveness.NoseMovementPx)
	}
	if cfg.Enrollment.WebcamCaptures != 20 {
		t.Errorf("expected 20 captures, got %d", cfg.Enrollment.WebcamCaptures)
	}
	if len(cfg.Web.AllowedOrigins) != 2 || cfg.Web.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected allowed origins %v", cfg.Web.AllowedOrigins)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected 'debug', got '%s'", cfg.LogLevel)
	}
}

func TestEnvHelpers_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not a number", "abc"},
		{"negative", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_ENV_VALUE", tt.value)
			if got := envInt("TEST_ENV_VALUE", 7); got != 7 {
				t.Errorf("envInt(%q) = %d, want 7", tt.value, got)
			}
			if got := envFloat("TEST_ENV_VALUE", 0.5); got != 0.5 {
				t.Errorf("envFloat(%q) = %f, want 0.5", tt.value, got)
			}
		})
	}
}
