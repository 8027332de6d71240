package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Storage    StorageConfig
	Models     ModelsConfig
	Camera     CameraConfig
	Matching   MatchingConfig
	Liveness   LivenessConfig
	Enrollment EnrollmentConfig
	Database   DatabaseConfig
	Web        WebConfig
	LogLevel   string
}

type StorageConfig struct {
	EncodingsDir   string // directory with one record per enrolled identity
	AttendanceFile string // CSV ledger path
}

type ModelsConfig struct {
	Dir string // directory holding the dlib model files
}

type CameraConfig struct {
	Device int // video capture device index
}

type MatchingConfig struct {
	Threshold float64 `yaml:"threshold"` // maximum Euclidean distance for a match (exclusive)
	Matcher   string  `yaml:"matcher"`   // "linear" or "hnsw"
}

type LivenessConfig struct {
	EARThreshold   float64 `yaml:"ear_threshold"`
	NoseMovementPx int     `yaml:"nose_movement_px"`
}

type EnrollmentConfig struct {
	WebcamCaptures int `yaml:"webcam_captures"`
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL
	MariaDBDSN   string // MariaDB/MySQL DSN, used when URL is empty
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // extra CORS origins besides localhost
}

// Defaults holds the values shipped in the embedded defaults.yaml.
type Defaults struct {
	Matching   MatchingConfig   `yaml:"matching"`
	Liveness   LivenessConfig   `yaml:"liveness"`
	Enrollment EnrollmentConfig `yaml:"enrollment"`
}

// envInt reads an environment variable and parses it as a non-negative integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envList splits a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func envString(key, defaultVal string) string {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		return s
	}
	return defaultVal
}

// LoadDefaults parses the embedded defaults.yaml.
func LoadDefaults() Defaults {
	var d Defaults
	if err := yaml.Unmarshal(defaultsYAML, &d); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	return d
}

func Load() *Config {
	d := LoadDefaults()

	return &Config{
		Storage: StorageConfig{
			EncodingsDir:   envString("ENCODINGS_DIR", "trained_encodings"),
			AttendanceFile: envString("ATTENDANCE_FILE", "attendance_log.csv"),
		},
		Models: ModelsConfig{
			Dir: envString("MODELS_DIR", "models"),
		},
		Camera: CameraConfig{
			Device: envInt("CAMERA_DEVICE", 0),
		},
		Matching: MatchingConfig{
			Threshold: envFloat("MATCH_THRESHOLD", d.Matching.Threshold),
			Matcher:   strings.ToLower(envString("MATCHER", d.Matching.Matcher)),
		},
		Liveness: LivenessConfig{
			EARThreshold:   envFloat("EAR_THRESHOLD", d.Liveness.EARThreshold),
			NoseMovementPx: envInt("NOSE_MOVEMENT_PX", d.Liveness.NoseMovementPx),
		},
		Enrollment: EnrollmentConfig{
			WebcamCaptures: envInt("WEBCAM_CAPTURES", d.Enrollment.WebcamCaptures),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MariaDBDSN:   os.Getenv("MARIADB_DSN"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Web: WebConfig{
			Host:           envString("WEB_HOST", "0.0.0.0"),
			Port:           envInt("WEB_PORT", 8080),
			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		LogLevel: strings.ToLower(envString("LOG_LEVEL", "info")),
	}
}

// UseHNSW reports whether the approximate HNSW matcher was requested.
func (c *MatchingConfig) UseHNSW() bool {
	return c.Matcher == "hnsw"
}
