package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database/filestore"
	"github.com/kozaktomas/face-attendance/internal/database/mariadb"
	"github.com/kozaktomas/face-attendance/internal/database/postgres"
	"github.com/kozaktomas/face-attendance/internal/facemodel/dlib"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/models"
)

// openStorage registers PostgreSQL when DATABASE_URL is set, MariaDB when
// MARIADB_DSN is set and the file backend otherwise. The returned func
// releases the backend.
func openStorage(cfg *config.Config, log *logger.Logger) (func(), error) {
	if cfg.Database.URL == "" && cfg.Database.MariaDBDSN != "" {
		log.Info("Connecting to MariaDB database...")
		if err := mariadb.Initialize(&cfg.Database); err != nil {
			return nil, fmt.Errorf("failed to initialize MariaDB: %w", err)
		}
		return func() {
			if pool := mariadb.GetGlobalPool(); pool != nil {
				if err := pool.Close(); err != nil {
					log.Error(err, "Closing database pool")
				}
			}
		}, nil
	}

	if cfg.Database.URL == "" {
		if err := filestore.Initialize(&cfg.Storage, log); err != nil {
			return nil, fmt.Errorf("failed to initialize file storage: %w", err)
		}
		log.Debugf("Using file storage: encodings in %s, attendance log %s",
			cfg.Storage.EncodingsDir, cfg.Storage.AttendanceFile)
		return func() {}, nil
	}

	log.Info("Connecting to PostgreSQL database...")
	if err := postgres.Initialize(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	return func() {
		if pool := postgres.GetGlobalPool(); pool != nil {
			if err := pool.Close(); err != nil {
				log.Error(err, "Closing database pool")
			}
		}
	}, nil
}

// openModel loads the dlib models from the configured directory.
func openModel(cfg *config.Config) (*dlib.Model, error) {
	if err := models.Verify(cfg.Models.Dir); err != nil {
		return nil, err
	}
	return dlib.New(cfg.Models.Dir)
}

func outputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}
	return nil
}
