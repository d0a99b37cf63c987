// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/dukerupert/macrolog/internal/backup"
	"github.com/dukerupert/macrolog/internal/nutrition"
)

type Config struct {
	Port        string
	DBPath      string
	Namespace   string
	LogLevel    string
	LogFormat   string
	MatchPolicy nutrition.MatchPolicy

	// MealsPerMinute caps POST /api/meals per client IP.
	MealsPerMinute int
	// WSOrigins are extra hosts allowed to open the websocket.
	WSOrigins []string

	S3                  backup.S3Config
	BackupInterval      time.Duration
	BackupRetentionDays int
}

// Backup returns the backup manager configuration.
func (c Config) Backup() backup.Config {
	return backup.Config{
		S3:            c.S3,
		Namespace:     c.Namespace,
		Interval:      c.BackupInterval,
		RetentionDays: c.BackupRetentionDays,
	}
}

// Load reads the given .env files (default ".env") into the environment
// without overriding variables that are already set, then builds a Config.
// Missing .env files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, applying defaults for unset values.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:      get("MACROLOG_PORT", "8080"),
		DBPath:    get("MACROLOG_DB_PATH", "macrolog.db"),
		Namespace: get("MACROLOG_NAMESPACE", "aft"),
		LogLevel:  get("MACROLOG_LOG_LEVEL", "info"),
		LogFormat: get("MACROLOG_LOG_FORMAT", "text"),
		S3: backup.S3Config{
			Endpoint:  get("MACROLOG_S3_ENDPOINT", ""),
			Bucket:    get("MACROLOG_S3_BUCKET", ""),
			Region:    get("MACROLOG_S3_REGION", "us-east-1"),
			AccessKey: get("MACROLOG_S3_ACCESS_KEY", ""),
			SecretKey: get("MACROLOG_S3_SECRET_KEY", ""),
		},
	}

	policy, err := nutrition.ParseMatchPolicy(get("MACROLOG_MATCH_POLICY", ""))
	if err != nil {
		return Config{}, fmt.Errorf("MACROLOG_MATCH_POLICY: %w", err)
	}
	cfg.MatchPolicy = policy

	if cfg.MealsPerMinute, err = strconv.Atoi(get("MACROLOG_MEALS_PER_MINUTE", "30")); err != nil || cfg.MealsPerMinute < 1 {
		return Config{}, fmt.Errorf("MACROLOG_MEALS_PER_MINUTE: must be a positive integer")
	}

	if cfg.BackupInterval, err = time.ParseDuration(get("MACROLOG_BACKUP_INTERVAL", "0s")); err != nil || cfg.BackupInterval < 0 {
		return Config{}, fmt.Errorf("MACROLOG_BACKUP_INTERVAL: must be a non-negative duration")
	}

	if cfg.BackupRetentionDays, err = strconv.Atoi(get("MACROLOG_BACKUP_RETENTION_DAYS", "0")); err != nil || cfg.BackupRetentionDays < 0 {
		return Config{}, fmt.Errorf("MACROLOG_BACKUP_RETENTION_DAYS: must be a non-negative integer")
	}

	for _, o := range strings.Split(get("MACROLOG_WS_ORIGINS", ""), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.WSOrigins = append(cfg.WSOrigins, o)
		}
	}

	return cfg, nil
}
