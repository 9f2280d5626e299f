// Package config loads process configuration from the environment and user
// preferences from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every variable name below.
const EnvPrefix = "MEMBERBOOK_"

// Config is the process configuration.
type Config struct {
	Storage      Storage `envPrefix:"STORAGE_"`
	Blob         Blob    `envPrefix:"BLOB_"`
	HistoryLimit int     `env:"HISTORY_LIMIT" envDefault:"100"`
	LogLevel     string  `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat    string  `env:"LOG_FORMAT" envDefault:"text"`
	PrefsPath    string  `env:"PREFS_PATH" envDefault:"preferences.yaml"`
	// OTelEndpoint enables OTLP/HTTP trace export when set.
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
	// MetricsAddr serves Prometheus metrics when set, e.g. "127.0.0.1:9464".
	MetricsAddr string `env:"METRICS_ADDR"`
}

// Storage selects the persistence backend.
//
//	MEMBERBOOK_STORAGE_DRIVER: memory|file|sqlite|postgres (default file)
//	MEMBERBOOK_STORAGE_FILE_PATH: JSON data file when driver=file
//	MEMBERBOOK_STORAGE_SQLITE_PATH: sqlite file when driver=sqlite
//	MEMBERBOOK_STORAGE_POSTGRES_DSN: DSN when driver=postgres
type Storage struct {
	Driver      string `env:"DRIVER" envDefault:"file"`
	FilePath    string `env:"FILE_PATH"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"memberbook.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`
}

// Blob selects the archive backend.
//
//	MEMBERBOOK_BLOB_DRIVER: fs|s3|memory (default fs)
//	MEMBERBOOK_BLOB_FS_ROOT: directory root when driver=fs
//	MEMBERBOOK_BLOB_PREFIX: key prefix for archives (default backups)
type Blob struct {
	Driver string `env:"DRIVER" envDefault:"fs"`
	FSRoot string `env:"FS_ROOT" envDefault:"archive"`
	Prefix string `env:"PREFIX" envDefault:"backups"`
	S3     S3     `envPrefix:"S3_"`
}

// S3 configures the S3-compatible archive backend. Credentials fall back to
// the default AWS chain when the key pair is empty.
type S3 struct {
	Bucket          string `env:"BUCKET"`
	Region          string `env:"REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"ENDPOINT"`
	PathStyle       bool   `env:"PATH_STYLE"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates the process configuration.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	switch c.Storage.Driver {
	case "memory", "file", "sqlite":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres driver requires MEMBERBOOK_STORAGE_POSTGRES_DSN"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	switch c.Blob.Driver {
	case "fs", "memory":
	case "s3":
		if c.Blob.S3.Bucket == "" {
			errs = append(errs, errors.New("s3 blob driver requires MEMBERBOOK_BLOB_S3_BUCKET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown blob driver %q", c.Blob.Driver))
	}
	if c.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("history limit must not be negative, got %d", c.HistoryLimit))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLogLevel maps debug|info|warn|error onto slog levels.
func ParseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}
