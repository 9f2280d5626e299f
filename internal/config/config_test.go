package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "file" || cfg.Blob.Driver != "fs" {
		t.Fatalf("unexpected drivers %q/%q", cfg.Storage.Driver, cfg.Blob.Driver)
	}
	if cfg.HistoryLimit != 100 || cfg.Blob.Prefix != "backups" || cfg.Blob.S3.Region != "us-east-1" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadReadsPrefixedNestedVariables(t *testing.T) {
	t.Setenv("MEMBERBOOK_STORAGE_DRIVER", "postgres")
	t.Setenv("MEMBERBOOK_STORAGE_POSTGRES_DSN", "postgres://localhost/memberbook")
	t.Setenv("MEMBERBOOK_BLOB_DRIVER", "s3")
	t.Setenv("MEMBERBOOK_BLOB_S3_BUCKET", "club-backups")
	t.Setenv("MEMBERBOOK_BLOB_S3_PATH_STYLE", "true")
	t.Setenv("MEMBERBOOK_HISTORY_LIMIT", "5")
	t.Setenv("MEMBERBOOK_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.PostgresDSN != "postgres://localhost/memberbook" {
		t.Fatalf("unexpected dsn %q", cfg.Storage.PostgresDSN)
	}
	if cfg.Blob.S3.Bucket != "club-backups" || !cfg.Blob.S3.PathStyle {
		t.Fatalf("unexpected s3 config %+v", cfg.Blob.S3)
	}
	if cfg.HistoryLimit != 5 {
		t.Fatalf("expected history limit 5, got %d", cfg.HistoryLimit)
	}
	if level, _ := ParseLogLevel(cfg.LogLevel); level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v", level)
	}
}

func TestLoadRejectsInconsistentConfig(t *testing.T) {
	t.Setenv("MEMBERBOOK_STORAGE_DRIVER", "postgres")
	t.Setenv("MEMBERBOOK_BLOB_DRIVER", "s3")
	t.Setenv("MEMBERBOOK_LOG_LEVEL", "loud")
	_, err := Load()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"POSTGRES_DSN", "S3_BUCKET", "invalid log level"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("MEMBERBOOK_HISTORY_LIMIT", "many")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Fatalf("expected parse env error, got %v", err)
	}
}

func TestLoadPrefsCreatesDefaultsOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.yaml")
	prefs, err := LoadPrefs(path)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if prefs.DataFilePath != DefaultDataFile {
		t.Fatalf("unexpected data file %q", prefs.DataFilePath)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected prefs file to be written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestPrefsRoundTripAndNormalize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	x := 10
	in := Prefs{DataFilePath: " club.json ", Window: Window{Width: 800, X: &x}, ArchivePrefix: "/nightly/"}
	if err := SavePrefs(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := LoadPrefs(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out.DataFilePath != "club.json" || out.ArchivePrefix != "nightly" {
		t.Fatalf("expected normalized prefs, got %+v", out)
	}
	if out.Window.Width != 800 || out.Window.Height != 600 || out.Window.X == nil || *out.Window.X != 10 {
		t.Fatalf("unexpected window %+v", out.Window)
	}
}

func TestLoadPrefsRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	if err := os.WriteFile(path, []byte("window: [unterminated"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadPrefs(path); err == nil {
		t.Fatalf("expected parse error")
	}
}
