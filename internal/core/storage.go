package core

import (
	"context"
	"fmt"

	"memberbook/internal/config"
	"memberbook/internal/infra/persistence/file"
	"memberbook/internal/infra/persistence/memory"
	"memberbook/internal/infra/persistence/postgres"
	"memberbook/internal/infra/persistence/sqlite"
	"memberbook/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageFile     StorageDriver = "file"     // JSON data file
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// OpenPersistentStore opens the backend selected by cfg.Driver. dataFile is
// used by the file driver when cfg.FilePath is empty, usually the data file
// named in the user preferences.
func OpenPersistentStore(ctx context.Context, cfg config.Storage, dataFile string) (PersistentStore, error) {
	switch StorageDriver(cfg.Driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageFile, "":
		path := cfg.FilePath
		if path == "" {
			path = dataFile
		}
		if path == "" {
			path = config.DefaultDataFile
		}
		fs, err := file.NewStore(path)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case StorageSQLite:
		ss, err := sqlite.NewStore(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return ss, nil
	case StoragePostgres:
		ps, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return ps, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
}

// LoadModel reads the persisted snapshot from store and builds a model on it.
func LoadModel(ctx context.Context, store PersistentStore, cfg ModelConfig) (*Model, error) {
	snapshot, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	data, err := domain.DatasetFromSnapshot(snapshot)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return NewModel(data, cfg), nil
}

// CloseStore closes store when the backend holds resources.
func CloseStore(store PersistentStore) error {
	if c, ok := store.(domain.Closer); ok {
		return c.Close()
	}
	return nil
}
