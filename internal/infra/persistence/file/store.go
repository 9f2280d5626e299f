// Package file persists the dataset as a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"memberbook/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// Store reads and writes one JSON data file. A missing file loads as an
// empty dataset.
type Store struct {
	path string
}

// NewStore returns a store for path. Nothing touches the disk until Load or Save.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("data file path is empty")
	}
	return &Store{path: path}, nil
}

// Path returns the data file location.
func (s *Store) Path() string { return s.path }

// Load reads and decodes the data file.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			var empty domain.Snapshot
			empty.Normalize()
			return empty, nil
		}
		return domain.Snapshot{}, fmt.Errorf("read data file: %w", err)
	}
	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode data file %s: %w", s.path, err)
	}
	snapshot.Normalize()
	return snapshot, nil
}

// Save writes the snapshot atomically through a temp file in the same directory.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot.Normalize()
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".memberbook-*.json")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
