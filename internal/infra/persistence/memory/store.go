// Package memory provides an in-memory persistent store used for tests,
// ephemeral runs and as the read cache of the SQL stores.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"memberbook/pkg/domain"
)

// Compile-time contract assertion.
var _ domain.PersistentStore = (*Store)(nil)

// Store keeps the last saved snapshot as JSON so callers never share state
// with it.
type Store struct {
	mu    sync.RWMutex
	state []byte
	saves int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWith returns a store pre-loaded with snapshot.
func NewStoreWith(snapshot domain.Snapshot) (*Store, error) {
	s := NewStore()
	if err := s.ImportState(snapshot); err != nil {
		return nil, err
	}
	return s, nil
}

// Load returns a copy of the last saved snapshot, or an empty one.
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	return s.ExportState()
}

// Save replaces the stored snapshot.
func (s *Store) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ImportState(snapshot); err != nil {
		return err
	}
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return nil
}

// ImportState replaces the stored snapshot without counting a save.
func (s *Store) ImportState(snapshot domain.Snapshot) error {
	snapshot.Normalize()
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("memory store encode: %w", err)
	}
	s.mu.Lock()
	s.state = raw
	s.mu.Unlock()
	return nil
}

// ExportState returns a detached copy of the stored snapshot.
func (s *Store) ExportState() (domain.Snapshot, error) {
	s.mu.RLock()
	raw := s.state
	s.mu.RUnlock()
	var snapshot domain.Snapshot
	if raw != nil {
		if err := json.Unmarshal(raw, &snapshot); err != nil {
			return domain.Snapshot{}, fmt.Errorf("memory store decode: %w", err)
		}
	}
	snapshot.Normalize()
	return snapshot, nil
}

// Saves reports how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
