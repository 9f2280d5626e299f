package archive

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"memberbook/internal/blob"
	inframemory "memberbook/internal/infra/blob/memory"
	"memberbook/pkg/domain"
)

func newTestArchiver(t *testing.T) (*Archiver, blob.Store) {
	t.Helper()
	store := inframemory.New()
	a := New(store, "/club/backups/")
	clock := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	a.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return a, store
}

func sampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Persons:    []domain.Person{{Name: "Alex"}},
		Events:     []domain.Event{{ID: "Camp", Description: "Camp", Date: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Expense: domain.MustMoney("10")}},
		Attendance: []domain.Attendance{{EventID: "Camp", Member: "Alex", Attended: true}},
	}
}

func TestBackupAndRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestArchiver(t)
	fixed := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	a.newID = func() uuid.UUID { return fixed }

	info, err := a.Backup(ctx, sampleSnapshot())
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	want := "club/backups/20250401T100100Z-11111111-2222-3333-4444-555555555555.json"
	if info.Key != want {
		t.Fatalf("unexpected key %q, want %q", info.Key, want)
	}
	if info.ContentType != "application/json" || info.Metadata["attendance"] != "1" {
		t.Fatalf("unexpected info %+v", info)
	}

	restored, err := a.Restore(ctx, info.Key)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(restored.Persons) != 1 || len(restored.Attendance) != 1 || !restored.Attendance[0].Attended {
		t.Fatalf("unexpected restored snapshot %+v", restored)
	}
	if restored.Tasks == nil {
		t.Fatalf("restored snapshot should be normalised")
	}
}

func TestListLatestAndPrune(t *testing.T) {
	ctx := context.Background()
	a, store := newTestArchiver(t)
	if _, err := a.Latest(ctx); !errors.Is(err, ErrNoArchives) {
		t.Fatalf("expected ErrNoArchives, got %v", err)
	}
	var keys []string
	for i := 0; i < 3; i++ {
		info, err := a.Backup(ctx, sampleSnapshot())
		if err != nil {
			t.Fatalf("backup %d: %v", i, err)
		}
		keys = append(keys, info.Key)
	}
	if _, err := store.Put(ctx, "club/backups/notes.txt", strings.NewReader("x"), blob.PutOptions{}); err != nil {
		t.Fatalf("put stray: %v", err)
	}

	infos, err := a.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected only json archives, got %d", len(infos))
	}
	latest, err := a.Latest(ctx)
	if err != nil || latest.Key != keys[2] {
		t.Fatalf("expected latest %s, got %+v (%v)", keys[2], latest, err)
	}

	deleted, err := a.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if len(deleted) != 2 || deleted[0] != keys[0] {
		t.Fatalf("unexpected pruned keys %v", deleted)
	}
	infos, _ = a.List(ctx)
	if len(infos) != 1 || infos[0].Key != keys[2] {
		t.Fatalf("expected newest archive to survive, got %+v", infos)
	}
}

func TestRestoreRejectsInvalidArchives(t *testing.T) {
	ctx := context.Background()
	a, store := newTestArchiver(t)
	if _, err := a.Restore(ctx, "club/backups/missing.json"); !errors.Is(err, blob.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := store.Put(ctx, "club/backups/bad.json", strings.NewReader("{"), blob.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := a.Restore(ctx, "club/backups/bad.json"); err == nil || !strings.Contains(err.Error(), "decode archive") {
		t.Fatalf("expected decode error, got %v", err)
	}
	dup := `{"persons":[{"name":"Alex"},{"name":"Alex"}]}`
	if _, err := store.Put(ctx, "club/backups/dup.json", strings.NewReader(dup), blob.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := a.Restore(ctx, "club/backups/dup.json"); !errors.Is(err, domain.ErrDuplicateEntity) {
		t.Fatalf("expected duplicate validation error, got %v", err)
	}
}

func TestDefaultPrefix(t *testing.T) {
	if got := New(inframemory.New(), "").Prefix(); got != "backups" {
		t.Fatalf("expected default prefix, got %q", got)
	}
}
