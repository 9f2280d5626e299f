package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"memberbook/internal/blob/core"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := New()
	md := map[string]string{"kind": "snapshot"}
	if _, err := store.Put(ctx, "backups/b.json", strings.NewReader("{}"), core.PutOptions{Metadata: md}); err != nil {
		t.Fatalf("put: %v", err)
	}
	md["kind"] = "mutated"
	if _, err := store.Put(ctx, "backups/a.json", strings.NewReader("[]"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "backups/a.json", strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	info, err := store.Head(ctx, "backups/b.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if info.Metadata["kind"] != "snapshot" {
		t.Fatalf("expected metadata to be copied on put, got %v", info.Metadata)
	}

	list, err := store.List(ctx, "backups/")
	if err != nil || len(list) != 2 || list[0].Key != "backups/a.json" {
		t.Fatalf("unexpected listing %+v (%v)", list, err)
	}

	_, body, err := store.Get(ctx, "backups/a.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, _ := io.ReadAll(body)
	if string(data) != "[]" {
		t.Fatalf("unexpected content %q", data)
	}
	if _, _, err := store.Get(ctx, "nope"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if ok, _ := store.Delete(ctx, "backups/a.json"); !ok {
		t.Fatalf("expected delete to report existing blob")
	}
	if ok, _ := store.Delete(ctx, "backups/a.json"); ok {
		t.Fatalf("expected second delete to report missing blob")
	}
}
