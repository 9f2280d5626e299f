package blob

import (
	"context"
	"path/filepath"
	"testing"

	"memberbook/internal/config"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	fsStore, err := Open(ctx, config.Blob{Driver: "fs", FSRoot: filepath.Join(t.TempDir(), "archive")})
	if err != nil {
		t.Fatalf("open fs: %v", err)
	}
	if fsStore.Driver() != DriverFilesystem {
		t.Fatalf("expected fs driver, got %s", fsStore.Driver())
	}
	memStore, err := Open(ctx, config.Blob{Driver: "memory"})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if memStore.Driver() != DriverMemory {
		t.Fatalf("expected memory driver, got %s", memStore.Driver())
	}
	if _, err := Open(ctx, config.Blob{Driver: "s3"}); err == nil {
		t.Fatalf("expected s3 without bucket to fail")
	}
	if _, err := Open(ctx, config.Blob{Driver: "tape"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
