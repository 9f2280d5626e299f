// Package archive writes dataset snapshots to blob storage as timestamped
// JSON backups and reads them back.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"memberbook/internal/blob"
	"memberbook/pkg/domain"
)

// ErrNoArchives is returned by Latest when the prefix holds no backups.
var ErrNoArchives = errors.New("no archives found")

const (
	contentType = "application/json"
	keyLayout   = "20060102T150405Z"
)

// Archiver stores backups under prefix in a blob store.
type Archiver struct {
	store  blob.Store
	prefix string
	now    func() time.Time
	newID  func() uuid.UUID
}

// New returns an archiver writing to store under prefix.
func New(store blob.Store, prefix string) *Archiver {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "backups"
	}
	return &Archiver{
		store:  store,
		prefix: prefix,
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Prefix returns the key prefix backups live under.
func (a *Archiver) Prefix() string { return a.prefix }

// Backup writes snapshot as a new archive and returns its blob info.
func (a *Archiver) Backup(ctx context.Context, snapshot domain.Snapshot) (blob.Info, error) {
	snapshot.Normalize()
	raw, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode snapshot: %w", err)
	}
	key := path.Join(a.prefix, fmt.Sprintf("%s-%s.json", a.now().UTC().Format(keyLayout), a.newID()))
	info, err := a.store.Put(ctx, key, bytes.NewReader(raw), blob.PutOptions{
		ContentType: contentType,
		Metadata: map[string]string{
			"persons":    strconv.Itoa(len(snapshot.Persons)),
			"events":     strconv.Itoa(len(snapshot.Events)),
			"tasks":      strconv.Itoa(len(snapshot.Tasks)),
			"attendance": strconv.Itoa(len(snapshot.Attendance)),
		},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("write archive %s: %w", key, err)
	}
	return info, nil
}

// List returns the archives under the prefix, oldest first.
func (a *Archiver) List(ctx context.Context) ([]blob.Info, error) {
	infos, err := a.store.List(ctx, a.prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	out := infos[:0]
	for _, info := range infos {
		if strings.HasSuffix(info.Key, ".json") {
			out = append(out, info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Latest returns the newest archive.
func (a *Archiver) Latest(ctx context.Context) (blob.Info, error) {
	infos, err := a.List(ctx)
	if err != nil {
		return blob.Info{}, err
	}
	if len(infos) == 0 {
		return blob.Info{}, ErrNoArchives
	}
	return infos[len(infos)-1], nil
}

// Restore reads and validates the archive at key.
func (a *Archiver) Restore(ctx context.Context, key string) (domain.Snapshot, error) {
	_, rc, err := a.store.Get(ctx, key)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read archive %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	var snapshot domain.Snapshot
	if err := json.NewDecoder(rc).Decode(&snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode archive %s: %w", key, err)
	}
	if _, err := domain.DatasetFromSnapshot(snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("validate archive %s: %w", key, err)
	}
	snapshot.Normalize()
	return snapshot, nil
}

// Prune deletes all but the newest keep archives and returns the deleted keys.
func (a *Archiver) Prune(ctx context.Context, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	infos, err := a.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(infos) <= keep {
		return nil, nil
	}
	var deleted []string
	for _, info := range infos[:len(infos)-keep] {
		ok, err := a.store.Delete(ctx, info.Key)
		if err != nil {
			return deleted, fmt.Errorf("delete archive %s: %w", info.Key, err)
		}
		if ok {
			deleted = append(deleted, info.Key)
		}
	}
	return deleted, nil
}
