package domain

import "context"

// PersistentStore is a minimal abstraction over durable backends. The model
// loads a snapshot on start and saves one after every kept mutation.
type PersistentStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

// Closer is implemented by stores holding external resources.
type Closer interface {
	Close() error
}
