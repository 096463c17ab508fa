// Package storage persists draft snapshots so an in-progress sale or purchase
// survives a terminal restart. The draft algebra never writes here directly;
// the owning service writes a full snapshot through a Store after every
// mutation and rehydrates from it on demand.
package storage

import (
	"context"
	"errors"
)

// Draft kinds used as the snapshot namespace.
const (
	KindSale     = "sale"
	KindPurchase = "purchase"
)

// ErrNotFound indicates no snapshot exists for the given kind and id.
var ErrNotFound = errors.New("snapshot not found")

// Store is a key-value snapshot store. Data is an opaque JSON document owned
// by the caller.
type Store interface {
	SaveDraft(ctx context.Context, kind, id string, data []byte) error
	LoadDraft(ctx context.Context, kind, id string) ([]byte, error)
	DeleteDraft(ctx context.Context, kind, id string) error
	ListDraftIDs(ctx context.Context, kind string) ([]string, error)
}
