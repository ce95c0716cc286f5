package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	bunches "github.com/goliatone/go-bunches"
	"github.com/google/uuid"
)

var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one saved snapshot of a container's contents.
type Ref struct {
	// Domain is the logical container name (e.g. "workers", "parsers").
	Domain string
	// Layer distinguishes registry layers ("instances", "classes"); empty
	// for plain catalogs.
	Layer string
}

// Identifier returns the deterministic storage key for the reference.
func (r Ref) Identifier() (string, error) {
	if r.Domain == "" {
		return "", fmt.Errorf("state: domain is required")
	}
	if r.Layer == "" {
		return fmt.Sprintf("catalog/%s", r.Domain), nil
	}
	return fmt.Sprintf("%s/%s", r.Layer, r.Domain), nil
}

// Meta is storage-owned metadata used for trace/audit and conflict detection.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one snapshot for a single reference.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// Keeper checkpoints and restores catalog contents through a Store. Snapshots
// are ordered entry slices, so restored catalogs keep their insertion order.
type Keeper[V any] struct {
	Store Store[[]bunches.Entry[V]]
}

// Checkpoint captures the catalog's entries under ref. When meta carries an
// ETag it must match the stored one, otherwise ErrETagMismatch is returned
// and nothing is saved. The returned Meta carries a fresh snapshot ID and
// ETag.
func (k Keeper[V]) Checkpoint(ctx context.Context, ref Ref, catalog *bunches.Catalog[V], meta Meta) (Meta, error) {
	if k.Store == nil {
		return Meta{}, fmt.Errorf("state: store is required")
	}
	if catalog == nil {
		return Meta{}, fmt.Errorf("state: catalog is required")
	}

	_, stored, ok, err := k.Store.Load(ctx, ref)
	if err != nil {
		return Meta{}, fmt.Errorf("state: load %q: %w", ref.Domain, err)
	}
	if ok && meta.ETag != "" && stored.ETag != "" && meta.ETag != stored.ETag {
		return stored, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, stored.ETag)
	}

	entries := make([]bunches.Entry[V], 0, catalog.Len())
	for key, value := range catalog.Entries() {
		entries = append(entries, bunches.Entry[V]{Key: key, Value: value})
	}

	saveMeta := meta
	if saveMeta.SnapshotID == "" {
		saveMeta.SnapshotID = uuid.NewString()
	}
	saveMeta.ETag = uuid.NewString()
	saveMeta.UpdatedAt = time.Now()

	saved, err := k.Store.Save(ctx, ref, entries, saveMeta)
	if err != nil {
		return Meta{}, fmt.Errorf("state: save %q: %w", ref.Domain, err)
	}
	return saved, nil
}

// Restore rebuilds a catalog from the snapshot saved under ref. A missing
// snapshot restores an empty catalog with zero Meta.
func (k Keeper[V]) Restore(ctx context.Context, ref Ref, opts ...bunches.Option) (*bunches.Catalog[V], Meta, error) {
	if k.Store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}

	entries, meta, ok, err := k.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q: %w", ref.Domain, err)
	}
	if !ok {
		return bunches.New[V](opts...), Meta{}, nil
	}
	catalog, err := bunches.Of(entries, opts...)
	if err != nil {
		return nil, meta, err
	}
	return catalog, meta, nil
}
