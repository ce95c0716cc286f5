package bunches

import (
	"context"
	"fmt"
	"iter"

	"github.com/goliatone/go-bunches/pkg/activity"
)

// Entry pairs an identifier with its stored value. Used for ordered seeding
// and snapshots.
type Entry[V any] struct {
	Key   string
	Value V
}

// Catalog is an insertion-ordered mapping whose operations accept wildcard
// key arguments (None, Default, All) alongside concrete identifiers.
//
// A Catalog is not safe for concurrent mutation; callers that share one
// across goroutines must serialize access themselves.
type Catalog[V any] struct {
	order []string
	items map[string]V
	cfg   config
}

// New constructs an empty Catalog.
func New[V any](opts ...Option) *Catalog[V] {
	return &Catalog[V]{
		items: make(map[string]V),
		cfg:   applyOptions(opts),
	}
}

// Of constructs a Catalog seeded with entries in the given order. Seeding
// under a reserved pseudo-key literal fails with ErrReservedKey.
func Of[V any](entries []Entry[V], opts ...Option) (*Catalog[V], error) {
	c := New[V](opts...)
	for _, entry := range entries {
		if err := c.Set(entry.Key, entry.Value); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Resolve expands key arguments into concrete identifiers, in order:
//
//   - ID resolves to itself, whether stored or not
//   - None resolves to nothing
//   - Default resolves to the configured defaults, or to All when none are
//     configured
//   - All resolves to every stored key in insertion order
//
// Duplicate keys resolve independently; no deduplication happens here.
func (c *Catalog[V]) Resolve(keys ...Key) []string {
	resolved := make([]string, 0, len(keys))
	for _, key := range keys {
		switch key.kind {
		case keyNone:
			// nothing
		case keyDefault:
			if len(c.cfg.defaults) > 0 {
				resolved = append(resolved, c.cfg.defaults...)
				continue
			}
			resolved = append(resolved, c.order...)
		case keyAll:
			resolved = append(resolved, c.order...)
		default:
			resolved = append(resolved, key.name)
		}
	}
	return resolved
}

// Get returns the value stored under name. Missing identifiers surface
// ErrKeyNotFound; this is the strict single-key read, unlike the best-effort
// Select.
func (c *Catalog[V]) Get(name string) (V, error) {
	value, ok := c.items[name]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}
	return value, nil
}

// Select resolves keys and returns the values for every resolved identifier
// that exists. Missing identifiers are skipped, so Select never fails;
// Select(None) returns an empty slice.
func (c *Catalog[V]) Select(keys ...Key) []V {
	resolved := c.Resolve(keys...)
	values := make([]V, 0, len(resolved))
	for _, name := range resolved {
		if value, ok := c.items[name]; ok {
			values = append(values, value)
		}
	}
	return values
}

// Set stores value under name, overwriting any previous entry and preserving
// the original insertion position. Reserved pseudo-key literals are rejected
// with ErrReservedKey.
func (c *Catalog[V]) Set(name string, value V) error {
	if isReservedName(name) {
		return fmt.Errorf("%w: %q", ErrReservedKey, name)
	}
	previous, existed := c.items[name]
	if !existed {
		c.order = append(c.order, name)
	}
	c.items[name] = value
	if existed {
		c.notifySet(name, previous, value)
	} else {
		c.notifySet(name, nil, value)
	}
	return nil
}

// SetMany assigns values to names positionally. The slices must agree in
// length; ErrLengthMismatch is returned before anything is applied.
func (c *Catalog[V]) SetMany(names []string, values []V) error {
	if len(names) != len(values) {
		return fmt.Errorf("%w: %d keys, %d values", ErrLengthMismatch, len(names), len(values))
	}
	for _, name := range names {
		if isReservedName(name) {
			return fmt.Errorf("%w: %q", ErrReservedKey, name)
		}
	}
	for i, name := range names {
		if err := c.Set(name, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// Fill broadcasts the same scalar value to every key the argument resolves
// to. Fill(All, v) overwrites every stored entry, Fill(None, v) is a no-op,
// and Fill(ID(name), v) behaves like Set. This scalar broadcast is deliberate
// and distinct from the positional SetMany.
func (c *Catalog[V]) Fill(key Key, value V) error {
	for _, name := range c.Resolve(key) {
		if err := c.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes every resolved key that exists. Resolving to absent keys is
// not an error; deletion is idempotent.
func (c *Catalog[V]) Delete(keys ...Key) {
	for _, name := range c.Resolve(keys...) {
		removed, ok := c.items[name]
		if !ok {
			continue
		}
		delete(c.items, name)
		for i, stored := range c.order {
			if stored == name {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
		c.notifyDeleted(name, removed)
	}
}

// Contains reports whether name is a currently stored key. Reserved
// pseudo-key literals are never contained.
func (c *Catalog[V]) Contains(name string) bool {
	_, ok := c.items[name]
	return ok
}

// Len returns the number of stored keys.
func (c *Catalog[V]) Len() int {
	return len(c.order)
}

// Keys returns the stored keys in insertion order.
func (c *Catalog[V]) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Values returns the stored values in insertion order.
func (c *Catalog[V]) Values() []V {
	out := make([]V, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.items[name])
	}
	return out
}

// Entries yields (key, value) pairs in insertion order. Each call returns a
// fresh sequence. Mutating the catalog while ranging has undefined ordering
// effects.
func (c *Catalog[V]) Entries() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, name := range c.order {
			if !yield(name, c.items[name]) {
				return
			}
		}
	}
}

// Merge sets every entry of other into c, overwriting on conflict. Keys
// already present keep their position; new keys append in other's order.
func (c *Catalog[V]) Merge(other *Catalog[V]) {
	if other == nil {
		return
	}
	for name, value := range other.Entries() {
		_ = c.Set(name, value)
	}
}

// MergeMap sets every entry of m into c in the order listed by keys. Keys
// absent from m are skipped.
func (c *Catalog[V]) MergeMap(keys []string, m map[string]V) error {
	for _, name := range keys {
		value, ok := m[name]
		if !ok {
			continue
		}
		if err := c.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Subset returns a new Catalog restricted to the resolved keys that exist,
// preserving the catalog's configuration. The copy shares stored values with
// the original (values are not cloned).
func (c *Catalog[V]) Subset(keys ...Key) *Catalog[V] {
	sub := &Catalog[V]{
		items: make(map[string]V),
		cfg:   c.cfg,
	}
	for _, name := range c.Resolve(keys...) {
		value, ok := c.items[name]
		if !ok {
			continue
		}
		if _, exists := sub.items[name]; !exists {
			sub.order = append(sub.order, name)
		}
		sub.items[name] = value
	}
	return sub
}

// Clone returns a shallow copy with the same order, values, and
// configuration.
func (c *Catalog[V]) Clone() *Catalog[V] {
	return c.Subset(All)
}

// Defaults returns the configured default keys used by Default resolution.
func (c *Catalog[V]) Defaults() []string {
	out := make([]string, len(c.cfg.defaults))
	copy(out, c.cfg.defaults)
	return out
}

// SetDefaults replaces the configured default keys.
func (c *Catalog[V]) SetDefaults(names ...string) {
	c.cfg.defaults = append([]string(nil), names...)
}

func (c *Catalog[V]) notifySet(name string, oldValue, newValue any) {
	if !c.cfg.activityHooks.Enabled() {
		return
	}
	_ = c.cfg.activityHooks.Notify(context.Background(), activity.BuildEntrySetEvent(activity.ContainerEventInput{
		Key:      name,
		OldValue: oldValue,
		NewValue: newValue,
	}))
}

func (c *Catalog[V]) notifyDeleted(name string, oldValue any) {
	if !c.cfg.activityHooks.Enabled() {
		return
	}
	_ = c.cfg.activityHooks.Notify(context.Background(), activity.BuildEntryDeletedEvent(activity.ContainerEventInput{
		Key:      name,
		OldValue: oldValue,
	}))
}
