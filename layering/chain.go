package layering

import "slices"

// Lookup probes a single source for key.
type Lookup[V any] func(key string) (V, bool)

// Layer is one named lookup source inside a chain. Higher priority values
// are searched first.
type Layer[V any] struct {
	Name     string
	Priority int
	Lookup   Lookup[V]
}

// Chain is an ordered list of lookup layers searched from strongest to
// weakest. Adding a layer never requires changes at search call sites, so a
// chain can grow extra sources (a cache, an overlay) behind the same Find.
type Chain[V any] struct {
	ordered []Layer[V]
}

// NewChain builds a chain from layers, dropping entries without a name or a
// lookup and deduplicating by name (first occurrence wins). The result is
// ordered by descending priority with stable relative order for peers.
func NewChain[V any](layers ...Layer[V]) Chain[V] {
	filtered := make([]Layer[V], 0, len(layers))
	seen := map[string]struct{}{}

	for _, layer := range layers {
		if layer.Name == "" || layer.Lookup == nil {
			continue
		}
		if _, exists := seen[layer.Name]; exists {
			continue
		}
		seen[layer.Name] = struct{}{}
		filtered = append(filtered, layer)
	}

	slices.SortStableFunc(filtered, func(a, b Layer[V]) int {
		if a.Priority == b.Priority {
			return 0
		}
		if a.Priority > b.Priority {
			return -1
		}
		return 1
	})

	return Chain[V]{ordered: filtered}
}

// Find searches the chain for key and returns the value together with the
// name of the layer that produced it.
func (c Chain[V]) Find(key string) (V, string, bool) {
	for _, layer := range c.ordered {
		if value, ok := layer.Lookup(key); ok {
			return value, layer.Name, true
		}
	}
	var zero V
	return zero, "", false
}

// Contains reports whether any layer resolves key.
func (c Chain[V]) Contains(key string) bool {
	_, _, ok := c.Find(key)
	return ok
}

// Len returns the number of layers.
func (c Chain[V]) Len() int {
	return len(c.ordered)
}

// Ordered returns the search sequence from strongest (index 0) to weakest.
func (c Chain[V]) Ordered() []Layer[V] {
	out := make([]Layer[V], len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Strongest returns the first layer in the chain (zero layer if empty).
func (c Chain[V]) Strongest() Layer[V] {
	if len(c.ordered) == 0 {
		return Layer[V]{}
	}
	return c.ordered[0]
}

// Weakest returns the final layer in the chain (zero layer if empty).
func (c Chain[V]) Weakest() Layer[V] {
	if len(c.ordered) == 0 {
		return Layer[V]{}
	}
	return c.ordered[len(c.ordered)-1]
}
