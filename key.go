package bunches

import "fmt"

// Reserved pseudo-key literals. They dispatch wildcard behaviour when used as
// key arguments and are never valid stored keys.
const (
	ReservedNone    = "none"
	ReservedDefault = "default"
	ReservedAll     = "all"
)

type keyKind int

const (
	keyID keyKind = iota
	keyNone
	keyDefault
	keyAll
)

// Key is a key argument for catalog operations: either a concrete identifier
// or one of the reserved wildcards. Modelling the wildcards as a closed tagged
// type keeps resolution a single exhaustive switch instead of string-sentinel
// comparisons scattered across call sites.
type Key struct {
	kind keyKind
	name string
}

var (
	// None resolves to no keys: reads return nothing, writes and deletes are
	// no-ops.
	None = Key{kind: keyNone}
	// Default resolves to the catalog's configured default keys, or to All
	// when no defaults are configured.
	Default = Key{kind: keyDefault}
	// All resolves to every stored key in insertion order.
	All = Key{kind: keyAll}
)

// ID wraps a concrete identifier as a key argument. The reserved literals map
// to their wildcard counterparts so callers that ingest raw strings keep the
// original dispatch behaviour.
func ID(name string) Key {
	switch name {
	case ReservedNone:
		return None
	case ReservedDefault:
		return Default
	case ReservedAll:
		return All
	default:
		return Key{kind: keyID, name: name}
	}
}

// IDs wraps a slice of identifiers, preserving order.
func IDs(names ...string) []Key {
	keys := make([]Key, len(names))
	for i, name := range names {
		keys[i] = ID(name)
	}
	return keys
}

// IsWildcard reports whether the key dispatches wildcard resolution rather
// than naming a stored entry.
func (k Key) IsWildcard() bool {
	return k.kind != keyID
}

// Name returns the concrete identifier, or the reserved literal for
// wildcards.
func (k Key) Name() string {
	switch k.kind {
	case keyNone:
		return ReservedNone
	case keyDefault:
		return ReservedDefault
	case keyAll:
		return ReservedAll
	default:
		return k.name
	}
}

func (k Key) String() string {
	if k.IsWildcard() {
		return fmt.Sprintf("<%s>", k.Name())
	}
	return k.name
}

// isReservedName reports whether name collides with a pseudo-key literal.
func isReservedName(name string) bool {
	switch name {
	case ReservedNone, ReservedDefault, ReservedAll:
		return true
	default:
		return false
	}
}
