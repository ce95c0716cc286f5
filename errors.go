package bunches

import "errors"

var (
	// ErrKeyNotFound indicates a single-key read (or a registry lookup that
	// exhausted every layer) found nothing. Broadcast reads never return it;
	// they skip missing keys instead.
	ErrKeyNotFound = errors.New("bunches: key not found")

	// ErrReservedKey indicates an attempt to store a value under one of the
	// reserved pseudo-key literals ("none", "default", "all").
	ErrReservedKey = errors.New("bunches: reserved key")

	// ErrLengthMismatch indicates a positional assignment received a value
	// slice whose length disagrees with the key slice. The call applies
	// nothing.
	ErrLengthMismatch = errors.New("bunches: length mismatch")

	// ErrUnnameable indicates no naming strategy could derive an identifier
	// for a deposited item.
	ErrUnnameable = errors.New("bunches: unnameable item")
)
