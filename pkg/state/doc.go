// Package state defines store-facing contracts for checkpointing and
// restoring container contents, plus a small keeper that orchestrates the
// capture/restore round trip.
//
// Responsibilities:
//   - Store[T] only loads/saves a single snapshot for a single Ref.
//   - Keeper[V] captures a catalog's ordered entries into a Store and rebuilds
//     catalogs from saved snapshots.
//   - The core bunches package remains storage-agnostic; everything behind
//     Store is supplied by consumers. MemoryStore is the in-memory reference
//     implementation.
//
// Conflict detection:
//
//	Meta.ETag changes on every Checkpoint. Callers that pass the ETag they
//	last observed get ErrETagMismatch when someone else checkpointed in
//	between.
//
// Deterministic keys:
//
//	Ref.Identifier() provides a canonical storage key format
//	("catalog/<domain>" or "<layer>/<domain>") so alternative Store
//	implementations can compose predictable keys.
package state
