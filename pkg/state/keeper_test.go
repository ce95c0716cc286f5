package state_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	bunches "github.com/goliatone/go-bunches"
	"github.com/goliatone/go-bunches/pkg/state"
)

func seedCatalog(t *testing.T) *bunches.Catalog[string] {
	t.Helper()
	catalog, err := bunches.Of([]bunches.Entry[string]{
		{Key: "b", Value: "2"},
		{Key: "a", Value: "1"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return catalog
}

func TestKeeperCheckpointRestoreRoundTrip(t *testing.T) {
	keeper := state.Keeper[string]{Store: state.NewMemoryStore[[]bunches.Entry[string]]()}
	ref := state.Ref{Domain: "workers"}
	ctx := context.Background()

	saved, err := keeper.Checkpoint(ctx, ref, seedCatalog(t), state.Meta{})
	if err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	if saved.SnapshotID == "" || saved.ETag == "" || saved.UpdatedAt.IsZero() {
		t.Fatalf("expected snapshot identity filled in: %+v", saved)
	}

	restored, meta, err := keeper.Restore(ctx, ref)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if meta.ETag != saved.ETag {
		t.Fatalf("expected stored meta, got %+v", meta)
	}
	if !reflect.DeepEqual(restored.Keys(), []string{"b", "a"}) {
		t.Fatalf("expected insertion order preserved, got %v", restored.Keys())
	}
	if got, _ := restored.Get("a"); got != "1" {
		t.Fatalf("unexpected value: %q", got)
	}
}

func TestKeeperCheckpointDetectsConflicts(t *testing.T) {
	keeper := state.Keeper[string]{Store: state.NewMemoryStore[[]bunches.Entry[string]]()}
	ref := state.Ref{Domain: "workers"}
	ctx := context.Background()

	first, err := keeper.Checkpoint(ctx, ref, seedCatalog(t), state.Meta{})
	if err != nil {
		t.Fatalf("first checkpoint: %v", err)
	}

	// A writer holding the current ETag succeeds and rotates it.
	second, err := keeper.Checkpoint(ctx, ref, seedCatalog(t), state.Meta{ETag: first.ETag})
	if err != nil {
		t.Fatalf("second checkpoint: %v", err)
	}
	if second.ETag == first.ETag {
		t.Fatalf("expected a fresh etag")
	}

	// A writer holding the stale ETag is rejected.
	_, err = keeper.Checkpoint(ctx, ref, seedCatalog(t), state.Meta{ETag: first.ETag})
	if !errors.Is(err, state.ErrETagMismatch) {
		t.Fatalf("expected ErrETagMismatch, got %v", err)
	}
}

func TestKeeperRestoreMissingSnapshot(t *testing.T) {
	keeper := state.Keeper[string]{Store: state.NewMemoryStore[[]bunches.Entry[string]]()}

	restored, meta, err := keeper.Restore(context.Background(), state.Ref{Domain: "empty"})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Len() != 0 {
		t.Fatalf("expected an empty catalog, got %v", restored.Keys())
	}
	if meta.SnapshotID != "" || meta.ETag != "" {
		t.Fatalf("expected zero meta, got %+v", meta)
	}
}

func TestKeeperRequiresStore(t *testing.T) {
	var keeper state.Keeper[string]
	if _, err := keeper.Checkpoint(context.Background(), state.Ref{Domain: "d"}, seedCatalog(t), state.Meta{}); err == nil {
		t.Fatalf("expected error without a store")
	}
	if _, _, err := keeper.Restore(context.Background(), state.Ref{Domain: "d"}); err == nil {
		t.Fatalf("expected error without a store")
	}
}

func TestRefIdentifier(t *testing.T) {
	cases := []struct {
		ref  state.Ref
		want string
	}{
		{state.Ref{Domain: "workers"}, "catalog/workers"},
		{state.Ref{Domain: "workers", Layer: "instances"}, "instances/workers"},
		{state.Ref{Domain: "workers", Layer: "classes"}, "classes/workers"},
	}
	for _, tc := range cases {
		got, err := tc.ref.Identifier()
		if err != nil {
			t.Fatalf("identifier: %v", err)
		}
		if got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}

	if _, err := (state.Ref{}).Identifier(); err == nil {
		t.Fatalf("expected error for missing domain")
	}
}
