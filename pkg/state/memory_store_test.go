package state

import (
	"context"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore[[]string]()
	ref := Ref{Domain: "demo"}
	ctx := context.Background()

	if _, _, ok, err := store.Load(ctx, ref); err != nil || ok {
		t.Fatalf("expected a clean miss, ok=%v err=%v", ok, err)
	}

	meta := Meta{SnapshotID: "s1", ETag: "e1", Extra: map[string]string{"k": "v"}}
	saved, err := store.Save(ctx, ref, []string{"a"}, meta)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// The stored meta is detached from the caller's map.
	meta.Extra["k"] = "changed"
	snapshot, loaded, ok, err := store.Load(ctx, ref)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if len(snapshot) != 1 || snapshot[0] != "a" {
		t.Fatalf("unexpected snapshot: %v", snapshot)
	}
	if loaded.Extra["k"] != "v" || saved.Extra["k"] != "v" {
		t.Fatalf("expected meta cloned on save")
	}
}

func TestMemoryStoreRejectsInvalidRef(t *testing.T) {
	store := NewMemoryStore[int]()
	if _, err := store.Save(context.Background(), Ref{}, 1, Meta{}); err == nil {
		t.Fatalf("expected error for missing domain")
	}
	if _, _, _, err := store.Load(context.Background(), Ref{}); err == nil {
		t.Fatalf("expected error for missing domain")
	}
}

func TestMemoryStoreKeysByLayer(t *testing.T) {
	store := NewMemoryStore[int]()
	ctx := context.Background()

	if _, err := store.Save(ctx, Ref{Domain: "d", Layer: "instances"}, 1, Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Save(ctx, Ref{Domain: "d", Layer: "classes"}, 2, Meta{}); err != nil {
		t.Fatalf("save: %v", err)
	}

	instances, _, ok, _ := store.Load(ctx, Ref{Domain: "d", Layer: "instances"})
	classes, _, ok2, _ := store.Load(ctx, Ref{Domain: "d", Layer: "classes"})
	if !ok || !ok2 || instances != 1 || classes != 2 {
		t.Fatalf("layers must not collide: %v %v", instances, classes)
	}
}
