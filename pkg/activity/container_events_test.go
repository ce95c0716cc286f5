package activity

import (
	"context"
	"testing"
)

func TestBuildEntrySetEvent(t *testing.T) {
	event := BuildEntrySetEvent(ContainerEventInput{
		ActorID:  " actor ",
		Key:      "alpha",
		OldValue: 1,
		NewValue: 2,
		Layer:    LayerContext{Name: "instances", Priority: 200},
	})

	if event.Verb != "catalog.set" || event.ObjectType != "catalog_entry" {
		t.Fatalf("unexpected identity: %q %q", event.Verb, event.ObjectType)
	}
	if event.ObjectID != "alpha" {
		t.Fatalf("expected the key to back-fill the object id, got %q", event.ObjectID)
	}
	if event.ActorID != "actor" {
		t.Fatalf("expected trimmed actor, got %q", event.ActorID)
	}
	if event.Metadata["key"] != "alpha" || event.Metadata["old_value"] != 1 || event.Metadata["new_value"] != 2 {
		t.Fatalf("unexpected metadata: %v", event.Metadata)
	}
	if event.Metadata["layer_name"] != "instances" || event.Metadata["layer_priority"] != 200 {
		t.Fatalf("unexpected layer metadata: %v", event.Metadata)
	}
}

func TestBuildEventObjectIDFallbacks(t *testing.T) {
	withID := BuildEntryDeletedEvent(ContainerEventInput{ObjectID: "explicit", Key: "k"})
	if withID.ObjectID != "explicit" {
		t.Fatalf("explicit id must win, got %q", withID.ObjectID)
	}
	bare := BuildDepositedEvent(ContainerEventInput{})
	if bare.ObjectID != "library_item" {
		t.Fatalf("expected the object type fallback, got %q", bare.ObjectID)
	}
}

func TestBuildEventDoesNotMutateInputMetadata(t *testing.T) {
	metadata := map[string]any{"origin": "test"}
	event := BuildWithdrawnEvent(ContainerEventInput{Key: "k", Metadata: metadata})

	if _, ok := metadata["key"]; ok {
		t.Fatalf("input metadata must not be mutated")
	}
	if event.Metadata["origin"] != "test" || event.Metadata["key"] != "k" {
		t.Fatalf("unexpected metadata: %v", event.Metadata)
	}
}

func TestEmitterAppliesDefaultChannel(t *testing.T) {
	hook := &CaptureHook{}
	emitter := NewEmitter(Hooks{hook}, Config{Enabled: true})

	err := emitter.Emit(context.Background(), Event{Verb: "v", ObjectType: "t", ObjectID: "id"})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(hook.Events) != 1 || hook.Events[0].Channel != "containers" {
		t.Fatalf("expected default channel applied: %+v", hook.Events)
	}

	custom := NewEmitter(Hooks{hook}, Config{Enabled: true, Channel: "audit"})
	_ = custom.Emit(context.Background(), Event{Verb: "v", ObjectType: "t", ObjectID: "id", Channel: "explicit"})
	if hook.Events[1].Channel != "explicit" {
		t.Fatalf("an explicit channel must win, got %q", hook.Events[1].Channel)
	}
}

func TestEmitterDisabled(t *testing.T) {
	hook := &CaptureHook{}
	disabled := NewEmitter(Hooks{hook}, Config{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected disabled emitter")
	}
	if err := disabled.Emit(context.Background(), Event{Verb: "v", ObjectType: "t", ObjectID: "id"}); err != nil {
		t.Fatalf("emit on disabled emitter: %v", err)
	}
	if len(hook.Events) != 0 {
		t.Fatalf("disabled emitter must not notify")
	}

	noHooks := NewEmitter(nil, Config{Enabled: true})
	if noHooks.Enabled() {
		t.Fatalf("an emitter without hooks must be disabled")
	}
}
