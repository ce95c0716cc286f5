package bunches

import (
	"context"
	"testing"

	"github.com/goliatone/go-bunches/pkg/activity"
)

func captureVerbs(events []activity.Event) []string {
	verbs := make([]string, 0, len(events))
	for _, event := range events {
		verbs = append(verbs, event.Verb)
	}
	return verbs
}

func TestCatalogNotifiesHooks(t *testing.T) {
	hook := &activity.CaptureHook{}
	c := New[int](WithActivityHooks(activity.Hooks{hook}))

	_ = c.Set("a", 1)
	_ = c.Set("a", 2)
	c.Delete(ID("a"))
	c.Delete(ID("a")) // no entry, no event

	verbs := captureVerbs(hook.Events)
	want := []string{"catalog.set", "catalog.set", "catalog.deleted"}
	if len(verbs) != len(want) {
		t.Fatalf("unexpected events: %v", verbs)
	}
	for i, verb := range want {
		if verbs[i] != verb {
			t.Fatalf("event %d: expected %q, got %q", i, verb, verbs[i])
		}
	}
	if hook.Events[0].ObjectID != "a" || hook.Events[0].ObjectType != "catalog_entry" {
		t.Fatalf("unexpected event identity: %+v", hook.Events[0])
	}
	// First write has no previous value; the overwrite carries both.
	if _, ok := hook.Events[0].Metadata["old_value"]; ok {
		t.Fatalf("first set must not report an old value: %v", hook.Events[0].Metadata)
	}
	if hook.Events[1].Metadata["old_value"] != 1 || hook.Events[1].Metadata["new_value"] != 2 {
		t.Fatalf("unexpected overwrite metadata: %v", hook.Events[1].Metadata)
	}
	if hook.Events[2].Metadata["old_value"] != 2 {
		t.Fatalf("deletion must report the removed value: %v", hook.Events[2].Metadata)
	}
}

func TestLibraryNotifiesHooks(t *testing.T) {
	hook := &activity.CaptureHook{}
	l := NewLibrary(WithActivityHooks(activity.Hooks{hook}))

	if err := l.Deposit(creature{Legs: 4}); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	l.Withdraw("creature")

	verbs := captureVerbs(hook.Events)
	// instance deposit, auto-registered class deposit, instance withdrawal
	want := []string{"library.deposited", "library.deposited", "library.withdrawn"}
	if len(verbs) != len(want) {
		t.Fatalf("unexpected events: %v", verbs)
	}
	for i, verb := range want {
		if verbs[i] != verb {
			t.Fatalf("event %d: expected %q, got %q", i, verb, verbs[i])
		}
	}
	if hook.Events[0].ObjectType != "library_item" || hook.Events[0].ObjectID != "creature" {
		t.Fatalf("unexpected event identity: %+v", hook.Events[0])
	}
	if hook.Events[0].Metadata["layer_name"] != "instances" || hook.Events[0].Metadata["layer_priority"] != LayerPriorityInstances {
		t.Fatalf("unexpected instance layer metadata: %v", hook.Events[0].Metadata)
	}
	if hook.Events[1].Metadata["layer_name"] != "classes" || hook.Events[1].Metadata["layer_priority"] != LayerPriorityClasses {
		t.Fatalf("unexpected class layer metadata: %v", hook.Events[1].Metadata)
	}
}

func TestNotificationsCarryContext(t *testing.T) {
	var contexts []context.Context
	hook := activity.HookFunc(func(ctx context.Context, _ activity.Event) error {
		contexts = append(contexts, ctx)
		return nil
	})

	c := New[int](WithActivityHooks(activity.Hooks{hook}))
	_ = c.Set("a", 1)
	c.Delete(ID("a"))

	l := NewLibrary(WithActivityHooks(activity.Hooks{hook}))
	_ = l.Deposit(creature{Legs: 4})
	l.Withdraw("creature")

	if len(contexts) == 0 {
		t.Fatalf("expected notifications")
	}
	for i, ctx := range contexts {
		if ctx == nil {
			t.Fatalf("notification %d carried a nil context", i)
		}
	}
}

func TestSubsetDoesNotNotify(t *testing.T) {
	hook := &activity.CaptureHook{}
	c := New[int](WithActivityHooks(activity.Hooks{hook}))
	_ = c.Set("a", 1)
	_ = c.Set("b", 2)
	before := len(hook.Events)

	_ = c.Subset(All)
	_ = c.Clone()

	if len(hook.Events) != before {
		t.Fatalf("read-side copies must not emit events, got %d new", len(hook.Events)-before)
	}
}
