package bunches

import (
	"reflect"
	"testing"
)

type hydrated struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func TestHydrateEntries(t *testing.T) {
	c := New[hydrated]()
	err := HydrateEntries(c, []Entry[map[string]any]{
		{Key: "web", Value: map[string]any{"host": "edge", "port": 443}},
		{Key: "db", Value: map[string]any{"host": "db1", "port": 5432}},
	})
	if err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if !reflect.DeepEqual(c.Keys(), []string{"web", "db"}) {
		t.Fatalf("unexpected order: %v", c.Keys())
	}
	web, _ := c.Get("web")
	if web.Host != "edge" || web.Port != 443 {
		t.Fatalf("unexpected value: %+v", web)
	}
}

func TestHydrateEntriesRejectsBadPayloads(t *testing.T) {
	c := New[hydrated]()
	err := HydrateEntries(c, []Entry[map[string]any]{
		{Key: "web", Value: nil},
	})
	if err == nil {
		t.Fatalf("expected error for nil payload")
	}

	err = HydrateEntries(c, []Entry[map[string]any]{
		{Key: ReservedAll, Value: map[string]any{"host": "x"}},
	})
	if err == nil {
		t.Fatalf("expected error for reserved key")
	}
}
