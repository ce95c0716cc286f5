package bunches

import (
	"reflect"
	"testing"
)

type profile struct {
	Host   string
	Labels map[string]string
}

func TestCoalesceMergesSharedKeys(t *testing.T) {
	overrides := New[profile]()
	_ = overrides.Set("web", profile{Host: "edge", Labels: map[string]string{"env": "prod"}})

	base := New[profile]()
	_ = base.Set("web", profile{Host: "origin", Labels: map[string]string{"env": "dev", "team": "core"}})
	_ = base.Set("db", profile{Host: "db1"})

	out := Coalesce(overrides, base)

	if !reflect.DeepEqual(out.Keys(), []string{"web", "db"}) {
		t.Fatalf("unexpected key order: %v", out.Keys())
	}

	web, _ := out.Get("web")
	if web.Host != "edge" {
		t.Fatalf("expected the stronger host, got %q", web.Host)
	}
	wantLabels := map[string]string{"env": "prod", "team": "core"}
	if !reflect.DeepEqual(web.Labels, wantLabels) {
		t.Fatalf("unexpected labels: %v", web.Labels)
	}

	db, _ := out.Get("db")
	if db.Host != "db1" {
		t.Fatalf("expected the weak-only entry carried over, got %q", db.Host)
	}
}

func TestCoalesceSkipsNilCatalogs(t *testing.T) {
	only := New[int]()
	_ = only.Set("a", 1)

	out := Coalesce(nil, only, nil)
	if got, _ := out.Get("a"); got != 1 {
		t.Fatalf("expected entry preserved, got %d", got)
	}

	empty := Coalesce[int]()
	if empty.Len() != 0 {
		t.Fatalf("expected an empty catalog")
	}
}
