package layering

import "testing"

func staticLookup(entries map[string]string) Lookup[string] {
	return func(key string) (string, bool) {
		value, ok := entries[key]
		return value, ok
	}
}

func TestChainSearchesStrongestFirst(t *testing.T) {
	chain := NewChain(
		Layer[string]{Name: "weak", Priority: 10, Lookup: staticLookup(map[string]string{"a": "weak-a", "b": "weak-b"})},
		Layer[string]{Name: "strong", Priority: 20, Lookup: staticLookup(map[string]string{"a": "strong-a"})},
	)

	value, layer, ok := chain.Find("a")
	if !ok || value != "strong-a" || layer != "strong" {
		t.Fatalf("got %q from %q ok=%v", value, layer, ok)
	}

	value, layer, ok = chain.Find("b")
	if !ok || value != "weak-b" || layer != "weak" {
		t.Fatalf("got %q from %q ok=%v", value, layer, ok)
	}

	if _, _, ok := chain.Find("missing"); ok {
		t.Fatalf("expected miss")
	}
}

func TestChainDropsInvalidAndDuplicateLayers(t *testing.T) {
	chain := NewChain(
		Layer[string]{Name: "", Priority: 99, Lookup: staticLookup(nil)},
		Layer[string]{Name: "no-lookup", Priority: 99},
		Layer[string]{Name: "kept", Priority: 5, Lookup: staticLookup(map[string]string{"k": "first"})},
		Layer[string]{Name: "kept", Priority: 50, Lookup: staticLookup(map[string]string{"k": "second"})},
	)

	if chain.Len() != 1 {
		t.Fatalf("expected one layer, got %d", chain.Len())
	}
	value, _, _ := chain.Find("k")
	if value != "first" {
		t.Fatalf("expected the first occurrence to win, got %q", value)
	}
}

func TestChainStableOrderForEqualPriorities(t *testing.T) {
	chain := NewChain(
		Layer[string]{Name: "first", Priority: 10, Lookup: staticLookup(map[string]string{"k": "first"})},
		Layer[string]{Name: "second", Priority: 10, Lookup: staticLookup(map[string]string{"k": "second"})},
	)
	value, layer, _ := chain.Find("k")
	if value != "first" || layer != "first" {
		t.Fatalf("expected stable order for peers, got %q from %q", value, layer)
	}
}

func TestChainEndpoints(t *testing.T) {
	chain := NewChain(
		Layer[string]{Name: "low", Priority: 1, Lookup: staticLookup(nil)},
		Layer[string]{Name: "high", Priority: 100, Lookup: staticLookup(nil)},
	)
	if chain.Strongest().Name != "high" || chain.Weakest().Name != "low" {
		t.Fatalf("unexpected endpoints: %q %q", chain.Strongest().Name, chain.Weakest().Name)
	}

	var empty Chain[string]
	if empty.Strongest().Name != "" || empty.Len() != 0 {
		t.Fatalf("expected zero values for an empty chain")
	}
}

func TestChainContains(t *testing.T) {
	chain := NewChain(
		Layer[string]{Name: "only", Priority: 1, Lookup: staticLookup(map[string]string{"a": "v"})},
	)
	if !chain.Contains("a") || chain.Contains("b") {
		t.Fatalf("unexpected containment results")
	}
}
