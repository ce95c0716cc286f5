package bunches

import "github.com/goliatone/go-bunches/internal/hydrate"

// HydrateEntries decodes raw map payloads into typed values and sets them
// into catalog in order. Useful when seeding a typed catalog from JSON-shaped
// data.
func HydrateEntries[V any](catalog *Catalog[V], payloads []Entry[map[string]any]) error {
	decoder := hydrate.NewDecoder[V]()
	for _, payload := range payloads {
		value, err := decoder.Decode(hydrate.Context{Key: payload.Key}, payload.Value)
		if err != nil {
			return err
		}
		if err := catalog.Set(payload.Key, value); err != nil {
			return err
		}
	}
	return nil
}
