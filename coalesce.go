package bunches

import "github.com/goliatone/go-bunches/layering"

// Coalesce folds catalogs ordered from strongest to weakest into a new
// catalog. Key order follows the strongest catalog, with keys unique to
// weaker catalogs appended in their own order. Values for shared keys merge
// layer-wise: populated fields of stronger entries win while gaps fill from
// weaker ones.
func Coalesce[V any](catalogs ...*Catalog[V]) *Catalog[V] {
	var out *Catalog[V]
	for _, catalog := range catalogs {
		if catalog == nil {
			continue
		}
		if out == nil {
			out = New[V]()
			out.cfg = catalog.cfg
		}
		for _, name := range catalog.order {
			if out.Contains(name) {
				continue
			}
			layers := make([]V, 0, len(catalogs))
			for _, layer := range catalogs {
				if layer == nil {
					continue
				}
				if value, ok := layer.items[name]; ok {
					layers = append(layers, value)
				}
			}
			_ = out.Set(name, layering.MergeLayers(layers...))
		}
	}
	if out == nil {
		out = New[V]()
	}
	return out
}
