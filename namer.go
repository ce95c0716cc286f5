package bunches

import (
	"reflect"
	"strings"
)

// Namer exposes an explicit identifier for a deposited item.
type Namer interface {
	Name() string
}

// NameStrategy derives an identifier for item, or declines by returning
// false. Strategies are tried in order until one produces a name.
type NameStrategy func(item any) (string, bool)

// ExplicitName uses the item's own name: the Namer interface when
// implemented, otherwise a non-empty exported "Name" string field.
func ExplicitName(item any) (string, bool) {
	if _, isType := item.(reflect.Type); isType {
		// A type's Name method is its type name, not an explicit identifier;
		// leave it for the type-name strategies.
		return "", false
	}
	if named, ok := item.(Namer); ok {
		if name := named.Name(); name != "" {
			return name, true
		}
	}
	value := reflect.ValueOf(item)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", false
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", false
	}
	field := value.FieldByName("Name")
	if field.IsValid() && field.Kind() == reflect.String && field.String() != "" {
		return field.String(), true
	}
	return "", false
}

// InferredTypeName derives the lower-cased type name. This is the default
// inference applied when an item carries no explicit name.
func InferredTypeName(item any) (string, bool) {
	name, ok := rawTypeName(item)
	if !ok {
		return "", false
	}
	return strings.ToLower(name), true
}

// TypeName derives the type's own name without case folding. Last resort in
// the default chain.
func TypeName(item any) (string, bool) {
	return rawTypeName(item)
}

func rawTypeName(item any) (string, bool) {
	var t reflect.Type
	if typ, ok := item.(reflect.Type); ok {
		t = typ
	} else {
		t = reflect.TypeOf(item)
	}
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "", false
	}
	return t.Name(), true
}

func defaultNameStrategies() []NameStrategy {
	return []NameStrategy{ExplicitName, InferredTypeName, TypeName}
}

// WithNameStrategies replaces the naming chain used when depositing items.
func WithNameStrategies(strategies ...NameStrategy) Option {
	return func(cfg *config) {
		cfg.strategies = append([]NameStrategy(nil), strategies...)
	}
}

// WithNamer inserts fn between the explicit-name probe and the type-name
// fallbacks, mirroring the default chain with a custom inference step.
func WithNamer(fn NameStrategy) Option {
	return func(cfg *config) {
		if fn == nil {
			return
		}
		cfg.strategies = []NameStrategy{ExplicitName, fn, InferredTypeName, TypeName}
	}
}

func deriveName(item any, strategies []NameStrategy) (string, bool) {
	if len(strategies) == 0 {
		strategies = defaultNameStrategies()
	}
	for _, strategy := range strategies {
		if strategy == nil {
			continue
		}
		if name, ok := strategy(item); ok && name != "" {
			return name, true
		}
	}
	return "", false
}
