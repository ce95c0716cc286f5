package bunches

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/goliatone/go-bunches/layering"
	"github.com/goliatone/go-bunches/pkg/activity"
)

// Layer priorities for the library's lookup chain. Instances shadow classes;
// a stronger layer (a cache, an overlay) can slot in above both without
// touching retrieval call sites.
const (
	LayerPriorityClasses   = 100
	LayerPriorityInstances = 200
)

const (
	layerInstances = "instances"
	layerClasses   = "classes"
)

// Definition exposes an item's class explicitly. Deposited values that
// implement it are registered as classes rather than instances.
type Definition interface {
	Definition() reflect.Type
}

// Library is a dual-registry store. Deposited items are classified as type
// definitions (reflect.Type values) or live instances and kept in two chained
// catalogs searched instances-first. Depositing an instance also records its
// originating type under the type's derived name.
//
// The library stores references; deposited values are never copied. Like
// Catalog, a Library must be serialized externally when shared across
// goroutines.
type Library struct {
	instances *Catalog[any]
	classes   *Catalog[reflect.Type]
	chain     layering.Chain[any]
	cfg       config
}

// NewLibrary constructs an empty Library. WithNamer, WithNameStrategies,
// WithDefaults, and the ambient options all apply.
func NewLibrary(opts ...Option) *Library {
	l := &Library{cfg: applyOptions(opts)}
	inner := l.cfg
	inner.activityHooks = nil
	l.instances = &Catalog[any]{items: make(map[string]any), cfg: inner}
	l.classes = &Catalog[reflect.Type]{items: make(map[string]reflect.Type), cfg: inner}
	l.chain = layering.NewChain(
		layering.Layer[any]{
			Name:     layerInstances,
			Priority: LayerPriorityInstances,
			Lookup: func(key string) (any, bool) {
				value, ok := l.instances.items[key]
				return value, ok
			},
		},
		layering.Layer[any]{
			Name:     layerClasses,
			Priority: LayerPriorityClasses,
			Lookup: func(key string) (any, bool) {
				t, ok := l.classes.items[key]
				if !ok {
					return nil, false
				}
				return t, true
			},
		},
	)
	return l
}

// Deposit classifies and stores each item in order. A reflect.Type, or a
// value implementing Definition, is stored as a class under its derived name,
// last-deposited-wins. Anything else is
// stored as an instance, and its type is registered as a class when absent.
//
// Bulk deposits apply partially: a failure on one item does not roll back
// earlier ones. The joined error reports every failed item.
func (l *Library) Deposit(items ...any) error {
	var errs []error
	for _, item := range items {
		if err := l.depositOne(item); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (l *Library) depositOne(item any) error {
	if d, ok := item.(Definition); ok {
		item = d.Definition()
	}
	if t, ok := item.(reflect.Type); ok {
		name, ok := deriveName(t, l.cfg.strategies)
		if !ok {
			return fmt.Errorf("%w: type %v", ErrUnnameable, t)
		}
		if err := l.classes.Set(name, t); err != nil {
			return err
		}
		l.notifyDeposited(name, layerClasses, LayerPriorityClasses)
		return nil
	}

	name, ok := deriveName(item, l.cfg.strategies)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnnameable, item)
	}

	// Derive the type's name before storing anything so a failure leaves no
	// instance behind without a class entry.
	t := reflect.TypeOf(item)
	typeName, ok := deriveName(t, l.cfg.strategies)
	if !ok {
		return fmt.Errorf("%w: type of %T", ErrUnnameable, item)
	}

	if err := l.instances.Set(name, item); err != nil {
		return err
	}
	l.notifyDeposited(name, layerInstances, LayerPriorityInstances)

	if !l.classes.Contains(typeName) {
		if err := l.classes.Set(typeName, t); err != nil {
			return err
		}
		l.notifyDeposited(typeName, layerClasses, LayerPriorityClasses)
	}
	return nil
}

// Retrieve searches instances first, then classes. Instances shadow classes
// of the same name. Missing names surface ErrKeyNotFound.
func (l *Library) Retrieve(name string) (any, error) {
	value, _, ok := l.chain.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, name)
	}
	return value, nil
}

// Explain reports how a retrieval for name resolved across the lookup chain,
// probing every layer regardless of where the hit happened.
func (l *Library) Explain(name string) Trace {
	trace := Trace{Key: name}
	for _, layer := range l.chain.Ordered() {
		value, found := layer.Lookup(name)
		probe := Probe{Layer: layer.Name, Priority: layer.Priority, Found: found}
		if found {
			probe.Value = value
		}
		trace.Probes = append(trace.Probes, probe)
	}
	return trace
}

// Withdraw removes each name from instances when present, else from classes.
// Names present in neither are ignored.
func (l *Library) Withdraw(names ...string) {
	for _, name := range names {
		if l.instances.Contains(name) {
			l.instances.Delete(ID(name))
			l.notifyWithdrawn(name, layerInstances, LayerPriorityInstances)
			continue
		}
		if l.classes.Contains(name) {
			l.classes.Delete(ID(name))
			l.notifyWithdrawn(name, layerClasses, LayerPriorityClasses)
		}
	}
}

// Contains reports whether name resolves in any layer.
func (l *Library) Contains(name string) bool {
	return l.chain.Contains(name)
}

// Len counts the distinct names across both catalogs; shadowed class names
// count once.
func (l *Library) Len() int {
	total := l.instances.Len()
	for _, name := range l.classes.Keys() {
		if !l.instances.Contains(name) {
			total++
		}
	}
	return total
}

// Names returns every resolvable name, instance names first in insertion
// order, then class names not shadowed by an instance.
func (l *Library) Names() []string {
	names := l.instances.Keys()
	for _, name := range l.classes.Keys() {
		if !l.instances.Contains(name) {
			names = append(names, name)
		}
	}
	return names
}

// Subset returns a new Library restricted to the resolved keys, applying the
// wildcard rules independently against the instance and class catalogs.
// Instance entries win on shared names by construction of the chain.
func (l *Library) Subset(keys ...Key) *Library {
	sub := NewLibrary()
	sub.cfg = l.cfg
	sub.instances.cfg = l.instances.cfg
	sub.classes.cfg = l.classes.cfg
	for name, value := range l.instances.Subset(keys...).Entries() {
		_ = sub.instances.Set(name, value)
	}
	for name, t := range l.classes.Subset(keys...).Entries() {
		_ = sub.classes.Set(name, t)
	}
	return sub
}

// Instances returns a copy of the instance catalog. Values are shared, the
// mapping itself is detached.
func (l *Library) Instances() *Catalog[any] {
	return l.instances.Clone()
}

// Classes returns a copy of the class catalog.
func (l *Library) Classes() *Catalog[reflect.Type] {
	return l.classes.Clone()
}

func (l *Library) notifyDeposited(name, layer string, priority int) {
	if !l.cfg.activityHooks.Enabled() {
		return
	}
	_ = l.cfg.activityHooks.Notify(context.Background(), activity.BuildDepositedEvent(activity.ContainerEventInput{
		Key:   name,
		Layer: activity.LayerContext{Name: layer, Priority: priority},
	}))
}

func (l *Library) notifyWithdrawn(name, layer string, priority int) {
	if !l.cfg.activityHooks.Enabled() {
		return
	}
	_ = l.cfg.activityHooks.Notify(context.Background(), activity.BuildWithdrawnEvent(activity.ContainerEventInput{
		Key:   name,
		Layer: activity.LayerContext{Name: layer, Priority: priority},
	}))
}
