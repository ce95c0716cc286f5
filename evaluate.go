package bunches

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoEvaluator = errors.New("bunches: evaluator not configured")

// Where returns a new catalog holding the entries for which expr evaluates to
// true. The expression sees the bindings key, value, index, now, args, and
// metadata, plus any registered custom functions. Evaluation failures abort
// the pass.
func (c *Catalog[V]) Where(expr string) (*Catalog[V], error) {
	return c.WhereWith(EntryContext{}, expr)
}

// WhereWith behaves like Where using ctx to supply args and metadata
// bindings.
func (c *Catalog[V]) WhereWith(ctx EntryContext, expr string) (*Catalog[V], error) {
	matched := &Catalog[V]{items: make(map[string]V), cfg: c.cfg}
	evaluate, engine, err := c.matcher(expr)
	if err != nil {
		return nil, err
	}

	considered := 0
	hits := 0
	start := time.Now()
	var passErr error
	for _, name := range c.order {
		entry := ctx
		entry.Key = name
		entry.Value = c.items[name]
		entry.Index = considered
		considered++

		ok, err := evaluate(entry)
		if err != nil {
			passErr = err
			break
		}
		if !ok {
			continue
		}
		hits++
		matched.order = append(matched.order, name)
		matched.items[name] = c.items[name]
	}
	c.matchLogger().LogMatch(MatchEvent{
		Engine:     engine,
		Expr:       expr,
		Considered: considered,
		Matched:    hits,
		Duration:   time.Since(start),
		Err:        passErr,
	})
	if passErr != nil {
		return nil, passErr
	}
	return matched, nil
}

// Query filters the library with expr, applied independently against the
// instance and class catalogs. The expression additionally sees the layer
// binding ("instances" or "classes").
func (l *Library) Query(expr string) (*Library, error) {
	sub := NewLibrary()
	sub.cfg = l.cfg
	sub.instances.cfg = l.instances.cfg
	sub.classes.cfg = l.classes.cfg

	instances, err := l.instances.WhereWith(EntryContext{Layer: layerInstances}, expr)
	if err != nil {
		return nil, err
	}
	for name, value := range instances.Entries() {
		_ = sub.instances.Set(name, value)
	}

	classes, err := l.classes.WhereWith(EntryContext{Layer: layerClasses}, expr)
	if err != nil {
		return nil, err
	}
	for name, t := range classes.Entries() {
		_ = sub.classes.Set(name, t)
	}
	return sub, nil
}

// matcher compiles expr once and returns a per-entry predicate together with
// the engine label used for logging.
func (c *Catalog[V]) matcher(expr string) (func(EntryContext) (bool, error), string, error) {
	if expr == "" {
		return nil, "", fmt.Errorf("bunches: expression must not be empty")
	}
	evaluator, err := c.resolveEvaluator()
	if err != nil {
		return nil, "", err
	}
	engine := evaluatorEngineName(evaluator)
	compiled, err := evaluator.Compile(expr)
	if err != nil {
		return nil, engine, err
	}
	evaluate := func(ctx EntryContext) (bool, error) {
		result, err := compiled.Evaluate(ctx.withDefaults())
		if err != nil {
			return false, wrapEvaluationError(engine, expr, ctx.Key, err)
		}
		ok, isBool := result.(bool)
		if !isBool {
			return false, wrapEvaluationError(engine, expr, ctx.Key,
				fmt.Errorf("expression must return a boolean, got %T", result))
		}
		return ok, nil
	}
	return evaluate, engine, nil
}

func (c *Catalog[V]) resolveEvaluator() (Evaluator, error) {
	if c.cfg.evaluator != nil {
		return c.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if cache := c.cfg.programCache; cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cache))
	}
	if registry := c.cfg.functions; registry != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(registry))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	c.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func (c *Catalog[V]) matchLogger() MatchLogger {
	if c.cfg.logger != nil {
		return c.cfg.logger
	}
	return noopMatchLogger{}
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*bunches.exprEvaluator":
		return "expr"
	case "*bunches.celEvaluator":
		return "cel"
	case "*bunches.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
