package bunches

import (
	"time"

	"github.com/goliatone/go-bunches/pkg/activity"
)

// EntryContext carries the inputs available to a match expression while it is
// evaluated against a single catalog entry.
type EntryContext struct {
	Key      string
	Value    any
	Index    int
	Layer    string
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx EntryContext) withDefaultNow() EntryContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx EntryContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx EntryContext) withDefaultMaps() EntryContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx EntryContext) withDefaults() EntryContext {
	return ctx.withDefaultNow().withDefaultMaps()
}

// Evaluator executes match expressions against entry contexts.
type Evaluator interface {
	Evaluate(ctx EntryContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledMatcher, error)
}

// CompiledMatcher represents a reusable expression program.
type CompiledMatcher interface {
	Evaluate(ctx EntryContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a Catalog or Library at construction time.
type Option func(*config)

type config struct {
	defaults      []string
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	logger        MatchLogger
	activityHooks activity.Hooks
	strategies    []NameStrategy
}

func applyOptions(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithDefaults designates the keys the Default wildcard resolves to. Without
// this option, Default falls back to All.
func WithDefaults(names ...string) Option {
	return func(cfg *config) {
		cfg.defaults = append([]string(nil), names...)
	}
}

// WithEvaluator configures the expression evaluator used by Where and Query.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithActivityHooks attaches mutation hooks. Hooks are cloned and nil entries
// dropped to preserve immutability.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *config) {
		cfg.activityHooks = normalized
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
