package bunches

import "time"

// MatchEvent describes one Where/Query pass for logging.
type MatchEvent struct {
	Engine     string
	Expr       string
	Considered int
	Matched    int
	Duration   time.Duration
	Err        error
}

// MatchLogger records match passes.
type MatchLogger interface {
	LogMatch(MatchEvent)
}

// MatchLoggerFunc adapts a function to MatchLogger.
type MatchLoggerFunc func(MatchEvent)

// LogMatch implements MatchLogger.
func (f MatchLoggerFunc) LogMatch(event MatchEvent) {
	if f != nil {
		f(event)
	}
}

type noopMatchLogger struct{}

func (noopMatchLogger) LogMatch(MatchEvent) {}

// WithMatchLogger attaches a match logger to the container.
func WithMatchLogger(logger MatchLogger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopMatchLogger{}
			return
		}
		cfg.logger = logger
	}
}
