package runner

import (
	"log/slog"

	"github.com/grue-if/grue/pkg/domain"
)

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the worker's logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithHooks registers observability callbacks for introspection servicing
// and lifecycle transitions.
func WithHooks(hooks domain.Hooks) Option {
	return func(w *Worker) {
		w.hooks = hooks
	}
}
