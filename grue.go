package grue

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/grue-if/grue/internal/logging"
	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/domain"
	"github.com/grue-if/grue/pkg/ports"
	"github.com/grue-if/grue/pkg/runner"
)

// Version is the current library release.
const Version = "0.3.0"

// Default channel capacities for a Session.
const (
	DefaultQueueCapacity  = bridge.DefaultQueueCapacity
	DefaultOutputCapacity = bridge.DefaultOutputCapacity
	DefaultTaskCapacity   = bridge.DefaultTaskCapacity
)

// Session is the high-level entry point for the grue library. It wires one
// single-threaded interpreter engine to the concurrency bridge: a priority
// command queue in, a bounded output channel out, and an introspection
// bridge for reading engine state from other goroutines.
type Session struct {
	// ID labels this session in logs. Defaults to a random UUID.
	ID string

	engine  ports.Engine
	queue   *bridge.CommandQueue
	out     *bridge.OutputChannel
	intro   *bridge.Introspector
	worker  *runner.Worker
	control *runner.Controller

	logger          *slog.Logger
	hooks           domain.Hooks
	queueCap        int
	outputCap       int
	taskCap         int
	shutdownTimeout time.Duration
}

// Option defines a functional option for configuring a Session.
type Option func(*Session)

// WithLogger sets a custom structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithHooks registers observability hooks on the queue, output channel and
// worker.
func WithHooks(hooks domain.Hooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) Option {
	return func(s *Session) {
		s.ID = id
	}
}

// WithQueueCapacity bounds the command queue.
func WithQueueCapacity(n int) Option {
	return func(s *Session) {
		s.queueCap = n
	}
}

// WithOutputCapacity bounds the output channel.
func WithOutputCapacity(n int) Option {
	return func(s *Session) {
		s.outputCap = n
	}
}

// WithTaskCapacity bounds the introspection task queue.
func WithTaskCapacity(n int) Option {
	return func(s *Session) {
		s.taskCap = n
	}
}

// WithShutdownTimeout sets the graceful shutdown budget before escalation.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.shutdownTimeout = d
	}
}

// New builds a session around the given engine. The engine must not be
// touched by the caller after this point; every interaction goes through the
// session so the worker goroutine stays the sole owner of engine state.
func New(engine ports.Engine, opts ...Option) (*Session, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}

	s := &Session{
		ID:              uuid.NewString(),
		engine:          engine,
		queueCap:        DefaultQueueCapacity,
		outputCap:       DefaultOutputCapacity,
		taskCap:         DefaultTaskCapacity,
		shutdownTimeout: runner.DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.logger = s.logger.With("session", s.ID)

	queue, err := bridge.NewCommandQueue(s.queueCap)
	if err != nil {
		return nil, err
	}
	out, err := bridge.NewOutputChannel(s.outputCap)
	if err != nil {
		return nil, err
	}
	queue.Hooks = s.hooks
	out.Hooks = s.hooks

	s.queue = queue
	s.out = out
	s.intro = bridge.NewIntrospector(s.taskCap)
	s.worker = runner.NewWorker(engine, queue, out, s.intro,
		runner.WithLogger(s.logger),
		runner.WithHooks(s.hooks),
	)
	s.control = runner.NewController(s.worker, queue)
	s.control.Timeout = s.shutdownTimeout
	s.control.Logger = s.logger

	return s, nil
}

// Start spawns the engine worker and blocks until it is ready to consume
// commands.
func (s *Session) Start(ctx context.Context) error {
	return s.control.Start(ctx)
}

// Shutdown stops the session: graceful quit first, escalation after the
// shutdown timeout. Idempotent. The output channel reaches end of stream as
// part of the stop, so a consumer draining chunks observes completion.
func (s *Session) Shutdown(ctx context.Context) error {
	return s.control.Shutdown(ctx)
}

// Done is closed once the worker has fully stopped.
func (s *Session) Done() <-chan struct{} {
	return s.worker.Done()
}

// Submit enqueues one line of input. It blocks while the queue is full and
// fails with ErrQueueClosed once the session is shutting down.
func (s *Session) Submit(ctx context.Context, text string, source domain.Source, priority int) error {
	_, err := s.queue.Enqueue(ctx, text, source, priority)
	return err
}

// Call runs op on the worker goroutine between engine steps and returns its
// result. Safe to invoke from any goroutine.
func (s *Session) Call(ctx context.Context, op bridge.Query) (any, error) {
	return s.intro.Call(ctx, op)
}

// Queue exposes the command queue, for producers that pump it directly.
func (s *Session) Queue() *bridge.CommandQueue {
	return s.queue
}

// Output exposes the output channel for the consuming front-end.
func (s *Session) Output() *bridge.OutputChannel {
	return s.out
}

// Introspector exposes the introspection bridge, for building typed views on
// top of raw queries.
func (s *Session) Introspector() *bridge.Introspector {
	return s.intro
}

// State returns the worker lifecycle state.
func (s *Session) State() runner.State {
	return s.worker.State()
}
