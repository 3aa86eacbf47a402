package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/grue-if/grue/internal/logging"
	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/domain"
)

// DefaultShutdownTimeout is the graceful shutdown budget before escalation.
const DefaultShutdownTimeout = 5 * time.Second

// Controller manages startup ordering and shutdown escalation for one engine
// worker.
//
// Startup: the worker goroutine is spawned and Start blocks until it reports
// readiness, so producers only begin enqueuing against a live worker.
//
// Graceful shutdown: a highest-priority system quit command is enqueued and
// the controller waits for the worker to reach Stopped. If the budget
// elapses, it escalates: the worker context is cancelled and the command
// queue closed, so a Dequeue blocked with no command present can still
// observe the stop and exit.
type Controller struct {
	worker *Worker
	queue  *bridge.CommandQueue

	// Timeout is the graceful shutdown budget. Zero means
	// DefaultShutdownTimeout.
	Timeout time.Duration

	// Logger defaults to a no-op logger.
	Logger *slog.Logger

	cancel   context.CancelFunc
	startMu  sync.Mutex
	started  bool
	stopOnce sync.Once
	stopErr  error
}

// NewController wires a controller to its worker and command queue.
func NewController(worker *Worker, queue *bridge.CommandQueue) *Controller {
	return &Controller{
		worker:  worker,
		queue:   queue,
		Timeout: DefaultShutdownTimeout,
		Logger:  logging.NewNop(),
	}
}

// Start spawns the worker and blocks until it reports readiness.
func (c *Controller) Start(ctx context.Context) error {
	c.startMu.Lock()
	defer c.startMu.Unlock()
	if c.started {
		return errors.New("controller already started")
	}
	c.started = true

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.worker.Start(runCtx)

	select {
	case <-c.worker.Ready():
		c.Logger.Debug("worker ready")
		return nil
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// Shutdown stops the worker, gracefully if possible. Idempotent; concurrent
// callers share one result. Graceful completion is observable externally as
// EndOfStream on the output channel.
func (c *Controller) Shutdown(ctx context.Context) error {
	c.stopOnce.Do(func() {
		c.stopErr = c.shutdown(ctx)
	})
	return c.stopErr
}

func (c *Controller) shutdown(ctx context.Context) error {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	// The quit directive outranks everything already queued. The enqueue
	// itself is bounded: a full queue must not stall shutdown forever.
	enqCtx, cancel := context.WithTimeout(ctx, timeout)
	_, err := c.queue.Enqueue(enqCtx, domain.DirectiveQuit, domain.SourceSystem, domain.PrioritySystem)
	cancel()
	if err != nil && !errors.Is(err, domain.ErrQueueClosed) {
		c.Logger.Debug("quit enqueue failed", "err", err)
	}

	select {
	case <-c.worker.Done():
		// Worker is gone, so no producer submission can ever be served.
		c.queue.Close()
		return nil
	case <-time.After(timeout):
	case <-ctx.Done():
	}

	// Escalate: cooperative cancellation of whatever the worker is blocked
	// on, plus queue close so a command-less Dequeue wakes up.
	c.Logger.Warn("graceful shutdown timed out, forcing stop")
	if c.cancel != nil {
		c.cancel()
	}
	c.queue.Close()

	select {
	case <-c.worker.Done():
		return nil
	case <-time.After(timeout):
		return domain.ErrShutdownTimeout
	}
}
