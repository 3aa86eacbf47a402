package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/grue-if/grue/internal/logging"
	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/domain"
	"github.com/grue-if/grue/pkg/ports"
)

// State tracks the engine worker lifecycle.
type State int32

const (
	StateStarting State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Worker owns the interpreter engine. It is the only goroutine that ever
// touches engine state: commands arrive through the queue, output leaves
// through the output channel, and reads from other goroutines run as
// introspection tasks drained between steps.
//
// Loop invariants:
//   - Pending introspection tasks are drained to empty before every step.
//   - Tasks run one at a time, never interleaved with a step, so every
//     query observes engine state with no partial step in progress.
//   - No command is consumed once the worker begins stopping.
type Worker struct {
	engine ports.Engine
	queue  *bridge.CommandQueue
	out    *bridge.OutputChannel
	intro  *bridge.Introspector

	state  atomic.Int32
	ready  chan struct{}
	donech chan struct{}

	logger *slog.Logger
	hooks  domain.Hooks
}

// NewWorker wires a worker to its engine and channels.
func NewWorker(engine ports.Engine, queue *bridge.CommandQueue, out *bridge.OutputChannel, intro *bridge.Introspector, opts ...Option) *Worker {
	w := &Worker{
		engine: engine,
		queue:  queue,
		out:    out,
		intro:  intro,
		ready:  make(chan struct{}),
		donech: make(chan struct{}),
		logger: logging.NewNop(),
	}
	w.state.Store(int32(StateStarting))
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start launches the worker goroutine. Readiness is observable via Ready;
// producers must not enqueue before it fires.
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	return State(w.state.Load())
}

// Ready is closed once the worker has entered Running.
func (w *Worker) Ready() <-chan struct{} {
	return w.ready
}

// Done is closed once the worker has reached Stopped. By then the output
// channel is closed and pending introspection tasks have been failed.
func (w *Worker) Done() <-chan struct{} {
	return w.donech
}

func (w *Worker) run(ctx context.Context) {
	defer w.stop()

	w.transition(StateRunning)
	close(w.ready)
	w.logger.Debug("worker running")

	needLine := false
	for {
		w.drainTasks()

		if ctx.Err() != nil {
			w.logger.Debug("worker context cancelled")
			return
		}

		if needLine {
			cmd, err := w.nextCommand(ctx)
			if err != nil {
				// Queue closed or cancellation: either way the session
				// is over.
				w.logger.Debug("input wait ended", "err", err)
				return
			}
			if cmd.IsQuit() {
				w.logger.Debug("quit directive received", "sequence", cmd.Sequence)
				return
			}
			w.engine.FeedLine(cmd.Text)
			needLine = false
			continue
		}

		res, err := w.engine.Step(ctx)
		if err != nil {
			w.reportFatal(err)
			return
		}
		if len(res.Output) > 0 {
			if werr := w.out.Write(ctx, domain.Chunk{Bytes: res.Output}); werr != nil {
				w.logger.Debug("output write failed", "err", werr)
				return
			}
		}
		if res.Halted {
			w.logger.Debug("engine halted")
			return
		}
		needLine = res.NeedsInput
	}
}

// drainTasks services every pending introspection task before the worker
// advances the simulation. Never blocks.
func (w *Worker) drainTasks() {
	for {
		select {
		case t := <-w.intro.Tasks():
			w.serve(t)
		default:
			return
		}
	}
}

// nextCommand blocks until a command is available, servicing introspection
// tasks that arrive while the engine is parked waiting for input. This is
// the only blocking point on the worker goroutine besides the task wait
// itself.
func (w *Worker) nextCommand(ctx context.Context) (domain.Command, error) {
	for {
		select {
		case t := <-w.intro.Tasks():
			w.serve(t)
		case <-w.queue.Ready():
			return w.queue.Take(), nil
		case <-w.queue.Closed():
			return domain.Command{}, domain.ErrQueueClosed
		case <-ctx.Done():
			return domain.Command{}, ctx.Err()
		}
	}
}

func (w *Worker) serve(t *bridge.Task) {
	start := time.Now()
	err := t.Serve()
	if w.hooks.OnIntrospection != nil {
		w.hooks.OnIntrospection(time.Since(start), err)
	}
}

// reportFatal converts an unrecoverable engine error into a tagged final
// chunk so the consumer can display it before end of stream.
func (w *Worker) reportFatal(err error) {
	w.logger.Error("engine fatal", "err", err)
	ferr := &domain.EngineError{Err: err}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if werr := w.out.Write(ctx, domain.Chunk{Bytes: []byte(ferr.Error()), Fatal: true}); werr != nil {
		w.logger.Debug("could not deliver fatal chunk", "err", werr)
	}
}

func (w *Worker) stop() {
	if r := recover(); r != nil {
		w.reportFatal(fmt.Errorf("engine panic: %v", r))
	}

	w.transition(StateStopping)
	// In-flight callers fail fast rather than blocking forever.
	w.intro.Shutdown()
	w.out.Close()
	w.transition(StateStopped)
	close(w.donech)
	w.logger.Debug("worker stopped")
}

func (w *Worker) transition(to State) {
	from := State(w.state.Swap(int32(to)))
	if from != to && w.hooks.OnStateChange != nil {
		w.hooks.OnStateChange(from.String(), to.String())
	}
}
