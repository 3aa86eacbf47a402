package bridge

import (
	"context"
	"sync"

	"github.com/grue-if/grue/pkg/domain"
)

// DefaultTaskCapacity bounds the number of introspection calls that can be
// pending at once.
const DefaultTaskCapacity = 16

// Query is a zero-argument, side-effect-free read over engine state.
//
// The bridge cannot enforce purity; callers are contractually responsible
// for not mutating anything. What the bridge does guarantee is exclusivity:
// a query runs on the engine worker goroutine with no step in progress and
// no other query running, so it always observes a consistent, non-torn
// snapshot. Queries must be short and non-blocking - a slow query stalls
// both game progress and output production.
type Query func() (any, error)

// Task pairs a query with its single-assignment result slot. Created once
// per Call, serviced exactly once by the worker.
type Task struct {
	op     Query
	result chan outcome
}

type outcome struct {
	value any
	err   error
}

// Serve executes the task's query and publishes the result. Called only from
// the engine worker goroutine. A panic inside the query is recovered and
// delivered to the caller as a *domain.IntrospectionError; the worker never
// crashes. The returned error mirrors what the caller will receive, for
// observability.
func (t *Task) Serve() (err error) {
	var out outcome
	func() {
		defer func() {
			if r := recover(); r != nil {
				out = outcome{err: &domain.IntrospectionError{Value: r}}
			}
		}()
		out.value, out.err = t.op()
	}()
	t.result <- out
	return out.err
}

// Fail resolves the task with err without running the query.
func (t *Task) Fail(err error) {
	t.result <- outcome{err: err}
}

// Introspector lets any goroutine run a read-only query as if it were on the
// engine worker goroutine: "stop the world, read, resume" with a single
// worker and zero locks on engine state.
type Introspector struct {
	tasks chan *Task

	closeOnce sync.Once
	done      chan struct{}
}

// NewIntrospector creates a bridge with the given pending-task capacity.
// Non-positive capacities fall back to DefaultTaskCapacity.
func NewIntrospector(capacity int) *Introspector {
	if capacity <= 0 {
		capacity = DefaultTaskCapacity
	}
	return &Introspector{
		tasks: make(chan *Task, capacity),
		done:  make(chan struct{}),
	}
}

// Call runs op on the engine worker and returns its result, blocking the
// caller until the task is serviced. Errors returned by op come back
// verbatim; panics inside op come back as *domain.IntrospectionError.
// Returns domain.ErrWorkerStopped if the worker has already stopped or stops
// before servicing the task.
func (b *Introspector) Call(ctx context.Context, op Query) (any, error) {
	t := &Task{op: op, result: make(chan outcome, 1)}

	select {
	case b.tasks <- t:
	case <-b.done:
		return nil, domain.ErrWorkerStopped
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case out := <-t.result:
		return out.value, out.err
	case <-b.done:
		// The worker may have serviced the task in the same instant it shut
		// down; a populated result wins over the stop error.
		select {
		case out := <-t.result:
			return out.value, out.err
		default:
			return nil, domain.ErrWorkerStopped
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Tasks exposes the task stream to the engine worker.
func (b *Introspector) Tasks() <-chan *Task {
	return b.tasks
}

// Shutdown marks the worker stopped and fails every task still queued with
// domain.ErrWorkerStopped. Called by the worker as part of its stop
// sequence. Idempotent.
func (b *Introspector) Shutdown() {
	b.closeOnce.Do(func() {
		close(b.done)
		for {
			select {
			case t := <-b.tasks:
				t.Fail(domain.ErrWorkerStopped)
			default:
				return
			}
		}
	})
}
