package bridge

import (
	"container/heap"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/grue-if/grue/pkg/domain"
)

// DefaultQueueCapacity bounds the command queue when no explicit capacity is
// configured.
const DefaultQueueCapacity = 64

// CommandQueue is the bounded priority queue connecting every input producer
// to the engine worker.
//
// Ordering is a strict total order: priority descending, then sequence
// ascending. Sequence numbers are assigned under the same lock that inserts
// the command, so they are unique and monotonic regardless of producer
// interleaving.
//
// Thread-safety model:
//   - Enqueue: safe from any goroutine; blocks while full (backpressure)
//   - Dequeue/Take: exactly one consumer, the engine worker
//
// Internally the heap is guarded by a mutex, and two token channels carry the
// blocking semantics: space holds one token per free slot, avail one token
// per queued command. The avail side is exposed via Ready so the worker can
// select over commands and introspection tasks at the same time.
type CommandQueue struct {
	mu    sync.Mutex
	items commandHeap
	seq   uint64

	space chan struct{}
	avail chan struct{}

	closeOnce sync.Once
	done      chan struct{}

	// Hooks receives observability callbacks. Set before first use.
	Hooks domain.Hooks
}

// NewCommandQueue creates a queue with the given fixed, positive capacity.
func NewCommandQueue(capacity int) (*CommandQueue, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("queue capacity must be positive, got %d", capacity)
	}
	q := &CommandQueue{
		items: make(commandHeap, 0, capacity),
		space: make(chan struct{}, capacity),
		avail: make(chan struct{}, capacity),
		done:  make(chan struct{}),
	}
	for i := 0; i < capacity; i++ {
		q.space <- struct{}{}
	}
	return q, nil
}

// Enqueue constructs a Command with a freshly assigned sequence number and
// inserts it. If the queue is full, Enqueue blocks the calling producer until
// space frees up - this deliberately slows a too-fast producer rather than
// dropping input. Returns domain.ErrQueueClosed after Close.
func (q *CommandQueue) Enqueue(ctx context.Context, text string, source domain.Source, priority int) (domain.Command, error) {
	select {
	case <-q.done:
		return domain.Command{}, domain.ErrQueueClosed
	default:
	}

	select {
	case <-q.space:
	case <-q.done:
		return domain.Command{}, domain.ErrQueueClosed
	case <-ctx.Done():
		return domain.Command{}, ctx.Err()
	}

	q.mu.Lock()
	select {
	case <-q.done:
		q.mu.Unlock()
		return domain.Command{}, domain.ErrQueueClosed
	default:
	}
	cmd := domain.Command{
		Text:       text,
		Source:     source,
		Priority:   priority,
		Sequence:   q.seq,
		EnqueuedAt: time.Now(),
	}
	q.seq++
	heap.Push(&q.items, cmd)
	// One token per queued command; capacity bounds both, so this never
	// blocks while the lock is held.
	q.avail <- struct{}{}
	q.mu.Unlock()

	if q.Hooks.OnEnqueue != nil {
		q.Hooks.OnEnqueue(cmd)
	}
	return cmd, nil
}

// Dequeue blocks until a command is available, then returns the
// highest-priority, earliest-sequenced one. Single consumer only.
func (q *CommandQueue) Dequeue(ctx context.Context) (domain.Command, error) {
	// Prefer queued commands over a concurrent Close.
	select {
	case <-q.avail:
		return q.pop(), nil
	default:
	}

	select {
	case <-q.avail:
		return q.pop(), nil
	case <-q.done:
		return domain.Command{}, domain.ErrQueueClosed
	case <-ctx.Done():
		return domain.Command{}, ctx.Err()
	}
}

// TryDequeue returns the next command without blocking, or false if the
// queue is empty.
func (q *CommandQueue) TryDequeue() (domain.Command, bool) {
	select {
	case <-q.avail:
		return q.pop(), true
	default:
		return domain.Command{}, false
	}
}

// Ready exposes the availability tokens so the worker can select over
// commands and introspection tasks simultaneously. Every receive from Ready
// must be followed by exactly one Take.
func (q *CommandQueue) Ready() <-chan struct{} {
	return q.avail
}

// Take removes and returns the next command. It must only be called after a
// successful receive from Ready; the token guarantees the heap is non-empty.
func (q *CommandQueue) Take() domain.Command {
	return q.pop()
}

// Closed is closed when the queue has been shut down.
func (q *CommandQueue) Closed() <-chan struct{} {
	return q.done
}

// Close shuts the queue down. Blocked producers and the consumer are woken
// and receive domain.ErrQueueClosed. Idempotent.
func (q *CommandQueue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		close(q.done)
		q.mu.Unlock()
	})
}

// Len returns the number of queued commands.
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the fixed capacity.
func (q *CommandQueue) Cap() int {
	return cap(q.space)
}

func (q *CommandQueue) pop() domain.Command {
	q.mu.Lock()
	cmd := heap.Pop(&q.items).(domain.Command)
	q.space <- struct{}{}
	q.mu.Unlock()

	if q.Hooks.OnDequeue != nil {
		q.Hooks.OnDequeue(cmd, time.Since(cmd.EnqueuedAt))
	}
	return cmd
}

// commandHeap orders commands by (priority desc, sequence asc).
type commandHeap []domain.Command

func (h commandHeap) Len() int           { return len(h) }
func (h commandHeap) Less(i, j int) bool { return h[i].Before(h[j]) }
func (h commandHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *commandHeap) Push(x any) {
	*h = append(*h, x.(domain.Command))
}

func (h *commandHeap) Pop() any {
	old := *h
	n := len(old)
	cmd := old[n-1]
	*h = old[:n-1]
	return cmd
}
