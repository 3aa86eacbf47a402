package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/grue-if/grue/pkg/domain"
)

// DefaultOutputCapacity bounds the output channel when no explicit capacity
// is configured.
const DefaultOutputCapacity = 256

// OutputChannel is the bounded FIFO carrying chunks from the engine worker to
// the display surface.
//
// Write blocks when the buffer is full (backpressure) so no output is ever
// silently lost. Close marks end of stream: readers drain every buffered
// chunk first, then every subsequent Read returns domain.ErrEndOfStream. The
// channel stays "closed-readable" rather than erroring, so late or multiple
// consumers are fine.
type OutputChannel struct {
	mu     sync.Mutex
	chunks []domain.Chunk
	closed bool

	space chan struct{}
	avail chan struct{}

	closeOnce sync.Once
	done      chan struct{}

	// Hooks receives observability callbacks. Set before first use.
	Hooks domain.Hooks
}

// NewOutputChannel creates a channel with the given fixed, positive capacity.
func NewOutputChannel(capacity int) (*OutputChannel, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("output capacity must be positive, got %d", capacity)
	}
	o := &OutputChannel{
		chunks: make([]domain.Chunk, 0, capacity),
		space:  make(chan struct{}, capacity),
		avail:  make(chan struct{}, capacity),
		done:   make(chan struct{}),
	}
	for i := 0; i < capacity; i++ {
		o.space <- struct{}{}
	}
	return o, nil
}

// Write appends a chunk, blocking while the buffer is full. Returns
// domain.ErrChannelClosed once the channel is closed. Safe under concurrent
// writers; the sequence of chunks read always equals the sequence written.
func (o *OutputChannel) Write(ctx context.Context, chunk domain.Chunk) error {
	select {
	case <-o.done:
		return domain.ErrChannelClosed
	default:
	}

	select {
	case <-o.space:
	case <-o.done:
		return domain.ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return domain.ErrChannelClosed
	}
	o.chunks = append(o.chunks, chunk)
	o.avail <- struct{}{}
	o.mu.Unlock()

	if o.Hooks.OnChunk != nil {
		o.Hooks.OnChunk(chunk)
	}
	return nil
}

// Close marks end of stream. Chunks already buffered are still delivered;
// once drained, reads return domain.ErrEndOfStream forever. Idempotent.
func (o *OutputChannel) Close() {
	o.closeOnce.Do(func() {
		o.mu.Lock()
		o.closed = true
		close(o.done)
		o.mu.Unlock()
	})
}

// Read blocks until a chunk or end of stream is available. After the channel
// is closed and drained, every call returns domain.ErrEndOfStream. Multiple
// concurrent readers are permitted.
func (o *OutputChannel) Read(ctx context.Context) (domain.Chunk, error) {
	// Buffered chunks win over a concurrent Close: end of stream comes only
	// after all real chunks are delivered.
	select {
	case <-o.avail:
		return o.take(), nil
	default:
	}

	select {
	case <-o.avail:
		return o.take(), nil
	case <-o.done:
		// Close raced a final buffered chunk; writes are impossible now, so
		// one more non-blocking check settles it.
		select {
		case <-o.avail:
			return o.take(), nil
		default:
			return domain.Chunk{}, domain.ErrEndOfStream
		}
	case <-ctx.Done():
		return domain.Chunk{}, ctx.Err()
	}
}

// Len returns the number of buffered chunks.
func (o *OutputChannel) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.chunks)
}

func (o *OutputChannel) take() domain.Chunk {
	o.mu.Lock()
	chunk := o.chunks[0]
	o.chunks = o.chunks[1:]
	o.space <- struct{}{}
	o.mu.Unlock()
	return chunk
}
