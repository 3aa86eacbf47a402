package domain

import (
	"errors"
	"fmt"
)

// ErrQueueClosed is returned by queue operations attempted after shutdown.
var ErrQueueClosed = errors.New("command queue closed")

// ErrChannelClosed is returned by writes to an output channel after Close.
var ErrChannelClosed = errors.New("output channel closed")

// ErrEndOfStream is returned by output channel reads once the channel is
// closed and every buffered chunk has been delivered. It is a terminal
// condition, not a failure: all subsequent reads keep returning it.
var ErrEndOfStream = errors.New("end of stream")

// ErrWorkerStopped is returned by introspection calls made after the engine
// worker has stopped, and delivered to callers whose pending tasks were still
// queued when it stopped.
var ErrWorkerStopped = errors.New("engine worker stopped")

// ErrShutdownTimeout is returned when the worker fails to reach Stopped even
// after forced-shutdown escalation.
var ErrShutdownTimeout = errors.New("shutdown timeout exceeded")

// EngineError wraps an unrecoverable failure raised by the engine during a
// step. The worker converts it to a final fatal Chunk before closing the
// output channel.
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("engine fatal: %v", e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// IntrospectionError wraps a panic recovered inside an introspection query.
// The panic is captured on the worker goroutine and delivered to the caller
// of Call instead of crashing the worker.
type IntrospectionError struct {
	Value any
}

func (e *IntrospectionError) Error() string {
	return fmt.Sprintf("introspection query panicked: %v", e.Value)
}
