package domain

import "time"

// Hooks defines optional callbacks for bridge observability.
// All fields may be nil. Callbacks run inline on hot paths (producer
// goroutines and the engine worker), so they must be fast and must not
// block.
type Hooks struct {
	// OnEnqueue fires after a command is inserted into the queue.
	OnEnqueue func(Command)

	// OnDequeue fires after a command is removed, with the time it spent
	// queued.
	OnDequeue func(Command, time.Duration)

	// OnChunk fires after a chunk is written to the output channel.
	OnChunk func(Chunk)

	// OnIntrospection fires after the worker services an introspection
	// task, with its execution time and the error it produced (if any).
	OnIntrospection func(time.Duration, error)

	// OnStateChange fires on every worker lifecycle transition.
	OnStateChange func(from, to string)
}
