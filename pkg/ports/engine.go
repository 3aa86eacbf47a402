package ports

import "context"

// StepResult reports what one unit of engine execution produced.
type StepResult struct {
	// Output is the text produced by this step. May be empty.
	Output []byte

	// NeedsInput indicates the engine wants a line delivered via FeedLine
	// before the next Step.
	NeedsInput bool

	// Halted indicates the engine terminated on its own (for example an
	// in-game quit). No further Steps will be issued.
	Halted bool
}

// Engine is the single-threaded interpreter core driven by the worker.
//
// Implementations are not required to be goroutine-safe: exactly one
// goroutine, the engine worker, ever calls these methods. All other access
// to engine state goes through the introspection bridge, which serializes
// reads onto that same goroutine.
type Engine interface {
	// Step advances execution by one unit (one instruction or turn
	// fragment). An error is fatal and stops the worker.
	Step(ctx context.Context) (StepResult, error)

	// FeedLine delivers the text of a dequeued Command as the engine's next
	// input line. Only called after a Step reported NeedsInput.
	FeedLine(text string)
}
