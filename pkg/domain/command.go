package domain

import (
	"math"
	"time"
)

// Source identifies the producer that submitted a Command.
type Source string

const (
	SourceKeyboard Source = "keyboard"
	SourceVoice    Source = "voice"
	SourceSystem   Source = "system"
)

// Default priorities per source. Producers choose their own priority on
// enqueue; these are the conventional values.
const (
	PriorityKeyboard = 0
	PriorityVoice    = 1

	// PrioritySystem outranks every game command so that control tokens
	// (quit, cancel-edit, undo) are serviced before any pending input.
	PrioritySystem = math.MaxInt
)

// DirectiveQuit is the text of the system Command that asks the engine worker
// to stop. It is the only command text the bridge itself interprets; all
// other system commands pass through to the engine like ordinary input.
const DirectiveQuit = "quit"

// Command is one submitted line of input plus routing metadata.
// It is immutable once constructed. Sequence is assigned by the command
// queue under its insertion lock, so sequence numbers are unique and
// monotonic across all producers.
type Command struct {
	Text       string
	Source     Source
	Priority   int
	Sequence   uint64
	EnqueuedAt time.Time
}

// Before reports whether c must be served ahead of o: higher priority first,
// then lower sequence number. Sequence numbers are unique, so Before defines
// a strict total order; no two Commands ever compare equal.
func (c Command) Before(o Command) bool {
	if c.Priority != o.Priority {
		return c.Priority > o.Priority
	}
	return c.Sequence < o.Sequence
}

// IsQuit reports whether the command is the system quit directive.
func (c Command) IsQuit() bool {
	return c.Source == SourceSystem && c.Text == DirectiveQuit
}
