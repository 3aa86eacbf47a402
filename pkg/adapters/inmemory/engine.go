// Package inmemory provides a tiny scripted interpreter implementing
// ports.Engine, for tests and the demo command. The real interpreter is an
// external collaborator; this adapter only mimics its step/feed-line
// contract.
package inmemory

import (
	"context"
	"fmt"

	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/ports"
)

// Story defines the scripted world.
type Story struct {
	// Opening chunks are emitted one per step before the first prompt.
	Opening []string

	// Responses maps an input line to the text printed in reply.
	Responses map[string]string

	// Moves maps an input line to the room it puts the player in.
	Moves map[string]string

	// Fallback is printed for unrecognized input.
	Fallback string

	// Start is the initial room name.
	Start string
}

// DefaultStory is a minimal playable world for the demo command.
func DefaultStory() Story {
	return Story{
		Opening: []string{
			"GRUE: an interactive demo\n",
			"West of House\nYou are standing in an open field west of a white house.\n",
		},
		Responses: map[string]string{
			"look":      "You are standing in an open field west of a white house.\n",
			"inventory": "You are carrying nothing of consequence.\n",
		},
		Moves: map[string]string{
			"north": "North of House",
			"south": "South of House",
		},
		Fallback: "I don't understand that.\n",
		Start:    "West of House",
	}
}

// Engine is a deterministic, single-goroutine scripted interpreter.
// Like a real interpreter core it is not goroutine-safe: only the engine
// worker may call its methods, and reads from elsewhere must go through the
// introspection bridge.
type Engine struct {
	story Story

	pending []string
	waiting bool
	halted  bool

	room  string
	moves int
}

var _ ports.Engine = (*Engine)(nil)

// New creates an engine for the given story.
func New(story Story) *Engine {
	room := story.Start
	if room == "" {
		room = "Nowhere"
	}
	return &Engine{
		story:   story,
		pending: append([]string(nil), story.Opening...),
		room:    room,
	}
}

// Step emits one pending output chunk, or requests input when the script is
// caught up.
func (e *Engine) Step(ctx context.Context) (ports.StepResult, error) {
	if len(e.pending) > 0 {
		out := e.pending[0]
		e.pending = e.pending[1:]
		return ports.StepResult{Output: []byte(out)}, nil
	}
	if e.halted {
		return ports.StepResult{Halted: true}, nil
	}
	e.waiting = true
	return ports.StepResult{NeedsInput: true}, nil
}

// FeedLine consumes one input line and queues the scripted reply.
func (e *Engine) FeedLine(text string) {
	e.waiting = false
	e.moves++

	if text == "quit" {
		e.pending = append(e.pending, "Goodbye.\n")
		e.halted = true
		return
	}
	if room, ok := e.story.Moves[text]; ok {
		e.room = room
		e.pending = append(e.pending, fmt.Sprintf("%s\n", room))
		return
	}
	if reply, ok := e.story.Responses[text]; ok {
		e.pending = append(e.pending, reply)
		return
	}
	e.pending = append(e.pending, e.story.Fallback)
}

// PlayerQuery returns a read-only query over player state, suitable for the
// introspection bridge. The returned map is freshly built per call, so the
// caller never aliases engine-owned memory.
func (e *Engine) PlayerQuery() bridge.Query {
	return func() (any, error) {
		return map[string]any{
			"room":  e.room,
			"moves": e.moves,
		}, nil
	}
}

// RoomQuery returns a read-only query describing the current room.
func (e *Engine) RoomQuery() bridge.Query {
	return func() (any, error) {
		desc := e.story.Responses["look"]
		return map[string]any{
			"name":        e.room,
			"description": desc,
		}, nil
	}
}
