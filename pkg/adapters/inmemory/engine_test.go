package inmemory_test

import (
	"context"
	"testing"

	"github.com/grue-if/grue/pkg/adapters/inmemory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drainOutput(t *testing.T, e *inmemory.Engine) string {
	t.Helper()
	var out string
	for {
		res, err := e.Step(context.Background())
		require.NoError(t, err)
		if len(res.Output) > 0 {
			out += string(res.Output)
			continue
		}
		return out
	}
}

func TestEngine_OpeningThenInput(t *testing.T) {
	e := inmemory.New(inmemory.DefaultStory())

	out := drainOutput(t, e)
	assert.Contains(t, out, "West of House")

	res, err := e.Step(context.Background())
	require.NoError(t, err)
	assert.True(t, res.NeedsInput)
}

func TestEngine_RepliesAndMoves(t *testing.T) {
	e := inmemory.New(inmemory.DefaultStory())
	drainOutput(t, e)

	e.FeedLine("inventory")
	assert.Contains(t, drainOutput(t, e), "nothing of consequence")

	e.FeedLine("north")
	assert.Contains(t, drainOutput(t, e), "North of House")

	got, err := e.PlayerQuery()()
	require.NoError(t, err)
	player := got.(map[string]any)
	assert.Equal(t, "North of House", player["room"])
	assert.Equal(t, 2, player["moves"])
}

func TestEngine_QuitHalts(t *testing.T) {
	e := inmemory.New(inmemory.DefaultStory())
	drainOutput(t, e)

	e.FeedLine("quit")
	assert.Contains(t, drainOutput(t, e), "Goodbye")

	res, err := e.Step(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Halted)
}
