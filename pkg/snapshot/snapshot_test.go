package snapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/grue-if/grue/pkg/adapters/inmemory"
	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/domain"
	"github.com/grue-if/grue/pkg/runner"
	"github.com/grue-if/grue/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePlayer(t *testing.T) {
	p, err := snapshot.DecodePlayer(map[string]any{"room": "Cellar", "moves": 12, "score": 25})
	require.NoError(t, err)
	assert.Equal(t, snapshot.Player{Room: "Cellar", Moves: 12, Score: 25}, p)
}

func TestDecodePlayer_MissingFieldsZeroed(t *testing.T) {
	p, err := snapshot.DecodePlayer(map[string]any{"room": "Attic"})
	require.NoError(t, err)
	assert.Equal(t, "Attic", p.Room)
	assert.Zero(t, p.Moves)
}

func TestDecodeRoom(t *testing.T) {
	r, err := snapshot.DecodeRoom(map[string]any{"name": "Kitchen", "description": "A table seems to have been used recently."})
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", r.Name)
	assert.Contains(t, r.Description, "recently")
}

func TestPanel_SnapshotsLiveEngine(t *testing.T) {
	eng := inmemory.New(inmemory.DefaultStory())
	queue, err := bridge.NewCommandQueue(8)
	require.NoError(t, err)
	out, err := bridge.NewOutputChannel(64)
	require.NoError(t, err)
	intro := bridge.NewIntrospector(4)

	w := runner.NewWorker(eng, queue, out, intro)
	ctx := context.Background()
	w.Start(ctx)
	select {
	case <-w.Ready():
	case <-time.After(time.Second):
		t.Fatal("worker never became ready")
	}

	panel := &snapshot.Panel{
		Intro:       intro,
		PlayerQuery: eng.PlayerQuery(),
		RoomQuery:   eng.RoomQuery(),
	}

	player, err := panel.Player(ctx)
	require.NoError(t, err)
	assert.Equal(t, "West of House", player.Room)

	room, err := panel.Room(ctx)
	require.NoError(t, err)
	assert.Equal(t, "West of House", room.Name)

	_, err = queue.Enqueue(ctx, domain.DirectiveQuit, domain.SourceSystem, domain.PrioritySystem)
	require.NoError(t, err)
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("worker never stopped")
	}

	// After the worker stops, panel reads fail fast.
	_, err = panel.Player(ctx)
	assert.ErrorIs(t, err, domain.ErrWorkerStopped)
}
