package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/grue-if/grue/pkg/adapters/inmemory"
	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/domain"
	"github.com/grue-if/grue/pkg/ports"
	"github.com/grue-if/grue/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_GracefulShutdown(t *testing.T) {
	h := newHarness(t, inmemory.New(inmemory.DefaultStory()))
	c := runner.NewController(h.worker, h.queue)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	err := c.Shutdown(ctx)
	assert.NoError(t, err)
	assert.Equal(t, runner.StateStopped, h.worker.State())

	// Graceful completion is observable as end of stream.
	h.drain(t)
	_, rerr := h.out.Read(context.Background())
	assert.ErrorIs(t, rerr, domain.ErrEndOfStream)
}

func TestController_ShutdownIsIdempotent(t *testing.T) {
	h := newHarness(t, inmemory.New(inmemory.DefaultStory()))
	c := runner.NewController(h.worker, h.queue)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.Shutdown(ctx))
	require.NoError(t, c.Shutdown(ctx))
}

func TestController_StartTwiceFails(t *testing.T) {
	h := newHarness(t, inmemory.New(inmemory.DefaultStory()))
	c := runner.NewController(h.worker, h.queue)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	assert.Error(t, c.Start(ctx))

	require.NoError(t, c.Shutdown(ctx))
}

// chattyEngine produces output forever and never asks for input.
type chattyEngine struct{}

func (chattyEngine) Step(ctx context.Context) (ports.StepResult, error) {
	return ports.StepResult{Output: []byte("more text\n")}, nil
}

func (chattyEngine) FeedLine(string) {}

func TestController_ForcedShutdownUnblocksStuckWorker(t *testing.T) {
	// Tiny output buffer and no consumer: the worker wedges inside Write,
	// so the quit directive is never consumed and the controller must
	// escalate to cooperative cancellation.
	queue, err := bridge.NewCommandQueue(4)
	require.NoError(t, err)
	out, err := bridge.NewOutputChannel(1)
	require.NoError(t, err)
	intro := bridge.NewIntrospector(4)
	w := runner.NewWorker(chattyEngine{}, queue, out, intro)

	c := runner.NewController(w, queue)
	c.Timeout = 100 * time.Millisecond

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	done := make(chan error, 1)
	go func() { done <- c.Shutdown(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("forced shutdown did not complete")
	}
	assert.Equal(t, runner.StateStopped, w.State())
}
