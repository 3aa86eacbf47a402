package bridge_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveTasks runs a minimal stand-in for the engine worker's drain loop.
// It services every task until stop is closed, then shuts the bridge down.
func serveTasks(b *bridge.Introspector, stop <-chan struct{}) {
	for {
		select {
		case t := <-b.Tasks():
			t.Serve()
		case <-stop:
			b.Shutdown()
			return
		}
	}
}

func TestIntrospector_CallReturnsValue(t *testing.T) {
	b := bridge.NewIntrospector(0)
	stop := make(chan struct{})
	defer close(stop)
	go serveTasks(b, stop)

	got, err := b.Call(context.Background(), func() (any, error) {
		return map[string]any{"room": "Cellar", "score": 25}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"room": "Cellar", "score": 25}, got)
}

func TestIntrospector_QueryErrorDeliveredVerbatim(t *testing.T) {
	b := bridge.NewIntrospector(0)
	stop := make(chan struct{})
	defer close(stop)
	go serveTasks(b, stop)

	sentinel := errors.New("no such object")
	_, err := b.Call(context.Background(), func() (any, error) {
		return nil, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestIntrospector_PanicCapturedWorkerSurvives(t *testing.T) {
	b := bridge.NewIntrospector(0)
	stop := make(chan struct{})
	defer close(stop)
	go serveTasks(b, stop)

	divisor := 0
	_, err := b.Call(context.Background(), func() (any, error) {
		return 10 / divisor, nil
	})

	var ie *domain.IntrospectionError
	require.ErrorAs(t, err, &ie)

	// The worker keeps servicing tasks normally afterward.
	got, err := b.Call(context.Background(), func() (any, error) {
		return "still alive", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "still alive", got)
}

func TestIntrospector_ShutdownFailsPendingTasks(t *testing.T) {
	b := bridge.NewIntrospector(4)

	// No worker is draining; the task sits queued.
	done := make(chan error, 1)
	go func() {
		_, err := b.Call(context.Background(), func() (any, error) { return nil, nil })
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	b.Shutdown()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrWorkerStopped)
	case <-time.After(time.Second):
		t.Fatal("pending call ignored shutdown")
	}

	// Calls after shutdown fail fast.
	_, err := b.Call(context.Background(), func() (any, error) { return nil, nil })
	assert.ErrorIs(t, err, domain.ErrWorkerStopped)
}

func TestIntrospector_CallHonorsContext(t *testing.T) {
	b := bridge.NewIntrospector(1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := b.Call(ctx, func() (any, error) { return nil, nil })
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("call ignored cancellation")
	}
}
