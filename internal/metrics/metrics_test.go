package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grue-if/grue/pkg/domain"
)

func TestHooksFeedCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	hooks := m.Hooks()

	cmd := domain.Command{Text: "look", Source: domain.SourceKeyboard}
	hooks.OnEnqueue(cmd)
	hooks.OnEnqueue(cmd)
	hooks.OnDequeue(cmd, 3*time.Millisecond)
	hooks.OnChunk(domain.Chunk{Bytes: []byte("ok")})
	hooks.OnIntrospection(time.Millisecond, nil)
	hooks.OnIntrospection(time.Millisecond, errors.New("boom"))
	hooks.OnStateChange("running", "stopping")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CommandsEnqueued.WithLabelValues("keyboard")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueueDepth))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutputChunks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IntrospectionErr))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StateChanges.WithLabelValues("running", "stopping")))
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { New(reg) })
	require.Panics(t, func() { New(reg) })
}
