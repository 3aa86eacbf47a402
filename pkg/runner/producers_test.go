package runner_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/domain"
	"github.com/grue-if/grue/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyboardProducer_EnqueuesLinesUntilEOF(t *testing.T) {
	queue, err := bridge.NewCommandQueue(8)
	require.NoError(t, err)

	input := "look\ninventory\nopen \xff\xfe door\nnorth\n"
	p := runner.NewKeyboardProducer(strings.NewReader(input), queue)

	require.NoError(t, p.Run(context.Background()))

	// The invalid-UTF8 line is dropped; the rest arrive in order at
	// keyboard priority.
	ctx := context.Background()
	var got []string
	for queue.Len() > 0 {
		cmd, err := queue.Dequeue(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.SourceKeyboard, cmd.Source)
		assert.Equal(t, domain.PriorityKeyboard, cmd.Priority)
		got = append(got, cmd.Text)
	}
	assert.Equal(t, []string{"look", "inventory", "north"}, got)
}

func TestKeyboardProducer_FinalUnterminatedLine(t *testing.T) {
	queue, err := bridge.NewCommandQueue(8)
	require.NoError(t, err)

	p := runner.NewKeyboardProducer(strings.NewReader("look"), queue)
	require.NoError(t, p.Run(context.Background()))

	cmd, err := queue.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "look", cmd.Text)
}

func TestKeyboardProducer_StopsWhenQueueCloses(t *testing.T) {
	queue, err := bridge.NewCommandQueue(1)
	require.NoError(t, err)
	queue.Close()

	p := runner.NewKeyboardProducer(strings.NewReader("look\n"), queue)
	assert.NoError(t, p.Run(context.Background()))
}

type fakeRecognizer struct {
	ch chan string
}

func (f *fakeRecognizer) Results() <-chan string { return f.ch }

func TestVoiceProducer_ForwardsTranscriptions(t *testing.T) {
	queue, err := bridge.NewCommandQueue(8)
	require.NoError(t, err)

	rec := &fakeRecognizer{ch: make(chan string, 4)}
	rec.ch <- "go north"
	rec.ch <- "take lamp"
	close(rec.ch)

	p := runner.NewVoiceProducer(rec, queue)
	require.NoError(t, p.Run(context.Background()))

	ctx := context.Background()
	first, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "go north", first.Text)
	assert.Equal(t, domain.SourceVoice, first.Source)
	assert.Equal(t, domain.PriorityVoice, first.Priority)

	second, err := queue.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "take lamp", second.Text)
}

func TestVoiceProducer_HonorsContext(t *testing.T) {
	queue, err := bridge.NewCommandQueue(8)
	require.NoError(t, err)

	rec := &fakeRecognizer{ch: make(chan string)}
	p := runner.NewVoiceProducer(rec, queue)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("voice producer ignored cancellation")
	}
}
