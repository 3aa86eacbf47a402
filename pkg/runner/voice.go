package runner

import (
	"context"
	"errors"
	"log/slog"

	"github.com/grue-if/grue/internal/logging"
	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/domain"
	"github.com/grue-if/grue/pkg/ports"
)

// VoiceProducer forwards recognizer transcriptions into the command queue at
// voice priority.
type VoiceProducer struct {
	Recognizer ports.Recognizer
	Queue      *bridge.CommandQueue
	Priority   int
	Logger     *slog.Logger
}

// NewVoiceProducer creates a producer over rec.
func NewVoiceProducer(rec ports.Recognizer, queue *bridge.CommandQueue) *VoiceProducer {
	return &VoiceProducer{
		Recognizer: rec,
		Queue:      queue,
		Priority:   domain.PriorityVoice,
		Logger:     logging.NewNop(),
	}
}

// Run pumps transcriptions until the recognizer closes its result stream,
// the context is cancelled, or the queue closes. Invalid transcriptions are
// logged and discarded.
func (p *VoiceProducer) Run(ctx context.Context) error {
	for {
		select {
		case text, ok := <-p.Recognizer.Results():
			if !ok {
				return nil
			}
			clean, err := SanitizeInput(text)
			if err != nil {
				p.Logger.Warn("discarding invalid voice input", "err", err)
				continue
			}
			if _, err := p.Queue.Enqueue(ctx, clean, domain.SourceVoice, p.Priority); err != nil {
				if errors.Is(err, domain.ErrQueueClosed) {
					return nil
				}
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
