package runner

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/grue-if/grue/internal/logging"
	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/domain"
)

// KeyboardProducer reads newline-terminated commands from a reader (normally
// the terminal) and enqueues them at keyboard priority.
type KeyboardProducer struct {
	Reader   *bufio.Reader
	Queue    *bridge.CommandQueue
	Priority int
	Logger   *slog.Logger
}

// NewKeyboardProducer creates a producer over r.
func NewKeyboardProducer(r io.Reader, queue *bridge.CommandQueue) *KeyboardProducer {
	return &KeyboardProducer{
		Reader:   bufio.NewReader(r),
		Queue:    queue,
		Priority: domain.PriorityKeyboard,
		Logger:   logging.NewNop(),
	}
}

// Run pumps lines until EOF, cancellation, or queue close. Invalid lines
// (oversized, bad encoding) are logged and discarded, never enqueued. An
// empty line is a valid command - pressing enter means something to most
// interpreters.
func (p *KeyboardProducer) Run(ctx context.Context) error {
	for {
		line, err := p.Reader.ReadString('\n')
		if len(line) > 0 {
			if qerr := p.submit(ctx, line); qerr != nil {
				if errors.Is(qerr, domain.ErrQueueClosed) {
					return nil
				}
				return qerr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (p *KeyboardProducer) submit(ctx context.Context, line string) error {
	clean, err := SanitizeInput(line)
	if err != nil {
		p.Logger.Warn("discarding invalid keyboard input", "err", err)
		return nil
	}
	_, err = p.Queue.Enqueue(ctx, clean, domain.SourceKeyboard, p.Priority)
	return err
}
