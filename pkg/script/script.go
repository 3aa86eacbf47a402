// Package script replays a scripted sequence of commands into the bridge -
// the "headless test harness" producer. Scripts drive integration tests and
// the replay CLI command without a keyboard or recognizer attached.
package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/grue-if/grue/internal/logging"
	"github.com/grue-if/grue/pkg/bridge"
	"github.com/grue-if/grue/pkg/domain"
)

// Script is a replayable sequence of commands, typically loaded from YAML:
//
//	name: smoke
//	steps:
//	  - line: look
//	  - line: inventory
//	    source: voice
//	  - line: quit
//	    source: system
//	    wait: 100ms
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one scripted command.
type Step struct {
	Line string `yaml:"line"`

	// Source is keyboard, voice, or system. Defaults to keyboard.
	Source string `yaml:"source,omitempty"`

	// Priority overrides the source's default priority.
	Priority *int `yaml:"priority,omitempty"`

	// Wait pauses before submitting, to exercise timing-dependent paths.
	Wait time.Duration `yaml:"wait,omitempty"`
}

// UnmarshalYAML accepts human-readable waits like "100ms".
func (s *Step) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Line     string `yaml:"line"`
		Source   string `yaml:"source"`
		Priority *int   `yaml:"priority"`
		Wait     string `yaml:"wait"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	s.Line = raw.Line
	s.Source = raw.Source
	s.Priority = raw.Priority
	if raw.Wait != "" {
		d, err := time.ParseDuration(raw.Wait)
		if err != nil {
			return fmt.Errorf("invalid wait %q: %w", raw.Wait, err)
		}
		s.Wait = d
	}
	return nil
}

// resolve maps the step onto queue parameters.
func (s Step) resolve() (domain.Source, int, error) {
	var source domain.Source
	var prio int
	switch s.Source {
	case "", "keyboard":
		source, prio = domain.SourceKeyboard, domain.PriorityKeyboard
	case "voice":
		source, prio = domain.SourceVoice, domain.PriorityVoice
	case "system":
		source, prio = domain.SourceSystem, domain.PrioritySystem
	default:
		return "", 0, fmt.Errorf("unknown source %q", s.Source)
	}
	if s.Priority != nil {
		prio = *s.Priority
	}
	return source, prio, nil
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("script has no steps")
	}
	for i, step := range s.Steps {
		if _, _, err := step.resolve(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return &s, nil
}

// Load reads and parses a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return Parse(data)
}

// Player replays a script into the command queue.
type Player struct {
	Script *Script
	Queue  *bridge.CommandQueue
	Logger *slog.Logger
}

// NewPlayer creates a player for the given script.
func NewPlayer(s *Script, queue *bridge.CommandQueue) *Player {
	return &Player{
		Script: s,
		Queue:  queue,
		Logger: logging.NewNop(),
	}
}

// Run submits every step in order, honoring per-step waits. Stops early
// without error if the queue closes (the session ended first).
func (p *Player) Run(ctx context.Context) error {
	for i, step := range p.Script.Steps {
		if step.Wait > 0 {
			select {
			case <-time.After(step.Wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		source, prio, err := step.resolve()
		if err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if _, err := p.Queue.Enqueue(ctx, step.Line, source, prio); err != nil {
			if errors.Is(err, domain.ErrQueueClosed) {
				p.Logger.Debug("queue closed mid-script", "step", i)
				return nil
			}
			return err
		}
		p.Logger.Debug("replayed step", "step", i, "line", step.Line, "source", source)
	}
	return nil
}
