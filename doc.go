/*
Package grue is a concurrency bridge for single-threaded text-adventure
interpreters. It lets multiple input producers (keyboard, voice, scripted
harnesses) and a rendering front-end interact with an engine that must only
ever be touched from one goroutine.

It implements a "single worker owns the engine" architecture: commands flow
in through a bounded priority queue, narration flows out through a bounded
output channel, and reads of engine state from other goroutines run as
introspection tasks serviced by the worker between steps.

# Concept

The engine (ports.Engine) is a blocking read-eval-print interpreter with no
notion of concurrency. The bridge turns it into a session any number of
goroutines can talk to safely:

  - Producers enqueue lines with a source and a priority; higher priority
    wins, ties resolve in arrival order. A full queue blocks the producer
    rather than dropping input.
  - The worker feeds commands to the engine, forwards its output, and drains
    introspection queries before every step, so a query never observes a
    half-applied step.
  - Shutdown is a highest-priority system command; if the engine does not
    stop within the budget, the controller escalates to cancellation.

# Usage

	package main

	import (
		"context"
		"errors"
		"log"

		"github.com/grue-if/grue"
		"github.com/grue-if/grue/pkg/adapters/inmemory"
		"github.com/grue-if/grue/pkg/domain"
	)

	func main() {
		eng := inmemory.New(inmemory.DefaultStory())
		session, err := grue.New(eng)
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		if err := session.Start(ctx); err != nil {
			log.Fatal(err)
		}

		// Submit a command, then quit.
		_ = session.Submit(ctx, "look", domain.SourceKeyboard, domain.PriorityKeyboard)
		go session.Shutdown(ctx)

		// Drain the transcript until end of stream.
		for {
			chunk, err := session.Output().Read(ctx)
			if errors.Is(err, domain.ErrEndOfStream) {
				break
			}
			if err != nil {
				log.Fatal(err)
			}
			log.Print(chunk.Text())
		}
	}
*/
package grue
