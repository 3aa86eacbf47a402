package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grue-if/grue"
	"github.com/grue-if/grue/pkg/adapters/inmemory"
	"github.com/grue-if/grue/pkg/domain"
	"github.com/grue-if/grue/pkg/script"
)

// replayCmd represents the replay command
var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay a scripted session against the built-in story",
	Long:  `Loads a YAML script of timed commands, feeds it through the bridge the way live producers would, and prints the resulting transcript.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, logger, err := baseSetup(cmd)
	if err != nil {
		return err
	}

	scr, err := script.Load(args[0])
	if err != nil {
		return err
	}

	session, err := grue.New(inmemory.New(inmemory.DefaultStory()), sessionOptions(cfg, logger)...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := session.Start(ctx); err != nil {
		return err
	}

	// Drain the transcript concurrently so a chatty script cannot wedge on a
	// full output channel.
	printed := make(chan error, 1)
	go func() {
		for {
			chunk, rerr := session.Output().Read(ctx)
			if errors.Is(rerr, domain.ErrEndOfStream) {
				printed <- nil
				return
			}
			if rerr != nil {
				printed <- rerr
				return
			}
			if chunk.Fatal {
				fmt.Fprintln(os.Stderr, chunk.Text())
				continue
			}
			fmt.Print(chunk.Text())
		}
	}()

	player := script.NewPlayer(scr, session.Queue())
	if perr := player.Run(ctx); perr != nil {
		logger.Warn("script replay stopped early", "err", perr)
	}

	if err := session.Shutdown(ctx); err != nil {
		return err
	}
	return <-printed
}
