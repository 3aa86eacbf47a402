package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/grue-if/grue"
	"github.com/grue-if/grue/internal/config"
	"github.com/grue-if/grue/internal/logging"
	"github.com/grue-if/grue/internal/metrics"
	"github.com/grue-if/grue/internal/presentation/tui"
	"github.com/grue-if/grue/pkg/adapters/inmemory"
	"github.com/grue-if/grue/pkg/domain"
	"github.com/grue-if/grue/pkg/runner"
)

// playCmd represents the play command
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the built-in story interactively",
	Long:  `Starts an interactive session against the built-in demo story, reading commands from stdin and printing the transcript to stdout.`,
	RunE:  runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().String("metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")

	// Make 'play' the default when no subcommand is given.
	rootCmd.RunE = playCmd.RunE
}

// baseSetup resolves the persistent flags shared by every command.
func baseSetup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return cfg, nil, err
	}

	level := slog.LevelInfo
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	return cfg, logging.New(level), nil
}

func sessionOptions(cfg config.Config, logger *slog.Logger) []grue.Option {
	return []grue.Option{
		grue.WithLogger(logger),
		grue.WithQueueCapacity(cfg.QueueCapacity),
		grue.WithOutputCapacity(cfg.OutputCapacity),
		grue.WithTaskCapacity(cfg.TaskCapacity),
		grue.WithShutdownTimeout(cfg.ShutdownTimeout),
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, logger, err := baseSetup(cmd)
	if err != nil {
		return err
	}

	opts := sessionOptions(cfg, logger)
	if addr, _ := cmd.Flags().GetString("metrics"); addr != "" {
		m := metrics.New(prometheus.DefaultRegisterer)
		opts = append(opts, grue.WithHooks(m.Hooks()))
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("serving metrics", "addr", addr)
			if serr := http.ListenAndServe(addr, mux); serr != nil {
				logger.Error("metrics server stopped", "err", serr)
			}
		}()
	}

	session, err := grue.New(inmemory.New(inmemory.DefaultStory()), opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The worker gets its own context: a signal triggers a graceful quit
	// first, and the controller handles escalation if that stalls.
	if err := session.Start(context.Background()); err != nil {
		return err
	}

	tui.PrintBanner(grue.Version)

	kb := runner.NewKeyboardProducer(os.Stdin, session.Queue())
	kb.Priority = cfg.Priorities.Keyboard
	kb.Logger = logger
	go func() {
		if kerr := kb.Run(ctx); kerr != nil {
			logger.Warn("keyboard producer stopped", "err", kerr)
		}
		// Stdin is gone, so the session has no more input coming.
		_ = session.Shutdown(context.Background())
	}()

	go func() {
		<-ctx.Done()
		logger.Info("interrupt received, shutting down")
		_ = session.Shutdown(context.Background())
	}()

	for {
		chunk, rerr := session.Output().Read(context.Background())
		if errors.Is(rerr, domain.ErrEndOfStream) {
			break
		}
		if rerr != nil {
			return rerr
		}
		if chunk.Fatal {
			fmt.Fprintln(os.Stderr, chunk.Text())
			continue
		}
		fmt.Print(chunk.Text())
	}

	return session.Shutdown(context.Background())
}
