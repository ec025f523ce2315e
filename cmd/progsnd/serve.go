// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ik5/progsnd/event"
	"github.com/ik5/progsnd/internal/control"
	"github.com/ik5/progsnd/internal/output"
	"github.com/ik5/progsnd/internal/player"
	"github.com/ik5/progsnd/table"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Play sounds on request over NATS",
	Long: `Listen on NATS for play, stop, bank and param requests and play the
resolved sounds on the default output device. With watch enabled, table
files are reloaded when they change.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cfg, cfgDir, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend := output.NewPortAudio()
	if err := backend.Initialize(); err != nil {
		return err
	}
	defer backend.Terminate()

	p := player.New(backend, cfg.Output.SampleRate, cfg.Output.BufferSize, player.WithLogger(logger))
	defer p.Close()

	desc := &event.Description{Path: "event:/progsnd/serve"}
	engine := control.NewEngine(a.resolver, p, desc, a.banks)

	nc, err := control.Connect(cfg.NATS.URL, logger)
	if err != nil {
		return err
	}
	conn := control.NewConnAdapter(nc)
	defer conn.Close()

	srv := control.NewServer(conn, cfg.NATS.Prefix, engine, control.WithLogger(logger))
	if err := srv.Start(); err != nil {
		return err
	}
	defer srv.Close()

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Watch {
		if err := watchBanks(gctx, g, a, engine); err != nil {
			return err
		}
	}
	g.Go(func() error {
		<-gctx.Done()
		return gctx.Err()
	})

	logger.Info("serving", "url", cfg.NATS.URL, "prefix", cfg.NATS.Prefix, "table", a.resolver.Table().Name())

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutting down", "outstanding", a.resolver.Outstanding())
	return nil
}

// watchBanks reloads every file-backed bank when its file changes. Cached
// sound data is dropped on reload.
func watchBanks(ctx context.Context, g *errgroup.Group, a *app, engine *control.Engine) error {
	for name, path := range a.paths {
		if fi, err := os.Stat(path); err != nil || fi.IsDir() {
			continue
		}

		w, err := table.NewWatcher(path, func(t *table.Table) {
			a.loader.Purge()
			engine.SetBank(name, t.Rename(name))
		}, table.WithWatchLogger(logger))
		if err != nil {
			return err
		}

		g.Go(func() error {
			defer w.Close()
			return w.Run(ctx)
		})
	}
	return nil
}
