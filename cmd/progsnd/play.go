// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ik5/progsnd/event"
	"github.com/ik5/progsnd/internal/output"
	"github.com/ik5/progsnd/internal/player"
)

var playOpts struct {
	key    string
	volume float32
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a key on the default output device",
	Long:  `Resolve a key and play it through PortAudio until it ends. Looping sounds play until interrupted.`,
	Args:  cobra.NoArgs,
	RunE:  runPlay,
}

func init() {
	f := playCmd.Flags()
	f.StringVar(&playOpts.key, "key", "", "sound key")
	f.Float32Var(&playOpts.volume, "volume", 1, "volume in [0, 1]")
	_ = playCmd.MarkFlagRequired("key")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, _ []string) error {
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

	desc := &event.Description{Path: "event:/progsnd/play"}
	inst, err := desc.NewInstance(a.resolver, playOpts.key, event.WithLogger(logger))
	if err != nil {
		return err
	}
	if _, err := inst.SetParameter(event.VolumeParameter, playOpts.volume); err != nil {
		return err
	}

	id, err := p.Play(ctx, inst)
	if err != nil {
		return err
	}
	if err := inst.Err(); err != nil {
		return fmt.Errorf("playing %q: %w", playOpts.key, err)
	}

	if err := p.Wait(ctx, id); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
