// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/progsnd/event"
	"github.com/ik5/progsnd/formats/wav"
)

var renderOpts struct {
	key    string
	out    string
	rate   int
	frames int
	volume float32
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a key to a mono 16-bit WAV file",
	Long: `Resolve a key, render its sound as mono 16-bit PCM at the given rate and
write it as a WAV file. Looping sounds are cut after ten seconds unless
--frames is set.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVar(&renderOpts.key, "key", "", "sound key")
	f.StringVarP(&renderOpts.out, "out", "o", "", "output WAV file")
	f.IntVar(&renderOpts.rate, "rate", 8000, "output sample rate")
	f.IntVar(&renderOpts.frames, "frames", 0, "maximum frames to render, 0 for the whole sound")
	f.Float32Var(&renderOpts.volume, "volume", 1, "volume in [0, 1]")
	_ = renderCmd.MarkFlagRequired("key")
	_ = renderCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	if renderOpts.rate <= 0 {
		return fmt.Errorf("rate must be positive, got %d", renderOpts.rate)
	}

	a, err := newApp(cfg, cfgDir, logger)
	if err != nil {
		return err
	}

	pcm, err := renderKey(cmd.Context(), a, renderOpts.key, renderOpts.rate, renderOpts.frames, renderOpts.volume)
	if err != nil {
		return err
	}

	f, err := os.Create(renderOpts.out)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := wav.WriteWAV16(f, renderOpts.rate, 1, pcm); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", renderOpts.out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", renderOpts.out, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d samples at %d Hz to %s\n", len(pcm), renderOpts.rate, renderOpts.out)
	return nil
}

// renderKey plays key once through an event instance and gives the sound
// back before returning.
func renderKey(ctx context.Context, a *app, key string, rate, frames int, volume float32) (pcm []int16, err error) {
	desc := &event.Description{Path: "event:/progsnd/render"}
	inst, err := desc.NewInstance(a.resolver, key, event.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if _, err := inst.SetParameter(event.VolumeParameter, volume); err != nil {
		return nil, err
	}

	if err := inst.Start(ctx); err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, inst.Stop())
	}()

	if err := inst.Err(); err != nil {
		return nil, err
	}
	return inst.Render(ctx, rate, frames)
}
