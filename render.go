// SPDX-License-Identifier: EPL-2.0

package progsnd

import (
	"context"
	"errors"
	"fmt"

	"github.com/ik5/progsnd/audio"
	"github.com/ik5/progsnd/loader"
)

// LoopRenderSeconds bounds how much of a looping sound RenderKey renders.
const LoopRenderSeconds = 10

// RenderKey resolves key, renders it as mono 16-bit PCM at targetRate and
// releases it. It returns the samples and their rate.
func RenderKey(ctx context.Context, r *Resolver, key string, targetRate int, bufferSize int) (pcm []int16, rate int, err error) {
	h, err := r.OnCreate(ctx, key)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		err = errors.Join(err, r.OnDestroy(h))
	}()

	return Render(ctx, h, targetRate, bufferSize)
}

// Render waits for the resource of h and renders one stream of it.
// Looping sounds are cut after LoopRenderSeconds.
func Render(ctx context.Context, h *Handle, targetRate int, bufferSize int) ([]int16, int, error) {
	res := h.Resource()
	if err := res.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("waiting for %q: %w", h.Key(), err)
	}

	src, err := res.Open()
	if err != nil {
		return nil, 0, fmt.Errorf("opening %q: %w", h.Key(), err)
	}
	defer src.Close()

	limit := 0
	if h.Info().Mode.Has(loader.ModeLoop) {
		limit = targetRate * LoopRenderSeconds
	}
	return audio.CollectMono16(src, targetRate, bufferSize, limit)
}
