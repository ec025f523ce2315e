// SPDX-License-Identifier: EPL-2.0

package event

import (
	"context"
	"math"
	"testing"

	"github.com/ik5/progsnd"
	"github.com/ik5/progsnd/internal/loadertest"
	"github.com/ik5/progsnd/loader"
	"github.com/ik5/progsnd/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCallbacks wraps a resolver and counts the signals it gets.
type recordingCallbacks struct {
	*progsnd.Resolver
	creates  []string
	destroys int
}

func (c *recordingCallbacks) OnCreate(ctx context.Context, key string) (*progsnd.Handle, error) {
	c.creates = append(c.creates, key)
	return c.Resolver.OnCreate(ctx, key)
}

func (c *recordingCallbacks) OnDestroy(h *progsnd.Handle) error {
	c.destroys++
	return c.Resolver.OnDestroy(h)
}

func newCallbacks(t *testing.T) (*recordingCallbacks, *loadertest.Loader) {
	t.Helper()

	tbl, err := table.New("normal",
		table.Info{Key: "Contact", Path: "contact.ogg"},
		table.Info{Key: "Welcome", Path: "welcome.ogg"},
		table.Info{Key: "Hum", Path: "hum.ogg", Mode: loader.ModeLoop},
		table.Info{Key: "Broken", Path: "broken.ogg"},
	)
	require.NoError(t, err)

	ld := loadertest.New()
	ld.Fail("broken.ogg", loader.ErrCorrupt)
	r, err := progsnd.New(tbl, ld)
	require.NoError(t, err)

	return &recordingCallbacks{Resolver: r}, ld
}

var dialogue = &Description{
	Path: "event:/Dialogue",
	Parameters: []ParameterDescription{
		{Name: "progress", Min: 0, Max: 10, Default: 2},
	},
}

func TestNewInstance_Defaults(t *testing.T) {
	t.Parallel()

	cb, _ := newCallbacks(t)
	inst, err := dialogue.NewInstance(cb, "Contact")
	require.NoError(t, err)

	v, ok := inst.Parameter("progress")
	assert.True(t, ok)
	assert.InDelta(t, 2, v, 1e-6)

	v, ok = inst.Parameter(VolumeParameter)
	assert.True(t, ok)
	assert.InDelta(t, 1, v, 1e-6)

	assert.False(t, inst.Playing())
	assert.Equal(t, "Contact", inst.Key())
	assert.Same(t, dialogue, inst.Description())
}

func TestNewInstance_BadDescription(t *testing.T) {
	t.Parallel()

	cb, _ := newCallbacks(t)
	bad := &Description{Path: "event:/Bad", Parameters: []ParameterDescription{{Name: "x", Min: 2, Max: 1}}}

	_, err := bad.NewInstance(cb, "Contact")
	assert.ErrorIs(t, err, ErrBadParameter)

	unnamed := &Description{Path: "event:/Bad", Parameters: []ParameterDescription{{Max: 1}}}
	_, err = unnamed.NewInstance(cb, "Contact")
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestSetParameter_Clamps(t *testing.T) {
	t.Parallel()

	cb, _ := newCallbacks(t)
	inst, err := dialogue.NewInstance(cb, "Contact")
	require.NoError(t, err)

	tests := []struct {
		in, want float32
	}{
		{5, 5},
		{-1, 0},
		{11.5, 10},
		{10, 10},
	}
	for _, tt := range tests {
		got, err := inst.SetParameter("progress", tt.in)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-6)

		stored, _ := inst.Parameter("progress")
		assert.InDelta(t, tt.want, stored, 1e-6)
	}

	_, err = inst.SetParameter("nope", 1)
	assert.ErrorIs(t, err, ErrUnknownParameter)
}

func TestSetParameter_RejectsNaN(t *testing.T) {
	t.Parallel()

	cb, _ := newCallbacks(t)
	inst, err := dialogue.NewInstance(cb, "Contact")
	require.NoError(t, err)

	nan := float32(math.NaN())
	for _, name := range []string{VolumeParameter, "progress"} {
		before, _ := inst.Parameter(name)

		_, err := inst.SetParameter(name, nan)
		require.ErrorIs(t, err, ErrBadValue)

		after, _ := inst.Parameter(name)
		assert.Equal(t, before, after, name)
	}

	bad := &Description{Path: "event:/bad", Parameters: []ParameterDescription{
		{Name: "x", Min: 0, Max: 1, Default: nan},
	}}
	_, err = bad.NewInstance(cb, "Contact")
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestStartStop_DestroyExactlyOnce(t *testing.T) {
	t.Parallel()

	cb, ld := newCallbacks(t)
	inst, err := dialogue.NewInstance(cb, "Contact")
	require.NoError(t, err)

	require.NoError(t, inst.Start(context.Background()))
	assert.True(t, inst.Playing())
	assert.EqualValues(t, 1, cb.Outstanding())

	require.NoError(t, inst.Stop())
	require.NoError(t, inst.Stop())

	assert.Equal(t, 1, cb.destroys)
	assert.False(t, inst.Playing())
	assert.Zero(t, cb.Outstanding())
	assert.Zero(t, ld.Live())
}

func TestStart_Twice_Restarts(t *testing.T) {
	t.Parallel()

	cb, ld := newCallbacks(t)
	inst, err := dialogue.NewInstance(cb, "Contact")
	require.NoError(t, err)

	require.NoError(t, inst.Start(context.Background()))
	first := inst.Handle()

	inst.SetKey("Welcome")
	require.NoError(t, inst.Start(context.Background()))

	assert.Equal(t, []string{"Contact", "Welcome"}, cb.creates)
	assert.Equal(t, 1, cb.destroys, "previous sound given back on restart")
	assert.Equal(t, progsnd.Released, first.Request().State())
	assert.Equal(t, "Welcome", inst.Handle().Key())
	assert.EqualValues(t, 1, cb.Outstanding())

	require.NoError(t, inst.Stop())
	assert.Zero(t, ld.Live())
}

func TestStart_RecoverableErrorPlaysSilence(t *testing.T) {
	t.Parallel()

	cb, _ := newCallbacks(t)

	for _, key := range []string{"Missing", "Broken"} {
		inst, err := dialogue.NewInstance(cb, key)
		require.NoError(t, err)

		require.NoError(t, inst.Start(context.Background()), key)
		assert.False(t, inst.Playing())
		assert.True(t, progsnd.IsRecoverable(inst.Err()))

		pcm, err := inst.Render(context.Background(), 8000, 0)
		require.NoError(t, err)
		assert.Empty(t, pcm)
		assert.NotNil(t, pcm)

		require.NoError(t, inst.Stop())
	}
	assert.Zero(t, cb.destroys)
}

func TestStart_InvalidHandleIsReturned(t *testing.T) {
	t.Parallel()

	cb, _ := newCallbacks(t)
	inst, err := dialogue.NewInstance(cb, "Contact")
	require.NoError(t, err)
	require.NoError(t, inst.Start(context.Background()))

	// release behind the instance's back
	require.NoError(t, cb.Release(inst.Handle()))

	err = inst.Stop()
	assert.ErrorIs(t, err, progsnd.ErrInvalidHandle)
}

func TestRender_AppliesVolume(t *testing.T) {
	t.Parallel()

	cb, _ := newCallbacks(t)
	inst, err := dialogue.NewInstance(cb, "Contact")
	require.NoError(t, err)
	require.NoError(t, inst.Start(context.Background()))
	defer inst.Stop()

	full, err := inst.Render(context.Background(), 8000, 0)
	require.NoError(t, err)
	require.Len(t, full, loadertest.DefaultFrames)

	_, err = inst.SetParameter(VolumeParameter, 0.5)
	require.NoError(t, err)
	half, err := inst.Render(context.Background(), 8000, 0)
	require.NoError(t, err)

	assert.InDelta(t, float64(full[100])/2, float64(half[100]), 2)

	limited, err := inst.Render(context.Background(), 8000, 100)
	require.NoError(t, err)
	assert.Len(t, limited, 100)
}

func TestOpen_VolumeChangesLiveStream(t *testing.T) {
	t.Parallel()

	cb, _ := newCallbacks(t)
	inst, err := dialogue.NewInstance(cb, "Contact")
	require.NoError(t, err)
	require.NoError(t, inst.Start(context.Background()))

	src, err := inst.Open(context.Background())
	require.NoError(t, err)

	buf := make([]float32, 10)
	_, err = src.ReadSamples(buf)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, buf[0], 1e-6)

	_, err = inst.SetParameter(VolumeParameter, 0)
	require.NoError(t, err)
	_, err = src.ReadSamples(buf)
	require.NoError(t, err)
	assert.Zero(t, buf[0])

	require.NoError(t, inst.Stop())
	assert.NoError(t, src.Close(), "closing after Stop is harmless")
}

func TestOpen_SilentInstance(t *testing.T) {
	t.Parallel()

	cb, _ := newCallbacks(t)
	inst, err := dialogue.NewInstance(cb, "Contact")
	require.NoError(t, err)

	src, err := inst.Open(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, src)
}

func TestRender_LoopIsBounded(t *testing.T) {
	t.Parallel()

	cb, _ := newCallbacks(t)
	inst, err := (&Description{Path: "event:/Ambience"}).NewInstance(cb, "Hum")
	require.NoError(t, err)
	require.NoError(t, inst.Start(context.Background()))
	defer inst.Stop()

	pcm, err := inst.Render(context.Background(), 8000, 0)
	require.NoError(t, err)
	// the fake loader does not loop, so the whole sound fits the bound
	assert.Len(t, pcm, loadertest.DefaultFrames)
}
