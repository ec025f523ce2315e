// SPDX-License-Identifier: EPL-2.0

package control

import (
	"context"
	"testing"
	"time"

	"github.com/ik5/progsnd"
	"github.com/ik5/progsnd/event"
	"github.com/ik5/progsnd/internal/loadertest"
	"github.com/ik5/progsnd/internal/output"
	"github.com/ik5/progsnd/internal/player"
	"github.com/ik5/progsnd/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) (*Engine, *progsnd.Resolver, *output.Mock) {
	t.Helper()

	normal, err := table.New("normal", table.Info{Key: "Contact", Path: "normal/contact.ogg"})
	require.NoError(t, err)
	radio, err := table.New("radio", table.Info{Key: "Contact", Path: "radio/contact.ogg"})
	require.NoError(t, err)

	r, err := progsnd.New(normal, loadertest.New())
	require.NoError(t, err)

	backend := output.NewMock()
	require.NoError(t, backend.Initialize())
	backend.SetWriteDelay(10 * time.Millisecond)

	p := player.New(backend, 8000, 64)
	t.Cleanup(p.Close)

	desc := &event.Description{Path: "event:/Dialogue"}
	e := NewEngine(r, p, desc, map[string]*table.Table{"normal": normal, "radio": radio})
	return e, r, backend
}

func TestEngine_PlayParamStop(t *testing.T) {
	t.Parallel()

	e, r, _ := newEngine(t)

	id, err := e.Play(context.Background(), "Contact")
	require.NoError(t, err)
	assert.EqualValues(t, 1, r.Outstanding())

	v, err := e.SetParameter(id, event.VolumeParameter, 7)
	require.NoError(t, err)
	assert.InDelta(t, 1, v, 1e-6, "volume clamped")

	require.NoError(t, e.Stop(id))
	assert.Zero(t, r.Outstanding())

	assert.ErrorIs(t, e.Stop(id), ErrUnknownPlayback)
	_, err = e.SetParameter(id, event.VolumeParameter, 0.5)
	assert.ErrorIs(t, err, ErrUnknownPlayback)
}

func TestEngine_SwitchBank(t *testing.T) {
	t.Parallel()

	e, r, _ := newEngine(t)

	require.NoError(t, e.SwitchBank("radio"))
	assert.Equal(t, "radio", r.Table().Name())

	id, err := e.Play(context.Background(), "Contact")
	require.NoError(t, err)
	require.NoError(t, e.Stop(id))

	assert.ErrorIs(t, e.SwitchBank("nope"), ErrUnknownBank)
	assert.Equal(t, "radio", r.Table().Name())
}

func TestEngine_SetBankReplacesActive(t *testing.T) {
	t.Parallel()

	e, r, _ := newEngine(t)

	updated, err := table.New("normal", table.Info{Key: "Contact", Path: "normal/contact.ogg"}, table.Info{Key: "New", Path: "new.ogg"})
	require.NoError(t, err)
	e.SetBank("normal", updated)

	assert.Same(t, updated, r.Table())
}

func TestEngine_UnknownKeyIsSilent(t *testing.T) {
	t.Parallel()

	e, r, backend := newEngine(t)

	id, err := e.Play(context.Background(), "Missing")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Empty(t, backend.Streams())
	assert.Zero(t, r.Outstanding())
}

func TestEngine_OverServer(t *testing.T) {
	t.Parallel()

	e, r, _ := newEngine(t)
	conn := startServer(t, e)

	reply := conn.request(t, "progsnd.play", PlayRequest{Key: "Contact"})
	require.Empty(t, reply.Error)
	require.NotEmpty(t, reply.ID)

	reply = conn.request(t, "progsnd.stop", StopRequest{ID: reply.ID})
	require.Empty(t, reply.Error)
	assert.Zero(t, r.Outstanding())
}
