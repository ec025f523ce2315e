// SPDX-License-Identifier: EPL-2.0

package control

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ik5/progsnd"
	"github.com/ik5/progsnd/event"
	"github.com/ik5/progsnd/internal/player"
	"github.com/ik5/progsnd/table"
)

var (
	ErrUnknownBank     = errors.New("unknown bank")
	ErrUnknownPlayback = errors.New("unknown playback")
)

// Engine is the Handler that plays through a resolver and a player.
type Engine struct {
	resolver *progsnd.Resolver
	player   *player.Player
	desc     *event.Description

	mu        sync.Mutex
	banks     map[string]*table.Table
	instances map[string]*event.Instance
}

// NewEngine plays every key as an instance of desc. banks are the tables
// SwitchBank can select.
func NewEngine(r *progsnd.Resolver, p *player.Player, desc *event.Description, banks map[string]*table.Table) *Engine {
	b := make(map[string]*table.Table, len(banks))
	for name, t := range banks {
		b[name] = t
	}

	return &Engine{
		resolver:  r,
		player:    p,
		desc:      desc,
		banks:     b,
		instances: make(map[string]*event.Instance),
	}
}

// SetBank adds or replaces a bank, and makes it active when it already is.
func (e *Engine) SetBank(name string, t *table.Table) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.banks[name] = t
	if e.resolver.Table().Name() == t.Name() {
		e.resolver.SwapTable(t)
	}
}

func (e *Engine) Play(ctx context.Context, key string) (string, error) {
	inst, err := e.desc.NewInstance(e.resolver, key)
	if err != nil {
		return "", err
	}

	id, err := e.player.Play(ctx, inst)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.prune()
	if inst.Playing() {
		e.instances[id] = inst
	}
	return id, nil
}

func (e *Engine) Stop(id string) error {
	e.mu.Lock()
	_, ok := e.instances[id]
	delete(e.instances, id)
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayback, id)
	}

	err := e.player.Stop(id)
	if errors.Is(err, player.ErrUnknownPlayback) {
		// finished by itself in the meantime
		return nil
	}
	return err
}

func (e *Engine) SwitchBank(name string) error {
	e.mu.Lock()
	t, ok := e.banks[name]
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBank, name)
	}
	e.resolver.SwapTable(t)
	return nil
}

func (e *Engine) SetParameter(id, name string, value float32) (float32, error) {
	e.mu.Lock()
	inst, ok := e.instances[id]
	e.mu.Unlock()

	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownPlayback, id)
	}
	return inst.SetParameter(name, value)
}

// prune forgets instances whose playback ended.
func (e *Engine) prune() {
	for id, inst := range e.instances {
		if !inst.Playing() {
			delete(e.instances, id)
		}
	}
}
