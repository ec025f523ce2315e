// SPDX-License-Identifier: EPL-2.0

package progsnd

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/ik5/progsnd/loader"
	"github.com/ik5/progsnd/table"
)

type State int32

const (
	Pending State = iota
	Active
	Failed
	Released
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Failed:
		return "failed"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// Request tracks one resolution from creation until its handle is
// released.
type Request struct {
	id    uuid.UUID
	key   string
	owner *Resolver
	state atomic.Int32

	mu     sync.Mutex
	handle *Handle
	err    error
	// set while a Resolve is running
	cancel context.CancelFunc
}

func (q *Request) ID() uuid.UUID { return q.id }
func (q *Request) Key() string   { return q.key }
func (q *Request) State() State  { return State(q.state.Load()) }

// Handle returns the handle of an active or released request.
func (q *Request) Handle() *Handle {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.handle
}

// Err returns why the request failed.
func (q *Request) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.err
}

func (q *Request) transition(from, to State) bool {
	return q.state.CompareAndSwap(int32(from), int32(to))
}

// Handle owns one loaded resource on behalf of a Request.
type Handle struct {
	id   uuid.UUID
	req  *Request
	info table.Info
	res  loader.Resource
}

func (h *Handle) ID() uuid.UUID            { return h.id }
func (h *Handle) Key() string              { return h.req.key }
func (h *Handle) Info() table.Info         { return h.info }
func (h *Handle) Request() *Request        { return h.req }
func (h *Handle) Resource() loader.Resource { return h.res }
