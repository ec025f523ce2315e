// SPDX-License-Identifier: EPL-2.0

// Package control exposes playback control over NATS.
//
// Subjects, relative to a prefix such as "progsnd":
//
//	<prefix>.play   {"key": "Contact"}                        -> {"id": "..."}
//	<prefix>.stop   {"id": "..."}
//	<prefix>.bank   {"table": "radio"}
//	<prefix>.param  {"id": "...", "name": "volume", "value": 0.5} -> {"value": 0.5}
//
// Replies are only sent for requests with a reply subject.
package control

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nats-io/nats.go"
)

// Handler carries out control requests.
type Handler interface {
	Play(ctx context.Context, key string) (string, error)
	Stop(id string) error
	SwitchBank(name string) error
	SetParameter(id, name string, value float32) (float32, error)
}

type Server struct {
	conn    Conn
	prefix  string
	handler Handler
	logger  *slog.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func NewServer(conn Conn, prefix string, handler Handler, opts ...Option) *Server {
	s := &Server{
		conn:    conn,
		prefix:  prefix,
		handler: handler,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subject returns the full subject for op.
func (s *Server) Subject(op string) string {
	return s.prefix + "." + op
}

// Start subscribes to every control subject.
func (s *Server) Start() error {
	routes := map[string]nats.MsgHandler{
		"play":  s.handlePlay,
		"stop":  s.handleStop,
		"bank":  s.handleBank,
		"param": s.handleParam,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for op, h := range routes {
		sub, err := s.conn.Subscribe(s.Subject(op), h)
		if err != nil {
			return fmt.Errorf("subscribing to %s: %w", s.Subject(op), err)
		}
		s.subs = append(s.subs, sub)
	}

	s.logger.Info("control subjects ready", "prefix", s.prefix)
	return nil
}

// Close drops the subscriptions. The connection stays open.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subs {
		if sub != nil && sub.IsValid() {
			_ = sub.Unsubscribe()
		}
	}
	s.subs = nil
}

func (s *Server) handlePlay(msg *nats.Msg) {
	var req PlayRequest
	if !s.decode(msg, &req) {
		return
	}

	id, err := s.handler.Play(context.Background(), req.Key)
	if err != nil {
		s.fail(msg, "play", err)
		return
	}
	s.logger.Info("play", "key", req.Key, "playback", id)
	s.reply(msg, Reply{ID: id})
}

func (s *Server) handleStop(msg *nats.Msg) {
	var req StopRequest
	if !s.decode(msg, &req) {
		return
	}

	if err := s.handler.Stop(req.ID); err != nil {
		s.fail(msg, "stop", err)
		return
	}
	s.reply(msg, Reply{ID: req.ID})
}

func (s *Server) handleBank(msg *nats.Msg) {
	var req BankRequest
	if !s.decode(msg, &req) {
		return
	}

	if err := s.handler.SwitchBank(req.Table); err != nil {
		s.fail(msg, "bank", err)
		return
	}
	s.reply(msg, Reply{})
}

func (s *Server) handleParam(msg *nats.Msg) {
	var req ParamRequest
	if !s.decode(msg, &req) {
		return
	}

	v, err := s.handler.SetParameter(req.ID, req.Name, req.Value)
	if err != nil {
		s.fail(msg, "param", err)
		return
	}
	s.reply(msg, Reply{ID: req.ID, Value: &v})
}

func (s *Server) decode(msg *nats.Msg, v any) bool {
	if err := json.Unmarshal(msg.Data, v); err != nil {
		s.fail(msg, msg.Subject, fmt.Errorf("decoding request: %w", err))
		return false
	}
	return true
}

func (s *Server) fail(msg *nats.Msg, op string, err error) {
	s.logger.Warn("control request failed", "op", op, "error", err)
	s.reply(msg, Reply{Error: err.Error()})
}

func (s *Server) reply(msg *nats.Msg, r Reply) {
	if msg.Reply == "" {
		return
	}

	data, err := json.Marshal(r)
	if err != nil {
		s.logger.Error("encoding reply", "error", err)
		return
	}
	if err := s.conn.Publish(msg.Reply, data); err != nil {
		s.logger.Warn("sending reply", "subject", msg.Reply, "error", err)
	}
}
