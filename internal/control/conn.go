// SPDX-License-Identifier: EPL-2.0

package control

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Conn is the part of a NATS connection the server uses.
type Conn interface {
	Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error)
	Publish(subject string, data []byte) error
	Close()
}

// ConnAdapter adapts *nats.Conn to Conn.
type ConnAdapter struct {
	conn *nats.Conn
}

func NewConnAdapter(conn *nats.Conn) *ConnAdapter {
	return &ConnAdapter{conn: conn}
}

func (a *ConnAdapter) Subscribe(subject string, cb nats.MsgHandler) (*nats.Subscription, error) {
	return a.conn.Subscribe(subject, cb)
}

func (a *ConnAdapter) Publish(subject string, data []byte) error {
	return a.conn.Publish(subject, data)
}

func (a *ConnAdapter) Close() {
	a.conn.Close()
}

const connectAttempts = 5

// Connect dials url, retrying a few times before giving up.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	var (
		nc  *nats.Conn
		err error
	)

	for i := range connectAttempts {
		nc, err = nats.Connect(url,
			nats.Name("progsnd"),
			nats.MaxReconnects(-1),
		)
		if err == nil {
			break
		}
		logger.Warn("NATS connect failed", "url", url, "attempt", i+1, "of", connectAttempts, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS after %d attempts: %w", connectAttempts, err)
	}

	logger.Info("connected to NATS", "url", url)
	return nc, nil
}
