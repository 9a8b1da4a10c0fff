package broadcast

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/livingwaters/fundraiser-backend/pkg/config"
	"github.com/livingwaters/fundraiser-backend/pkg/logger"
)

// Session pumps one subscriber's events onto a WebSocket connection.
type Session struct {
	conn *websocket.Conn
	sub  *Subscription
	cfg  config.PushConfig
	logg *logger.Logger
}

func NewSession(conn *websocket.Conn, sub *Subscription, cfg config.PushConfig, logg *logger.Logger) *Session {
	return &Session{conn: conn, sub: sub, cfg: cfg, logg: logg}
}

// Run sends the bootstrap snapshot, then streams events until the
// subscription closes, the peer disconnects, or the context ends. It always
// leaves the subscription cancelled and the connection closed.
func (s *Session) Run(ctx context.Context, bootstrap Event) {
	defer s.sub.Cancel()
	defer s.conn.Close()

	if err := s.write(bootstrap); err != nil {
		s.logError(ctx, "push bootstrap failed", err)
		return
	}

	// Reader goroutine exists only to notice the peer going away; clients
	// never send application messages on this channel.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := s.conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	pings := time.NewTicker(s.pingInterval())
	defer pings.Stop()

	for {
		select {
		case event, ok := <-s.sub.C:
			if !ok {
				return
			}
			if err := s.write(event); err != nil {
				s.logError(ctx, "push write failed", err)
				return
			}
		case <-pings.C:
			deadline := time.Now().Add(s.writeTimeout())
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-readerDone:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) write(event Event) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout())); err != nil {
		return err
	}
	return s.conn.WriteJSON(event)
}

func (s *Session) writeTimeout() time.Duration {
	if s.cfg.WriteTimeout > 0 {
		return s.cfg.WriteTimeout
	}
	return 10 * time.Second
}

func (s *Session) pingInterval() time.Duration {
	if s.cfg.PingInterval > 0 {
		return s.cfg.PingInterval
	}
	return 30 * time.Second
}

func (s *Session) logError(ctx context.Context, msg string, err error) {
	if s.logg != nil {
		s.logg.Error(ctx, msg, err)
	}
}
