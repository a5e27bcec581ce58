package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/mcoot/baseballgame-go/internal/session"
)

const (
	// ReadLimit caps the size of one client frame
	ReadLimit = 64 << 10
	// PingInterval is how often idle connections are pinged
	PingInterval = 30 * time.Second
)

// Conn adapts a websocket connection to session.Conn
type Conn struct {
	ws *websocket.Conn
}

var _ session.Conn = (*Conn)(nil)

// NewConn wraps an accepted or dialed websocket connection
func NewConn(ws *websocket.Conn) *Conn {
	ws.SetReadLimit(ReadLimit)
	return &Conn{ws: ws}
}

// Read returns the next text frame. Binary frames are skipped.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	for {
		typ, data, err := c.ws.Read(ctx)
		if err != nil {
			return nil, err
		}
		if typ == websocket.MessageText {
			return data, nil
		}
	}
}

// Write sends data as one text frame
func (c *Conn) Write(ctx context.Context, data []byte) error {
	return c.ws.Write(ctx, websocket.MessageText, data)
}

// Close performs a normal closing handshake
func (c *Conn) Close(reason string) error {
	return c.ws.Close(websocket.StatusNormalClosure, reason)
}

// Ping checks the peer and waits for the pong
func (c *Conn) Ping(ctx context.Context) error {
	return c.ws.Ping(ctx)
}

// ServeFunc runs one accepted connection until it ends
type ServeFunc func(ctx context.Context, conn *Conn) error

// Handler upgrades requests to websockets and hands each connection to serve
func Handler(serve ServeFunc, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
			return
		}
		conn := NewConn(ws)
		defer conn.ws.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go keepAlive(ctx, conn, cancel)

		if err := serve(ctx, conn); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				logger.Info("connection ended", slog.String("remote", r.RemoteAddr), slog.String("error", err.Error()))
			}
		}
	}
}

// keepAlive pings the peer until ctx ends, cancelling the connection once a
// ping goes unanswered
func keepAlive(ctx context.Context, conn *Conn, cancel context.CancelFunc) {
	ticker := time.NewTicker(PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pingCtx, pingCancel := context.WithTimeout(ctx, PingInterval/2)
			err := conn.Ping(pingCtx)
			pingCancel()
			if err != nil && ctx.Err() == nil {
				cancel()
				return
			}
		}
	}
}
