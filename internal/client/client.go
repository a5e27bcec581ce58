package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/mcoot/baseballgame-go/internal/protocol"
	"github.com/mcoot/baseballgame-go/internal/transport/ws"
)

// ErrClosed is returned once the connection has ended
var ErrClosed = errors.New("connection closed")

// ServerError is an ERROR frame returned in answer to a request
type ServerError struct {
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type waiter struct {
	want map[protocol.Kind]bool
	ch   chan protocol.Message
}

// Client is a websocket game client. Messages not claimed by a pending
// Request are delivered on Events, and dropped if Events is not drained.
type Client struct {
	conn   *ws.Conn
	events chan protocol.Message
	done   chan struct{}

	reqMu sync.Mutex

	mu      sync.Mutex
	waiter  *waiter
	readErr error
}

// Dial connects to a server websocket endpoint such as ws://localhost:54321/ws
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{
		conn:   ws.NewConn(conn),
		events: make(chan protocol.Message, 256),
		done:   make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Events delivers unsolicited server messages. It is closed when the
// connection ends.
func (c *Client) Events() <-chan protocol.Message {
	return c.events
}

// Done is closed when the connection ends
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that ended the connection, if any
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// Send writes one message without waiting for a reply
func (c *Client) Send(ctx context.Context, msg protocol.Message) error {
	data, err := protocol.Encode(msg, time.Now())
	if err != nil {
		return err
	}
	return c.conn.Write(ctx, data)
}

// Request sends msg and waits for the first reply of one of the wanted kinds.
// An ERROR frame arriving first is returned as a *ServerError.
func (c *Client) Request(ctx context.Context, msg protocol.Message, want ...protocol.Kind) (protocol.Message, error) {
	c.reqMu.Lock()
	defer c.reqMu.Unlock()

	w := &waiter{want: make(map[protocol.Kind]bool, len(want)), ch: make(chan protocol.Message, 1)}
	for _, k := range want {
		w.want[k] = true
	}
	c.mu.Lock()
	c.waiter = w
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.waiter == w {
			c.waiter = nil
		}
		c.mu.Unlock()
	}()

	if err := c.Send(ctx, msg); err != nil {
		return nil, err
	}

	select {
	case reply := <-w.ch:
		if e, ok := reply.(protocol.Error); ok {
			return nil, &ServerError{Code: e.ErrorCode, Message: e.ErrorMessage}
		}
		return reply, nil
	case <-c.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close ends the connection
func (c *Client) Close() error {
	return c.conn.Close("client closed")
}

func (c *Client) readLoop() {
	defer close(c.events)
	defer close(c.done)

	ctx := context.Background()
	for {
		data, err := c.conn.Read(ctx)
		if err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			return
		}
		msg, err := protocol.Decode(data)
		if err != nil {
			continue
		}

		c.mu.Lock()
		w := c.waiter
		if w != nil && (w.want[msg.Kind()] || msg.Kind() == protocol.KindError) {
			c.waiter = nil
			c.mu.Unlock()
			w.ch <- msg
			continue
		}
		c.mu.Unlock()

		// Nobody draining events must not stall replies
		select {
		case c.events <- msg:
		default:
		}
	}
}
