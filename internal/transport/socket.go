// Package transport establishes the websocket connection to the engine and
// frames messages as JSON text frames. It knows nothing about message
// semantics; the session loop owns what flows through it.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"
)

// Socket is one duplex connection to the engine. Reads and writes may run
// concurrently; concurrent writes are serialized by a mutex because the
// underlying websocket connection supports only one writer at a time.
type Socket struct {
	conn *websocket.Conn

	writeMu sync.Mutex
}

// Dial connects to the engine's websocket endpoint, attaching the workflow
// id as the wid query parameter. A failed handshake is terminal; there is
// no retry or reconnect.
func Dial(ctx context.Context, rawURL, workflowID string) (*Socket, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse engine URL %q: %w", rawURL, err)
	}
	q := u.Query()
	q.Set("wid", workflowID)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	return &Socket{conn: conn}, nil
}

// Send marshals v and writes it as one text frame.
func (s *Socket) Send(ctx context.Context, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode outbound message: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if deadline, ok := ctx.Deadline(); ok {
		s.conn.SetWriteDeadline(deadline)
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Receive reads one frame. An orderly closure by the peer is reported as
// io.EOF; anything else is a transport error.
func (s *Socket) Receive(ctx context.Context) ([]byte, error) {
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		if ctx.Err() != nil {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return data, nil
}

// Close tears the connection down. Any blocked Receive unblocks with an
// error once the connection is closed.
func (s *Socket) Close() error {
	return s.conn.Close()
}
