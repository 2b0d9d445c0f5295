// Package transport owns the single bidirectional event channel to the
// relay. There is no reconnect or buffering: once the channel breaks the
// inbound stream closes and stays closed.
package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"chatsphere/client/wire"
)

const writeWait = 5 * time.Second

// Conn is one persistent relay connection. Emit may only be called from
// the UI event loop; the read pump is the sole reader.
type Conn struct {
	ws        *websocket.Conn
	events    chan wire.Envelope
	closeOnce sync.Once
}

// Dial connects to the relay websocket endpoint and starts the read pump.
func Dial(ctx context.Context, url string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	c := &Conn{ws: ws, events: make(chan wire.Envelope, 16)}
	go c.readPump()
	return c, nil
}

func (c *Conn) readPump() {
	defer close(c.events)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("relay channel closed")
			return
		}
		var env wire.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Debug().Err(err).Msg("dropping malformed frame")
			continue
		}
		c.events <- env
	}
}

// Subscribe hands out the inbound event stream together with its release
// function. The channel closes when the connection drops or the release
// runs; release is idempotent and must be called on every teardown path.
func (c *Conn) Subscribe() (<-chan wire.Envelope, func()) {
	return c.events, func() {
		c.closeOnce.Do(func() {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			_ = c.ws.Close()
		})
	}
}

// Emit sends one framed event to the relay. Failures are returned, not
// retried; callers treat them per the silent-failure policy.
func (c *Conn) Emit(event string, data any) error {
	frame, err := wire.Encode(event, data)
	if err != nil {
		return err
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, frame)
}
