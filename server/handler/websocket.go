package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"chatsphere/client/wire"
	"chatsphere/server/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket runs the per-connection event loop. A connection joins
// at most one room; events before the join, and frames that fail to
// decode, are dropped silently per the relay contract (no error events).
func HandleWebSocket(manager *room.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debug().Err(err).Msg("upgrade failed")
			return
		}

		var joined *room.Room
		defer func() {
			if joined != nil {
				joined.Leave(conn)
			}
			conn.Close()
		}()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var env wire.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				log.Debug().Err(err).Msg("dropping malformed frame")
				continue
			}

			switch env.Event {
			case wire.EventJoinRoom:
				var jr wire.JoinRoom
				if err := json.Unmarshal(env.Data, &jr); err != nil || jr.Room == "" || jr.Username == "" {
					continue
				}
				if joined != nil {
					// One room per connection; repeat joins are dropped.
					continue
				}
				joined = manager.Get(jr.Room)
				joined.Join(conn, jr.Username)
			case wire.EventMessage:
				if joined == nil {
					continue
				}
				var m wire.Message
				if err := json.Unmarshal(env.Data, &m); err != nil || m.Message == "" {
					continue
				}
				m.Room = joined.ID
				frame, err := wire.Encode(wire.EventMessage, m)
				if err != nil {
					continue
				}
				joined.Broadcast(conn, frame)
			}
		}
	}
}
