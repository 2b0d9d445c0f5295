// Package room tracks membership and fans events out to room members.
// Each room runs a single goroutine that owns the member set, so writes
// to a room's connections are serialized without locking.
package room

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"chatsphere/client/wire"
)

const writeWait = 5 * time.Second

type join struct {
	conn     *websocket.Conn
	username string
}

type frame struct {
	origin *websocket.Conn
	data   []byte
}

// Room is one named broadcast group.
type Room struct {
	ID string

	join      chan join
	leave     chan *websocket.Conn
	broadcast chan frame

	// members is owned by the run goroutine.
	members map[*websocket.Conn]string
}

func newRoom(id string) *Room {
	r := &Room{
		ID:        id,
		join:      make(chan join),
		leave:     make(chan *websocket.Conn),
		broadcast: make(chan frame),
		members:   make(map[*websocket.Conn]string),
	}
	go r.run()
	return r
}

func (r *Room) run() {
	for {
		select {
		case j := <-r.join:
			r.members[j.conn] = j.username
			log.Info().Str("room", r.ID).Str("user", j.username).Int("members", len(r.members)).Msg("user joined")
			// The joining client renders its own join locally and is
			// excluded from the notice.
			if data, err := wire.Encode(wire.EventUserJoined, j.username+" joined the room"); err == nil {
				r.fanOut(j.conn, data)
			}
		case conn := <-r.leave:
			username, ok := r.members[conn]
			if !ok {
				continue
			}
			delete(r.members, conn)
			log.Info().Str("room", r.ID).Str("user", username).Int("members", len(r.members)).Msg("user left")
			if data, err := wire.Encode(wire.EventUserLeft, username+" left the room"); err == nil {
				r.fanOut(nil, data)
			}
		case f := <-r.broadcast:
			r.fanOut(f.origin, f.data)
		}
	}
}

// fanOut writes a frame to every member except origin. The origin
// exclusion is what makes the client's optimistic echo the only copy the
// author ever sees of their own message.
func (r *Room) fanOut(origin *websocket.Conn, data []byte) {
	for conn := range r.members {
		if conn == origin {
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug().Str("room", r.ID).Err(err).Msg("fan-out write failed")
		}
	}
}

// Join adds a connection under its self-asserted name and notifies the
// other members.
func (r *Room) Join(conn *websocket.Conn, username string) {
	r.join <- join{conn: conn, username: username}
}

// Leave removes a connection and notifies the remaining members. Unknown
// connections are ignored.
func (r *Room) Leave(conn *websocket.Conn) {
	r.leave <- conn
}

// Broadcast fans a frame out to every member except origin.
func (r *Room) Broadcast(origin *websocket.Conn, data []byte) {
	r.broadcast <- frame{origin: origin, data: data}
}

// Manager lazily creates rooms on first use. Rooms live for the process
// lifetime; there is no eviction.
type Manager struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewManager() *Manager {
	return &Manager{rooms: make(map[string]*Room)}
}

func (m *Manager) Get(roomID string) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.rooms[roomID]; ok {
		return r
	}
	r := newRoom(roomID)
	m.rooms[roomID] = r
	return r
}
