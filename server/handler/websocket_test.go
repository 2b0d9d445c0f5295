package handler

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"chatsphere/client/wire"
	"chatsphere/server/room"
)

func startRelay(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(HandleWebSocket(room.NewManager()))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func emit(t *testing.T, conn *websocket.Conn, event string, data any) {
	t.Helper()
	frame, err := wire.Encode(event, data)
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		t.Fatal(err)
	}
}

func joinRoom(t *testing.T, conn *websocket.Conn, roomID, username string) {
	t.Helper()
	emit(t, conn, wire.EventJoinRoom, wire.JoinRoom{Room: roomID, Username: username})
	// Joins are processed asynchronously; let the membership settle before
	// the next step so notice ordering is deterministic.
	time.Sleep(50 * time.Millisecond)
}

func readEnvelope(t *testing.T, conn *websocket.Conn) wire.Envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var env wire.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

// expectSilence asserts no frame arrives within the window.
func expectSilence(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	if _, data, err := conn.ReadMessage(); err == nil {
		t.Fatalf("unexpected frame: %s", data)
	}
}

func TestJoinNotifiesOtherMembers(t *testing.T) {
	srv := startRelay(t)
	alice := dial(t, srv)
	joinRoom(t, alice, "room1", "alice")

	bob := dial(t, srv)
	joinRoom(t, bob, "room1", "bob")

	env := readEnvelope(t, alice)
	if env.Event != wire.EventUserJoined {
		t.Fatalf("event = %q", env.Event)
	}
	var notice string
	if err := json.Unmarshal(env.Data, &notice); err != nil {
		t.Fatal(err)
	}
	if notice != "bob joined the room" {
		t.Errorf("notice = %q", notice)
	}
	// The joiner never sees its own join notice.
	expectSilence(t, bob)
}

func TestMessageExcludesOrigin(t *testing.T) {
	srv := startRelay(t)
	alice := dial(t, srv)
	joinRoom(t, alice, "room1", "alice")
	bob := dial(t, srv)
	joinRoom(t, bob, "room1", "bob")
	readEnvelope(t, alice) // bob's join notice

	emit(t, bob, wire.EventMessage, wire.Message{Room: "room1", Sender: "bob", Message: "hi"})

	env := readEnvelope(t, alice)
	if env.Event != wire.EventMessage {
		t.Fatalf("event = %q", env.Event)
	}
	var m wire.Message
	if err := json.Unmarshal(env.Data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Sender != "bob" || m.Message != "hi" || m.Room != "room1" {
		t.Errorf("payload = %+v", m)
	}
	// The sender's own message must not be fanned back to it.
	expectSilence(t, bob)
}

func TestMessageScopedToRoom(t *testing.T) {
	srv := startRelay(t)
	alice := dial(t, srv)
	joinRoom(t, alice, "room1", "alice")
	carol := dial(t, srv)
	joinRoom(t, carol, "room2", "carol")

	emit(t, carol, wire.EventMessage, wire.Message{Room: "room2", Sender: "carol", Message: "hi"})
	expectSilence(t, alice)
}

func TestLeaveNotifiesRemaining(t *testing.T) {
	srv := startRelay(t)
	alice := dial(t, srv)
	joinRoom(t, alice, "room1", "alice")
	bob := dial(t, srv)
	joinRoom(t, bob, "room1", "bob")
	readEnvelope(t, alice) // bob's join notice

	bob.Close()

	env := readEnvelope(t, alice)
	if env.Event != wire.EventUserLeft {
		t.Fatalf("event = %q", env.Event)
	}
	var notice string
	if err := json.Unmarshal(env.Data, &notice); err != nil {
		t.Fatal(err)
	}
	if notice != "bob left the room" {
		t.Errorf("notice = %q", notice)
	}
}

func TestMessageBeforeJoinDropped(t *testing.T) {
	srv := startRelay(t)
	alice := dial(t, srv)
	joinRoom(t, alice, "room1", "alice")

	stranger := dial(t, srv)
	emit(t, stranger, wire.EventMessage, wire.Message{Room: "room1", Sender: "x", Message: "hi"})
	expectSilence(t, alice)
}

func TestRelayStampsRoom(t *testing.T) {
	srv := startRelay(t)
	alice := dial(t, srv)
	joinRoom(t, alice, "room1", "alice")
	bob := dial(t, srv)
	joinRoom(t, bob, "room1", "bob")
	readEnvelope(t, alice)

	// A lying room field is overwritten with the joined room.
	emit(t, bob, wire.EventMessage, wire.Message{Room: "elsewhere", Sender: "bob", Message: "hi"})
	env := readEnvelope(t, alice)
	var m wire.Message
	if err := json.Unmarshal(env.Data, &m); err != nil {
		t.Fatal(err)
	}
	if m.Room != "room1" {
		t.Errorf("room = %q, want the joined room", m.Room)
	}
}
