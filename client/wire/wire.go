package wire

import "encoding/json"

// Event names carried on the relay channel.
const (
	EventJoinRoom   = "join-room"
	EventMessage    = "message"
	EventUserJoined = "user_joined"
	EventUserLeft   = "user_left"
)

// Envelope frames every event sent over the websocket, one envelope per
// text frame.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// JoinRoom is the payload of a join-room request.
type JoinRoom struct {
	Room     string `json:"room"`
	Username string `json:"username"`
}

// Message is the payload of a chat message, both outbound and inbound.
// Room is omitted when empty; clients discard inbound messages whose
// room is set and does not match their active room.
type Message struct {
	Room    string `json:"room,omitempty"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// Encode marshals a payload into a framed envelope.
func Encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
