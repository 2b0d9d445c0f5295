// Package session models the room-join lifecycle as an explicit two-state
// machine. Exactly one session is active per client process.
package session

// State of the room session.
type State int

const (
	Unjoined State = iota
	Joined
)

// Session starts Unjoined and moves to Joined on the first valid join.
// No leave or rejoin transition exists.
type Session struct {
	state State
	room  string
	name  string
}

func New() *Session {
	return &Session{state: Unjoined}
}

// Join transitions Unjoined -> Joined. An empty room or name is a silent
// no-op, as is a repeat join. Join is optimistic: no server acknowledgment
// is awaited and the transition is irrevocable. Reports whether the
// transition happened.
func (s *Session) Join(room, name string) bool {
	if s.state != Unjoined || room == "" || name == "" {
		return false
	}
	s.state = Joined
	s.room = room
	s.name = name
	return true
}

func (s *Session) State() State { return s.state }

// Joined reports whether outbound sends are permitted.
func (s *Session) Joined() bool { return s.state == Joined }

func (s *Session) Room() string { return s.room }

func (s *Session) Name() string { return s.name }
