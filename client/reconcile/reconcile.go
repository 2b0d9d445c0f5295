// Package reconcile maps user actions and inbound relay events onto
// timeline mutations. Locally authored messages are echoed optimistically:
// the author sees their message immediately, before any round trip. The
// relay excludes the originating connection from message fan-out, so the
// optimistic copy is the only one the author ever receives (see DESIGN.md).
package reconcile

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"chatsphere/client/session"
	"chatsphere/client/timeline"
	"chatsphere/client/wire"
)

// Emitter sends a named event to the relay.
type Emitter interface {
	Emit(event string, data any) error
}

// Reconciler owns the send and receive paths of the active session.
type Reconciler struct {
	sess *session.Session
	tl   *timeline.Timeline
	out  Emitter
	now  func() time.Time
}

func New(sess *session.Session, tl *timeline.Timeline, out Emitter) *Reconciler {
	return &Reconciler{sess: sess, tl: tl, out: out, now: time.Now}
}

// Join requests room membership. Validation failures are silent no-ops per
// the session state machine. The join is optimistic: it succeeds locally
// regardless of whether the emit reaches the relay.
func (r *Reconciler) Join(room, name string) bool {
	if !r.sess.Join(room, name) {
		return false
	}
	if err := r.out.Emit(wire.EventJoinRoom, wire.JoinRoom{Room: room, Username: name}); err != nil {
		log.Debug().Err(err).Msg("emit join-room")
	}
	return true
}

// Send appends the trimmed text as an own message and emits it to the
// relay. Whitespace-only text, or sending while unjoined, is a silent
// no-op with no side effects.
func (r *Reconciler) Send(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || !r.sess.Joined() {
		return false
	}
	r.tl.Append(timeline.Entry{
		Kind:   timeline.KindUserMessage,
		Sender: r.sess.Name(),
		Body:   text,
		Status: timeline.StatusSent,
		Own:    true,
		At:     r.now(),
	})
	err := r.out.Emit(wire.EventMessage, wire.Message{
		Room:    r.sess.Room(),
		Sender:  r.sess.Name(),
		Message: text,
	})
	if err != nil {
		log.Debug().Err(err).Msg("emit message")
	}
	return true
}

// Apply folds one inbound relay event into the timeline. Events that fail
// to decode, target another room, or carry an unknown name are dropped.
func (r *Reconciler) Apply(env wire.Envelope) {
	if !r.sess.Joined() {
		return
	}
	switch env.Event {
	case wire.EventMessage:
		var m wire.Message
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return
		}
		if m.Room != "" && m.Room != r.sess.Room() {
			// A well-behaved relay never fans out across rooms.
			log.Debug().Str("room", m.Room).Msg("dropping cross-room message")
			return
		}
		r.tl.Append(timeline.Entry{
			Kind:   timeline.KindUserMessage,
			Sender: m.Sender,
			Body:   m.Message,
			Own:    m.Sender == r.sess.Name(),
			At:     r.now(),
		})
	case wire.EventUserJoined, wire.EventUserLeft:
		var notice string
		if err := json.Unmarshal(env.Data, &notice); err != nil {
			return
		}
		r.tl.Append(timeline.Entry{
			Kind: timeline.KindSystemNotice,
			Body: notice,
			At:   r.now(),
		})
	}
}
