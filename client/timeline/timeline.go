// Package timeline holds the ordered, append-only message history for the
// active room. Entries are immutable once appended; arrival order is the
// only ordering key. Grouping of consecutive same-sender messages is
// derived from adjacency, never stored.
package timeline

import "time"

// Kind discriminates chat messages from room-lifecycle notices.
type Kind int

const (
	KindUserMessage Kind = iota
	KindSystemNotice
)

// Status is the display-only delivery tag on own messages. Nothing in the
// relay contract ever advances it past StatusSent.
type Status int

const (
	StatusSent Status = iota
	StatusDelivered
	StatusRead
)

// SystemSender is the reserved sender for system notices.
const SystemSender = "system"

// Entry is one item of the room history.
type Entry struct {
	ID     int
	Kind   Kind
	Sender string
	Body   string
	Status Status
	Own    bool
	At     time.Time
}

// Timeline is owned by the single active client session and is only
// touched from the UI event loop, so it carries no locking.
type Timeline struct {
	entries  []Entry
	onAppend func(Entry)
}

func New() *Timeline {
	return &Timeline{entries: make([]Entry, 0, 64)}
}

// OnAppend registers the single change listener, invoked synchronously
// after every append.
func (t *Timeline) OnAppend(fn func(Entry)) {
	t.onAppend = fn
}

// Append adds an entry and returns its index. The entry's ID is assigned
// from the arrival ordinal; any caller-set ID is overwritten. There is no
// content-based deduplication.
func (t *Timeline) Append(e Entry) int {
	e.ID = len(t.entries)
	if e.Kind == KindSystemNotice {
		e.Sender = SystemSender
	}
	t.entries = append(t.entries, e)
	if t.onAppend != nil {
		t.onAppend(e)
	}
	return e.ID
}

// Entries returns a snapshot of the history in append order.
func (t *Timeline) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

func (t *Timeline) Len() int {
	return len(t.entries)
}

// Position describes where an entry sits within its run of consecutive
// same-sender messages.
type Position struct {
	FirstInGroup bool
	LastInGroup  bool
}

// sameGroup reports whether two adjacent entries render as one group.
// Notices never group with anything.
func sameGroup(a, b Entry) bool {
	if a.Kind == KindSystemNotice || b.Kind == KindSystemNotice {
		return false
	}
	return a.Sender == b.Sender && a.Own == b.Own
}

// PositionAt derives the grouping attributes of entries[i].
func PositionAt(entries []Entry, i int) Position {
	p := Position{FirstInGroup: true, LastInGroup: true}
	if i > 0 && sameGroup(entries[i-1], entries[i]) {
		p.FirstInGroup = false
	}
	if i < len(entries)-1 && sameGroup(entries[i], entries[i+1]) {
		p.LastInGroup = false
	}
	return p
}
