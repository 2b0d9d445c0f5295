// Package ui is the terminal chat surface: a join form, then the room
// timeline in a viewport with a single-line composer beneath it. All core
// state changes run inside the bubbletea update loop, one reaction at a
// time.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"chatsphere/client/follow"
	"chatsphere/client/reconcile"
	"chatsphere/client/session"
	"chatsphere/client/timeline"
	"chatsphere/client/wire"
)

type phase int

const (
	phaseJoin phase = iota
	phaseChat
)

// Options wire the UI to the core and the relay event stream.
type Options struct {
	Session    *session.Session
	Timeline   *timeline.Timeline
	Reconciler *reconcile.Reconciler
	Events     <-chan wire.Envelope
	Release    func()
	Room       string // prefill for the join form
	Name       string // prefill for the join form
}

// Run starts the chat UI and blocks until the user quits.
func Run(opts Options) error {
	program := tea.NewProgram(NewModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := program.Run()
	return err
}

// Model implements the chat UI.
type Model struct {
	opts Options
	ctl  *follow.Controller

	phase     phase
	nameInput textinput.Model
	roomInput textinput.Model
	focusRoom bool

	input    textinput.Model
	viewport viewport.Model

	width  int
	height int

	// scrollGen identifies the pending settle tick; bumping it cancels
	// any tick already in flight.
	scrollGen    int
	appended     bool
	lastOwn      bool
	disconnected bool
}

func NewModel(opts Options) *Model {
	name := textinput.New()
	name.Placeholder = "Your name"
	name.CharLimit = 32
	name.SetValue(opts.Name)
	name.Focus()

	room := textinput.New()
	room.Placeholder = "Room name"
	room.CharLimit = 64
	room.SetValue(opts.Room)

	input := textinput.New()
	input.Placeholder = "Type your message..."
	input.CharLimit = 500

	m := &Model{
		opts:      opts,
		ctl:       follow.Default(),
		nameInput: name,
		roomInput: room,
		input:     input,
		viewport:  viewport.New(0, 0),
	}
	opts.Timeline.OnAppend(m.noteAppend)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForEvent(m.opts.Events))
}

// noteAppend is the timeline change listener; it runs synchronously inside
// the update loop whenever the reconciler appends.
func (m *Model) noteAppend(e timeline.Entry) {
	m.ctl.OnAppend(time.Now())
	m.appended = true
	m.lastOwn = e.Own
}

// teardown releases the relay subscription and drops any pending scroll.
// Safe to run on every exit path.
func (m *Model) teardown() {
	m.ctl.Cancel()
	if m.opts.Release != nil {
		m.opts.Release()
	}
}
