package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"chatsphere/client/wire"
)

type relayEventMsg wire.Envelope

type relayClosedMsg struct{}

// scrollTickMsg fires after the settle delay; gen ties it to the append
// that scheduled it.
type scrollTickMsg struct {
	gen int
}

// waitForEvent blocks on the relay stream for the next inbound event.
func waitForEvent(events <-chan wire.Envelope) tea.Cmd {
	return func() tea.Msg {
		env, ok := <-events
		if !ok {
			return relayClosedMsg{}
		}
		return relayEventMsg(env)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.phase == phaseChat {
			m.refreshViewport(m.ctl.NearBottom())
		}
		return m, nil

	case relayEventMsg:
		m.opts.Reconciler.Apply(wire.Envelope(msg))
		return m, tea.Batch(m.consumeAppend(), waitForEvent(m.opts.Events))

	case relayClosedMsg:
		m.disconnected = true
		return m, nil

	case scrollTickMsg:
		if msg.gen != m.scrollGen {
			// Superseded by a later append; this timer was cancelled.
			return m, nil
		}
		if m.ctl.Fire(time.Now()) {
			m.viewport.GotoBottom()
			m.ctl.ScrollToLatest()
		}
		return m, nil

	case tea.MouseMsg:
		if m.phase != phaseChat {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(3)
			m.observe()
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(3)
			m.observe()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.teardown()
		return m, tea.Quit
	}
	if m.phase == phaseJoin {
		return m.handleJoinKey(msg)
	}
	return m.handleChatKey(msg)
}

func (m *Model) handleJoinKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.focusRoom = !m.focusRoom
		if m.focusRoom {
			m.nameInput.Blur()
			m.roomInput.Focus()
		} else {
			m.roomInput.Blur()
			m.nameInput.Focus()
		}
		return m, textinput.Blink
	case "enter":
		room := strings.TrimSpace(m.roomInput.Value())
		name := strings.TrimSpace(m.nameInput.Value())
		if !m.opts.Reconciler.Join(room, name) {
			// Empty room or name: silent no-op.
			return m, nil
		}
		m.phase = phaseChat
		m.nameInput.Blur()
		m.roomInput.Blur()
		m.input.Focus()
		m.resize()
		m.refreshViewport(true)
		return m, textinput.Blink
	}
	var cmd tea.Cmd
	if m.focusRoom {
		m.roomInput, cmd = m.roomInput.Update(msg)
	} else {
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.opts.Reconciler.Send(m.input.Value()) {
			m.input.SetValue("")
			return m, m.consumeAppend()
		}
		return m, nil
	case "up":
		m.viewport.ScrollUp(1)
		m.observe()
		return m, nil
	case "down":
		m.viewport.ScrollDown(1)
		m.observe()
		return m, nil
	case "pgup":
		m.viewport.ScrollUp(m.viewport.Height)
		m.observe()
		return m, nil
	case "pgdown":
		m.viewport.ScrollDown(m.viewport.Height)
		m.observe()
		return m, nil
	case "end":
		m.jumpToLatest()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// consumeAppend turns an append noted by the timeline listener into a
// viewport refresh plus a scheduled follow decision. Own messages snap the
// view immediately; everything else waits out the settle delay and is then
// gated on near-bottom.
func (m *Model) consumeAppend() tea.Cmd {
	if !m.appended {
		return nil
	}
	m.appended = false
	if m.lastOwn {
		m.refreshViewport(true)
		m.ctl.ScrollToLatest()
		m.ctl.Cancel()
		return nil
	}
	m.refreshViewport(false)
	m.scrollGen++
	gen := m.scrollGen
	return tea.Tick(m.ctl.Delay(), func(time.Time) tea.Msg {
		return scrollTickMsg{gen: gen}
	})
}

// jumpToLatest is the "new messages" affordance action.
func (m *Model) jumpToLatest() {
	m.viewport.GotoBottom()
	m.ctl.ScrollToLatest()
}

// observe feeds the follow controller after a manual scroll.
func (m *Model) observe() {
	m.ctl.Observe(m.viewport.YOffset, m.viewport.TotalLineCount(), m.viewport.Height)
}

func (m *Model) resize() {
	m.nameInput.Width = 40
	m.roomInput.Width = 40
	if m.phase != phaseChat {
		return
	}
	// Header, status, and composer each take one line.
	m.viewport.Width = m.width
	m.viewport.Height = m.height - 3
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
	m.input.Width = m.width - 4
}

func (m *Model) refreshViewport(scrollToBottom bool) {
	m.viewport.SetContent(m.renderMessages())
	if scrollToBottom {
		m.viewport.GotoBottom()
	}
}
