package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatsphere/client/timeline"
)

func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.phase == phaseJoin {
		return m.joinView()
	}
	return m.chatView()
}

func (m *Model) joinView() string {
	form := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("ChatSphere"),
		"",
		labelStyle.Render("Join Chat Room"),
		"",
		m.nameInput.View(),
		m.roomInput.View(),
		"",
		faintStyle.Render("tab to switch · enter to join · esc to quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, form)
}

func (m *Model) chatView() string {
	header := headerStyle.Render(fmt.Sprintf("Room: %s · %s", m.opts.Session.Room(), m.opts.Session.Name()))
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.statusView(),
		"> "+m.input.View(),
	)
}

func (m *Model) statusView() string {
	if m.disconnected {
		return errorStyle.Render("disconnected from relay")
	}
	if m.ctl.JumpVisible() {
		label := "new messages"
		if n := m.ctl.Unseen(); n == 1 {
			label = "1 new message"
		} else if n > 1 {
			label = fmt.Sprintf("%d new messages", n)
		}
		return jumpStyle.Render("↓ " + label + " · end to jump")
	}
	return faintStyle.Render("esc to quit")
}

func (m *Model) renderMessages() string {
	entries := m.opts.Timeline.Entries()
	if len(entries) == 0 {
		return faintStyle.Render("No messages yet. Say hi!")
	}
	blocks := make([]string, 0, len(entries))
	for i := range entries {
		if i > 0 && timeline.PositionAt(entries, i).FirstInGroup {
			blocks = append(blocks, "")
		}
		blocks = append(blocks, m.renderEntry(entries, i))
	}
	return strings.Join(blocks, "\n")
}

func (m *Model) renderEntry(entries []timeline.Entry, i int) string {
	e := entries[i]
	if e.Kind == timeline.KindSystemNotice {
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Center,
			noticeStyle.Render("· "+e.Body+" ·"))
	}

	pos := timeline.PositionAt(entries, i)
	var lines []string
	if pos.FirstInGroup {
		if e.Own {
			lines = append(lines, ownSenderStyle.Render("You"))
		} else {
			lines = append(lines, lipgloss.NewStyle().Bold(true).
				Foreground(senderColor(e.Sender)).Render(e.Sender))
		}
	}

	body := e.Body
	if e.Own {
		body += " " + statusStyle.Render(statusMark(e.Status))
	}
	if bw := m.viewport.Width * 2 / 3; bw > 20 && lipgloss.Width(body) > bw {
		body = lipgloss.NewStyle().Width(bw).Render(body)
	}
	lines = append(lines, body)

	if pos.LastInGroup {
		lines = append(lines, timeStyle.Render(e.At.Format("3:04 PM")))
	}

	align := lipgloss.Left
	if e.Own {
		align = lipgloss.Right
	}
	block := lipgloss.JoinVertical(align, lines...)
	if e.Own {
		return lipgloss.PlaceHorizontal(m.viewport.Width, lipgloss.Right, block)
	}
	return block
}

func statusMark(s timeline.Status) string {
	switch s {
	case timeline.StatusDelivered, timeline.StatusRead:
		return "✓✓"
	default:
		return "✓"
	}
}
