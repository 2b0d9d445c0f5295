package ui

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("63")).Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Italic(true)

	ownSenderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))

	timeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	jumpStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("215"))

	faintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

var senderPalette = []lipgloss.Color{
	lipgloss.Color("111"),
	lipgloss.Color("157"),
	lipgloss.Color("216"),
	lipgloss.Color("36"),
	lipgloss.Color("183"),
	lipgloss.Color("230"),
}

// senderColor picks a stable palette color for a sender name.
func senderColor(name string) lipgloss.Color {
	h := fnv.New32a()
	h.Write([]byte(name))
	return senderPalette[h.Sum32()%uint32(len(senderPalette))]
}
