package tui

import (
	"github.com/MKhiriev/sticky-chain/models"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true)
	helpStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	overlayBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	cursorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
)

var noteColors = map[models.Color]lipgloss.Color{
	models.ColorYellow: lipgloss.Color("229"),
	models.ColorPink:   lipgloss.Color("218"),
	models.ColorBlue:   lipgloss.Color("117"),
	models.ColorGreen:  lipgloss.Color("157"),
	models.ColorPurple: lipgloss.Color("183"),
}

// noteStyle is the fill of a note label. Pending notes are drawn faint and
// italic until the ledger confirms them.
func noteStyle(c models.Color, pending, selected bool) lipgloss.Style {
	bg, ok := noteColors[c]
	if !ok {
		bg = noteColors[models.DefaultColor]
	}
	s := lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color("0"))
	if pending {
		s = s.Faint(true).Italic(true)
	}
	if selected {
		s = s.Reverse(true).Bold(true)
	}
	return s
}
