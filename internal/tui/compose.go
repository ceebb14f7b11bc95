package tui

import (
	"strings"

	"github.com/MKhiriev/sticky-chain/models"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

const maxNoteLength = 280

type composeModel struct {
	input textinput.Model
	color models.Color
}

func newComposeModel() composeModel {
	in := textinput.New()
	in.Placeholder = "what's on your mind?"
	in.CharLimit = maxNoteLength
	in.Width = 40
	in.Focus()

	return composeModel{input: in, color: models.DefaultColor}
}

func (m composeModel) content() string {
	return strings.TrimSpace(m.input.Value())
}

func (m composeModel) View() string {
	var swatches []string
	for _, c := range models.Palette {
		label := " " + string(c) + " "
		style := noteStyle(c, false, c == m.color)
		swatches = append(swatches, style.Render(label))
	}

	content := titleStyle.Render("New note") + "\n\n" +
		m.input.View() + "\n\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, swatches...) + "\n\n" +
		helpStyle.Render("enter place   tab color   esc cancel")
	return overlayBoxStyle.Render(content)
}
