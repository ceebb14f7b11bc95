package tui

import (
	"time"

	"github.com/MKhiriev/sticky-chain/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Board calls go through commands so a slow lock never stalls rendering.

func (m appModel) cmdOp(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn()}
	}
}

func (m appModel) cmdResize(size models.Size) tea.Cmd {
	board := m.board
	return m.cmdOp("resize", func() error { return board.Resize(size) })
}

// cmdPan shifts the view by whole cells. Positive steps reveal what lies
// to the left or above.
func (m appModel) cmdPan(cols, rows int) tea.Cmd {
	board := m.board
	delta := models.Point{X: float64(cols) * cellWidth, Y: float64(rows) * cellHeight}
	return m.cmdOp("pan", func() error { return board.Pan(delta) })
}

func (m appModel) cmdZoom(anchor models.Point, factor float64) tea.Cmd {
	board := m.board
	return m.cmdOp("zoom", func() error { return board.Zoom(anchor, factor) })
}

func (m appModel) cmdConfirmDraft(content string, color models.Color) tea.Cmd {
	board := m.board
	return func() tea.Msg {
		if err := board.SetDraft(content, color); err != nil {
			return draftConfirmedMsg{err: err}
		}
		return draftConfirmedMsg{err: board.ConfirmDraft()}
	}
}

func (m appModel) cmdPlace(screen models.Point) tea.Cmd {
	board := m.board
	return func() tea.Msg {
		id, err := board.Place(screen)
		return placedMsg{tempID: id, err: err}
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return opDoneMsg{op: "copy", err: err}
		}
		return copiedMsg{}
	}
}

func cmdClearStatus() tea.Cmd {
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func textinputBlink() tea.Cmd {
	return textinput.Blink
}
