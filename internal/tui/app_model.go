package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/sticky-chain/internal/viewport"
	"github.com/MKhiriev/sticky-chain/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeBrowse mode = iota
	modeCompose
	modePlace
	modeMove
)

const (
	panCols   = 4
	panRows   = 2
	zoomStep  = 1.25
	statusTTL = 2 * time.Second
)

type appModel struct {
	board Board
	info  models.AppBuildInfo

	snap   models.BoardSnapshot
	width  int
	height int

	mode       mode
	compose    composeModel
	cursor     cellPos
	selectedID string
	movingID   string

	spinner      spinner.Model
	status       string
	showError    bool
	errorOverlay errorOverlayModel
	showConfirm  bool
	confirm      confirmModel
	deleteID     string
	showInfo     bool

	quitByUser bool
}

func newAppModel(board Board, info models.AppBuildInfo) appModel {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	return appModel{
		board:   board,
		info:    info,
		snap:    board.Snapshot(),
		spinner: sp,
	}
}

func (m appModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m appModel) canvasRows() int {
	return max(m.height-headerRows-footerRows, 0)
}

func (m appModel) placed() []placedNote {
	return layoutNotes(m.snap.Notes, m.snap.Viewport)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.snap = models.BoardSnapshot(msg)
		m.dropVanishedSelection()
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.cmdResize(canvasSize(m.width, m.canvasRows()))
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case opDoneMsg:
		if msg.err != nil {
			m.showErrorf("%s: %v", msg.op, msg.err)
			if msg.op == "compose" || msg.op == "move" || msg.op == "delete" {
				m.mode = modeBrowse
			}
		}
		return m, nil
	case draftConfirmedMsg:
		if msg.err != nil {
			m.showErrorf("%v", msg.err)
			return m, nil
		}
		m.enterPlace()
		return m, nil
	case placedMsg:
		if msg.err != nil {
			m.showErrorf("place: %v", msg.err)
			return m, nil
		}
		m.mode = modeBrowse
		m.selectedID = msg.tempID
		return m, nil
	case copiedMsg:
		m.status = "copied"
		return m, cmdClearStatus()
	case clearStatusMsg:
		m.status = ""
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, keys.quit) && msg.String() == "ctrl+c" {
			m.quitByUser = true
			return m, tea.Quit
		}
		if m.showError {
			if key.Matches(msg, keys.enter) || key.Matches(msg, keys.esc) {
				m.showError = false
				m.errorOverlay.message = ""
			}
			return m, nil
		}
		if m.showConfirm {
			return m.updateConfirm(msg)
		}
		if m.showInfo {
			if key.Matches(msg, keys.esc) || key.Matches(msg, keys.enter) || key.Matches(msg, keys.info) {
				m.showInfo = false
			}
			return m, nil
		}
	}

	switch m.mode {
	case modeCompose:
		return m.updateCompose(msg)
	case modePlace:
		return m.updatePlace(msg)
	case modeMove:
		return m.updateMove(msg)
	}
	return m.updateBrowse(msg)
}

func (m appModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.browseMouse(msg)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.quitByUser = true
			return m, tea.Quit
		case key.Matches(msg, keys.up):
			return m, m.cmdPan(0, panRows)
		case key.Matches(msg, keys.down):
			return m, m.cmdPan(0, -panRows)
		case key.Matches(msg, keys.left):
			return m, m.cmdPan(panCols, 0)
		case key.Matches(msg, keys.right):
			return m, m.cmdPan(-panCols, 0)
		case key.Matches(msg, keys.zoomIn):
			return m, m.cmdZoom(m.center(), zoomStep)
		case key.Matches(msg, keys.zoomOut):
			return m, m.cmdZoom(m.center(), 1/zoomStep)
		case key.Matches(msg, keys.refresh):
			return m, m.cmdOp("refresh", m.board.Refresh)
		case key.Matches(msg, keys.newNote):
			m.mode = modeCompose
			m.compose = newComposeModel()
			return m, tea.Batch(m.cmdOp("compose", m.board.Compose), textinputBlink())
		case key.Matches(msg, keys.place):
			if m.snap.Workflow.State == models.WorkflowWriteFailed {
				m.enterPlace()
			}
			return m, nil
		case key.Matches(msg, keys.tab):
			m.cycleSelection(1)
			return m, nil
		case key.Matches(msg, keys.backtab):
			m.cycleSelection(-1)
			return m, nil
		case key.Matches(msg, keys.move):
			n, ok := m.selected()
			if !ok {
				return m, nil
			}
			m.mode = modeMove
			m.movingID = n.ID
			m.cursor = cellOf(viewport.ScreenFromWorld(n.Position, m.snap.Viewport))
			return m, nil
		case key.Matches(msg, keys.delete):
			n, ok := m.selected()
			if !ok {
				return m, nil
			}
			m.showConfirm = true
			m.deleteID = n.ID
			m.confirm.message = fitText(singleLine(n.Content), 32)
			return m, nil
		case key.Matches(msg, keys.copy):
			n, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, cmdCopyToClipboard(n.Content)
		case key.Matches(msg, keys.author):
			n, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, cmdCopyToClipboard(n.Author)
		case key.Matches(msg, keys.info):
			m.showInfo = true
			return m, nil
		}
	}
	return m, nil
}

func (m appModel) browseMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	c, ok := m.mouseCell(msg)
	if !ok {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m, m.cmdZoom(screenPoint(c), zoomStep)
	case tea.MouseButtonWheelDown:
		return m, m.cmdZoom(screenPoint(c), 1/zoomStep)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if n, hit := noteAt(m.placed(), c); hit {
			m.selectedID = n.ID
		} else {
			m.selectedID = ""
		}
	}
	return m, nil
}

func (m appModel) updateCompose(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.esc):
			m.mode = modeBrowse
			return m, m.cmdOp("cancel", m.board.Cancel)
		case key.Matches(keyMsg, keys.tab):
			m.compose.color = m.compose.color.Next()
			return m, nil
		case key.Matches(keyMsg, keys.enter):
			if m.compose.content() == "" {
				m.showErrorf("note content is empty")
				return m, nil
			}
			return m, m.cmdConfirmDraft(m.compose.content(), m.compose.color)
		}
	}

	var cmd tea.Cmd
	m.compose.input, cmd = m.compose.input.Update(msg)
	return m, cmd
}

func (m appModel) updatePlace(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		c, ok := m.mouseCell(msg)
		if !ok {
			return m, nil
		}
		m.cursor = c
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			return m, m.cmdPlace(screenPoint(c))
		}
	case tea.KeyMsg:
		if key.Matches(msg, keys.esc) {
			m.mode = modeBrowse
			return m, m.cmdOp("cancel", m.board.Cancel)
		}
		if key.Matches(msg, keys.enter) {
			return m, m.cmdPlace(screenPoint(m.cursor))
		}
		m.moveCursor(msg)
	}
	return m, nil
}

func (m appModel) updateMove(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		c, ok := m.mouseCell(msg)
		if !ok {
			return m, nil
		}
		m.cursor = c
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			return m.finishMove()
		}
	case tea.KeyMsg:
		if key.Matches(msg, keys.esc) {
			m.mode = modeBrowse
			m.movingID = ""
			return m, nil
		}
		if key.Matches(msg, keys.enter) {
			return m.finishMove()
		}
		m.moveCursor(msg)
	}
	return m, nil
}

func (m appModel) finishMove() (tea.Model, tea.Cmd) {
	id, to := m.movingID, screenPoint(m.cursor)
	m.mode = modeBrowse
	m.movingID = ""
	return m, m.cmdOp("move", func() error { return m.board.MoveNote(id, to) })
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		id := m.deleteID
		m.showConfirm = false
		m.deleteID = ""
		if id == m.selectedID {
			m.selectedID = ""
		}
		return m, m.cmdOp("delete", func() error { return m.board.DeleteNote(id) })
	case key.Matches(msg, keys.no), key.Matches(msg, keys.esc):
		m.showConfirm = false
		m.deleteID = ""
	}
	return m, nil
}

func (m *appModel) enterPlace() {
	m.mode = modePlace
	m.cursor = cellPos{col: m.width / 2, row: m.canvasRows() / 2}
}

func (m *appModel) moveCursor(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.up):
		m.cursor.row--
	case key.Matches(msg, keys.down):
		m.cursor.row++
	case key.Matches(msg, keys.left):
		m.cursor.col--
	case key.Matches(msg, keys.right):
		m.cursor.col++
	}
	m.cursor.col = max(0, min(m.cursor.col, m.width-1))
	m.cursor.row = max(0, min(m.cursor.row, m.canvasRows()-1))
}

// mouseCell converts a terminal mouse position into a canvas cell.
func (m appModel) mouseCell(msg tea.MouseMsg) (cellPos, bool) {
	c := cellPos{col: msg.X, row: msg.Y - headerRows}
	if c.row < 0 || c.row >= m.canvasRows() || c.col < 0 || c.col >= m.width {
		return cellPos{}, false
	}
	return c, true
}

func (m appModel) center() models.Point {
	return screenPoint(cellPos{col: m.width / 2, row: m.canvasRows() / 2})
}

func (m *appModel) cycleSelection(step int) {
	notes := m.snap.Notes
	if len(notes) == 0 {
		m.selectedID = ""
		return
	}
	idx := -1
	for i, n := range notes {
		if n.ID == m.selectedID {
			idx = i
			break
		}
	}
	if idx < 0 && step < 0 {
		idx = 0
	}
	idx = ((idx+step)%len(notes) + len(notes)) % len(notes)
	m.selectedID = notes[idx].ID
}

func (m appModel) selected() (models.Note, bool) {
	for _, n := range m.snap.Notes {
		if n.ID == m.selectedID {
			return n, true
		}
	}
	return models.Note{}, false
}

// dropVanishedSelection clears the selection once its note is gone. A
// confirmed note arrives under a new id, so the user selects it again.
func (m *appModel) dropVanishedSelection() {
	if _, ok := m.selected(); !ok {
		m.selectedID = ""
	}
}

func (m *appModel) showErrorf(format string, args ...any) {
	m.showError = true
	m.errorOverlay.message = fmt.Sprintf(format, args...)
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading board..."
	}

	showCursor := m.mode == modePlace || m.mode == modeMove
	body := renderCanvas(m.placed(), m.width, m.canvasRows(), m.selectedID, m.cursor, showCursor)

	var overlay string
	switch {
	case m.showError:
		overlay = m.errorOverlay.View()
	case m.showConfirm:
		overlay = m.confirm.View()
	case m.showInfo:
		overlay = renderBuildInfoWindow(m.info, m.snap.Author)
	case m.mode == modeCompose:
		overlay = m.compose.View()
	}
	if overlay != "" {
		body = lipgloss.Place(m.width, m.canvasRows(), lipgloss.Center, lipgloss.Center, overlay)
	}

	return strings.Join([]string{m.headerView(), body, m.statusView(), m.helpView()}, "\n")
}

func (m appModel) headerView() string {
	s := m.snap
	parts := []string{titleStyle.Render("StickyChain"), sourceSummary(s.Source)}
	if s.Source.Fetching || s.Workflow.State == models.WorkflowAwaitingWrite {
		parts[1] = m.spinner.View() + " " + parts[1]
	}
	parts = append(parts,
		fmt.Sprintf("%d notes", len(s.Notes)),
		fmt.Sprintf("%d pending", len(s.Pending)),
		fmt.Sprintf("zoom %d%%", int(s.Viewport.Zoom*100+0.5)),
	)
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, " | "))
}

func (m appModel) statusView() string {
	var parts []string
	if wf := workflowSummary(m.snap.Workflow); wf != "" {
		parts = append(parts, wf)
	}
	if m.snap.MutationErr != nil {
		parts = append(parts, errorStyle.Render("rolled back: "+m.snap.MutationErr.Error()))
	}
	if m.snap.Source.LastErr != nil && m.snap.Source.State == models.SourceFailed {
		parts = append(parts, errorStyle.Render(m.snap.Source.LastErr.Error()))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if n, ok := m.selected(); ok {
		parts = append(parts, "selected: "+fitText(singleLine(n.Content), 24)+" by "+fitText(n.Author, 12))
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, " | "))
}

func (m appModel) helpView() string {
	var help string
	switch m.mode {
	case modeCompose:
		help = "enter place   tab color   esc cancel"
	case modePlace:
		help = "arrows/click position   enter place   esc cancel"
	case modeMove:
		help = "arrows/click position   enter move   esc cancel"
	default:
		help = "n new   arrows pan   +/- zoom   tab select   m move   x delete   c/a copy   r refresh   i info   q quit"
	}
	return helpStyle.Render(help)
}
