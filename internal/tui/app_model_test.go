package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/sticky-chain/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBoard struct {
	snap models.BoardSnapshot

	composed  int
	confirmed int
	cancelled int
	refreshed int
	draft     string
	color     models.Color
	placedAt  []models.Point
	pans      []models.Point
	zooms     []float64
	anchors   []models.Point
	sizes     []models.Size
	moved     map[string]models.Point
	deleted   []string

	placeErr error
	moveErr  error
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{
		snap:  models.BoardSnapshot{Viewport: models.Viewport{Zoom: 1}},
		moved: map[string]models.Point{},
	}
}

func (f *fakeBoard) Compose() error { f.composed++; return nil }

func (f *fakeBoard) SetDraft(content string, color models.Color) error {
	f.draft, f.color = content, color
	return nil
}

func (f *fakeBoard) ConfirmDraft() error { f.confirmed++; return nil }

func (f *fakeBoard) Place(screen models.Point) (string, error) {
	if f.placeErr != nil {
		return "", f.placeErr
	}
	f.placedAt = append(f.placedAt, screen)
	return "pending-1", nil
}

func (f *fakeBoard) Cancel() error { f.cancelled++; return nil }

func (f *fakeBoard) Pan(delta models.Point) error {
	f.pans = append(f.pans, delta)
	return nil
}

func (f *fakeBoard) Zoom(anchor models.Point, factor float64) error {
	f.anchors = append(f.anchors, anchor)
	f.zooms = append(f.zooms, factor)
	return nil
}

func (f *fakeBoard) Resize(size models.Size) error {
	f.sizes = append(f.sizes, size)
	return nil
}

func (f *fakeBoard) Refresh() error { f.refreshed++; return nil }

func (f *fakeBoard) MoveNote(id string, screen models.Point) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	f.moved[id] = screen
	return nil
}

func (f *fakeBoard) DeleteNote(id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBoard) Snapshot() models.BoardSnapshot { return f.snap }

func (f *fakeBoard) Subscribe(ctx context.Context) <-chan models.BoardSnapshot {
	ch := make(chan models.BoardSnapshot)
	close(ch)
	return ch
}

// send runs one update and then every command it produced, feeding the
// resulting messages back in.
func send(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()

	next, cmd := m.Update(msg)
	m = next.(appModel)
	for _, out := range runCmd(cmd) {
		switch out.(type) {
		case opDoneMsg, placedMsg, draftConfirmedMsg:
			m = send(t, m, out)
		}
	}
	return m
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sizedModel(t *testing.T, board *fakeBoard) appModel {
	t.Helper()
	m := newAppModel(board, models.NewAppBuildInfo("v1.0.0", "2026-01-01", "abc123"))
	return send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func withNote(m appModel, board *fakeBoard) appModel {
	board.snap.Notes = []models.Note{{
		ID:       "n1",
		Content:  "Hello",
		Position: models.Point{X: 100, Y: 40},
		Color:    models.ColorBlue,
		Origin:   models.OriginConfirmed,
	}}
	next, _ := m.Update(snapshotMsg(board.snap))
	return next.(appModel)
}

func TestAppModel_ResizeReportsCanvas(t *testing.T) {
	board := newFakeBoard()
	m := sizedModel(t, board)

	require.Len(t, board.sizes, 1)
	assert.Equal(t, models.Size{Width: 800, Height: 420}, board.sizes[0])
	assert.Equal(t, 21, m.canvasRows())
}

func TestAppModel_ComposeAndPlace(t *testing.T) {
	board := newFakeBoard()
	m := sizedModel(t, board)

	m = send(t, m, keyRunes("n"))
	assert.Equal(t, modeCompose, m.mode)
	assert.Equal(t, 1, board.composed)

	m = send(t, m, keyRunes("hello blue"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, "hello blue", board.draft)
	assert.Equal(t, models.ColorBlue, board.color)
	assert.Equal(t, 1, board.confirmed)
	require.Equal(t, modePlace, m.mode)
	assert.Equal(t, cellPos{col: 40, row: 10}, m.cursor)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, board.placedAt, 1)
	assert.Equal(t, models.Point{X: 410, Y: 200}, board.placedAt[0])
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "pending-1", m.selectedID)
}

func TestAppModel_ComposeRejectsEmptyContent(t *testing.T) {
	board := newFakeBoard()
	m := sizedModel(t, board)

	m = send(t, m, keyRunes("n"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.showError)
	assert.Zero(t, board.confirmed)
	assert.Equal(t, modeCompose, m.mode)
}

func TestAppModel_ComposeCancel(t *testing.T) {
	board := newFakeBoard()
	m := sizedModel(t, board)

	m = send(t, m, keyRunes("n"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, 1, board.cancelled)
}

func TestAppModel_PlaceFailureShowsError(t *testing.T) {
	board := newFakeBoard()
	board.placeErr = errors.New("outside canvas")
	m := sizedModel(t, board)
	m.enterPlace()

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.showError)
	assert.Contains(t, m.errorOverlay.message, "outside canvas")
	assert.Equal(t, modePlace, m.mode, "the user may try another point")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showError)
	assert.Equal(t, modePlace, m.mode)
}

func TestAppModel_ClickPlaces(t *testing.T) {
	board := newFakeBoard()
	m := sizedModel(t, board)
	m.enterPlace()

	m = send(t, m, tea.MouseMsg{X: 5, Y: 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})

	require.Len(t, board.placedAt, 1)
	assert.Equal(t, models.Point{X: 50, Y: 40}, board.placedAt[0])
}

func TestAppModel_PanAndZoom(t *testing.T) {
	board := newFakeBoard()
	m := sizedModel(t, board)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = send(t, m, keyRunes("+"))
	_ = send(t, m, keyRunes("-"))

	assert.Equal(t, []models.Point{{X: 40}, {Y: -40}}, board.pans)
	require.Len(t, board.zooms, 2)
	assert.InDelta(t, 1.25, board.zooms[0], 1e-9)
	assert.InDelta(t, 0.8, board.zooms[1], 1e-9)
	assert.Equal(t, models.Point{X: 400, Y: 200}, board.anchors[0])
}

func TestAppModel_WheelZoomsAtPointer(t *testing.T) {
	board := newFakeBoard()
	m := sizedModel(t, board)

	_ = send(t, m, tea.MouseMsg{X: 3, Y: 2, Button: tea.MouseButtonWheelUp})

	require.Len(t, board.anchors, 1)
	assert.Equal(t, models.Point{X: 30, Y: 20}, board.anchors[0])
}

func TestAppModel_SelectAndDelete(t *testing.T) {
	board := newFakeBoard()
	m := withNote(sizedModel(t, board), board)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, "n1", m.selectedID)

	m = send(t, m, keyRunes("x"))
	require.True(t, m.showConfirm)

	m = send(t, m, keyRunes("y"))
	assert.False(t, m.showConfirm)
	assert.Equal(t, []string{"n1"}, board.deleted)
	assert.Empty(t, m.selectedID)
}

func TestAppModel_DeleteDeclined(t *testing.T) {
	board := newFakeBoard()
	m := withNote(sizedModel(t, board), board)
	m.selectedID = "n1"

	m = send(t, m, keyRunes("d"))
	m = send(t, m, keyRunes("n"))

	assert.False(t, m.showConfirm)
	assert.Empty(t, board.deleted)
	assert.Equal(t, modeBrowse, m.mode, "n answers the dialog, it does not start a note")
}

func TestAppModel_MoveSelected(t *testing.T) {
	board := newFakeBoard()
	m := withNote(sizedModel(t, board), board)

	m = send(t, m, tea.MouseMsg{X: 12, Y: 2 + headerRows, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	require.Equal(t, "n1", m.selectedID)

	m = send(t, m, keyRunes("m"))
	require.Equal(t, modeMove, m.mode)
	assert.Equal(t, cellPos{col: 10, row: 2}, m.cursor)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, models.Point{X: 110, Y: 40}, board.moved["n1"])
}

func TestAppModel_MoveFailureShowsError(t *testing.T) {
	board := newFakeBoard()
	board.moveErr = errors.New("note is pending")
	m := withNote(sizedModel(t, board), board)
	m.selectedID = "n1"

	m = send(t, m, keyRunes("m"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.showError)
	assert.Equal(t, modeBrowse, m.mode)
}

func TestAppModel_SelectionDroppedWhenNoteVanishes(t *testing.T) {
	board := newFakeBoard()
	m := withNote(sizedModel(t, board), board)
	m.selectedID = "n1"

	next, _ := m.Update(snapshotMsg(models.BoardSnapshot{Viewport: models.Viewport{Zoom: 1}}))
	m = next.(appModel)

	assert.Empty(t, m.selectedID)
}

func TestAppModel_Refresh(t *testing.T) {
	board := newFakeBoard()
	m := sizedModel(t, board)

	_ = send(t, m, keyRunes("r"))

	assert.Equal(t, 1, board.refreshed)
}

func TestAppModel_PlaceAgainAfterWriteFailure(t *testing.T) {
	board := newFakeBoard()
	m := sizedModel(t, board)

	m = send(t, m, keyRunes("p"))
	assert.Equal(t, modeBrowse, m.mode, "nothing to place")

	board.snap.Workflow = models.WorkflowStatus{State: models.WorkflowWriteFailed}
	next, _ := m.Update(snapshotMsg(board.snap))
	m = send(t, next.(appModel), keyRunes("p"))

	assert.Equal(t, modePlace, m.mode)
}

func TestAppModel_Quit(t *testing.T) {
	m := sizedModel(t, newFakeBoard())

	next, cmd := m.Update(keyRunes("q"))

	assert.True(t, next.(appModel).quitByUser)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppModel_CtrlCQuitsFromOverlay(t *testing.T) {
	m := sizedModel(t, newFakeBoard())
	m.showErrorf("boom")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	assert.True(t, next.(appModel).quitByUser)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppModel_View(t *testing.T) {
	board := newFakeBoard()
	m := newAppModel(board, models.AppBuildInfo{})
	assert.Equal(t, "loading board...", m.View())

	m = withNote(sizedModel(t, board), board)
	view := m.View()

	assert.Contains(t, view, "StickyChain")
	assert.Contains(t, view, "Hello")
	assert.Contains(t, view, "1 notes")
	assert.Contains(t, view, "zoom 100%")

	m.showInfo = true
	assert.Contains(t, m.View(), "v1.0.0")
}
