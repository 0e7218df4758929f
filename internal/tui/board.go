// Package tui implements an interactive terminal UI for taskboard boards.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/store"
	"github.com/antopolskiy/taskboard/internal/task"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewDetail
	viewMove
	viewConfirmDelete
	viewCreate
	viewPackages
	viewStats
	viewHelp
)

// Key and layout constants.
const (
	keyEsc  = "esc"
	keyDown = "down"
	keyUp   = "up"

	boardChrome  = 2 // blank line + status bar below the column area
	maxScrollOff = 1<<31 - 1
	maxTitleLen  = 200
)

// Board is the top-level bubbletea model.
type Board struct {
	cfg       *config.Config
	store     *store.Store
	board     *board.Board
	keys      keyMap
	help      help.Model
	activeCol int
	activeRow int
	scrollOff map[string]int
	view      view
	width     int
	height    int
	err       error
	now       func() time.Time

	// Detail view.
	detailID        string
	detailScrollOff int

	// Move view.
	moveCursor int

	// Delete confirmation.
	deleteID    string
	deleteTitle string

	// Create dialog.
	createInput string

	// Package view.
	pkgCursor int
}

// NewBoard creates a Board model over the store's board file. A load
// failure is shown in the status bar rather than returned.
func NewBoard(cfg *config.Config, st *store.Store) *Board {
	b := &Board{
		cfg:       cfg,
		store:     st,
		keys:      newKeyMap(),
		help:      help.New(),
		scrollOff: map[string]int{},
		now:       time.Now,
	}
	b.help.ShowAll = true
	b.reload()
	return b
}

// SetNow overrides the clock used for ages and overdue checks.
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// Err returns the error currently shown in the status bar.
func (b *Board) Err() error {
	return b.err
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.help.Width = msg.Width
		return b, nil
	case ReloadMsg:
		b.reload()
		return b, nil
	case ErrMsg:
		b.err = msg.Err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewDetail:
		return b.viewDetail()
	case viewMove:
		return b.viewMoveDialog()
	case viewConfirmDelete:
		return b.viewDeleteConfirm()
	case viewCreate:
		return b.viewCreateDialog()
	case viewPackages:
		return b.viewPackages()
	case viewStats:
		return b.viewStats()
	case viewHelp:
		return b.viewHelp()
	default:
		return b.viewBoard()
	}
}

func (b *Board) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, b.keys.ForceQuit) {
		return b, tea.Quit
	}

	switch b.view {
	case viewBoard:
		return b.handleBoardKey(msg)
	case viewDetail:
		return b.handleDetailKey(msg)
	case viewMove:
		return b.handleMoveKey(msg)
	case viewConfirmDelete:
		return b.handleDeleteKey(msg)
	case viewCreate:
		return b.handleCreateKey(msg)
	case viewPackages:
		return b.handlePackageKey(msg)
	case viewStats, viewHelp:
		b.view = viewBoard
	}
	return b, nil
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, b.keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, b.keys.Help):
		b.view = viewHelp
	case key.Matches(msg, b.keys.Left, b.keys.Right, b.keys.Down, b.keys.Up):
		b.handleNavigation(msg)
	case key.Matches(msg, b.keys.Detail):
		b.handleEnter()
	case key.Matches(msg, b.keys.Move):
		b.handleMoveStart()
	case key.Matches(msg, b.keys.Next):
		b.moveAdjacent(1)
	case key.Matches(msg, b.keys.Prev):
		b.moveAdjacent(-1)
	case key.Matches(msg, b.keys.ReorderDown):
		b.reorderSelected(1)
	case key.Matches(msg, b.keys.ReorderUp):
		b.reorderSelected(-1)
	case key.Matches(msg, b.keys.Create):
		b.createInput = ""
		b.view = viewCreate
	case key.Matches(msg, b.keys.Delete):
		b.handleDeleteStart()
	case key.Matches(msg, b.keys.Packages):
		b.pkgCursor = 0
		b.view = viewPackages
	case key.Matches(msg, b.keys.Stats):
		b.view = viewStats
	case key.Matches(msg, b.keys.Reload):
		b.reload()
	}
	return b, nil
}

func (b *Board) handleNavigation(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, b.keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, b.keys.Right):
		if b.activeCol < b.columnCount()-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, b.keys.Down):
		col := b.currentColumn()
		if col != nil && b.activeRow < len(col.Tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, b.keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	}
}

func (b *Board) handleEnter() {
	if t := b.selectedTask(); t != nil {
		b.detailID = t.ID
		b.detailScrollOff = 0
		b.view = viewDetail
	}
}

func (b *Board) handleMoveStart() {
	if b.selectedTask() != nil {
		b.moveCursor = b.activeCol
		b.view = viewMove
	}
}

func (b *Board) handleDeleteStart() {
	if t := b.selectedTask(); t != nil {
		b.deleteID = t.ID
		b.deleteTitle = t.Title
		b.view = viewConfirmDelete
	}
}

func (b *Board) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := msg.String()
	switch s {
	case "q", keyEsc, "backspace":
		b.view = viewBoard
		b.detailID = ""
		b.detailScrollOff = 0
	case "j", keyDown:
		b.detailScrollOff++
	case "k", keyUp:
		if b.detailScrollOff > 0 {
			b.detailScrollOff--
		}
	case "g":
		b.detailScrollOff = 0
	case "G":
		// viewDetail clamps it.
		b.detailScrollOff = maxScrollOff
	default:
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			b.toggleSubtask(n - 1)
		}
	}
	return b, nil
}

func (b *Board) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc, "q":
		b.view = viewBoard
	case "j", keyDown:
		if b.moveCursor < b.columnCount()-1 {
			b.moveCursor++
		}
	case "k", keyUp:
		if b.moveCursor > 0 {
			b.moveCursor--
		}
	case "enter":
		b.executeMove(b.moveCursor)
		b.view = viewBoard
	}
	return b, nil
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		b.executeDelete(false)
	case "f", "F":
		b.executeDelete(true)
	case "n", "N", keyEsc, "q":
		b.view = viewBoard
	}
	return b, nil
}

func (b *Board) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		b.view = viewBoard
	case tea.KeyEnter:
		b.executeCreate()
	case tea.KeyBackspace:
		if r := []rune(b.createInput); len(r) > 0 {
			b.createInput = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		b.createInput += " "
	case tea.KeyRunes:
		if len(b.createInput) < maxTitleLen {
			b.createInput += string(msg.Runes)
		}
	}
	return b, nil
}

func (b *Board) handlePackageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := b.packageItems()
	switch msg.String() {
	case "q", keyEsc, "p":
		b.view = viewBoard
	case "j", keyDown:
		if b.pkgCursor < len(items)-1 {
			b.pkgCursor++
		}
	case "k", keyUp:
		if b.pkgCursor > 0 {
			b.pkgCursor--
		}
	case "J", "shift+down":
		b.reorderInPackage(items, 1)
	case "K", "shift+up":
		b.reorderInPackage(items, -1)
	}
	return b, nil
}

// reload reads the board file again, keeping the selection in range.
func (b *Board) reload() {
	if b.store == nil {
		return
	}
	loaded, err := b.store.Load()
	if err != nil {
		b.err = err
		return
	}
	loaded.Configure(board.WithClock(b.clock))
	b.board = loaded
	b.err = nil
	b.clampRow()
}

func (b *Board) clock() time.Time {
	return b.now()
}

// mutate applies fn to the board file under the store lock and swaps in
// the result. On failure the previous board stays and the error is shown.
func (b *Board) mutate(fn func(*board.Board) error) bool {
	updated, err := b.store.Update(fn)
	if err != nil {
		b.err = err
		return false
	}
	updated.Configure(board.WithClock(b.clock))
	b.board = updated
	b.err = nil
	return true
}

func (b *Board) columnCount() int {
	if b.board == nil {
		return 0
	}
	return len(b.board.Columns)
}

func (b *Board) currentColumn() *board.Column {
	if b.activeCol >= 0 && b.activeCol < b.columnCount() {
		return b.board.Columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || b.activeRow < 0 || b.activeRow >= len(col.Tasks) {
		return nil
	}
	return col.Tasks[b.activeRow]
}

// selectTask moves the cursor onto the task with the given id.
func (b *Board) selectTask(id string) {
	for ci, c := range b.board.Columns {
		for ri, t := range c.Tasks {
			if t.ID == id {
				b.activeCol, b.activeRow = ci, ri
				b.ensureVisible()
				return
			}
		}
	}
	b.clampRow()
}

// cardHeight is borders + title lines + one detail line.
func (b *Board) cardHeight() int {
	return b.cfg.TitleLines() + 3 //nolint:mnd // borders(2) + detail line(1)
}

func (b *Board) clampRow() {
	if b.activeCol >= b.columnCount() {
		b.activeCol = max(0, b.columnCount()-1)
	}
	col := b.currentColumn()
	if col == nil || len(col.Tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.Tasks) {
		b.activeRow = len(col.Tasks) - 1
	}
	b.ensureVisible()
}

// visibleCards returns how many cards of col fit, leaving room for the
// "↑ N more" and "↓ N more" indicators.
func (b *Board) visibleCards(col *board.Column) int {
	budget := b.height - boardChrome
	if budget < 1 {
		return 1
	}
	avail := budget - 1 // header
	off := b.scrollOff[col.ID]
	if off > 0 {
		avail--
	}
	ch := b.cardHeight()
	n := max(1, avail/ch)
	if off+n < len(col.Tasks) {
		n = max(1, (avail-1)/ch)
	}
	return n
}

func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	maxVis := b.visibleCards(col)
	off := b.scrollOff[col.ID]
	if b.activeRow >= off+maxVis {
		off = b.activeRow - maxVis + 1
	}
	if b.activeRow < off {
		off = b.activeRow
	}
	b.scrollOff[col.ID] = off
}

// moveAdjacent moves the selected task to the next (+1) or previous (-1)
// column, appending it there.
func (b *Board) moveAdjacent(step int) {
	t := b.selectedTask()
	if t == nil {
		return
	}
	target := b.activeCol + step
	if target < 0 || target >= b.columnCount() {
		edge := "last"
		if step < 0 {
			edge = "first"
		}
		b.err = fmt.Errorf("task %s is already in the %s column", board.ShortID(t.ID), edge)
		return
	}
	b.executeMove(target)
}

func (b *Board) executeMove(target int) {
	t := b.selectedTask()
	if t == nil || target == b.activeCol {
		return
	}
	id := t.ID
	from := b.board.Columns[b.activeCol].ID
	to := b.board.Columns[target].ID
	if b.mutate(func(bd *board.Board) error {
		return bd.MoveTask(id, from, to, board.End)
	}) {
		b.selectTask(id)
	}
}

// reorderSelected shifts the selected task one slot within its column.
func (b *Board) reorderSelected(step int) {
	t := b.selectedTask()
	if t == nil {
		return
	}
	target := b.activeRow + step
	col := b.currentColumn()
	if target < 0 || target >= len(col.Tasks) {
		return
	}
	id, colID := t.ID, col.ID
	if b.mutate(func(bd *board.Board) error {
		return bd.MoveTask(id, colID, colID, target)
	}) {
		b.selectTask(id)
	}
}

func (b *Board) executeDelete(force bool) {
	id := b.deleteID
	b.mutate(func(bd *board.Board) error {
		_, err := bd.DeleteTask(id, force)
		return err
	})
	b.view = viewBoard
	b.clampRow()
}

func (b *Board) executeCreate() {
	col := b.currentColumn()
	if col == nil {
		b.view = viewBoard
		return
	}
	title := b.createInput
	colID := col.ID
	var created *task.Task
	if b.mutate(func(bd *board.Board) error {
		var err error
		created, err = bd.AddTask(colID, task.Draft{Title: title, Priority: b.defaultPriority()})
		return err
	}) {
		b.view = viewBoard
		b.selectTask(created.ID)
	}
	// On a validation error the dialog stays open with the error shown.
}

func (b *Board) defaultPriority() task.Priority {
	p, err := task.ParsePriority(b.cfg.Defaults.Priority)
	if err != nil {
		return task.DefaultPriority
	}
	return p
}

func (b *Board) toggleSubtask(i int) {
	t := b.detailTask()
	if t == nil || i >= len(t.Subtasks) {
		return
	}
	id, subID := t.ID, t.Subtasks[i].ID
	b.mutate(func(bd *board.Board) error {
		_, err := bd.ToggleSubtask(id, subID)
		return err
	})
}

func (b *Board) detailTask() *task.Task {
	if b.board == nil || b.detailID == "" {
		return nil
	}
	t, _, err := b.board.FindTask(b.detailID)
	if err != nil {
		return nil
	}
	return t
}

// packageItem is one selectable row of the package view.
type packageItem struct {
	pkg  string
	task *task.Task
}

func (b *Board) packageItems() []packageItem {
	if b.board == nil {
		return nil
	}
	var items []packageItem
	for _, g := range b.board.PackageView(b.board.AllTasks()) {
		for _, t := range g.Tasks {
			items = append(items, packageItem{pkg: g.Name, task: t})
		}
	}
	return items
}

func (b *Board) reorderInPackage(items []packageItem, step int) {
	if b.pkgCursor < 0 || b.pkgCursor >= len(items) {
		return
	}
	cur := items[b.pkgCursor]
	pos, size := 0, 0
	for i, it := range items {
		if it.pkg != cur.pkg {
			continue
		}
		if i < b.pkgCursor {
			pos++
		}
		size++
	}
	target := pos + step
	if target < 0 || target >= size {
		return
	}
	if !b.mutate(func(bd *board.Board) error {
		_, err := bd.ReorderWithinPackage(cur.pkg, cur.task.ID, target)
		return err
	}) {
		return
	}
	for i, it := range b.packageItems() {
		if it.task.ID == cur.task.ID {
			b.pkgCursor = i
			break
		}
	}
}

// WatchPaths returns the paths that should be watched for file changes.
func (b *Board) WatchPaths() []string {
	return []string{b.cfg.Dir()}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

// ErrMsg carries an error from outside the model, such as the watcher,
// into the status bar.
type ErrMsg struct{ Err error }

// errorText renders an error for the status bar, preferring the coded
// message of structured errors.
func errorText(err error) string {
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		return cliErr.Code + ": " + cliErr.Message
	}
	return err.Error()
}
