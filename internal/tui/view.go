package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/task"
)

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = cardStyle.BorderForeground(lipgloss.Color("62"))

	overdueCardStyle = cardStyle.BorderForeground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	badgeStyles = map[task.Badge]lipgloss.Style{
		task.BadgeDestructive: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		task.BadgeWarning:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		task.BadgeSuccess:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		task.BadgeSecondary:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	assigneeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true)

	detailLabelStyle = lipgloss.NewStyle().Bold(true).Width(14) //nolint:mnd // label column width

	barStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2) //nolint:mnd // dialog padding
)

func (b *Board) viewBoard() string {
	if b.columnCount() == 0 {
		return b.renderStatusBar()
	}

	colWidth := b.columnWidth()
	rendered := make([]string, b.columnCount())
	for i, col := range b.board.Columns {
		rendered[i] = b.renderColumn(i, col, colWidth)
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) columnWidth() int {
	if b.width == 0 || b.columnCount() == 0 {
		return 30 //nolint:mnd // default column width
	}
	const maxColWidth = 50
	return min(b.width/b.columnCount(), maxColWidth)
}

func (b *Board) renderColumn(colIdx int, col *board.Column, width int) string {
	headerText := fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))
	if wip := b.cfg.WIPLimit(col.Title); wip > 0 {
		headerText = fmt.Sprintf("%s (%d/%d)", col.Title, len(col.Tasks), wip)
	}
	const headerPad = 2
	headerText = truncate(headerText, width-headerPad)

	style := columnHeaderStyle
	if colIdx == b.activeCol {
		style = activeColumnHeaderStyle
	}
	parts := []string{style.Width(width).Render(headerText)}

	maxVis := b.visibleCards(col)
	start := min(b.scrollOff[col.ID], len(col.Tasks))
	end := min(start+maxVis, len(col.Tasks))

	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(truncate(fmt.Sprintf("  ↑ %d more", start), width)))
	}
	if len(col.Tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for row := start; row < end; row++ {
		active := colIdx == b.activeCol && row == b.activeRow
		parts = append(parts, b.renderCard(col.Tasks[row], active, width))
	}
	if end < len(col.Tasks) {
		more := fmt.Sprintf("  ↓ %d more", len(col.Tasks)-end)
		parts = append(parts, dimStyle.Width(width).Render(truncate(more, width)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(t *task.Task, active bool, width int) string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := max(1, width-cardChrome)

	short := board.ShortID(t.ID)
	idStr := dimStyle.Render(short)
	firstLineWidth := max(1, cardWidth-len(short)-1)

	titleLines := b.cfg.TitleLines()
	wrapped := wrapTitle(t.Title, firstLineWidth, titleLines)
	lines := []string{idStr + " " + wrapped[0]}
	indent := strings.Repeat(" ", len(short)+1)
	for _, w := range wrapped[1:] {
		lines = append(lines, indent+w)
	}
	for len(lines) < titleLines {
		lines = append(lines, "")
	}

	overdue := b.board.IsOverdue(t)
	d := t.DisplayFor(task.ViewTaskList)
	details := []string{badgeStyles[t.Priority.Badge()].Render(d.Priority)}
	if t.Assignee != "" {
		details = append(details, assigneeStyle.Render("@"+t.Assignee))
	}
	if t.Package != "" {
		details = append(details, dimStyle.Render(t.Package))
	}
	if t.Due != nil {
		if overdue {
			details = append(details, errorStyle.Render("!due:"+t.Due.String()))
		} else {
			details = append(details, dimStyle.Render("due:"+t.Due.String()))
		}
	}
	if done, total := t.SubtaskProgress(); total > 0 {
		details = append(details, dimStyle.Render(strconv.Itoa(done)+"/"+strconv.Itoa(total)))
	}
	if age := cardAge(t.CreatedAt, b.now()); age != "" {
		details = append(details, dimStyle.Render(age))
	}
	lines = append(lines, truncateStyled(strings.Join(details, " "), cardWidth))

	style := cardStyle
	if overdue {
		style = overdueCardStyle
	}
	if active {
		style = activeCardStyle
	}
	return style.Width(width - 2).Render(strings.Join(lines, "\n")) //nolint:mnd // border width
}

// truncateStyled cuts a styled line to a visible width.
func truncateStyled(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

// wrapTitle splits a title across maxLines lines, word-wrapping at word
// boundaries. Each line is at most maxWidth characters.
func wrapTitle(title string, maxWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if len([]rune(title)) <= maxWidth || maxLines == 1 {
		return []string{truncate(title, maxWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if len([]rune(current.String()))+1+len([]rune(word)) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
			continue
		}
		lines = append(lines, truncate(current.String(), maxWidth))
		current.Reset()
		current.WriteString(word)
		if len(lines) == maxLines-1 {
			for _, w := range words[i+1:] {
				current.WriteByte(' ')
				current.WriteString(w)
			}
			break
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func (b *Board) renderStatusBar() string {
	name, total := b.cfg.Board.Name, 0
	if b.board != nil {
		total = b.board.TaskCount()
	}
	status := fmt.Sprintf(" %s | %d tasks | %s", name, total, b.help.ShortHelpView(b.keys.ShortHelp()))
	status = truncateStyled(status, b.width)

	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+errorText(b.err), b.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}
	return statusBarStyle.Render(status)
}

func (b *Board) viewDetail() string {
	t := b.detailTask()
	if t == nil {
		return "No task selected."
	}

	lines := b.detailLines(t)
	viewHeight := b.height - 1
	if viewHeight < 1 {
		viewHeight = len(lines)
	}

	hint := "q/esc:back"
	if len(t.Subtasks) > 0 {
		hint += "  1-9:toggle subtask"
	}
	if len(lines) > viewHeight {
		hint += "  j/k:scroll  g/G:top/bottom"
	}

	maxOff := max(0, len(lines)-viewHeight)
	off := min(b.detailScrollOff, maxOff)
	end := min(off+viewHeight, len(lines))

	out := strings.Join(lines[off:end], "\n") + "\n" + dimStyle.Render(hint)
	if b.err != nil {
		out += "\n" + errorStyle.Render("Error: "+errorText(b.err))
	}
	return out
}

func (b *Board) detailLines(t *task.Task) []string {
	d := t.DisplayFor(task.ViewTaskList)
	titleLine := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("Task %s: %s", board.ShortID(t.ID), t.Title))
	lines := []string{
		titleLine,
		strings.Repeat("─", lipgloss.Width(titleLine)),
		"",
		detailLabelStyle.Render("Status:") + "  " + string(t.Status),
		detailLabelStyle.Render("Priority:") + "  " + badgeStyles[t.Priority.Badge()].Render(d.Priority),
		detailLabelStyle.Render("Assignee:") + "  " + d.Assignee,
		detailLabelStyle.Render("Package:") + "  " + d.Package,
	}
	if t.Due != nil {
		due := t.Due.String()
		if b.board.IsOverdue(t) {
			due = errorStyle.Render(due + " (overdue)")
		}
		lines = append(lines, detailLabelStyle.Render("Due:")+"  "+due)
	}
	lines = append(lines, detailLabelStyle.Render("Created:")+"  "+t.CreatedAt.Format("2006-01-02 15:04"))

	if len(t.Subtasks) > 0 {
		done, total := t.SubtaskProgress()
		lines = append(lines, "", detailLabelStyle.Render("Subtasks:")+"  "+fmt.Sprintf("%d/%d", done, total))
		for i, s := range t.Subtasks {
			check := "[ ]"
			if s.Completed {
				check = "[x]"
			}
			lines = append(lines, fmt.Sprintf("  %d. %s %s", i+1, check, s.Title))
		}
	}
	if len(t.CustomFields) > 0 {
		lines = append(lines, "")
		for _, f := range t.CustomFields {
			lines = append(lines, detailLabelStyle.Render(f.Name+":")+"  "+f.Value)
		}
	}
	if t.Description != "" {
		lines = append(lines, "")
		wrapped := lipgloss.NewStyle().Width(b.width).Render(t.Description)
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}

func (b *Board) viewMoveDialog() string {
	t := b.selectedTask()
	title := "Move task"
	if t != nil {
		title = fmt.Sprintf("Move %s to:", board.ShortID(t.ID))
	}

	items := make([]string, 0, b.columnCount())
	for i, c := range b.board.Columns {
		cursor := "  "
		if i == b.moveCursor {
			cursor = "> "
		}
		line := cursor + c.Title
		if i == b.activeCol {
			line += " (current)"
		}
		items = append(items, line)
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" +
		strings.Join(items, "\n") + "\n\n" +
		dimStyle.Render("enter:select  esc:cancel")
	return dialogStyle.Render(content)
}

func (b *Board) viewDeleteConfirm() string {
	content := errorStyle.Render("Delete task?") + "\n\n" +
		fmt.Sprintf("  %s: %s", board.ShortID(b.deleteID), b.deleteTitle) + "\n\n" +
		dimStyle.Render("y:yes  f:force (open subtasks)  n:no")
	if b.err != nil {
		content += "\n\n" + errorStyle.Render(errorText(b.err))
	}
	return dialogStyle.Render(content)
}

func (b *Board) viewCreateDialog() string {
	col := "?"
	if c := b.currentColumn(); c != nil {
		col = c.Title
	}
	content := lipgloss.NewStyle().Bold(true).Render("New task in "+col) + "\n\n" +
		"Title: " + b.createInput + "█" + "\n\n" +
		dimStyle.Render("enter:create  esc:cancel")
	if b.err != nil {
		content += "\n\n" + errorStyle.Render(errorText(b.err))
	}
	return dialogStyle.Render(content)
}

func (b *Board) viewPackages() string {
	if b.board == nil {
		return b.renderStatusBar()
	}
	lines := []string{lipgloss.NewStyle().Bold(true).Render("Packages"), ""}
	i := 0
	for _, g := range b.board.PackageView(b.board.AllTasks()) {
		lines = append(lines, columnHeaderStyle.Render(fmt.Sprintf("%s (%d)", g.Name, len(g.Tasks))))
		for _, t := range g.Tasks {
			cursor := "  "
			if i == b.pkgCursor {
				cursor = "> "
			}
			line := cursor + board.ShortID(t.ID) + " " + truncate(t.Title, max(4, b.width-20)) + //nolint:mnd // id + status room
				" " + dimStyle.Render("["+string(t.Status)+"]")
			if b.board.IsOverdue(t) {
				line += " " + errorStyle.Render("(overdue)")
			}
			lines = append(lines, line)
			i++
		}
		lines = append(lines, "")
	}
	if i == 0 {
		lines = append(lines, dimStyle.Render("  (no tasks)"), "")
	}
	lines = append(lines, dimStyle.Render("j/k:select  J/K:reorder in package  esc/p:back"))
	if b.err != nil {
		lines = append(lines, errorStyle.Render("Error: "+errorText(b.err)))
	}
	return strings.Join(lines, "\n")
}

func (b *Board) viewStats() string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render("Statistics"), ""}
	var stats []board.Stat
	if b.board != nil {
		stats = b.board.Stats()
	}
	if len(stats) == 0 {
		lines = append(lines, dimStyle.Render("  (no tasks)"))
	}
	const barWidth = 20
	for _, s := range stats {
		filled := s.Percent * barWidth / 100 //nolint:mnd // percent scale
		bar := barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barWidth-filled))
		lines = append(lines, fmt.Sprintf("  %-12s %4d %4d%%  %s", s.Name, s.Count, s.Percent, bar))
	}
	lines = append(lines, "", dimStyle.Render("Press any key to close"))
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func (b *Board) viewHelp() string {
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Keyboard Shortcuts"),
		"",
		b.help.View(b.keys),
		"",
		dimStyle.Render("Press any key to close"),
	}
	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// cardAge is the age shown on a card. Tasks without a creation time
// show none.
func cardAge(created, now time.Time) string {
	if created.IsZero() {
		return ""
	}
	return humanDuration(now.Sub(created))
}

// humanDuration formats a duration as a compact human-readable string.
// Examples: "<1m", "5m", "2h", "3d", "2w", "3mo", "1y".
func humanDuration(d time.Duration) string {
	const (
		day   = 24 * time.Hour
		week  = 7 * day
		month = 30 * day
		year  = 365 * day
	)

	switch {
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return strconv.Itoa(int(d.Minutes())) + "m"
	case d < day:
		return strconv.Itoa(int(d.Hours())) + "h"
	case d < week:
		return strconv.Itoa(int(d/day)) + "d"
	case d < month:
		return strconv.Itoa(int(d/week)) + "w"
	case d < year:
		return strconv.Itoa(int(d/month)) + "mo"
	default:
		return strconv.Itoa(int(d/year)) + "y"
	}
}
