package board

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/antopolskiy/taskboard/internal/date"
	"github.com/antopolskiy/taskboard/internal/task"
)

// ExportHeader is the header row of the CSV export.
var ExportHeader = []string{"Title", "Description", "Status", "Due Date", "Assignee", "Priority", "Package"}

// ExportCSV writes tasks as comma-separated text. The header is written
// bare; every data cell is quoted with embedded quotes doubled. Rows are
// separated by a newline with none after the last row.
func ExportCSV(w io.Writer, tasks []*task.Task) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(ExportHeader, ",")); err != nil {
		return err
	}
	for _, t := range tasks {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		for i, cell := range exportRow(t) {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(quoteCell(cell)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// ExportCSVString returns the export as a string.
func ExportCSVString(tasks []*task.Task) string {
	var sb strings.Builder
	_ = ExportCSV(&sb, tasks) // strings.Builder never fails
	return sb.String()
}

// ExportFilename names the export file for the given day.
func ExportFilename(now time.Time) string {
	return "tasks-export-" + date.Today(now).String() + ".csv"
}

func exportRow(t *task.Task) []string {
	d := t.DisplayFor(task.ViewExport)
	due := ""
	if t.Due != nil {
		due = t.Due.String()
	}
	return []string{t.Title, t.Description, string(t.Status), due, d.Assignee, d.Priority, d.Package}
}

func quoteCell(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
