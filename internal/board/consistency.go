package board

import (
	"fmt"
	"slices"

	"github.com/antopolskiy/taskboard/internal/task"
)

// ConsistencyReport summarizes consistency warnings and repairs.
type ConsistencyReport struct {
	Warnings []string `json:"warnings,omitempty"`
	Repairs  []string `json:"repairs,omitempty"`
}

// Changed reports whether any repair was made.
func (r ConsistencyReport) Changed() bool {
	return len(r.Repairs) > 0
}

// EnsureConsistency checks the board for invariant violations a hand
// edited board file can introduce and repairs them in place.
func EnsureConsistency(b *Board) ConsistencyReport {
	var report ConsistencyReport

	report.Repairs = append(report.Repairs, dropNilTasks(b)...)
	report.Repairs = append(report.Repairs, repairTaskIDs(b)...)
	for _, c := range b.Columns {
		for _, t := range c.Tasks {
			report.Repairs = append(report.Repairs, repairTask(b, c, t)...)
			if t.Title == "" {
				report.Warnings = append(report.Warnings, fmt.Sprintf("task %s has an empty title", t.ID))
			}
		}
	}
	report.Repairs = append(report.Repairs, prunePackageOrder(b)...)
	report.Warnings = append(report.Warnings, duplicateColumns(b)...)
	return report
}

func dropNilTasks(b *Board) []string {
	var repairs []string
	for _, c := range b.Columns {
		if !slices.Contains(c.Tasks, nil) {
			continue
		}
		c.Tasks = slices.DeleteFunc(slices.Clone(c.Tasks), func(t *task.Task) bool { return t == nil })
		repairs = append(repairs, fmt.Sprintf("removed empty task entries from column %s", c.ID))
	}
	return repairs
}

// repairTaskIDs keeps the first task of each id in board order and
// assigns fresh ids to blank and duplicate ones.
func repairTaskIDs(b *Board) []string {
	var repairs []string
	seen := make(map[string]bool)
	for _, t := range b.AllTasks() {
		switch {
		case t.ID == "":
			t.ID = b.id(task.PrefixTask)
			repairs = append(repairs, fmt.Sprintf("assigned ID %s to task %q", t.ID, t.Title))
		case seen[t.ID]:
			old := t.ID
			t.ID = b.id(task.PrefixTask)
			repairs = append(repairs, fmt.Sprintf("reassigned duplicate ID %s on task %q to %s", old, t.Title, t.ID))
		}
		seen[t.ID] = true
	}
	return repairs
}

func repairTask(b *Board, c *Column, t *task.Task) []string {
	var repairs []string
	if string(t.Status) != c.Title {
		repairs = append(repairs, fmt.Sprintf("set status of %s from %q to %q", t.ID, t.Status, c.Title))
		t.Status = task.Status(c.Title)
	}
	if t.PromoteLegacyFields() {
		repairs = append(repairs, fmt.Sprintf("promoted legacy custom fields on %s", t.ID))
	}

	seenSub := make(map[string]bool, len(t.Subtasks))
	for i := range t.Subtasks {
		s := &t.Subtasks[i]
		if s.ID == "" || seenSub[s.ID] {
			s.ID = b.id(task.PrefixSubtask)
			repairs = append(repairs, fmt.Sprintf("assigned ID %s to subtask %q of %s", s.ID, s.Title, t.ID))
		}
		seenSub[s.ID] = true
	}

	seenName := make(map[string]bool, len(t.CustomFields))
	kept := t.CustomFields[:0:0]
	for _, f := range t.CustomFields {
		if seenName[f.Name] {
			repairs = append(repairs, fmt.Sprintf("dropped duplicate field %q on %s", f.Name, t.ID))
			continue
		}
		seenName[f.Name] = true
		if f.ID == "" {
			f.ID = b.id(task.PrefixField)
			repairs = append(repairs, fmt.Sprintf("assigned ID %s to field %q of %s", f.ID, f.Name, t.ID))
		}
		kept = append(kept, f)
	}
	if len(kept) != len(t.CustomFields) || len(repairs) > 0 {
		if len(kept) == 0 {
			kept = nil
		}
		t.CustomFields = kept
	}
	return repairs
}

// prunePackageOrder drops stored positions of tasks that left a package.
func prunePackageOrder(b *Board) []string {
	if len(b.PackageOrder) == 0 {
		return nil
	}
	pkgOf := make(map[string]string)
	for _, t := range b.AllTasks() {
		pkgOf[t.ID] = t.PackageName()
	}
	var repairs []string
	names := make([]string, 0, len(b.PackageOrder))
	for name := range b.PackageOrder {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		ids := b.PackageOrder[name]
		kept := slices.DeleteFunc(slices.Clone(ids), func(id string) bool { return pkgOf[id] != name })
		if len(kept) == len(ids) {
			continue
		}
		repairs = append(repairs, fmt.Sprintf("dropped %d stale position(s) from package %s", len(ids)-len(kept), name))
		if len(kept) == 0 {
			delete(b.PackageOrder, name)
			continue
		}
		b.PackageOrder[name] = kept
	}
	return repairs
}

func duplicateColumns(b *Board) []string {
	var warnings []string
	ids := make(map[string]bool)
	titles := make(map[string]bool)
	for _, c := range b.Columns {
		if ids[c.ID] {
			warnings = append(warnings, fmt.Sprintf("duplicate column id %s", c.ID))
		}
		if titles[c.Title] {
			warnings = append(warnings, fmt.Sprintf("duplicate column title %q", c.Title))
		}
		ids[c.ID] = true
		titles[c.Title] = true
	}
	return warnings
}
