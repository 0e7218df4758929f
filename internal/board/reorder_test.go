package board

import (
	"errors"
	"testing"
	"time"

	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/task"
)

func TestReorder(t *testing.T) {
	in := []string{"a", "b", "c", "d"}
	tests := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"b", "c", "a", "d"}},
		{3, 0, []string{"d", "a", "b", "c"}},
		{1, 1, []string{"a", "b", "c", "d"}},
		{0, 99, []string{"b", "c", "d", "a"}},
		{-3, 1, []string{"b", "a", "c", "d"}},
	}
	for _, tt := range tests {
		got := Reorder(in, tt.from, tt.to)
		if !equalIDs(got, tt.want) {
			t.Errorf("Reorder(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if !equalIDs(in, []string{"a", "b", "c", "d"}) {
		t.Errorf("input modified: %v", in)
	}
	if got := Reorder([]int(nil), 0, 1); len(got) != 0 {
		t.Errorf("Reorder(nil) = %v", got)
	}
}

func packageBoard() *Board {
	b := newTestBoard()
	b.Columns[0].Tasks = []*task.Task{
		{ID: "a", Status: "To Do", Package: "Web", CreatedAt: testNow.Add(-3 * time.Hour)},
		{ID: "x", Status: "To Do", CreatedAt: testNow},
	}
	b.Columns[1].Tasks = []*task.Task{
		{ID: "b", Status: "In Progress", Package: "Web", CreatedAt: testNow.Add(-2 * time.Hour)},
	}
	b.Columns[3].Tasks = []*task.Task{
		{ID: "c", Status: "Completed", Package: "Web", CreatedAt: testNow.Add(-time.Hour)},
	}
	return b
}

func TestReorderWithinPackage(t *testing.T) {
	b := packageBoard()
	before, err := b.PackageTasks("Web")
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(before); !equalIDs(got, []string{"c", "b", "a"}) {
		t.Fatalf("initial order = %v, want newest first", got)
	}

	got, err := b.ReorderWithinPackage("Web", "a", 0)
	if err != nil {
		t.Fatalf("ReorderWithinPackage: %v", err)
	}
	if !equalIDs(ids(got), []string{"a", "c", "b"}) {
		t.Errorf("order = %v, want [a c b]", ids(got))
	}
	if stored, _ := b.PackageTasks("Web"); !equalIDs(ids(stored), []string{"a", "c", "b"}) {
		t.Errorf("stored order = %v", ids(stored))
	}
	if len(b.Columns[0].Tasks) != 2 || len(b.Columns[1].Tasks) != 1 || len(b.Columns[3].Tasks) != 1 {
		t.Error("column membership changed")
	}

	for _, g := range b.PackageView(b.AllTasks()) {
		if g.Name == "Web" && !equalIDs(ids(g.Tasks), []string{"a", "c", "b"}) {
			t.Errorf("PackageView Web = %v", ids(g.Tasks))
		}
	}
}

func TestReorderWithinPackageIdempotent(t *testing.T) {
	b := packageBoard()
	before, _ := b.PackageTasks("Web")
	for i, tk := range before {
		got, err := b.ReorderWithinPackage("Web", tk.ID, i)
		if err != nil {
			t.Fatal(err)
		}
		if !equalIDs(ids(got), ids(before)) {
			t.Errorf("reorder %s to current index %d = %v, want %v", tk.ID, i, ids(got), ids(before))
		}
	}
}

func TestReorderWithinPackageErrors(t *testing.T) {
	b := packageBoard()
	_, err := b.ReorderWithinPackage("Nope", "a", 0)
	if errCode(err) != clierr.PackageNotFound {
		t.Errorf("unknown package err = %v", err)
	}
	_, err = b.ReorderWithinPackage("Web", "x", 0)
	if !errors.Is(err, clierr.ErrNotFound) || errCode(err) != clierr.TaskNotFound {
		t.Errorf("task outside package err = %v", err)
	}
	if got, err := b.ReorderWithinPackage(task.Unassigned, "x", 0); err != nil || len(got) != 1 {
		t.Errorf("Unassigned reorder = %v, %v", ids(got), err)
	}
}

func TestDeleteForgetsPackagePosition(t *testing.T) {
	b := packageBoard()
	if _, err := b.ReorderWithinPackage("Web", "a", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := b.DeleteTask("a", false); err != nil {
		t.Fatal(err)
	}
	if got := b.PackageOrder["Web"]; !equalIDs(got, []string{"c", "b"}) {
		t.Errorf("PackageOrder[Web] = %v", got)
	}
}

func TestReorderWithinPackageNoOpKeepsNewestFirst(t *testing.T) {
	b := packageBoard()
	before, _ := b.PackageTasks("Web")

	for _, to := range []int{0, -5} {
		if _, err := b.ReorderWithinPackage("Web", before[0].ID, to); err != nil {
			t.Fatal(err)
		}
	}
	last := before[len(before)-1]
	if _, err := b.ReorderWithinPackage("Web", last.ID, 99); err != nil {
		t.Fatal(err)
	}
	if b.PackageOrder != nil {
		t.Fatalf("PackageOrder = %v, want nil after no-op reorders", b.PackageOrder)
	}

	b.Columns[0].Tasks = append(b.Columns[0].Tasks,
		&task.Task{ID: "new", Status: "To Do", Package: "Web", CreatedAt: testNow.Add(time.Hour)})
	got, _ := b.PackageTasks("Web")
	if !equalIDs(ids(got), []string{"new", "c", "b", "a"}) {
		t.Errorf("order after adding = %v, want [new c b a]", ids(got))
	}
}
