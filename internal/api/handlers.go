package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/date"
	"github.com/antopolskiy/taskboard/internal/task"
)

// Task list selections accepted by GET /api/tasks.
const (
	ViewAll       = "all"
	ViewActive    = "active"
	ViewCompleted = "completed"
)

type tasksResponse struct {
	Tasks []*task.Task `json:"tasks"`
	Count int          `json:"count"`
}

type packagesResponse struct {
	Packages []board.PackageSummary `json:"packages"`
	Groups   []board.PackageGroup   `json:"groups"`
}

type fieldInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type addTaskRequest struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Due          string       `json:"dueDate"`
	Assignee     string       `json:"assignee"`
	Priority     string       `json:"priority"`
	Package      string       `json:"package"`
	Subtasks     []string     `json:"subtasks"`
	CustomFields []fieldInput `json:"customFields"`
	Force        bool         `json:"force"`
}

type moveRequest struct {
	To    string `json:"to"`
	Index *int   `json:"index"`
	Force bool   `json:"force"`
}

// patchRequest mirrors board.Patch. An empty dueDate clears the date.
type patchRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Due         *string `json:"dueDate"`
	Assignee    *string `json:"assignee"`
	Priority    *string `json:"priority"`
	Package     *string `json:"package"`
}

type fieldRequest struct {
	Value string `json:"value"`
}

type subtaskRequest struct {
	Title string `json:"title"`
}

type reorderRequest struct {
	TaskID string `json:"taskId"`
	Index  int    `json:"index"`
}

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getBoard(c echo.Context) error {
	b, err := s.read()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (s *Server) listTasks(c echo.Context) error {
	b, err := s.read()
	if err != nil {
		return err
	}
	tasks, err := selectTasks(b, c.QueryParam("view"))
	if err != nil {
		return err
	}
	if q := c.QueryParam("q"); q != "" {
		tasks = board.Filter(tasks, board.FilterOptions{Search: q})
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return c.JSON(http.StatusOK, tasksResponse{Tasks: tasks, Count: len(tasks)})
}

func selectTasks(b *board.Board, view string) ([]*task.Task, error) {
	switch view {
	case "", ViewAll:
		return b.AllTasks(), nil
	case ViewActive:
		active, _ := b.ActiveAndCompleted()
		return active, nil
	case ViewCompleted:
		_, completed := b.ActiveAndCompleted()
		return completed, nil
	default:
		return nil, clierr.Newf(clierr.InvalidInput, "unknown view %q (want all, active or completed)", view).
			WithDetails(map[string]any{"view": view})
	}
}

func (s *Server) addTask(c echo.Context) error {
	var req addTaskRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	draft, err := req.draft()
	if err != nil {
		return err
	}

	columnID := c.Param("id")
	var created *task.Task
	if _, err := s.write(func(b *board.Board) error {
		if !req.Force {
			col, err := b.Column(columnID)
			if err != nil {
				return err
			}
			if err := s.checkWIPLimit(b, col.Title, ""); err != nil {
				return err
			}
		}
		var addErr error
		created, addErr = b.AddTask(columnID, draft)
		return addErr
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

func (s *Server) checkWIPLimit(b *board.Board, target, current string) error {
	return board.CheckWIPLimit(s.store.Config(), board.CountByStatus(b.AllTasks()), target, current)
}

func (r addTaskRequest) draft() (task.Draft, error) {
	d := task.Draft{
		Title:       r.Title,
		Description: r.Description,
		Assignee:    r.Assignee,
		Package:     r.Package,
	}
	if r.Due != "" {
		due, err := date.Parse(r.Due)
		if err != nil {
			return d, task.FormatDueDate(r.Due, err)
		}
		d.Due = &due
	}
	prio, err := task.ParsePriority(r.Priority)
	if err != nil {
		return d, err
	}
	d.Priority = prio
	for _, title := range r.Subtasks {
		d.Subtasks = append(d.Subtasks, task.Subtask{Title: title})
	}
	for _, f := range r.CustomFields {
		d.CustomFields = append(d.CustomFields, task.CustomField{Name: f.Name, Value: f.Value})
	}
	return d, nil
}

func (s *Server) moveTask(c echo.Context) error {
	var req moveRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if req.To == "" {
		return clierr.New(clierr.InvalidInput, "target column \"to\" is required")
	}
	index := board.End
	if req.Index != nil {
		index = *req.Index
	}

	var moved *task.Task
	if _, err := s.write(func(b *board.Board) error {
		t, col, err := b.ResolveTask(c.Param("id"))
		if err != nil {
			return err
		}
		moved = t
		if !req.Force {
			dest, err := b.Column(req.To)
			if err != nil {
				return err
			}
			if err := s.checkWIPLimit(b, dest.Title, col.Title); err != nil {
				return err
			}
		}
		return b.MoveTask(t.ID, col.ID, req.To, index)
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, moved)
}

func (s *Server) updateTask(c echo.Context) error {
	var req patchRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return err
	}
	if patch.Empty() {
		return clierr.New(clierr.InvalidInput, "no fields to update")
	}

	var updated *task.Task
	if _, err := s.write(func(b *board.Board) error {
		t, _, err := b.ResolveTask(c.Param("id"))
		if err != nil {
			return err
		}
		updated, err = b.UpdateTask(t.ID, patch)
		return err
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (r patchRequest) patch() (board.Patch, error) {
	p := board.Patch{
		Title:       r.Title,
		Description: r.Description,
		Assignee:    r.Assignee,
		Priority:    r.Priority,
		Package:     r.Package,
	}
	if r.Due != nil {
		if *r.Due == "" {
			p.ClearDue = true
		} else {
			due, err := date.Parse(*r.Due)
			if err != nil {
				return p, task.FormatDueDate(*r.Due, err)
			}
			p.Due = &due
		}
	}
	return p, nil
}

func (s *Server) setField(c echo.Context) error {
	var req fieldRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	var updated *task.Task
	if _, err := s.write(func(b *board.Board) error {
		t, _, err := b.ResolveTask(c.Param("id"))
		if err != nil {
			return err
		}
		updated, err = b.SetCustomField(t.ID, c.Param("name"), req.Value)
		return err
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (s *Server) deleteTask(c echo.Context) error {
	force := false
	if v := c.QueryParam("force"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return clierr.Newf(clierr.InvalidInput, "invalid force value %q", v)
		}
		force = parsed
	}

	var deleted *task.Task
	if _, err := s.write(func(b *board.Board) error {
		t, _, err := b.ResolveTask(c.Param("id"))
		if err != nil {
			return err
		}
		deleted, err = b.DeleteTask(t.ID, force)
		return err
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleted)
}

func (s *Server) addSubtask(c echo.Context) error {
	var req subtaskRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	var sub *task.Subtask
	if _, err := s.write(func(b *board.Board) error {
		t, _, err := b.ResolveTask(c.Param("id"))
		if err != nil {
			return err
		}
		sub, err = b.AddSubtask(t.ID, req.Title)
		return err
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sub)
}

func (s *Server) toggleSubtask(c echo.Context) error {
	var completed bool
	if _, err := s.write(func(b *board.Board) error {
		t, _, err := b.ResolveTask(c.Param("id"))
		if err != nil {
			return err
		}
		completed, err = b.ToggleSubtask(t.ID, c.Param("sub"))
		return err
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"id": c.Param("sub"), "completed": completed})
}

func (s *Server) listPackages(c echo.Context) error {
	b, err := s.read()
	if err != nil {
		return err
	}
	groups := b.PackageView(b.AllTasks())
	if groups == nil {
		groups = []board.PackageGroup{}
	}
	return c.JSON(http.StatusOK, packagesResponse{Packages: b.PackageSummaries(), Groups: groups})
}

func (s *Server) reorderPackage(c echo.Context) error {
	var req reorderRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	name := c.Param("name")

	var order []*task.Task
	if _, err := s.write(func(b *board.Board) error {
		t, _, err := b.ResolveTask(req.TaskID)
		if err != nil {
			return err
		}
		order, err = b.ReorderWithinPackage(name, t.ID, req.Index)
		return err
	}); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, board.PackageGroup{Name: name, Tasks: order})
}

func (s *Server) getStats(c echo.Context) error {
	b, err := s.read()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string][]board.Stat{"stats": b.Stats()})
}

func (s *Server) exportCSV(c echo.Context) error {
	b, err := s.read()
	if err != nil {
		return err
	}
	tasks, err := selectTasks(b, c.QueryParam("view"))
	if err != nil {
		return err
	}
	filename := board.ExportFilename(b.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(board.ExportCSVString(tasks)))
}
