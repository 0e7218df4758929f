package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/clierr"
	"github.com/antopolskiy/taskboard/internal/config"
	"github.com/antopolskiy/taskboard/internal/output"
	"github.com/antopolskiy/taskboard/internal/store"
	"github.com/antopolskiy/taskboard/internal/task"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, *store.Store, *test.Hook) {
	t.Helper()
	cfg := config.NewDefault("API Board")
	cfg.SetDir(t.TempDir())
	require.NoError(t, cfg.Save())

	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	st := store.New(cfg, logger, board.WithClock(func() time.Time { return testNow }))
	_, err := st.Init()
	require.NoError(t, err)
	return New(st, logger), st, hook
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, sonic.ConfigStd.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rec.Code, rec.Body.String())
	resp := decode[output.ErrorResponse](t, rec)
	assert.Equal(t, code, resp.Code)
	assert.NotEmpty(t, resp.Error)
}

func addTask(t *testing.T, s *Server, column, body string) task.Task {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/columns/"+column+"/tasks", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[task.Task](t, rec)
}

func TestHealthz(t *testing.T) {
	s, _, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestAddTask(t *testing.T) {
	s, st, _ := newTestServer(t)

	created := addTask(t, s, "todo", `{"title":"Write docs","dueDate":"2025-07-01","subtasks":["outline"],"customFields":[{"name":"Sprint","value":"12"}]}`)
	assert.Equal(t, "Write docs", created.Title)
	assert.Equal(t, task.StatusToDo, created.Status)
	assert.Equal(t, task.PriorityMedium, created.Priority)
	require.NotNil(t, created.Due)
	assert.Equal(t, "2025-07-01", created.Due.String())
	require.Len(t, created.Subtasks, 1)
	require.Len(t, created.CustomFields, 1)
	assert.Equal(t, "Sprint", created.CustomFields[0].Name)

	b, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, b.TaskCount())
}

func TestWIPLimit(t *testing.T) {
	s, st, _ := newTestServer(t)
	st.Config().Columns[1].WIPLimit = 1

	first := addTask(t, s, "todo", `{"title":"first"}`)
	second := addTask(t, s, "todo", `{"title":"second"}`)

	rec := do(t, s, http.MethodPost, "/api/tasks/"+first.ID+"/move", `{"to":"in-progress"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodPost, "/api/tasks/"+second.ID+"/move", `{"to":"in-progress"}`)
	assertError(t, rec, http.StatusConflict, clierr.WIPLimitExceeded)
	rec = do(t, s, http.MethodPost, "/api/columns/in-progress/tasks", `{"title":"third"}`)
	assertError(t, rec, http.StatusConflict, clierr.WIPLimitExceeded)

	b, err := st.Load()
	require.NoError(t, err)
	col, err := b.Column("in-progress")
	require.NoError(t, err)
	assert.Len(t, col.Tasks, 1)

	rec = do(t, s, http.MethodPost, "/api/tasks/"+first.ID+"/move", `{"to":"in-progress","index":0}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, s, http.MethodPost, "/api/tasks/"+second.ID+"/move", `{"to":"in-progress","force":true}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	addTask(t, s, "in-progress", `{"title":"third","force":true}`)
}

func TestAddTaskErrors(t *testing.T) {
	s, _, _ := newTestServer(t)

	tests := []struct {
		name   string
		column string
		body   string
		status int
		code   string
	}{
		{"blank title", "todo", `{"title":"  "}`, http.StatusBadRequest, clierr.InvalidTitle},
		{"unknown column", "nope", `{"title":"x"}`, http.StatusNotFound, clierr.ColumnNotFound},
		{"bad date", "todo", `{"title":"x","dueDate":"tomorrow"}`, http.StatusBadRequest, clierr.InvalidDate},
		{"bad priority", "todo", `{"title":"x","priority":"urgent"}`, http.StatusBadRequest, clierr.InvalidPriority},
		{"unknown field", "todo", `{"title":"x","color":"red"}`, http.StatusBadRequest, clierr.InvalidInput},
		{"malformed", "todo", `{"title":`, http.StatusBadRequest, clierr.InvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/api/columns/"+tt.column+"/tasks", tt.body)
			assertError(t, rec, tt.status, tt.code)
		})
	}
}

func TestMoveTask(t *testing.T) {
	s, st, _ := newTestServer(t)
	created := addTask(t, s, "todo", `{"title":"Ship"}`)

	short := board.ShortID(created.ID)
	rec := do(t, s, http.MethodPost, "/api/tasks/"+short+"/move", `{"to":"in-progress"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	moved := decode[task.Task](t, rec)
	assert.Equal(t, created.ID, moved.ID)
	assert.Equal(t, task.StatusInProgress, moved.Status)

	b, err := st.Load()
	require.NoError(t, err)
	_, col, err := b.FindTask(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "in-progress", col.ID)

	rec = do(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/move", `{"to":"nowhere"}`)
	assertError(t, rec, http.StatusNotFound, clierr.ColumnNotFound)

	rec = do(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/move", `{}`)
	assertError(t, rec, http.StatusBadRequest, clierr.InvalidInput)

	rec = do(t, s, http.MethodPost, "/api/tasks/task-missing/move", `{"to":"todo"}`)
	assertError(t, rec, http.StatusNotFound, clierr.TaskNotFound)
}

func TestUpdateTask(t *testing.T) {
	s, _, _ := newTestServer(t)
	created := addTask(t, s, "todo", `{"title":"Draft","dueDate":"2025-07-01"}`)
	path := "/api/tasks/" + created.ID

	rec := do(t, s, http.MethodPatch, path, `{"title":"Final","priority":"high","dueDate":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[task.Task](t, rec)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, task.PriorityHigh, updated.Priority)
	assert.Nil(t, updated.Due)

	assertError(t, do(t, s, http.MethodPatch, path, `{}`), http.StatusBadRequest, clierr.InvalidInput)
	assertError(t, do(t, s, http.MethodPatch, path, `{"title":""}`), http.StatusBadRequest, clierr.InvalidTitle)
}

func TestSetField(t *testing.T) {
	s, _, _ := newTestServer(t)
	created := addTask(t, s, "todo", `{"title":"Fields"}`)

	rec := do(t, s, http.MethodPut, "/api/tasks/"+created.ID+"/fields/Sprint", `{"value":"12"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[task.Task](t, rec)
	require.Len(t, updated.CustomFields, 1)
	assert.Equal(t, "12", updated.CustomFields[0].Value)

	// Promoted names land in the typed field.
	rec = do(t, s, http.MethodPut, "/api/tasks/"+created.ID+"/fields/Assigned%20To", `{"value":"Ana"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Ana", decode[task.Task](t, rec).Assignee)
}

func TestDeleteTaskGuard(t *testing.T) {
	s, st, _ := newTestServer(t)
	created := addTask(t, s, "todo", `{"title":"Guarded","subtasks":["open item"]}`)
	path := "/api/tasks/" + created.ID

	assertError(t, do(t, s, http.MethodDelete, path, ""), http.StatusConflict, clierr.TaskHasOpenSubtasks)
	assertError(t, do(t, s, http.MethodDelete, path+"?force=maybe", ""), http.StatusBadRequest, clierr.InvalidInput)

	rec := do(t, s, http.MethodDelete, path+"?force=true", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	b, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, b.TaskCount())
}

func TestSubtasks(t *testing.T) {
	s, _, _ := newTestServer(t)
	created := addTask(t, s, "todo", `{"title":"Checklist"}`)

	rec := do(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/subtasks", `{"title":"step one"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sub := decode[task.Subtask](t, rec)

	rec = do(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/subtasks/"+sub.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, rec)["completed"]) //nolint:testifylint // decoded any

	rec = do(t, s, http.MethodPost, "/api/tasks/"+created.ID+"/subtasks/sub-missing/toggle", "")
	assertError(t, rec, http.StatusNotFound, clierr.SubtaskNotFound)
}

func TestListTasks(t *testing.T) {
	s, _, _ := newTestServer(t)
	addTask(t, s, "todo", `{"title":"Café menu"}`)
	addTask(t, s, "in-progress", `{"title":"Payments"}`)
	addTask(t, s, "completed", `{"title":"Launch"}`)

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"?view=all", 3},
		{"?view=active", 2},
		{"?view=completed", 1},
		{"?q=cafe", 1},
		{"?view=completed&q=cafe", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/api/tasks"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			resp := decode[tasksResponse](t, rec)
			assert.Equal(t, tt.want, resp.Count)
			assert.Len(t, resp.Tasks, tt.want)
		})
	}

	assertError(t, do(t, s, http.MethodGet, "/api/tasks?view=archived", ""), http.StatusBadRequest, clierr.InvalidInput)
}

func TestGetBoard(t *testing.T) {
	s, _, _ := newTestServer(t)
	addTask(t, s, "blocked", `{"title":"Stuck"}`)

	rec := do(t, s, http.MethodGet, "/api/board", "")
	require.Equal(t, http.StatusOK, rec.Code)
	b := decode[board.Board](t, rec)
	require.Len(t, b.Columns, 4)
	assert.Equal(t, "Blocked", b.Columns[2].Title)
	require.Len(t, b.Columns[2].Tasks, 1)
}

func TestPackagesAndReorder(t *testing.T) {
	s, _, _ := newTestServer(t)
	first := addTask(t, s, "todo", `{"title":"First","package":"Web"}`)
	second := addTask(t, s, "todo", `{"title":"Second","package":"Web"}`)
	addTask(t, s, "todo", `{"title":"Loose"}`)

	rec := do(t, s, http.MethodGet, "/api/packages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pkgs := decode[packagesResponse](t, rec)
	require.Len(t, pkgs.Groups, 2)
	assert.Equal(t, "Web", pkgs.Groups[0].Name)
	assert.Equal(t, task.Unassigned, pkgs.Groups[1].Name)

	// Equal creation times keep insertion order, so Second starts at index 1.
	require.Len(t, pkgs.Groups[0].Tasks, 2)
	assert.Equal(t, first.ID, pkgs.Groups[0].Tasks[0].ID)

	body := `{"taskId":"` + second.ID + `","index":0}`
	rec = do(t, s, http.MethodPost, "/api/packages/Web/reorder", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	group := decode[board.PackageGroup](t, rec)
	require.Len(t, group.Tasks, 2)
	assert.Equal(t, second.ID, group.Tasks[0].ID)
	assert.Equal(t, first.ID, group.Tasks[1].ID)

	// Same index again yields the same order.
	rec = do(t, s, http.MethodPost, "/api/packages/Web/reorder", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, second.ID, decode[board.PackageGroup](t, rec).Tasks[0].ID)

	rec = do(t, s, http.MethodPost, "/api/packages/Mobile/reorder", body)
	assertError(t, rec, http.StatusNotFound, clierr.PackageNotFound)
}

func TestStats(t *testing.T) {
	s, _, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"stats":[]}`, rec.Body.String())

	addTask(t, s, "in-progress", `{"title":"Late","dueDate":"2025-06-01"}`)
	rec = do(t, s, http.MethodGet, "/api/stats", "")
	stats := decode[map[string][]board.Stat](t, rec)["stats"]
	require.Len(t, stats, 5)
	assert.Equal(t, board.Stat{Name: board.StatOverdue, Count: 1, Percent: 100}, stats[4])
}

func TestExportCSV(t *testing.T) {
	s, _, _ := newTestServer(t)
	addTask(t, s, "todo", `{"title":"A,\"B\""}`)

	rec := do(t, s, http.MethodGet, "/api/export.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="tasks-export-2025-06-15.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))
	assert.Equal(t,
		"Title,Description,Status,Due Date,Assignee,Priority,Package\n"+
			`"A,""B""","","To Do","","","Medium","Unassigned"`,
		rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	s, _, _ := newTestServer(t)
	assertError(t, do(t, s, http.MethodGet, "/api/nothing", ""), http.StatusNotFound, clierr.InvalidInput)
}

func TestMissingBoardIsNotFound(t *testing.T) {
	cfg := config.NewDefault("Empty")
	cfg.SetDir(t.TempDir())
	logger, _ := test.NewNullLogger()
	s := New(store.New(cfg, logger), logger)

	assertError(t, do(t, s, http.MethodGet, "/api/board", ""), http.StatusNotFound, clierr.BoardNotFound)
}

func TestRequestLogging(t *testing.T) {
	s, _, hook := newTestServer(t)
	hook.Reset()

	do(t, s, http.MethodGet, "/api/stats", "")
	do(t, s, http.MethodGet, "/api/tasks?view=bogus", "")

	var routes []string
	for _, e := range hook.AllEntries() {
		if route, ok := e.Data["route"]; ok {
			routes = append(routes, route.(string))
			assert.Contains(t, e.Data, "status")
			assert.Contains(t, e.Data, "total_ms")
		}
	}
	assert.Equal(t, []string{"/api/stats", "/api/tasks"}, routes)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, log.InfoLevel, last.Level)
	assert.Equal(t, http.StatusBadRequest, last.Data["status"])
}

func TestRunStopsOnCancel(t *testing.T) {
	s, _, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
