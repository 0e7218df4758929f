// Package api serves the board as a small JSON API over echo.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/antopolskiy/taskboard/internal/board"
	"github.com/antopolskiy/taskboard/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Server exposes one board store over HTTP. Reads share the lock and
// mutations take it exclusively; the store's file lock still guards
// against other processes.
type Server struct {
	mu     sync.RWMutex
	store  *store.Store
	logger *log.Logger
	echo   *echo.Echo
}

// New builds a server with its routes registered. A nil logger uses the
// standard logrus logger.
func New(st *store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Server{store: st, logger: logger}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = sonicSerializer{}
	e.HTTPErrorHandler = s.handleError
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))
	s.echo = e
	s.register(e)
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("api listening")
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("api stopped")
		return nil
	}
}

func (s *Server) register(e *echo.Echo) {
	e.GET("/healthz", s.healthz)

	g := e.Group("/api")
	g.GET("/board", s.getBoard)
	g.GET("/tasks", s.listTasks)
	g.POST("/columns/:id/tasks", s.addTask)
	g.POST("/tasks/:id/move", s.moveTask)
	g.PATCH("/tasks/:id", s.updateTask)
	g.PUT("/tasks/:id/fields/:name", s.setField)
	g.DELETE("/tasks/:id", s.deleteTask)
	g.POST("/tasks/:id/subtasks", s.addSubtask)
	g.POST("/tasks/:id/subtasks/:sub/toggle", s.toggleSubtask)
	g.GET("/packages", s.listPackages)
	g.POST("/packages/:name/reorder", s.reorderPackage)
	g.GET("/stats", s.getStats)
	g.GET("/export.csv", s.exportCSV)
}

// read loads the board under the shared lock.
func (s *Server) read() (*board.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Load()
}

// write applies fn to the board under the exclusive lock and persists it.
func (s *Server) write(fn func(*board.Board) error) (*board.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Update(fn)
}
