// Package status serves a read-only HTTP view of the live sessions.
package status

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nstehr/trooper/agent"
)

const (
	RouteHealth   = "/healthz"
	RouteSessions = "/sessions"
	RouteSession  = "/sessions/:id"
)

// Handler exposes registry snapshots over HTTP.
type Handler struct {
	registry *agent.Registry
}

func NewHandler(registry *agent.Registry) *Handler {
	return &Handler{registry: registry}
}

// Health reports that the process is serving.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListSessions returns every live session, oldest first.
func (h *Handler) ListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.List())
}

// GetSession returns one session by id.
func (h *Handler) GetSession(c *gin.Context) {
	s, ok := h.registry.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

// NewRouter wires the status routes.
func NewRouter(registry *agent.Registry) *gin.Engine {
	h := NewHandler(registry)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET(RouteHealth, h.Health)
	router.GET(RouteSessions, h.ListSessions)
	router.GET(RouteSession, h.GetSession)
	return router
}

// Serve runs the status server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, registry *agent.Registry) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("status server shutdown", "error", err)
		}
	}()

	slog.Info("status endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
