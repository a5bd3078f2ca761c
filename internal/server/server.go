// Package server exposes the board over HTTP: a JSON API for writes, an SSE
// stream of full collection snapshots for reads, and the Prometheus endpoint.
package server

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"checkinboard/internal/auth"
	"checkinboard/internal/live"
	"checkinboard/internal/service"
	"checkinboard/internal/storage"
)

// Server wires the board service and session manager into an echo router.
type Server struct {
	svc      *service.BoardService
	sessions *auth.SessionManager
	store    storage.Store
	hub      *live.Hub
	log      *slog.Logger
	echo     *echo.Echo
}

// New builds the router with all routes registered.
func New(svc *service.BoardService, sessions *auth.SessionManager, store storage.Store, hub *live.Hub, log *slog.Logger) *Server {
	s := &Server{
		svc:      svc,
		sessions: sessions,
		store:    store,
		hub:      hub,
		log:      log,
		echo:     echo.New(),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.CORS())
	s.echo.Use(s.requestLogger)

	s.routes()
	return s
}

// Handler returns the root http.Handler, for wrapping (h2c) and serving.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api/v1")
	api.POST("/session", s.handleBeginSession)

	// Everything below requires a session token.
	authed := api.Group("", s.requireSession)

	// Stream routes live under their own prefix so collection names never
	// collide with the /groups/:id parameter routes.
	authed.GET("/stream/:collection", s.handleStream)
	authed.GET("/board", s.handleBoard)
	authed.GET("/stats", s.handleStats)

	authed.GET("/groups", s.handleListGroups)
	authed.POST("/groups", s.handleCreateGroup)
	// Static clear routes must outrank /groups/:id in the router.
	authed.POST("/groups/clear/arm", s.handleArmClear)
	authed.POST("/groups/clear/confirm", s.handleConfirmClear)
	authed.POST("/groups/clear/cancel", s.handleCancelClear)
	authed.GET("/groups/:id", s.handleGetGroup)
	authed.PATCH("/groups/:id", s.handlePatchGroup)
	authed.DELETE("/groups/:id", s.handleDeleteGroup)

	authed.POST("/groups/:id/status/:flag", s.handleToggleStatus)
	authed.PUT("/groups/:id/dietary/:code", s.handleSetDietary)
	authed.PUT("/groups/:id/food-order/:item", s.handleSetFoodOrder)
	authed.PUT("/groups/:id/team-member", s.handleAssignTeamMember)
	authed.POST("/groups/:id/areas/toggle", s.handleToggleArea)

	authed.POST("/groups/:id/blocks", s.handleAddBlock)
	authed.DELETE("/groups/:id/blocks/:index", s.handleRemoveBlock)
	authed.PUT("/groups/:id/blocks/:index/duration", s.handleSetBlockDuration)
	authed.POST("/groups/:id/blocks/:index/activities", s.handleAddActivity)
	authed.PUT("/groups/:id/blocks/:index/activities/reorder", s.handleReorderActivities)
	authed.DELETE("/groups/:id/blocks/:index/activities/:name", s.handleRemoveActivity)

	authed.GET("/team-members", s.handleListTeamMembers)
	authed.POST("/team-members", s.handleAddTeamMember)
	authed.DELETE("/team-members/:id", s.handleDeleteTeamMember)

	authed.GET("/areas", s.handleListAreas)
	authed.POST("/areas", s.handleAddArea)
	authed.DELETE("/areas/:id", s.handleDeleteArea)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
