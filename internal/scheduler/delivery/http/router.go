package http

import (
	"github.com/labstack/echo/v4"
	swagger "github.com/swaggo/echo-swagger"
)

// Handlers bundles every API handler of the scheduling service.
type Handlers struct {
	Problems  *ProblemHandler
	Runs      *RunHandler
	Schedules *ScheduleHandler
	Sources   *SourceHandler
	Stats     *StatsHandler
}

// NewRouter builds the echo instance serving /api/v1, /health and the swagger UI.
func NewRouter(h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	apiV1 := e.Group("/api/v1")
	h.Problems.RegisterRoutes(apiV1.Group("/problems"))
	h.Runs.RegisterRoutes(apiV1.Group("/runs"))
	h.Schedules.RegisterRoutes(apiV1.Group("/schedules"))
	h.Sources.RegisterRoutes(apiV1.Group("/sources"))
	h.Stats.RegisterRoutes(apiV1.Group("/stats"))

	e.GET("/health", h.Stats.Health)

	e.GET("/swagger/*", swagger.WrapHandler)
	return e
}
