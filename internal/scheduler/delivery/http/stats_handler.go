package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-idea-radar/internal/scheduler/service"
	"golang-idea-radar/pkg/logger"

	"github.com/labstack/echo/v4"
)

const defaultActivityDays = 7

// StatsHandler serves dashboard statistics and the health check.
type StatsHandler struct {
	statsService service.StatsService
	logger       *logger.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService, logger *logger.Logger) *StatsHandler {
	return &StatsHandler{statsService: statsService, logger: logger}
}

// RegisterRoutes registers the stats routes to the Echo group.
func (h *StatsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetStats)
	g.GET("/recent-activity", h.GetRecentActivity)
}

// GetStats godoc
// @Summary Dashboard statistics
// @Tags stats
// @Produce  json
// @Success 200 {object} dto.StatsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stats [get]
func (h *StatsHandler) GetStats(c echo.Context) error {
	stats, err := h.statsService.GetStats(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetRecentActivity godoc
// @Summary Daily discussion and problem counts
// @Tags stats
// @Produce  json
// @Param days query int false "Window in days (1-90)" default(7)
// @Success 200 {object} dto.RecentActivityResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stats/recent-activity [get]
func (h *StatsHandler) GetRecentActivity(c echo.Context) error {
	days := defaultActivityDays
	if raw := c.QueryParam("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "days must be an integer")
		}
		days = v
	}
	activity, err := h.statsService.GetRecentActivity(c.Request().Context(), days)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, activity)
}

// Health reports database and redis connectivity. It is mounted at the root, outside /api/v1,
// and answers 503 when either store is unreachable.
func (h *StatsHandler) Health(c echo.Context) error {
	health, err := h.statsService.Health(c.Request().Context())
	if errors.Is(err, service.ErrUnhealthy) {
		return c.JSON(http.StatusServiceUnavailable, health)
	}
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, health)
}
