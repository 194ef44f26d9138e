package http

import (
	"net/http"
	"strconv"
	"time"

	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/scheduler/service"
	"golang-idea-radar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RunHandler handles HTTP requests for scrape runs.
type RunHandler struct {
	runService service.RunService
	logger     *logger.Logger
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(runService service.RunService, logger *logger.Logger) *RunHandler {
	return &RunHandler{runService: runService, logger: logger}
}

// RegisterRoutes registers the run routes to the Echo group.
func (h *RunHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.TriggerRun)
	g.GET("", h.ListRuns)
	g.GET("/:id", h.GetRun)
	g.POST("/:id/cancel", h.CancelRun)
}

// TriggerRun godoc
// @Summary Trigger a scrape run
// @Description Create the run row and enqueue it for the execution service
// @Tags runs
// @Accept  json
// @Produce  json
// @Param   run  body    dto.TriggerRunRequest   true    "Run to trigger"
// @Success 202 {object} dto.RunResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs [post]
func (h *RunHandler) TriggerRun(c echo.Context) error {
	var req dto.TriggerRunRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	run, err := h.runService.TriggerRun(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusAccepted, run)
}

// ListRuns godoc
// @Summary List run history
// @Tags runs
// @Produce  json
// @Param   limit  query    int false    "Maximum number of runs"
// @Success 200 {array} dto.RunResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /runs [get]
func (h *RunHandler) ListRuns(c echo.Context) error {
	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return badRequest(c, "Invalid limit")
	}

	runs, err := h.runService.ListRuns(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, runs)
}

// GetRun godoc
// @Summary Get a run
// @Description With wait set, block until the run finishes or the wait elapses
// @Tags runs
// @Produce  json
// @Param   id  path    int true    "Run ID"
// @Param   wait  query    string false    "How long to wait, e.g. 30s"
// @Success 200 {object} dto.RunResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /runs/{id} [get]
func (h *RunHandler) GetRun(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid run ID")
	}
	wait, err := parseWait(c.QueryParam("wait"))
	if err != nil {
		return badRequest(c, "Invalid wait duration")
	}

	run, err := h.runService.GetRun(c.Request().Context(), id, wait)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, run)
}

// CancelRun godoc
// @Summary Cancel a running run
// @Description Items already in flight finish, no new items start
// @Tags runs
// @Produce  json
// @Param   id  path    int true    "Run ID"
// @Success 202 {object} dto.RunResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /runs/{id}/cancel [post]
func (h *RunHandler) CancelRun(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid run ID")
	}

	run, err := h.runService.CancelRun(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusAccepted, run)
}

// parseWait accepts a Go duration or a plain number of seconds.
func parseWait(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}
