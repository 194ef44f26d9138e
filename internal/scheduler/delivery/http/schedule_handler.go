package http

import (
	"net/http"

	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/scheduler/service"
	"golang-idea-radar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScheduleHandler handles HTTP requests for schedules.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
	logger          *logger.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService, logger *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService, logger: logger}
}

// RegisterRoutes registers the schedule routes to the Echo group.
func (h *ScheduleHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateSchedule)
	g.GET("", h.ListSchedules)
	g.GET("/:id", h.GetScheduleByID)
	g.PUT("/:id", h.UpdateSchedule)
	g.DELETE("/:id", h.DeleteSchedule)
}

// CreateSchedule godoc
// @Summary Create a new schedule
// @Description Create a run schedule from a cron expression or an hour interval
// @Tags schedules
// @Accept  json
// @Produce  json
// @Param   schedule  body    dto.CreateScheduleRequest   true    "Schedule to create"
// @Success 201 {object} dto.ScheduleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /schedules [post]
func (h *ScheduleHandler) CreateSchedule(c echo.Context) error {
	var req dto.CreateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	scheduleResponse, err := h.scheduleService.CreateSchedule(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusCreated, scheduleResponse)
}

// GetScheduleByID godoc
// @Summary Get a schedule by its ID
// @Tags schedules
// @Produce  json
// @Param   id  path    int true    "Schedule ID"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) GetScheduleByID(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid schedule ID")
	}

	scheduleResponse, err := h.scheduleService.GetScheduleByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, scheduleResponse)
}

// ListSchedules godoc
// @Summary List schedules
// @Tags schedules
// @Produce  json
// @Param   active  query   bool false  "Only active schedules"
// @Success 200 {array} dto.ScheduleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /schedules [get]
func (h *ScheduleHandler) ListSchedules(c echo.Context) error {
	var activeOnly bool
	if err := echo.QueryParamsBinder(c).Bool("active", &activeOnly).BindError(); err != nil {
		return badRequest(c, "Invalid active flag")
	}

	schedules, err := h.scheduleService.ListSchedules(c.Request().Context(), activeOnly)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, schedules)
}

// UpdateSchedule godoc
// @Summary Update an existing schedule
// @Description Replace the schedule descriptor and re-arm its next execution
// @Tags schedules
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Schedule ID"
// @Param   schedule  body    dto.UpdateScheduleRequest   true    "Schedule to update"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /schedules/{id} [put]
func (h *ScheduleHandler) UpdateSchedule(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid schedule ID")
	}

	var req dto.UpdateScheduleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	scheduleResponse, err := h.scheduleService.UpdateSchedule(c.Request().Context(), id, &req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, scheduleResponse)
}

// DeleteSchedule godoc
// @Summary Delete a schedule
// @Tags schedules
// @Produce  json
// @Param   id  path    int true    "Schedule ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /schedules/{id} [delete]
func (h *ScheduleHandler) DeleteSchedule(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid schedule ID")
	}

	if err := h.scheduleService.DeleteSchedule(c.Request().Context(), id); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.NoContent(http.StatusNoContent)
}
