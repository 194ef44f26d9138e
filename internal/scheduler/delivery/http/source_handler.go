package http

import (
	"net/http"

	"golang-idea-radar/internal/scheduler/service"
	"golang-idea-radar/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SourceHandler handles HTTP requests for sources.
type SourceHandler struct {
	sourceService service.SourceService
	logger        *logger.Logger
}

// NewSourceHandler creates a new SourceHandler.
func NewSourceHandler(sourceService service.SourceService, logger *logger.Logger) *SourceHandler {
	return &SourceHandler{sourceService: sourceService, logger: logger}
}

// RegisterRoutes registers the source routes to the Echo group.
func (h *SourceHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListSources)
}

// ListSources godoc
// @Summary List configured sources
// @Tags sources
// @Produce  json
// @Success 200 {array} dto.SourceResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sources [get]
func (h *SourceHandler) ListSources(c echo.Context) error {
	sources, err := h.sourceService.ListSources(c.Request().Context())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, sources)
}
