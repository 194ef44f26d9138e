package http

import (
	"net/http"
	"strconv"
	"strings"

	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/scheduler/service"
	"golang-idea-radar/pkg/logger"
	"golang-idea-radar/pkg/utils"

	"github.com/labstack/echo/v4"
)

// ProblemHandler handles HTTP requests for problem cards.
type ProblemHandler struct {
	problemService service.ProblemService
	runService     service.RunService
	logger         *logger.Logger
}

// NewProblemHandler creates a new ProblemHandler.
func NewProblemHandler(problemService service.ProblemService, runService service.RunService, logger *logger.Logger) *ProblemHandler {
	return &ProblemHandler{problemService: problemService, runService: runService, logger: logger}
}

// RegisterRoutes registers the problem routes to the Echo group.
func (h *ProblemHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListProblems)
	g.GET("/archive", h.ListArchived)
	g.GET("/:id", h.GetProblem)
	g.PATCH("/:id/status", h.UpdateStatus)
	g.PATCH("/:id/star", h.SetStarred)
	g.PATCH("/:id/notes", h.UpdateNotes)
	g.PATCH("/:id/tags", h.UpdateTags)
	g.GET("/:id/competitors", h.GetCompetitors)
	g.POST("/:id/market-analysis", h.TriggerMarketAnalysis)
}

// ListProblems godoc
// @Summary List problem cards
// @Description Archived and rejected cards are hidden unless status or include_archived is given
// @Tags problems
// @Produce  json
// @Param   status  query    string false    "Card status"
// @Param   is_starred  query    bool false    "Only starred or unstarred cards"
// @Param   min_score  query    int false    "Minimum overall score"
// @Param   tags  query    string false    "Comma separated user tags, all must match"
// @Param   audience_type  query    string false    "consumers, entrepreneurs, mixed or unknown"
// @Param   analysis_tier  query    string false    "none, basic or deep"
// @Param   source_type  query    string false    "reddit, hackernews or rss"
// @Param   date_from  query    string false    "RFC3339 or YYYY-MM-DD"
// @Param   date_to  query    string false    "RFC3339 or YYYY-MM-DD"
// @Param   include_archived  query    bool false    "Include archived and rejected cards"
// @Param   sort_by  query    string false    "score, date, severity or engagement"
// @Param   skip  query    int false    "Offset"
// @Param   limit  query    int false    "Page size, at most 100"
// @Success 200 {array} dto.ProblemListItem
// @Failure 400 {object} dto.ErrorResponse
// @Router /problems [get]
func (h *ProblemHandler) ListProblems(c echo.Context) error {
	filter := dto.ProblemFilter{
		Status:       c.QueryParam("status"),
		AudienceType: c.QueryParam("audience_type"),
		AnalysisTier: c.QueryParam("analysis_tier"),
		SourceType:   c.QueryParam("source_type"),
		SortBy:       c.QueryParam("sort_by"),
	}
	err := echo.QueryParamsBinder(c).
		Int("skip", &filter.Skip).
		Int("limit", &filter.Limit).
		Bool("include_archived", &filter.IncludeArchived).
		BindError()
	if err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	if raw := c.QueryParam("is_starred"); raw != "" {
		starred, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "Invalid is_starred")
		}
		filter.IsStarred = &starred
	}
	if raw := c.QueryParam("min_score"); raw != "" {
		score, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "Invalid min_score")
		}
		filter.MinScore = &score
	}
	if raw := c.QueryParam("tags"); raw != "" {
		filter.Tags = strings.Split(raw, ",")
	}
	if raw := c.QueryParam("date_from"); raw != "" {
		from, err := utils.ParseDateParam(raw)
		if err != nil {
			return badRequest(c, "Invalid date_from")
		}
		filter.DateFrom = &from
	}
	if raw := c.QueryParam("date_to"); raw != "" {
		to, err := utils.ParseDateParam(raw)
		if err != nil {
			return badRequest(c, "Invalid date_to")
		}
		filter.DateTo = &to
	}

	problems, err := h.problemService.ListProblems(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, problems)
}

// ListArchived godoc
// @Summary List archived and rejected cards
// @Tags problems
// @Produce  json
// @Param   skip  query    int false    "Offset"
// @Param   limit  query    int false    "Page size, at most 100"
// @Success 200 {array} dto.ProblemListItem
// @Failure 400 {object} dto.ErrorResponse
// @Router /problems/archive [get]
func (h *ProblemHandler) ListArchived(c echo.Context) error {
	var skip, limit int
	if err := echo.QueryParamsBinder(c).Int("skip", &skip).Int("limit", &limit).BindError(); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	problems, err := h.problemService.ListArchived(c.Request().Context(), skip, limit)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, problems)
}

// GetProblem godoc
// @Summary Get a problem card
// @Description Returns the detail view and records a view of the card
// @Tags problems
// @Produce  json
// @Param   id  path    int true    "Problem ID"
// @Success 200 {object} dto.ProblemDetail
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /problems/{id} [get]
func (h *ProblemHandler) GetProblem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid problem ID")
	}

	detail, err := h.problemService.GetProblemDetail(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, detail)
}

// UpdateStatus godoc
// @Summary Update the card status
// @Tags problems
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Problem ID"
// @Param   body  body    dto.UpdateStatusRequest   true    "New status"
// @Success 200 {object} dto.CurationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /problems/{id}/status [patch]
func (h *ProblemHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid problem ID")
	}
	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.problemService.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// SetStarred godoc
// @Summary Star or unstar a card
// @Tags problems
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Problem ID"
// @Param   body  body    dto.StarRequest   true    "Starred flag"
// @Success 200 {object} dto.CurationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /problems/{id}/star [patch]
func (h *ProblemHandler) SetStarred(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid problem ID")
	}
	var req dto.StarRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.problemService.SetStarred(c.Request().Context(), id, req.IsStarred)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateNotes godoc
// @Summary Replace the user notes of a card
// @Tags problems
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Problem ID"
// @Param   body  body    dto.NotesRequest   true    "Notes"
// @Success 200 {object} dto.CurationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /problems/{id}/notes [patch]
func (h *ProblemHandler) UpdateNotes(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid problem ID")
	}
	var req dto.NotesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.problemService.UpdateNotes(c.Request().Context(), id, req.UserNotes)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateTags godoc
// @Summary Replace the user tags of a card
// @Description Tags are trimmed, deduplicated and empty ones dropped, order is kept
// @Tags problems
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Problem ID"
// @Param   body  body    dto.TagsRequest   true    "Tags"
// @Success 200 {object} dto.CurationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /problems/{id}/tags [patch]
func (h *ProblemHandler) UpdateTags(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid problem ID")
	}
	var req dto.TagsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	resp, err := h.problemService.UpdateTags(c.Request().Context(), id, req.UserTags)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetCompetitors godoc
// @Summary List the competitors of a problem
// @Tags problems
// @Produce  json
// @Param   id  path    int true    "Problem ID"
// @Success 200 {object} dto.CompetitorsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /problems/{id}/competitors [get]
func (h *ProblemHandler) GetCompetitors(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid problem ID")
	}

	resp, err := h.problemService.GetCompetitors(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// TriggerMarketAnalysis godoc
// @Summary Re-run market analysis for a problem
// @Tags problems
// @Produce  json
// @Param   id  path    int true    "Problem ID"
// @Success 202 {object} dto.RunResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /problems/{id}/market-analysis [post]
func (h *ProblemHandler) TriggerMarketAnalysis(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return badRequest(c, "Invalid problem ID")
	}

	run, err := h.runService.TriggerMarketAnalysis(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(http.StatusAccepted, run)
}
