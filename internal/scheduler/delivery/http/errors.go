package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-idea-radar/internal/entity"
	"golang-idea-radar/internal/scheduler/dto"
	"golang-idea-radar/internal/scheduler/service"
	"golang-idea-radar/pkg/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, entity.ErrInvalidCardStatus):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrRunFinished), errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, log *logger.Logger, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Error("Request failed", logger.ErrorField(err), logger.StringField("path", c.Path()))
		return c.JSON(code, dto.ErrorResponse{Error: "internal server error"})
	}
	return c.JSON(code, dto.ErrorResponse{Error: err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
