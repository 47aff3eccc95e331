package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/studyquest/gamification/internal/service"
	"github.com/studyquest/gamification/pkg/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError maps the service error kinds onto HTTP statuses. Domain
// errors carry their own message; dependency and unknown failures get
// fallback.
func respondError(c *gin.Context, err error, fallback string) {
	log := logger.Logger()

	var (
		status int
		code   string
		msg    = err.Error()
	)

	switch {
	case errors.Is(err, service.ErrBossAlreadyDefeated):
		status, code = http.StatusConflict, "BOSS_ALREADY_DEFEATED"
	case errors.Is(err, service.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, service.ErrInvalidState):
		status, code = http.StatusConflict, "INVALID_STATE"
	case errors.Is(err, service.ErrValidation):
		status, code = http.StatusBadRequest, "VALIDATION"
	case errors.Is(err, service.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	case errors.Is(err, service.ErrDependency):
		status, code, msg = http.StatusServiceUnavailable, "DEPENDENCY", fallback
	default:
		status, code, msg = http.StatusInternalServerError, "INTERNAL", fallback
	}

	if status >= http.StatusInternalServerError {
		log.Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
	} else {
		log.Info(fallback, zap.Error(err), zap.String("path", c.FullPath()))
	}

	c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(c *gin.Context, msg string, err error) {
	logger.Logger().Info(msg, zap.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "VALIDATION"})
}
