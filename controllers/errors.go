// File: /controllers/errors.go
package controllers

import (
	"errors"
	"foodshare-api/lifecycle"
	"foodshare-api/services"
	"foodshare-api/utils"
	"github.com/gin-gonic/gin"
	"log/slog"
)

// respondError maps service and lifecycle errors onto HTTP responses.
// Anything unrecognised is logged and reported as a 500 without detail.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrUnauthenticated):
		utils.SendUnauthorized(c, "Authentication required")
	case errors.Is(err, lifecycle.ErrOwnPost):
		utils.SendForbidden(c, "Your Post")
	case errors.Is(err, lifecycle.ErrForbidden):
		utils.SendForbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyRated):
		utils.SendConflict(c, services.ErrAlreadyRated.Error())
	case errors.Is(err, lifecycle.ErrInvalidTransition), errors.Is(err, services.ErrConflict):
		utils.SendConflict(c, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.SendValidationError(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.SendNotFound(c, err.Error())
	default:
		logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		utils.SendInternalError(c)
	}
}
