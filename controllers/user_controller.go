// File: /controllers/user_controller.go
package controllers

import (
	"foodshare-api/middleware"
	"foodshare-api/services"
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
)

type UserController struct {
	ratingService *services.RatingService
	logger        *slog.Logger
}

func NewUserController(ratingService *services.RatingService, logger *slog.Logger) *UserController {
	return &UserController{
		ratingService: ratingService,
		logger:        logger,
	}
}

// GetMe returns the identity carried by the caller's token
func (uc *UserController) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"full_name":    user.FullName,
		"display_name": user.DisplayName(),
	})
}

// GetProfile returns a user's public stats and the ratings they received
func (uc *UserController) GetProfile(c *gin.Context) {
	stats, err := uc.ratingService.UserStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
