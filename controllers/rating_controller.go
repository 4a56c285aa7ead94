// File: /controllers/rating_controller.go
package controllers

import (
	"foodshare-api/middleware"
	"foodshare-api/models"
	"foodshare-api/services"
	"foodshare-api/utils"
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
)

type RatingController struct {
	ratingService *services.RatingService
	logger        *slog.Logger
}

func NewRatingController(ratingService *services.RatingService, logger *slog.Logger) *RatingController {
	return &RatingController{
		ratingService: ratingService,
		logger:        logger,
	}
}

// GetRatingPrompt tells a participant of a completed post whom to rate
func (rc *RatingController) GetRatingPrompt(c *gin.Context) {
	prompt, err := rc.ratingService.Prompt(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, rc.logger, err)
		return
	}
	c.JSON(http.StatusOK, prompt)
}

func (rc *RatingController) CreateRating(c *gin.Context) {
	var req models.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	rating, err := rc.ratingService.Submit(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req)
	if err != nil {
		respondError(c, rc.logger, err)
		return
	}

	utils.SendCreated(c, "Rating submitted successfully", rating)
}
