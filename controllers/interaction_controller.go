// File: /controllers/interaction_controller.go
package controllers

import (
	"foodshare-api/middleware"
	"foodshare-api/models"
	"foodshare-api/services"
	"foodshare-api/utils"
	"github.com/gin-gonic/gin"
	"log/slog"
)

type InteractionController struct {
	interactionService *services.InteractionService
	logger             *slog.Logger
}

func NewInteractionController(interactionService *services.InteractionService, logger *slog.Logger) *InteractionController {
	return &InteractionController{
		interactionService: interactionService,
		logger:             logger,
	}
}

// GetInteractions lists the caller's claims and offers. With ?post_id= the
// post owner gets every interaction on that post.
func (ic *InteractionController) GetInteractions(c *gin.Context) {
	interactions, err := ic.interactionService.List(c.Request.Context(), middleware.CurrentUser(c), c.Query("post_id"))
	if err != nil {
		respondError(c, ic.logger, err)
		return
	}

	utils.SendList(c, "interactions", interactions)
}

func (ic *InteractionController) UpdateMessage(c *gin.Context) {
	var req models.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	interaction, err := ic.interactionService.UpdateMessage(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, ic.logger, err)
		return
	}

	utils.SendSuccess(c, "Message updated", interaction)
}

func (ic *InteractionController) ApproveInteraction(c *gin.Context) {
	ic.review(c, true, "Pickup approved")
}

func (ic *InteractionController) RejectInteraction(c *gin.Context) {
	ic.review(c, false, "Claim rejected")
}

func (ic *InteractionController) review(c *gin.Context, approve bool, message string) {
	post, err := ic.interactionService.Review(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), approve)
	if err != nil {
		respondError(c, ic.logger, err)
		return
	}
	utils.SendSuccess(c, message, post)
}
