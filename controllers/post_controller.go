// File: /controllers/post_controller.go
package controllers

import (
	"fmt"
	"foodshare-api/lifecycle"
	"foodshare-api/middleware"
	"foodshare-api/models"
	"foodshare-api/services"
	"foodshare-api/utils"
	"github.com/gin-gonic/gin"
	"log/slog"
	"net/http"
	"strconv"
)

type PostController struct {
	postService *services.PostService
	logger      *slog.Logger
}

func NewPostController(postService *services.PostService, logger *slog.Logger) *PostController {
	return &PostController{
		postService: postService,
		logger:      logger,
	}
}

type ClaimRequest struct {
	Message string `json:"message"`
}

// GetPosts returns the community feed. ?type=donation|request, ?status=,
// ?search=, ?expiring=soon
func (pc *PostController) GetPosts(c *gin.Context) {
	query := services.ListQuery{
		Type:     models.PostType(c.Query("type")),
		Status:   lifecycle.Status(c.Query("status")),
		Search:   c.Query("search"),
		Expiring: c.Query("expiring"),
	}

	posts, err := pc.postService.List(c.Request.Context(), middleware.CurrentUser(c), query)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	utils.SendList(c, "posts", posts)
}

func (pc *PostController) GetMyPosts(c *gin.Context) {
	posts, err := pc.postService.ListMine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	utils.SendList(c, "posts", posts)
}

// GetMapPins returns posts with coordinates, optionally within radius_km of lat/lng
func (pc *PostController) GetMapPins(c *gin.Context) {
	var query services.MapQuery

	lat, latOK, err := floatQuery(c, "lat")
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	lng, lngOK, err := floatQuery(c, "lng")
	if err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}
	if latOK != lngOK {
		utils.SendValidationError(c, "lat and lng must be given together")
		return
	}
	if latOK {
		query.Latitude, query.Longitude = &lat, &lng
	}
	if query.RadiusKm, _, err = floatQuery(c, "radius_km"); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	pins, err := pc.postService.MapPins(c.Request.Context(), query)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	utils.SendList(c, "pins", pins)
}

func (pc *PostController) GetStats(c *gin.Context) {
	stats, err := pc.postService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (pc *PostController) GetPost(c *gin.Context) {
	post, err := pc.postService.Get(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (pc *PostController) CreatePost(c *gin.Context) {
	var req models.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	post, err := pc.postService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	utils.SendCreated(c, "Post created successfully", post)
}

func (pc *PostController) ClaimPost(c *gin.Context) {
	var req ClaimRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.SendValidationError(c, err.Error())
			return
		}
	}

	post, err := pc.postService.Claim(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), req.Message)
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	utils.SendSuccess(c, "Post claimed successfully", post)
}

func (pc *PostController) ApprovePickup(c *gin.Context) {
	post, err := pc.postService.ApprovePickup(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	utils.SendSuccess(c, "Pickup approved", post)
}

func (pc *PostController) CompletePost(c *gin.Context) {
	post, err := pc.postService.ConfirmCompletion(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	utils.SendSuccess(c, "Exchange completed", post)
}

func (pc *PostController) CancelClaim(c *gin.Context) {
	post, err := pc.postService.CancelClaim(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, pc.logger, err)
		return
	}

	utils.SendSuccess(c, "Claim cancelled", post)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	if err := pc.postService.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, pc.logger, err)
		return
	}

	utils.SendMessage(c, "Post deleted successfully")
}

// floatQuery parses an optional float query parameter
func floatQuery(c *gin.Context, key string) (float64, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be a number", key)
	}
	return v, true, nil
}
