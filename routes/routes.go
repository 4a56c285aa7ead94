// File: /routes/routes.go
package routes

import (
	"foodshare-api/config"
	"foodshare-api/controllers"
	"foodshare-api/middleware"
	"foodshare-api/services"
	"github.com/gin-gonic/gin"
	"log/slog"
)

func SetupRoutes(r *gin.Engine, svc *services.Services, cfg *config.Config, logger *slog.Logger) {
	// Controllers
	postController := controllers.NewPostController(svc.Posts, logger)
	interactionController := controllers.NewInteractionController(svc.Interactions, logger)
	ratingController := controllers.NewRatingController(svc.Ratings, logger)
	notificationController := controllers.NewNotificationController(svc.Notifications, logger)
	userController := controllers.NewUserController(svc.Ratings, logger)

	validator := middleware.NewTokenValidator(cfg.JWTSecret)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
			"email":   emailStatus(cfg),
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Public routes, tailored to the caller when a token is sent
	public := v1.Group("/")
	public.Use(middleware.OptionalAuth(validator))
	{
		public.GET("/posts", postController.GetPosts)
		public.GET("/posts/map", postController.GetMapPins)
		public.GET("/posts/stats", postController.GetStats)
		public.GET("/posts/:id", postController.GetPost)
		public.GET("/users/:id/profile", userController.GetProfile)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		protected.GET("/users/me", userController.GetMe)

		// Post routes
		posts := protected.Group("/posts")
		{
			posts.POST("", postController.CreatePost)
			posts.GET("/mine", postController.GetMyPosts)
			posts.POST("/:id/claim", postController.ClaimPost)
			posts.POST("/:id/approve-pickup", postController.ApprovePickup)
			posts.POST("/:id/complete", postController.CompletePost)
			posts.POST("/:id/cancel-claim", postController.CancelClaim)
			posts.DELETE("/:id", postController.DeletePost)
			posts.GET("/:id/rating-prompt", ratingController.GetRatingPrompt)
			posts.POST("/:id/ratings", ratingController.CreateRating)
		}

		// Interaction routes
		interactions := protected.Group("/interactions")
		{
			interactions.GET("", interactionController.GetInteractions)
			interactions.PUT("/:id/message", interactionController.UpdateMessage)
			interactions.POST("/:id/approve", interactionController.ApproveInteraction)
			interactions.POST("/:id/reject", interactionController.RejectInteraction)
		}

		// Notification routes
		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationController.GetNotifications)
			notifications.GET("/stats", notificationController.GetNotificationStats)
			notifications.PUT("/read-all", notificationController.MarkAllAsRead)
			notifications.PUT("/:id/read", notificationController.MarkAsRead)
		}
	}
}

func emailStatus(cfg *config.Config) string {
	if cfg.EmailEnabled() {
		return "configured"
	}
	return "disabled"
}
