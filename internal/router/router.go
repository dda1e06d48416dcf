package router

import (
	"github.com/gin-gonic/gin"

	"github.com/guialocal/guialocal-backend/config"
	"github.com/guialocal/guialocal-backend/internal/app/controller"
	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/metrics"
	"github.com/guialocal/guialocal-backend/internal/middleware"
)

// Controllers groups the HTTP handlers the router mounts.
type Controllers struct {
	Business  *controller.BusinessController
	Vote      *controller.VoteController
	Review    *controller.ReviewController
	Marketing *controller.MarketingController
	Category  *controller.CategoryController
	Places    *controller.PlacesController
	Chat      *controller.ChatController
	Upload    *controller.UploadController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter
	metrics        *metrics.Metrics
	config         *config.Config
}

func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	m *metrics.Metrics,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		metrics:        m,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware(r.metrics))
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "GuiaLocal API is running",
		})
	})
	router.GET("/metrics", gin.WrapH(r.metrics.Handler()))

	auth := r.authMiddleware
	admin := []gin.HandlerFunc{auth.Authenticate(), auth.RequireRole(model.RoleAdmin)}
	limited := r.rateLimiter.Middleware()
	ctrl := r.controllers

	v1 := router.Group("/api/v1")
	{
		businesses := v1.Group("/businesses")
		{
			businesses.GET("", ctrl.Business.ListBusinesses)
			businesses.GET("/:id", ctrl.Business.GetBusiness)
			businesses.POST("", auth.Authenticate(), ctrl.Business.CreateBusiness)
			businesses.PUT("/:id", auth.Authenticate(), ctrl.Business.UpdateBusiness)
			businesses.DELETE("/:id", append(admin, ctrl.Business.DeleteBusiness)...)
			businesses.POST("/:id/claim", auth.Authenticate(), ctrl.Business.ClaimBusiness)
			businesses.PUT("/:id/status", auth.Authenticate(), ctrl.Business.SetForcedStatus)
			businesses.POST("/:id/track", limited, ctrl.Business.TrackEvent)

			businesses.POST("/:id/vote", auth.Authenticate(), ctrl.Vote.Vote)
			businesses.GET("/:id/vote", auth.Authenticate(), ctrl.Vote.GetMyVote)

			businesses.GET("/:id/reviews", ctrl.Review.ListBusinessReviews)
			businesses.POST("/:id/reviews", auth.Authenticate(), ctrl.Review.CreateReview)

			businesses.GET("/:id/campaigns", append(admin, ctrl.Marketing.ListCampaigns)...)
		}

		// Legacy singular path still used by older clients.
		v1.POST("/business/:id/vote", auth.Authenticate(), ctrl.Vote.Vote)

		v1.GET("/me/businesses", auth.Authenticate(), ctrl.Business.ListMyBusinesses)
		v1.DELETE("/reviews/:id", auth.Authenticate(), ctrl.Review.DeleteReview)
		v1.GET("/categories", ctrl.Category.ListCategories)

		v1.POST("/search/hybrid", limited, ctrl.Places.HybridSearch)
		v1.POST("/chat", limited, ctrl.Chat.Chat)
		v1.POST("/upload/presigned-url", auth.Authenticate(), ctrl.Upload.GeneratePresignedURL)

		adminGroup := v1.Group("/admin", admin...)
		{
			adminGroup.POST("/places/search", ctrl.Places.SearchPlaces)
			adminGroup.POST("/places/import", ctrl.Places.ImportPlaces)

			adminGroup.GET("/reviews/pending", ctrl.Review.ListPendingReviews)
			adminGroup.POST("/reviews/:id/approve", ctrl.Review.ApproveReview)

			adminGroup.POST("/campaigns", ctrl.Marketing.CreateCampaign)
			adminGroup.POST("/campaigns/:id/cancel", ctrl.Marketing.CancelCampaign)

			adminGroup.POST("/categories", ctrl.Category.CreateCategory)
			adminGroup.DELETE("/categories/:id", ctrl.Category.DeleteCategory)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Authorization, Accept, Origin, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
