package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guialocal/guialocal-backend/internal/app/service"
)

type ReviewController struct {
	reviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{
		reviewService: reviewService,
	}
}

// CreateReview POST /businesses/:id/reviews
// Ratings below 3 are held for moderation.
func (ctrl *ReviewController) CreateReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input service.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidInput(c, err)
		return
	}

	businessID := c.Param("id")
	review, err := ctrl.reviewService.CreateReview(c.Request.Context(), businessID, actor.UserID, input)
	if err != nil {
		respondError(c, err, "create review", map[string]interface{}{"business_id": businessID})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// ListBusinessReviews GET /businesses/:id/reviews (approved only)
func (ctrl *ReviewController) ListBusinessReviews(c *gin.Context) {
	businessID := c.Param("id")
	reviews, err := ctrl.reviewService.ListApproved(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, err, "list reviews", map[string]interface{}{"business_id": businessID})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ListPendingReviews GET /admin/reviews/pending
func (ctrl *ReviewController) ListPendingReviews(c *gin.Context) {
	reviews, err := ctrl.reviewService.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, err, "list pending reviews", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"count":   len(reviews),
	})
}

// ApproveReview POST /admin/reviews/:id/approve
func (ctrl *ReviewController) ApproveReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	review, err := ctrl.reviewService.Approve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "approve review", map[string]interface{}{"review_id": c.Param("id")})
		return
	}

	c.JSON(http.StatusOK, gin.H{"review": review})
}

// DeleteReview DELETE /reviews/:id (author or admin)
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	if err := ctrl.reviewService.DeleteReview(c.Request.Context(), actor, c.Param("id")); err != nil {
		respondError(c, err, "delete review", map[string]interface{}{"review_id": c.Param("id")})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Avaliação removida com sucesso"})
}
