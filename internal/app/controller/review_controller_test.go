package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/service"
)

func TestVoteController_Toggle(t *testing.T) {
	env := setupControllerTest(t)
	ctrl := NewVoteController(service.NewVoteService(env.votes, env.businesses, env.clock))
	env.router.POST("/businesses/:id/vote", ctrl.Vote)
	env.router.GET("/businesses/:id/vote", ctrl.GetMyVote)
	env.seed(t, model.Business{ID: "b1", Name: "Sorveteria"})

	vote := func(kind string) service.VoteResult {
		w := perform(env.router, http.MethodPost, "/businesses/b1/vote", map[string]interface{}{"type": kind}, "user-1", model.RoleUser)
		require.Equal(t, http.StatusOK, w.Code)
		var result service.VoteResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		return result
	}

	result := vote("like")
	assert.Equal(t, model.VoteLike, result.State)
	assert.Equal(t, int64(1), result.Likes)

	result = vote("dislike")
	assert.Equal(t, model.VoteDislike, result.State)
	assert.Equal(t, int64(0), result.Likes)
	assert.Equal(t, int64(1), result.Dislikes)

	result = vote("dislike")
	assert.Equal(t, model.VoteNone, result.State)
	assert.Equal(t, int64(0), result.Dislikes)

	w := perform(env.router, http.MethodGet, "/businesses/b1/vote", nil, "user-1", model.RoleUser)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decode(t, w)["state"])

	w = perform(env.router, http.MethodPost, "/businesses/b1/vote", map[string]interface{}{"type": "love"}, "user-1", model.RoleUser)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VOTE_INVALID_TYPE", decode(t, w)["error"])
}

func TestReviewController_Moderation(t *testing.T) {
	env := setupControllerTest(t)
	reviewService := service.NewReviewService(env.reviews, env.businesses, env.clock)
	ctrl := NewReviewController(reviewService)
	env.router.POST("/businesses/:id/reviews", ctrl.CreateReview)
	env.router.GET("/businesses/:id/reviews", ctrl.ListBusinessReviews)
	env.router.GET("/admin/reviews/pending", ctrl.ListPendingReviews)
	env.router.POST("/admin/reviews/:id/approve", ctrl.ApproveReview)
	env.router.DELETE("/reviews/:id", ctrl.DeleteReview)
	env.seed(t, model.Business{ID: "b1", Name: "Hamburgueria"})

	create := func(userID string, rating int) model.Review {
		w := perform(env.router, http.MethodPost, "/businesses/b1/reviews", map[string]interface{}{
			"rating":    rating,
			"comment":   "comentário",
			"user_name": "Cliente",
		}, userID, model.RoleUser)
		require.Equal(t, http.StatusCreated, w.Code)
		var response struct {
			Review model.Review `json:"review"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		return response.Review
	}

	good := create("user-1", 5)
	assert.Equal(t, model.ReviewApproved, good.Status)
	bad := create("user-2", 2)
	assert.Equal(t, model.ReviewPending, bad.Status)

	w := perform(env.router, http.MethodGet, "/businesses/b1/reviews", nil, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = perform(env.router, http.MethodGet, "/admin/reviews/pending", nil, "admin-1", model.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = perform(env.router, http.MethodPost, "/admin/reviews/"+bad.ID+"/approve", nil, "user-2", model.RoleUser)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(env.router, http.MethodPost, "/admin/reviews/"+bad.ID+"/approve", nil, "admin-1", model.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)

	business, err := env.businesses.FindByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 2, business.ReviewCount)
	assert.Equal(t, 3.5, business.Rating)

	w = perform(env.router, http.MethodPost, "/admin/reviews/"+bad.ID+"/approve", nil, "admin-1", model.RoleAdmin)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "REVIEW_ALREADY_PUBLIC", decode(t, w)["error"])

	w = perform(env.router, http.MethodDelete, "/reviews/"+good.ID, nil, "user-2", model.RoleUser)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(env.router, http.MethodDelete, "/reviews/"+good.ID, nil, "user-1", model.RoleUser)
	assert.Equal(t, http.StatusOK, w.Code)

	business, err = env.businesses.FindByID(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, business.ReviewCount)
	assert.Equal(t, 2.0, business.Rating)
}

func TestReviewController_CreateReview_Validation(t *testing.T) {
	env := setupControllerTest(t)
	ctrl := NewReviewController(service.NewReviewService(env.reviews, env.businesses, env.clock))
	env.router.POST("/businesses/:id/reviews", ctrl.CreateReview)
	env.seed(t, model.Business{ID: "b1", Name: "Hamburgueria"})

	w := perform(env.router, http.MethodPost, "/businesses/b1/reviews", map[string]interface{}{"rating": 9}, "user-1", model.RoleUser)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "REVIEW_INVALID_RATING", decode(t, w)["error"])

	w = perform(env.router, http.MethodPost, "/businesses/missing/reviews", map[string]interface{}{"rating": 4}, "user-1", model.RoleUser)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(env.router, http.MethodPost, "/businesses/b1/reviews", map[string]interface{}{}, "user-1", model.RoleUser)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", decode(t, w)["error"])
}
