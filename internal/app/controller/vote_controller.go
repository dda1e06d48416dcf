package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/service"
	"github.com/guialocal/guialocal-backend/internal/middleware"
)

type VoteController struct {
	voteService service.VoteService
}

func NewVoteController(voteService service.VoteService) *VoteController {
	return &VoteController{voteService: voteService}
}

type VoteRequest struct {
	Type model.VoteType `json:"type"`
}

// Vote POST /businesses/:id/vote {type: like|dislike}
// Repeating the current vote removes it.
func (ctrl *VoteController) Vote(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	businessID := c.Param("id")
	result, err := ctrl.voteService.Vote(c.Request.Context(), businessID, actor.UserID, req.Type)
	if err != nil {
		respondError(c, err, "vote business", map[string]interface{}{
			"business_id": businessID,
			"type":        req.Type,
		})
		return
	}

	middleware.GetLoggerFromContext(c).Debug("Vote applied", map[string]interface{}{
		"business_id": businessID,
		"user_id":     actor.UserID,
		"state":       result.State,
	})
	c.JSON(http.StatusOK, result)
}

// GetMyVote GET /businesses/:id/vote
func (ctrl *VoteController) GetMyVote(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	businessID := c.Param("id")
	state, err := ctrl.voteService.GetUserVote(c.Request.Context(), businessID, actor.UserID)
	if err != nil {
		respondError(c, err, "get vote", map[string]interface{}{"business_id": businessID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}
