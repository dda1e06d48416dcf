package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/internal/app/service"
	"github.com/guialocal/guialocal-backend/internal/middleware"
)

type BusinessController struct {
	businessService service.BusinessService
}

func NewBusinessController(businessService service.BusinessService) *BusinessController {
	return &BusinessController{businessService: businessService}
}

type ForcedStatusRequest struct {
	Status model.ForcedStatus `json:"status"`
}

type TrackEventRequest struct {
	Event string `json:"event" binding:"required"`
}

// ListBusinesses GET /businesses?city&state&category
// Listing order is boost, diamond, rest. A store failure yields an empty list.
func (ctrl *BusinessController) ListBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.BusinessFilter{
		City:     c.Query("city"),
		State:    c.Query("state"),
		Category: c.Query("category"),
	}
	businesses, err := ctrl.businessService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "list businesses", nil)
		return
	}

	log.Debug("Businesses listed", map[string]interface{}{
		"count": len(businesses),
		"city":  filter.City,
	})

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

func (ctrl *BusinessController) GetBusiness(c *gin.Context) {
	business, err := ctrl.businessService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "get business", map[string]interface{}{"business_id": c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": business})
}

// ListMyBusinesses GET /me/businesses
func (ctrl *BusinessController) ListMyBusinesses(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	businesses, err := ctrl.businessService.ListByOwner(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err, "list owner businesses", map[string]interface{}{"user_id": actor.UserID})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

func (ctrl *BusinessController) CreateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.BusinessMutation
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	created, err := ctrl.businessService.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "create business", map[string]interface{}{"user_id": actor.UserID})
		return
	}

	log.Info("Business created", map[string]interface{}{
		"business_id": created.ID,
		"owner_id":    created.OwnerID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Estabelecimento cadastrado com sucesso",
		"business": created,
	})
}

func (ctrl *BusinessController) UpdateBusiness(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req service.BusinessMutation
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	id := c.Param("id")
	updated, err := ctrl.businessService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err, "update business", map[string]interface{}{
			"business_id": id,
			"user_id":     actor.UserID,
		})
		return
	}

	log.Info("Business updated", map[string]interface{}{
		"business_id": id,
		"user_id":     actor.UserID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Estabelecimento atualizado com sucesso",
		"business": updated,
	})
}

func (ctrl *BusinessController) DeleteBusiness(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := ctrl.businessService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err, "delete business", map[string]interface{}{"business_id": id})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Business deleted", map[string]interface{}{
		"business_id": id,
		"user_id":     actor.UserID,
	})
	c.JSON(http.StatusOK, gin.H{"message": "Estabelecimento removido com sucesso"})
}

// ClaimBusiness POST /businesses/:id/claim
func (ctrl *BusinessController) ClaimBusiness(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	id := c.Param("id")
	claimed, err := ctrl.businessService.Claim(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "claim business", map[string]interface{}{"business_id": id})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Business claimed", map[string]interface{}{
		"business_id": id,
		"user_id":     actor.UserID,
	})
	c.JSON(http.StatusOK, gin.H{
		"message":  "Estabelecimento vinculado à sua conta",
		"business": claimed,
	})
}

// SetForcedStatus PUT /businesses/:id/status {status: ""|open|closed}
func (ctrl *BusinessController) SetForcedStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req ForcedStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	id := c.Param("id")
	updated, err := ctrl.businessService.SetForcedStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, err, "update business status", map[string]interface{}{"business_id": id})
		return
	}
	c.JSON(http.StatusOK, gin.H{"business": updated})
}

// TrackEvent POST /businesses/:id/track {event}
func (ctrl *BusinessController) TrackEvent(c *gin.Context) {
	var req TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	id := c.Param("id")
	if err := ctrl.businessService.TrackEvent(c.Request.Context(), id, req.Event); err != nil {
		respondError(c, err, "track business event", map[string]interface{}{
			"business_id": id,
			"event":       req.Event,
		})
		return
	}
	c.Status(http.StatusNoContent)
}
