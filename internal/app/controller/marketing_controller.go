package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guialocal/guialocal-backend/internal/app/service"
	"github.com/guialocal/guialocal-backend/internal/middleware"
)

type MarketingController struct {
	marketingService service.MarketingService
}

func NewMarketingController(marketingService service.MarketingService) *MarketingController {
	return &MarketingController{marketingService: marketingService}
}

// CreateCampaign POST /admin/campaigns
func (ctrl *MarketingController) CreateCampaign(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var input service.CampaignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		invalidInput(c, err)
		return
	}

	campaign, err := ctrl.marketingService.CreateCampaign(c.Request.Context(), actor, input)
	if err != nil {
		respondError(c, err, "create campaign", map[string]interface{}{
			"business_id": input.BusinessID,
			"type":        input.Type,
		})
		return
	}

	middleware.GetLoggerFromContext(c).Info("Campaign created", map[string]interface{}{
		"campaign_id": campaign.ID,
		"business_id": campaign.BusinessID,
		"status":      campaign.Status,
	})
	c.JSON(http.StatusCreated, gin.H{"campaign": campaign})
}

// CancelCampaign POST /admin/campaigns/:id/cancel
func (ctrl *MarketingController) CancelCampaign(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	campaign, err := ctrl.marketingService.CancelCampaign(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err, "cancel campaign", map[string]interface{}{"campaign_id": c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaign": campaign})
}

// ListCampaigns GET /businesses/:id/campaigns
func (ctrl *MarketingController) ListCampaigns(c *gin.Context) {
	campaigns, err := ctrl.marketingService.ListByBusiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "list campaigns", map[string]interface{}{"business_id": c.Param("id")})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"campaigns": campaigns,
		"count":     len(campaigns),
	})
}
