package service

import (
	"context"
	"errors"
	"time"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/internal/docstore"
	"github.com/guialocal/guialocal-backend/pkg/logger"
)

var (
	ErrCampaignNotFound      = errors.New("campanha não encontrada")
	ErrInvalidCampaign       = errors.New("dados da campanha inválidos")
	ErrCampaignNotCancelable = errors.New("campanha não pode ser cancelada")
)

// CampaignInput creates a boost or ad. EndDate wins over DurationDays;
// StartDate defaults to now.
type CampaignInput struct {
	BusinessID   string             `json:"businessId" binding:"required"`
	Type         model.CampaignType `json:"type" binding:"required"`
	Price        float64            `json:"price"`
	StartDate    int64              `json:"startDate"`
	EndDate      int64              `json:"endDate"`
	DurationDays int                `json:"durationDays"`
}

type MarketingService interface {
	CreateCampaign(ctx context.Context, actor Actor, input CampaignInput) (*model.Campaign, error)
	CancelCampaign(ctx context.Context, actor Actor, id string) (*model.Campaign, error)
	ListByBusiness(ctx context.Context, businessID string) ([]model.Campaign, error)
	// ExpireCampaigns advances campaign statuses and refreshes the marketing
	// flags of every affected business. It returns the number of campaigns
	// whose status changed.
	ExpireCampaigns(ctx context.Context) (int, error)
}

type marketingService struct {
	campaigns  repository.CampaignRepository
	businesses repository.BusinessRepository
	clock      Clock
}

func NewMarketingService(campaigns repository.CampaignRepository, businesses repository.BusinessRepository, clock Clock) MarketingService {
	return &marketingService{campaigns: campaigns, businesses: businesses, clock: clock}
}

func (s *marketingService) CreateCampaign(ctx context.Context, actor Actor, input CampaignInput) (*model.Campaign, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if !input.Type.Valid() || input.Price < 0 {
		return nil, ErrInvalidCampaign
	}
	if _, err := s.businesses.FindByID(ctx, input.BusinessID); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	now := s.clock.Now()
	start := input.StartDate
	if start == 0 {
		start = now.UnixMilli()
	}
	end := input.EndDate
	if end == 0 && input.DurationDays > 0 {
		end = time.UnixMilli(start).Add(time.Duration(input.DurationDays) * 24 * time.Hour).UnixMilli()
	}
	if end <= start {
		return nil, ErrInvalidCampaign
	}

	campaign := &model.Campaign{
		BusinessID: input.BusinessID,
		Type:       input.Type,
		Price:      input.Price,
		StartDate:  start,
		EndDate:    end,
		CreatedBy:  actor.UserID,
		CreatedAt:  now.UnixMilli(),
	}
	campaign.Status = campaign.StatusAt(now)

	if err := s.campaigns.Create(ctx, campaign); err != nil {
		logger.Error("Failed to create campaign", err, map[string]interface{}{
			"business_id": input.BusinessID,
		})
		return nil, err
	}
	logger.Info("Campaign created", map[string]interface{}{
		"ad_id":       campaign.ID,
		"business_id": campaign.BusinessID,
		"type":        campaign.Type,
		"status":      campaign.Status,
	})

	if err := s.refreshMarketing(ctx, campaign.BusinessID); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *marketingService) CancelCampaign(ctx context.Context, actor Actor, id string) (*model.Campaign, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	campaign, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	if campaign.Status == model.CampaignCancelled || campaign.Status == model.CampaignExpired {
		return nil, ErrCampaignNotCancelable
	}

	if err := s.campaigns.UpdateStatus(ctx, id, model.CampaignCancelled); err != nil {
		return nil, err
	}
	campaign.Status = model.CampaignCancelled
	logger.Info("Campaign cancelled", map[string]interface{}{
		"ad_id":    id,
		"admin_id": actor.UserID,
	})

	if err := s.refreshMarketing(ctx, campaign.BusinessID); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *marketingService) ListByBusiness(ctx context.Context, businessID string) ([]model.Campaign, error) {
	return s.campaigns.FindByBusiness(ctx, businessID)
}

func (s *marketingService) ExpireCampaigns(ctx context.Context) (int, error) {
	open, err := s.campaigns.FindByStatus(ctx, model.CampaignScheduled, model.CampaignActive)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	changed := 0
	affected := map[string]struct{}{}
	var order []string
	for i := range open {
		c := &open[i]
		next := c.StatusAt(now)
		if next == c.Status {
			continue
		}
		if err := s.campaigns.UpdateStatus(ctx, c.ID, next); err != nil {
			logger.Error("Failed to update campaign status", err, map[string]interface{}{
				"ad_id": c.ID,
			})
			continue
		}
		changed++
		if _, seen := affected[c.BusinessID]; !seen {
			affected[c.BusinessID] = struct{}{}
			order = append(order, c.BusinessID)
		}
	}

	for _, businessID := range order {
		if err := s.refreshMarketing(ctx, businessID); err != nil {
			logger.Error("Failed to refresh business marketing", err, map[string]interface{}{
				"business_id": businessID,
			})
		}
	}

	if changed > 0 {
		logger.Info("Campaign sweep finished", map[string]interface{}{
			"changed":    changed,
			"businesses": len(order),
		})
	}
	return changed, nil
}

// refreshMarketing mirrors the live campaigns of a business onto its
// marketing flags. The latest end date among active campaigns of a type
// becomes that promotion's expiry.
func (s *marketingService) refreshMarketing(ctx context.Context, businessID string) error {
	campaigns, err := s.campaigns.FindByBusiness(ctx, businessID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	var boost, ad model.Promotion
	for i := range campaigns {
		c := &campaigns[i]
		if c.StatusAt(now) != model.CampaignActive {
			continue
		}
		target := &boost
		if c.Type == model.CampaignAd {
			target = &ad
		}
		target.Active = true
		if c.EndDate > target.ExpiresAt {
			target.ExpiresAt = c.EndDate
		}
	}

	err = s.businesses.Update(ctx, businessID, map[string]any{
		"marketing.boost.active":    boost.Active,
		"marketing.boost.expiresAt": boost.ExpiresAt,
		"marketing.ad.active":       ad.Active,
		"marketing.ad.expiresAt":    ad.ExpiresAt,
	})
	if errors.Is(err, docstore.ErrNotFound) {
		return nil
	}
	return err
}
