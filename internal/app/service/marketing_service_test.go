package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guialocal/guialocal-backend/internal/app/model"
)

func TestMarketingService_CreateActivatesBoost(t *testing.T) {
	repos := newTestRepos()
	clock := fixedClock(10, 0)
	svc := NewMarketingService(repos.campaigns, repos.businesses, clock)
	ctx := context.Background()
	seedBusinesses(t, repos.businesses, model.Business{ID: "b1", Name: "Loja"})

	_, err := svc.CreateCampaign(ctx, ownerActor, CampaignInput{BusinessID: "b1", Type: model.CampaignBoost, DurationDays: 7})
	assert.ErrorIs(t, err, ErrAdminOnly)

	_, err = svc.CreateCampaign(ctx, adminActor, CampaignInput{BusinessID: "b1", Type: "banner", DurationDays: 7})
	assert.ErrorIs(t, err, ErrInvalidCampaign)

	_, err = svc.CreateCampaign(ctx, adminActor, CampaignInput{BusinessID: "b1", Type: model.CampaignBoost})
	assert.ErrorIs(t, err, ErrInvalidCampaign, "campaign needs an end")

	campaign, err := svc.CreateCampaign(ctx, adminActor, CampaignInput{
		BusinessID: "b1", Type: model.CampaignBoost, Price: 49.9, DurationDays: 7,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, campaign.ID)
	assert.Equal(t, model.CampaignActive, campaign.Status)

	business, err := repos.businesses.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, business.Marketing.Boost.LiveAt(clock.Now()))
	assert.Equal(t, campaign.EndDate, business.Marketing.Boost.ExpiresAt)
	assert.False(t, business.Marketing.Ad.Active)

	list, err := svc.ListByBusiness(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMarketingService_CancelClearsFlags(t *testing.T) {
	repos := newTestRepos()
	svc := NewMarketingService(repos.campaigns, repos.businesses, fixedClock(10, 0))
	ctx := context.Background()
	seedBusinesses(t, repos.businesses, model.Business{ID: "b1", Name: "Loja"})

	campaign, err := svc.CreateCampaign(ctx, adminActor, CampaignInput{BusinessID: "b1", Type: model.CampaignAd, DurationDays: 3})
	require.NoError(t, err)

	cancelled, err := svc.CancelCampaign(ctx, adminActor, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignCancelled, cancelled.Status)

	_, err = svc.CancelCampaign(ctx, adminActor, campaign.ID)
	assert.ErrorIs(t, err, ErrCampaignNotCancelable)
	_, err = svc.CancelCampaign(ctx, adminActor, "missing")
	assert.ErrorIs(t, err, ErrCampaignNotFound)

	business, err := repos.businesses.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, business.Marketing.Ad.Active)
	assert.Equal(t, int64(0), business.Marketing.Ad.ExpiresAt)
}

func TestMarketingService_ExpireCampaigns(t *testing.T) {
	repos := newTestRepos()
	start := time.Date(2025, time.March, 1, 9, 0, 0, 0, saoPaulo)
	now := start
	clock := Clock{Location: saoPaulo, NowFunc: func() time.Time { return now }}
	svc := NewMarketingService(repos.campaigns, repos.businesses, clock)
	ctx := context.Background()
	seedBusinesses(t, repos.businesses, model.Business{ID: "b1", Name: "Loja"})

	short, err := svc.CreateCampaign(ctx, adminActor, CampaignInput{BusinessID: "b1", Type: model.CampaignBoost, DurationDays: 1})
	require.NoError(t, err)
	long, err := svc.CreateCampaign(ctx, adminActor, CampaignInput{BusinessID: "b1", Type: model.CampaignBoost, DurationDays: 10})
	require.NoError(t, err)

	changed, err := svc.ExpireCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, changed)

	now = start.Add(48 * time.Hour)
	changed, err = svc.ExpireCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	stored, err := repos.campaigns.FindByID(ctx, short.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignExpired, stored.Status)

	business, err := repos.businesses.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, business.Marketing.Boost.Active)
	assert.Equal(t, long.EndDate, business.Marketing.Boost.ExpiresAt)

	now = start.Add(11 * 24 * time.Hour)
	changed, err = svc.ExpireCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	business, err = repos.businesses.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, business.Marketing.Boost.Active)
}

func TestMarketingService_ScheduledCampaignActivatesOnSweep(t *testing.T) {
	repos := newTestRepos()
	start := time.Date(2025, time.March, 1, 9, 0, 0, 0, saoPaulo)
	now := start
	clock := Clock{Location: saoPaulo, NowFunc: func() time.Time { return now }}
	svc := NewMarketingService(repos.campaigns, repos.businesses, clock)
	ctx := context.Background()
	seedBusinesses(t, repos.businesses, model.Business{ID: "b1", Name: "Loja"})

	campaign, err := svc.CreateCampaign(ctx, adminActor, CampaignInput{
		BusinessID: "b1",
		Type:       model.CampaignAd,
		StartDate:  start.Add(24 * time.Hour).UnixMilli(),
		EndDate:    start.Add(72 * time.Hour).UnixMilli(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CampaignScheduled, campaign.Status)

	now = start.Add(25 * time.Hour)
	changed, err := svc.ExpireCampaigns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, changed)

	business, err := repos.businesses.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, business.Marketing.Ad.Active)
}
