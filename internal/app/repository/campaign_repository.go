package repository

import (
	"context"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/docstore"
)

type CampaignRepository interface {
	Create(ctx context.Context, campaign *model.Campaign) error
	FindByID(ctx context.Context, id string) (*model.Campaign, error)
	FindByBusiness(ctx context.Context, businessID string) ([]model.Campaign, error)
	FindByStatus(ctx context.Context, statuses ...model.CampaignStatus) ([]model.Campaign, error)
	UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error
}

type campaignRepository struct {
	coll docstore.Collection
}

func NewCampaignRepository(store docstore.Store) CampaignRepository {
	return &campaignRepository{coll: store.Collection(CampaignsCollection)}
}

func setCampaignID(c *model.Campaign, id string) { c.ID = id }

func (r *campaignRepository) Create(ctx context.Context, campaign *model.Campaign) error {
	doc, err := docstore.Encode(campaign)
	if err != nil {
		return err
	}
	id, err := r.coll.Add(ctx, doc)
	if err != nil {
		return err
	}
	campaign.ID = id
	return r.coll.Update(ctx, id, map[string]any{"adId": id})
}

func (r *campaignRepository) FindByID(ctx context.Context, id string) (*model.Campaign, error) {
	doc, err := r.coll.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var campaign model.Campaign
	if err := docstore.Decode(doc, &campaign); err != nil {
		return nil, err
	}
	campaign.ID = id
	return &campaign, nil
}

func (r *campaignRepository) FindByBusiness(ctx context.Context, businessID string) ([]model.Campaign, error) {
	snaps, err := r.coll.Query(ctx, docstore.NewQuery().
		Where("businessId", docstore.OpEqual, businessID).
		OrderBy("startDate", true))
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, setCampaignID)
}

func (r *campaignRepository) FindByStatus(ctx context.Context, statuses ...model.CampaignStatus) ([]model.Campaign, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}
	snaps, err := r.coll.Query(ctx, docstore.NewQuery().Where("status", docstore.OpIn, values))
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, setCampaignID)
}

func (r *campaignRepository) UpdateStatus(ctx context.Context, id string, status model.CampaignStatus) error {
	return r.coll.Update(ctx, id, map[string]any{"status": string(status)})
}
