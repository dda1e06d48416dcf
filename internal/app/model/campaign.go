package model

import "time"

type CampaignType string

const (
	CampaignBoost CampaignType = "boost"
	CampaignAd    CampaignType = "ad"
)

func (t CampaignType) Valid() bool {
	return t == CampaignBoost || t == CampaignAd
}

type CampaignStatus string

const (
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignActive    CampaignStatus = "active"
	CampaignExpired   CampaignStatus = "expired"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Campaign is a paid boost or ad. Live campaigns are mirrored onto
// Business.Marketing.
type Campaign struct {
	ID         string         `json:"adId"`
	BusinessID string         `json:"businessId"`
	Type       CampaignType   `json:"type"`
	Price      float64        `json:"price"`
	StartDate  int64          `json:"startDate"` // epoch millis
	EndDate    int64          `json:"endDate"`   // epoch millis
	Status     CampaignStatus `json:"status"`
	CreatedBy  string         `json:"createdBy"`
	CreatedAt  int64          `json:"createdAt"`
}

// StatusAt derives the lifecycle state at now. Cancelled is terminal.
func (c *Campaign) StatusAt(now time.Time) CampaignStatus {
	if c.Status == CampaignCancelled {
		return CampaignCancelled
	}
	ms := now.UnixMilli()
	switch {
	case ms >= c.EndDate:
		return CampaignExpired
	case ms < c.StartDate:
		return CampaignScheduled
	}
	return CampaignActive
}
