package model

import (
	"time"

	"github.com/guialocal/guialocal-backend/pkg/util"
)

// ForcedStatus lets an owner override the computed open/closed state.
// The zero value means automatic.
type ForcedStatus string

const (
	ForcedStatusAuto   ForcedStatus = ""
	ForcedStatusOpen   ForcedStatus = "open"
	ForcedStatusClosed ForcedStatus = "closed"
)

func (f ForcedStatus) Valid() bool {
	switch f {
	case ForcedStatusAuto, ForcedStatusOpen, ForcedStatusClosed:
		return true
	}
	return false
}

// Plan is the paid listing tier.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanGold    Plan = "gold"
	PlanDiamond Plan = "diamond"
)

func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanGold, PlanDiamond:
		return true
	}
	return false
}

// Owner sentinels. A business whose owner_id is one of these is unclaimed.
const (
	OwnerAdminImport  = "admin_import"
	OwnerAdminCreated = "admin_created"
	OwnerUnknown      = "unknown_owner"
)

// IsUnclaimedOwner reports whether ownerID is a sentinel rather than a user.
func IsUnclaimedOwner(ownerID string) bool {
	switch ownerID {
	case "", OwnerAdminImport, OwnerAdminCreated, OwnerUnknown:
		return true
	}
	return false
}

// Promotion is a time-boxed marketing flag denormalized from a campaign.
type Promotion struct {
	Active    bool  `json:"active"`
	ExpiresAt int64 `json:"expiresAt"` // epoch millis
}

// LiveAt reports whether the promotion is active and not yet expired.
func (p Promotion) LiveAt(now time.Time) bool {
	return p.Active && p.ExpiresAt > now.UnixMilli()
}

type Marketing struct {
	Boost Promotion `json:"boost"`
	Ad    Promotion `json:"ad"`
}

// Analytics counters never go below zero.
type Analytics struct {
	Views          int64 `json:"views"`
	Clicks         int64 `json:"clicks"`
	Appearances    int64 `json:"appearances"`
	WhatsappClicks int64 `json:"whatsapp_clicks"`
	Likes          int64 `json:"likes"`
	Dislikes       int64 `json:"dislikes"`
}

type Business struct {
	ID            string `json:"business_id"`               // immutable document id
	GooglePlaceID string `json:"google_place_id,omitempty"` // unique across businesses when set

	Name         string `json:"name"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Address      string `json:"address"` // full one-line address
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"` // UF code for Brazilian addresses
	ZipCode      string `json:"zip_code"`
	Country      string `json:"country"`

	Phone    string   `json:"phone"`
	Whatsapp string   `json:"whatsapp,omitempty"` // E.164
	Website  string   `json:"website,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Photos   []string `json:"photos,omitempty"`

	OpenTime     string       `json:"open_time"`  // "HH:MM"
	CloseTime    string       `json:"close_time"` // "HH:MM"
	ForcedStatus ForcedStatus `json:"forced_status,omitempty"`

	OwnerID   string `json:"owner_id"`
	Verified  bool   `json:"verified"`
	IsPremium bool   `json:"is_premium"`
	Plan      Plan   `json:"plan"`

	Marketing Marketing `json:"marketing"`
	Analytics Analytics `json:"analytics"`

	Rating             float64 `json:"rating"`       // mean of approved reviews
	ReviewCount        int     `json:"review_count"` // approved reviews only
	GoogleRating       float64 `json:"google_rating,omitempty"`
	GoogleRatingsTotal int     `json:"google_ratings_total,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	CreatedAt int64 `json:"created_at"` // epoch millis
	UpdatedAt int64 `json:"updated_at"` // epoch millis
}

// ApplyDefaults fills zero-valued fields a stored record must carry.
func (b *Business) ApplyDefaults() {
	if b.Plan == "" {
		b.Plan = PlanFree
	}
	if b.OwnerID == "" {
		b.OwnerID = OwnerUnknown
	}
	if b.Photos == nil {
		b.Photos = []string{}
	}
}

// IsOpenAt evaluates the open/closed state at now. A forced status wins;
// otherwise the business is open inside [open_time, close_time) on now's
// wall clock. Callers pass now already converted to the business time zone.
func (b *Business) IsOpenAt(now time.Time) bool {
	switch b.ForcedStatus {
	case ForcedStatusOpen:
		return true
	case ForcedStatusClosed:
		return false
	}
	return util.WithinHours(b.OpenTime, b.CloseTime, now)
}

// Location returns the business coordinates when both are present.
func (b *Business) Location() (util.GeoPoint, bool) {
	if b.Latitude == nil || b.Longitude == nil {
		return util.GeoPoint{}, false
	}
	return util.GeoPoint{Lat: *b.Latitude, Lng: *b.Longitude}, true
}

// IsClaimed reports whether a real user owns the record.
func (b *Business) IsClaimed() bool {
	return !IsUnclaimedOwner(b.OwnerID)
}

// IsDiamond and IsGold look at the plan only. is_premium is a display flag
// and carries no ranking weight.
func (b *Business) IsDiamond() bool {
	return b.Plan == PlanDiamond
}

func (b *Business) IsGold() bool {
	return b.Plan == PlanGold
}

// ImportedBusinessID derives the document id for a provider place.
func ImportedBusinessID(placeID string) string {
	return "gp_" + placeID
}
