package service

import (
	"sort"
	"strings"
	"time"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/pkg/util"
)

// Ranking weights. A live boost always outranks plan and distance.
const (
	BoostWeight   = 1000.0
	DiamondWeight = 100.0
	GoldWeight    = 50.0

	// ConversationalLimit caps results handed to the assistant.
	ConversationalLimit = 5
)

// SearchQuery drives SearchBusinesses. Zero values disable each filter;
// Limit <= 0 means unbounded.
type SearchQuery struct {
	Query            string
	FilterOpen       bool
	UserLocation     *util.GeoPoint
	InferredCategory string
	Limit            int
}

// RankedBusiness is a business with the request-time values computed for it.
type RankedBusiness struct {
	model.Business
	IsOpen     bool     `json:"is_open"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Score      float64  `json:"score"`
}

// SearchBusinesses filters and ranks corpus without side effects. now must
// already be in the business time zone.
//
// Text matching is a case-insensitive substring test on name, category or
// description. When nothing matches and an inferred category is given, the
// category alone is matched against it instead.
func SearchBusinesses(corpus []model.Business, q SearchQuery, now time.Time) []RankedBusiness {
	matched := matchText(corpus, strings.TrimSpace(q.Query))
	if len(matched) == 0 && strings.TrimSpace(q.InferredCategory) != "" {
		category := strings.TrimSpace(q.InferredCategory)
		for i := range corpus {
			if util.ContainsFold(corpus[i].Category, category) {
				matched = append(matched, corpus[i])
			}
		}
	}

	ranked := RankBusinesses(matched, q.UserLocation, now)
	if q.FilterOpen {
		open := ranked[:0]
		for _, r := range ranked {
			if r.IsOpen {
				open = append(open, r)
			}
		}
		ranked = open
	}
	if q.Limit > 0 && len(ranked) > q.Limit {
		ranked = ranked[:q.Limit]
	}
	return ranked
}

func matchText(corpus []model.Business, query string) []model.Business {
	if query == "" {
		return append([]model.Business(nil), corpus...)
	}
	var out []model.Business
	for i := range corpus {
		b := &corpus[i]
		if util.ContainsFold(b.Name, query) ||
			util.ContainsFold(b.Category, query) ||
			util.ContainsFold(b.Description, query) {
			out = append(out, *b)
		}
	}
	return out
}

// RankBusinesses scores every business and sorts by descending score. Equal
// scores keep their input order.
func RankBusinesses(businesses []model.Business, userLocation *util.GeoPoint, now time.Time) []RankedBusiness {
	ranked := make([]RankedBusiness, 0, len(businesses))
	for i := range businesses {
		b := businesses[i]
		score, distance := ScoreBusiness(&b, userLocation, now)
		ranked = append(ranked, RankedBusiness{
			Business:   b,
			IsOpen:     b.IsOpenAt(now),
			DistanceKm: distance,
			Score:      score,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// ScoreBusiness returns the ranking score and, when both the user and the
// business have coordinates, the distance in kilometres. Distance is
// subtracted from the score; a business without coordinates gets no
// distance term.
func ScoreBusiness(b *model.Business, userLocation *util.GeoPoint, now time.Time) (float64, *float64) {
	score := 0.0
	if b.Marketing.Boost.LiveAt(now) {
		score += BoostWeight
	}
	switch {
	case b.IsDiamond():
		score += DiamondWeight
	case b.IsGold():
		score += GoldWeight
	}

	if userLocation == nil {
		return score, nil
	}
	loc, ok := b.Location()
	if !ok {
		return score, nil
	}
	km := util.DistanceBetween(*userLocation, loc)
	return score - km, &km
}

// SortForListing orders a listing with no text query: live boosts first,
// then diamond plans, then everything else, each tier in input order.
func SortForListing(businesses []model.Business, now time.Time) []model.Business {
	out := append([]model.Business(nil), businesses...)
	tier := func(b *model.Business) int {
		switch {
		case b.Marketing.Boost.LiveAt(now):
			return 0
		case b.IsDiamond():
			return 1
		}
		return 2
	}
	sort.SliceStable(out, func(i, j int) bool {
		return tier(&out[i]) < tier(&out[j])
	})
	return out
}
