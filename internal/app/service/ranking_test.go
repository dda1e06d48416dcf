package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/pkg/util"
)

func names(ranked []RankedBusiness) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Name)
	}
	return out
}

func TestSearchBusinesses_TextMatch(t *testing.T) {
	now := fixedClock(10, 0).Now()
	corpus := []model.Business{
		{ID: "1", Name: "Pizzaria Napoli", Category: "Restaurante"},
		{ID: "2", Name: "Farmácia Popular", Category: "Farmácia"},
		{ID: "3", Name: "Cantina", Category: "Restaurante", Description: "Pizza no forno a lenha"},
	}

	got := SearchBusinesses(corpus, SearchQuery{Query: "PIZZA"}, now)
	assert.Equal(t, []string{"Pizzaria Napoli", "Cantina"}, names(got))

	all := SearchBusinesses(corpus, SearchQuery{}, now)
	assert.Len(t, all, 3)
}

func TestSearchBusinesses_InferredCategoryFallback(t *testing.T) {
	now := fixedClock(10, 0).Now()
	corpus := []model.Business{
		{ID: "1", Name: "Drogaria São João", Category: "Farmácia"},
		{ID: "2", Name: "Padaria Central", Category: "Padaria"},
	}

	got := SearchBusinesses(corpus, SearchQuery{Query: "remédio", InferredCategory: "farmácia"}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	none := SearchBusinesses(corpus, SearchQuery{Query: "remédio"}, now)
	assert.Empty(t, none)
}

func TestSearchBusinesses_FilterOpen(t *testing.T) {
	now := fixedClock(20, 0).Now()
	corpus := []model.Business{
		{ID: "1", Name: "Bar do Zé", OpenTime: "18:00", CloseTime: "23:00"},
		{ID: "2", Name: "Bar Fechado", OpenTime: "08:00", CloseTime: "12:00"},
		{ID: "3", Name: "Bar Forçado", OpenTime: "08:00", CloseTime: "12:00", ForcedStatus: model.ForcedStatusOpen},
	}

	got := SearchBusinesses(corpus, SearchQuery{Query: "bar", FilterOpen: true}, now)
	assert.Equal(t, []string{"Bar do Zé", "Bar Forçado"}, names(got))
	for _, r := range got {
		assert.True(t, r.IsOpen)
	}
}

func TestSearchBusinesses_BoostOutranksDistanceAndPlan(t *testing.T) {
	now := fixedClock(10, 0).Now()
	user := &util.GeoPoint{Lat: -19.7472, Lng: -47.9381}
	boostUntil := now.Add(24 * time.Hour).UnixMilli()

	corpus := []model.Business{
		{ID: "near", Name: "Perto", Latitude: ptr(-19.7472), Longitude: ptr(-47.9381)},
		{ID: "diamond", Name: "Diamante", Plan: model.PlanDiamond, Latitude: ptr(-19.80), Longitude: ptr(-47.90)},
		{ID: "boost", Name: "Impulsionado", Latitude: ptr(-20.5), Longitude: ptr(-47.4),
			Marketing: model.Marketing{Boost: model.Promotion{Active: true, ExpiresAt: boostUntil}}},
		{ID: "expired", Name: "Expirado",
			Marketing: model.Marketing{Boost: model.Promotion{Active: true, ExpiresAt: now.Add(-time.Hour).UnixMilli()}}},
	}

	got := SearchBusinesses(corpus, SearchQuery{UserLocation: user}, now)
	require.Len(t, got, 4)
	assert.Equal(t, "boost", got[0].ID)
	assert.Equal(t, "diamond", got[1].ID)
	assert.Equal(t, "near", got[2].ID)
	assert.Equal(t, "expired", got[3].ID, "equal scores keep input order")

	require.NotNil(t, got[2].DistanceKm)
	assert.InDelta(t, 0, *got[2].DistanceKm, 0.001)
	assert.Nil(t, got[3].DistanceKm)
}

func TestSearchBusinesses_StableAndLimited(t *testing.T) {
	now := fixedClock(10, 0).Now()
	var corpus []model.Business
	for _, n := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		corpus = append(corpus, model.Business{ID: n, Name: "Loja " + n})
	}

	got := SearchBusinesses(corpus, SearchQuery{Query: "loja", Limit: ConversationalLimit}, now)
	assert.Equal(t, []string{"Loja a", "Loja b", "Loja c", "Loja d", "Loja e"}, names(got))
}

func TestScoreBusiness_PremiumFlagAloneScoresZero(t *testing.T) {
	now := fixedClock(10, 0).Now()
	premium := model.Business{Plan: model.PlanFree, IsPremium: true}
	score, distance := ScoreBusiness(&premium, nil, now)
	assert.Equal(t, 0.0, score)
	assert.Nil(t, distance)

	gold := model.Business{Plan: model.PlanGold}
	score, _ = ScoreBusiness(&gold, nil, now)
	assert.Equal(t, GoldWeight, score)
}

func TestSortForListing(t *testing.T) {
	now := fixedClock(10, 0).Now()
	live := model.Marketing{Boost: model.Promotion{Active: true, ExpiresAt: now.Add(time.Hour).UnixMilli()}}
	in := []model.Business{
		{ID: "free1"},
		{ID: "diamond", Plan: model.PlanDiamond},
		{ID: "gold", Plan: model.PlanGold},
		{ID: "boost", Marketing: live},
		{ID: "free2"},
	}

	out := SortForListing(in, now)
	var ids []string
	for _, b := range out {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []string{"boost", "diamond", "free1", "gold", "free2"}, ids)
	assert.Equal(t, "free1", in[0].ID, "input is not reordered")
}
