package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/pkg/places"
)

func newHybrid(t *testing.T, provider *fakeProvider) (*HybridSearchService, testRepos, *[]time.Duration) {
	t.Helper()
	repos := newTestRepos()
	clock := fixedClock(10, 0)

	var pp PlaceProvider
	if provider != nil {
		pp = provider
	}
	importer := NewImportService(repos.businesses, pp, nil, clock)
	svc := NewHybridSearchService(repos.businesses, importer, pp, HybridSearchConfig{
		MaxPages:  3,
		PageDelay: 2 * time.Second,
	}, clock)

	var waits []time.Duration
	svc.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return svc, repos, &waits
}

func place(id, name string) places.Place {
	return places.Place{
		PlaceID:          id,
		Name:             name,
		FormattedAddress: "Av. Leopoldino de Oliveira, 100 - Mercês, Uberaba - MG, 38010-000",
		Types:            []string{"pharmacy"},
	}
}

func TestHybridSearch_BackfillPagesAndSaves(t *testing.T) {
	provider := &fakeProvider{pages: []places.TextSearchResponse{
		{Results: []places.Place{place("p1", "Drogaria Um"), place("p2", "Drogaria Dois")}, NextPageToken: "t2"},
		{Results: []places.Place{place("p3", "Drogaria Três")}, NextPageToken: "t3"},
		{Results: []places.Place{place("p4", "Drogaria Quatro")}, NextPageToken: "t4"},
		{Results: []places.Place{place("p5", "Nunca buscada")}},
	}}
	svc, repos, waits := newHybrid(t, provider)
	ctx := context.Background()
	seedBusinesses(t, repos.businesses, model.Business{
		ID: "local", Name: "Drogaria Local", Category: "Farmácia", City: "Uberaba",
	})

	result, err := svc.Search(ctx, HybridSearchRequest{Term: "drogaria", City: "Uberaba"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Local)
	assert.Equal(t, 4, result.Imported)
	assert.Len(t, result.Results, 5)
	assert.Equal(t, "local", result.Results[0].ID)

	require.Len(t, provider.requests, 3, "page ceiling")
	assert.Equal(t, "drogaria em Uberaba", provider.requests[0].Query)
	assert.True(t, provider.requests[0].Paginate, "paging callers skip the first-page cache")
	assert.Equal(t, "t2", provider.requests[1].PageToken)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, *waits)
	assert.Equal(t, 0, provider.detailCalls, "backfill skips detail enrichment")

	saved, err := repos.businesses.FindByID(ctx, "gp_p3")
	require.NoError(t, err)
	assert.Equal(t, model.OwnerAdminImport, saved.OwnerID)
	assert.Equal(t, "Farmácia", saved.Category)
	assert.Equal(t, "Uberaba", saved.City)
}

func TestHybridSearch_SecondSearchDoesNotDuplicate(t *testing.T) {
	page := places.TextSearchResponse{Results: []places.Place{place("p1", "Drogaria Um")}}
	provider := &fakeProvider{pages: []places.TextSearchResponse{page, page}}
	svc, repos, _ := newHybrid(t, provider)
	ctx := context.Background()

	first, err := svc.Search(ctx, HybridSearchRequest{Term: "drogaria"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Imported)

	second, err := svc.Search(ctx, HybridSearchRequest{Term: "drogaria"})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 1, second.Local)

	all, err := repos.businesses.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestHybridSearch_ProviderErrorDegrades(t *testing.T) {
	provider := &fakeProvider{searchErr: places.ErrRequestDenied}
	svc, repos, _ := newHybrid(t, provider)
	seedBusinesses(t, repos.businesses, model.Business{ID: "local", Name: "Drogaria Local"})

	result, err := svc.Search(context.Background(), HybridSearchRequest{Term: "drogaria"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Local)
	assert.Equal(t, 0, result.Imported)
}

func TestHybridSearch_NoBackfillWithoutTermOrProvider(t *testing.T) {
	provider := &fakeProvider{}
	svc, repos, _ := newHybrid(t, provider)
	seedBusinesses(t, repos.businesses, model.Business{ID: "a", Name: "A"}, model.Business{ID: "b", Name: "B"})

	result, err := svc.Search(context.Background(), HybridSearchRequest{Term: "  "})
	require.NoError(t, err)
	assert.Len(t, result.Results, 2)
	assert.Empty(t, provider.requests)

	offline, _, _ := newHybrid(t, nil)
	result, err = offline.Search(context.Background(), HybridSearchRequest{Term: "drogaria"})
	require.NoError(t, err)
	assert.Empty(t, result.Results)
}

func TestHybridSearch_BackfillIgnoresCallerCancellation(t *testing.T) {
	provider := &fakeProvider{pages: []places.TextSearchResponse{{Results: []places.Place{place("p1", "Drogaria Um")}}}}
	svc, _, _ := newHybrid(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	saved := svc.BackfillFromProvider(ctx, HybridSearchRequest{Term: "drogaria"})
	assert.Len(t, saved, 1)
}

func TestHybridSearch_RanksByDistance(t *testing.T) {
	svc, repos, _ := newHybrid(t, nil)
	seedBusinesses(t, repos.businesses,
		model.Business{ID: "far", Name: "Pet Longe", Latitude: ptr(-20.5), Longitude: ptr(-47.4)},
		model.Business{ID: "near", Name: "Pet Perto", Latitude: ptr(-19.75), Longitude: ptr(-47.94)},
	)

	result, err := svc.Search(context.Background(), HybridSearchRequest{Term: "pet", Lat: ptr(-19.7472), Lng: ptr(-47.9381)})
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "near", result.Results[0].ID)
	require.NotNil(t, result.Results[0].DistanceKm)
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, sleepContext(ctx, time.Hour))
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
}
