package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/internal/docstore"
	"github.com/guialocal/guialocal-backend/pkg/places"
)

var saoPaulo = mustLocation("America/Sao_Paulo")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// fixedClock returns a clock frozen at the given wall time in São Paulo.
func fixedClock(hour, minute int) Clock {
	at := time.Date(2025, time.March, 10, hour, minute, 0, 0, saoPaulo)
	return Clock{Location: saoPaulo, NowFunc: func() time.Time { return at }}
}

func ptr[T any](v T) *T { return &v }

type testRepos struct {
	store      docstore.Store
	businesses repository.BusinessRepository
	votes      repository.VoteRepository
	reviews    repository.ReviewRepository
	campaigns  repository.CampaignRepository
	categories repository.CategoryRepository
}

func newTestRepos() testRepos {
	store := docstore.NewMemoryStore()
	return testRepos{
		store:      store,
		businesses: repository.NewBusinessRepository(store),
		votes:      repository.NewVoteRepository(store),
		reviews:    repository.NewReviewRepository(store),
		campaigns:  repository.NewCampaignRepository(store),
		categories: repository.NewCategoryRepository(store),
	}
}

func seedBusinesses(t *testing.T, repo repository.BusinessRepository, businesses ...model.Business) {
	t.Helper()
	for i := range businesses {
		require.NoError(t, repo.Save(context.Background(), &businesses[i]))
	}
}

var errStoreDown = errors.New("store unavailable")

// failingBusinessRepo fails every read.
type failingBusinessRepo struct {
	repository.BusinessRepository
}

func (failingBusinessRepo) FindAll(context.Context) ([]model.Business, error) {
	return nil, errStoreDown
}

func (failingBusinessRepo) FindByFilter(context.Context, repository.BusinessFilter) ([]model.Business, error) {
	return nil, errStoreDown
}

// fakeProvider serves canned text-search pages and details.
type fakeProvider struct {
	pages       []places.TextSearchResponse
	details     map[string]*places.Details
	detailsErr  error
	searchErr   error
	requests    []places.TextSearchRequest
	detailCalls int
}

func (f *fakeProvider) TextSearch(_ context.Context, req places.TextSearchRequest) (*places.TextSearchResponse, error) {
	f.requests = append(f.requests, req)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	idx := len(f.requests) - 1
	if idx >= len(f.pages) {
		return &places.TextSearchResponse{Status: "ZERO_RESULTS", Results: []places.Place{}}, nil
	}
	page := f.pages[idx]
	return &page, nil
}

func (f *fakeProvider) Details(_ context.Context, placeID string) (*places.Details, error) {
	f.detailCalls++
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	if d, ok := f.details[placeID]; ok {
		return d, nil
	}
	return nil, places.ErrNotFound
}

func (f *fakeProvider) PhotoURL(reference string, maxWidth int) string {
	if reference == "" {
		return ""
	}
	return "https://photos.test/" + reference
}

type fakeGeocoder struct {
	loc   *places.LatLng
	err   error
	calls int
}

func (f *fakeGeocoder) Geocode(context.Context, string) (*places.LatLng, error) {
	f.calls++
	return f.loc, f.err
}
