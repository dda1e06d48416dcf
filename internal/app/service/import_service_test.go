package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/pkg/places"
)

type countingRecorder map[string]int

// saveLimitRepo accepts a fixed number of saves and then fails.
type saveLimitRepo struct {
	repository.BusinessRepository
	remaining int
}

func (r *saveLimitRepo) Save(ctx context.Context, b *model.Business) error {
	if r.remaining == 0 {
		return errStoreDown
	}
	r.remaining--
	return r.BusinessRepository.Save(ctx, b)
}

func (c countingRecorder) RecordImport(outcome string) { c[outcome]++ }

func bakeryCandidate() places.Place {
	return places.Place{
		PlaceID:          "ChIJbakery",
		Name:             "Padaria Pão Bom",
		FormattedAddress: "R. Tristão de Castro, 1119 - São Benedito, Uberaba - MG, 38022-200",
		Types:            []string{"bakery", "food", "store"},
		Rating:           4.6,
		UserRatingsTotal: 210,
		Geometry:         places.Geometry{Location: places.LatLng{Lat: -19.75, Lng: -47.93}},
		Photos:           []places.Photo{{PhotoReference: "p1"}, {PhotoReference: "p2"}},
	}
}

func bakeryDetails() *places.Details {
	return &places.Details{
		Place:                    bakeryCandidate(),
		FormattedPhoneNumber:     "(34) 99876-5432",
		InternationalPhoneNumber: "+55 34 99876-5432",
		Website:                  "https://paobom.com.br",
		AddressComponents: []places.AddressComponent{
			{LongName: "1119", ShortName: "1119", Types: []string{"street_number"}},
			{LongName: "Rua Tristão de Castro", ShortName: "R. Tristão de Castro", Types: []string{"route"}},
			{LongName: "São Benedito", ShortName: "São Benedito", Types: []string{"sublocality_level_1", "sublocality"}},
			{LongName: "Uberaba", ShortName: "Uberaba", Types: []string{"administrative_area_level_2", "political"}},
			{LongName: "Minas Gerais", ShortName: "MG", Types: []string{"administrative_area_level_1", "political"}},
			{LongName: "Brasil", ShortName: "BR", Types: []string{"country", "political"}},
			{LongName: "38022-200", ShortName: "38022-200", Types: []string{"postal_code"}},
		},
		OpeningHours: &places.OpeningHours{Periods: []places.Period{{
			Open:  places.TimeOfWeek{Day: 1, Time: "0600"},
			Close: &places.TimeOfWeek{Day: 1, Time: "2000"},
		}}},
		Reviews: []places.Review{{AuthorName: "Ana", Rating: 5, Text: strings.Repeat("Pão quentinho ", 20)}},
	}
}

func TestImportCandidates_FullPipeline(t *testing.T) {
	repos := newTestRepos()
	provider := &fakeProvider{details: map[string]*places.Details{"ChIJbakery": bakeryDetails()}}
	recorder := countingRecorder{}
	svc := NewImportService(repos.businesses, provider, recorder, fixedClock(10, 0))
	ctx := context.Background()

	result, err := svc.ImportCandidates(ctx, []places.Place{bakeryCandidate()}, ImportOptions{RequirePhone: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 1, recorder["imported"])

	b, err := repos.businesses.FindByID(ctx, "gp_ChIJbakery")
	require.NoError(t, err)
	assert.Equal(t, "ChIJbakery", b.GooglePlaceID)
	assert.Equal(t, "Padaria", b.Category)
	assert.Equal(t, "Rua Tristão de Castro", b.Street)
	assert.Equal(t, "1119", b.Number)
	assert.Equal(t, "São Benedito", b.Neighborhood)
	assert.Equal(t, "Uberaba", b.City)
	assert.Equal(t, "MG", b.State)
	assert.Equal(t, "38022-200", b.ZipCode)
	assert.Equal(t, "Brasil", b.Country)
	assert.Equal(t, "(34) 99876-5432", b.Phone)
	assert.Equal(t, "+5534998765432", b.Whatsapp)
	assert.Equal(t, "06:00", b.OpenTime)
	assert.Equal(t, "20:00", b.CloseTime)
	assert.Equal(t, model.OwnerAdminImport, b.OwnerID)
	assert.True(t, b.Verified)
	assert.Equal(t, []string{"https://photos.test/p1", "https://photos.test/p2"}, b.Photos)
	assert.Equal(t, 4.6, b.GoogleRating)
	require.NotNil(t, b.Latitude)
	assert.Equal(t, -19.75, *b.Latitude)

	assert.Contains(t, b.Description, "Padaria em Uberaba.")
	assert.Contains(t, b.Description, "Nota 4.6 no Google (210 avaliações).")
	assert.Contains(t, b.Description, `..."`)
}

func TestImportCandidates_Idempotent(t *testing.T) {
	repos := newTestRepos()
	provider := &fakeProvider{details: map[string]*places.Details{"ChIJbakery": bakeryDetails()}}
	svc := NewImportService(repos.businesses, provider, nil, fixedClock(10, 0))
	ctx := context.Background()

	_, err := svc.ImportCandidates(ctx, []places.Place{bakeryCandidate()}, ImportOptions{})
	require.NoError(t, err)

	again, err := svc.ImportCandidates(ctx, []places.Place{bakeryCandidate()}, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Imported)
	assert.Equal(t, 1, again.Skipped)

	renamed := bakeryCandidate()
	renamed.PlaceID = "ChIJother"
	byName, err := svc.ImportCandidates(ctx, []places.Place{renamed}, ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, byName.Skipped, "exact name match is a duplicate")

	all, err := repos.businesses.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 1, provider.detailCalls, "duplicates are not enriched")
}

func TestImportCandidates_DetailFailureContinues(t *testing.T) {
	repos := newTestRepos()
	provider := &fakeProvider{detailsErr: places.ErrQuotaExceeded}
	svc := NewImportService(repos.businesses, provider, nil, fixedClock(10, 0))
	ctx := context.Background()

	candidate := places.Place{
		PlaceID:          "ChIJshop",
		Name:             "Loja Sem Detalhes",
		FormattedAddress: "Centro, Sítio Novo",
		Types:            []string{"establishment"},
	}
	result, err := svc.ImportCandidates(ctx, []places.Place{candidate}, ImportOptions{DefaultCity: "Uberaba"})
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	b := result.Businesses[0]
	assert.Equal(t, "Uberaba", b.City, "unparseable address falls back to default city")
	assert.Equal(t, "Estabelecimento", b.Category)
	assert.Empty(t, b.Phone)
	assert.Empty(t, b.OpenTime)
	assert.Equal(t, "Estabelecimento em Uberaba.", b.Description)
}

func TestImportCandidates_PhoneGate(t *testing.T) {
	repos := newTestRepos()
	details := bakeryDetails()
	details.FormattedPhoneNumber = ""
	details.InternationalPhoneNumber = ""
	provider := &fakeProvider{details: map[string]*places.Details{"ChIJbakery": details}}
	recorder := countingRecorder{}
	svc := NewImportService(repos.businesses, provider, recorder, fixedClock(10, 0))

	result, err := svc.ImportCandidates(context.Background(), []places.Place{bakeryCandidate()}, ImportOptions{RequirePhone: true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, recorder["no_phone"])
}

func TestImportCandidates_LandlineHasNoWhatsapp(t *testing.T) {
	repos := newTestRepos()
	details := bakeryDetails()
	details.FormattedPhoneNumber = "(34) 3333-4444"
	details.InternationalPhoneNumber = "+55 34 3333-4444"
	details.EditorialSummary = &places.EditorialSummary{Overview: "Padaria tradicional do bairro."}
	details.OpeningHours = &places.OpeningHours{Periods: []places.Period{{Open: places.TimeOfWeek{Time: "0000"}}}}
	provider := &fakeProvider{details: map[string]*places.Details{"ChIJbakery": details}}
	svc := NewImportService(repos.businesses, provider, nil, fixedClock(10, 0))

	result, err := svc.ImportCandidates(context.Background(), []places.Place{bakeryCandidate()}, ImportOptions{})
	require.NoError(t, err)
	require.Len(t, result.Businesses, 1)

	b := result.Businesses[0]
	assert.Equal(t, "(34) 3333-4444", b.Phone)
	assert.Empty(t, b.Whatsapp)
	assert.Equal(t, "Padaria tradicional do bairro.", b.Description)
	assert.Equal(t, "00:00", b.OpenTime)
	assert.Equal(t, "23:59", b.CloseTime)
}

func TestSearchProvider(t *testing.T) {
	repos := newTestRepos()
	unconfigured := NewImportService(repos.businesses, nil, nil, fixedClock(10, 0))
	_, err := unconfigured.SearchProvider(context.Background(), "padaria", nil, 0)
	assert.ErrorIs(t, err, ErrProviderUnavailable)

	provider := &fakeProvider{pages: []places.TextSearchResponse{{Results: []places.Place{bakeryCandidate()}, NextPageToken: "next"}}}
	svc := NewImportService(repos.businesses, provider, nil, fixedClock(10, 0))
	results, err := svc.SearchProvider(context.Background(), "padaria em Uberaba", &places.LatLng{Lat: -19.7, Lng: -47.9}, 5000)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	require.Len(t, provider.requests, 1, "admin search fetches a single page")
	assert.Equal(t, 5000, provider.requests[0].Radius)
	assert.False(t, provider.requests[0].Paginate)
}

func TestImportCandidates_StoreFailureKeepsCounts(t *testing.T) {
	repos := newTestRepos()
	repo := &saveLimitRepo{BusinessRepository: repos.businesses, remaining: 1}
	svc := NewImportService(repo, &fakeProvider{}, nil, fixedClock(10, 0))
	ctx := context.Background()

	second := bakeryCandidate()
	second.PlaceID, second.Name = "ChIJsecond", "Padaria Nova"
	third := bakeryCandidate()
	third.PlaceID, third.Name = "ChIJthird", "Padaria Central"

	result, err := svc.ImportCandidates(ctx, []places.Place{
		bakeryCandidate(),
		{Name: "Sem identificador"},
		second,
		third,
	}, ImportOptions{})
	assert.ErrorIs(t, err, errStoreDown)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	_, err = repos.businesses.FindByPlaceID(ctx, "ChIJthird")
	assert.Error(t, err, "the batch stops at the failing candidate")
}
