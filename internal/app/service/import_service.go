package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/internal/docstore"
	"github.com/guialocal/guialocal-backend/pkg/logger"
	"github.com/guialocal/guialocal-backend/pkg/places"
	"github.com/guialocal/guialocal-backend/pkg/util"
)

const (
	maxImportedPhotos   = 5
	photoMaxWidth       = 800
	reviewSnippetLength = 100
)

var ErrProviderUnavailable = errors.New("busca de lugares não configurada")

// PlaceProvider is the subset of the places client the pipeline needs.
type PlaceProvider interface {
	TextSearch(ctx context.Context, req places.TextSearchRequest) (*places.TextSearchResponse, error)
	Details(ctx context.Context, placeID string) (*places.Details, error)
}

// photoLinker is implemented by providers that can turn photo references
// into URLs.
type photoLinker interface {
	PhotoURL(reference string, maxWidth int) string
}

type ImportOptions struct {
	RequirePhone bool   `json:"requirePhone"`
	DefaultCity  string `json:"defaultCity"`
}

type ImportResult struct {
	Imported   int              `json:"imported"`
	Skipped    int              `json:"skipped"`
	Businesses []model.Business `json:"businesses"`
}

// ImportRecorder observes pipeline outcomes. internal/metrics implements it.
type ImportRecorder interface {
	RecordImport(outcome string)
}

type ImportService struct {
	repo     repository.BusinessRepository
	provider PlaceProvider
	recorder ImportRecorder
	clock    Clock
	region   string
}

// NewImportService builds the pipeline. provider may be nil when the places
// API is not configured; imports of posted candidates still work without
// enrichment.
func NewImportService(repo repository.BusinessRepository, provider PlaceProvider, recorder ImportRecorder, clock Clock) *ImportService {
	return &ImportService{
		repo:     repo,
		provider: provider,
		recorder: recorder,
		clock:    clock,
		region:   "BR",
	}
}

// SearchProvider returns a single page of provider results for the admin
// to pick candidates from.
func (s *ImportService) SearchProvider(ctx context.Context, query string, location *places.LatLng, radius int) ([]places.Place, error) {
	if s.provider == nil {
		return nil, ErrProviderUnavailable
	}
	resp, err := s.provider.TextSearch(ctx, places.TextSearchRequest{
		Query:    query,
		Location: location,
		Radius:   radius,
	})
	if err != nil {
		logger.Error("Places text search failed", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}
	return resp.Results, nil
}

// ImportCandidates runs each candidate through the pipeline in order.
// Duplicates and candidates failing the phone gate are skipped; a store
// failure aborts the batch and the counts reached so far are returned with
// the error.
func (s *ImportService) ImportCandidates(ctx context.Context, candidates []places.Place, opts ImportOptions) (*ImportResult, error) {
	logger.Info("Importing place candidates", map[string]interface{}{
		"count":         len(candidates),
		"require_phone": opts.RequirePhone,
		"default_city":  opts.DefaultCity,
	})

	result := &ImportResult{Businesses: []model.Business{}}
	for i := range candidates {
		candidate := &candidates[i]

		duplicate, err := s.isDuplicate(ctx, candidate)
		if err != nil {
			return result, err
		}
		if duplicate {
			result.Skipped++
			s.record("duplicate")
			continue
		}

		details := s.enrich(ctx, candidate)
		business := s.buildBusiness(candidate, details, opts)

		if opts.RequirePhone && business.Phone == "" {
			logger.Debug("Skipping candidate without phone", map[string]interface{}{
				"place_id": candidate.PlaceID,
			})
			result.Skipped++
			s.record("no_phone")
			continue
		}

		if err := s.repo.Save(ctx, business); err != nil {
			logger.Error("Failed to save imported business", err, map[string]interface{}{
				"place_id": candidate.PlaceID,
			})
			return result, err
		}
		result.Imported++
		result.Businesses = append(result.Businesses, *business)
		s.record("imported")
	}

	logger.Info("Place import finished", map[string]interface{}{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})
	return result, nil
}

// SaveSearchResult stores a text-search result without detail enrichment.
// It reports false when the place is already in the directory.
func (s *ImportService) SaveSearchResult(ctx context.Context, candidate places.Place, defaultCity string) (*model.Business, bool, error) {
	duplicate, err := s.isDuplicate(ctx, &candidate)
	if err != nil || duplicate {
		if duplicate {
			s.record("duplicate")
		}
		return nil, false, err
	}
	business := s.buildBusiness(&candidate, nil, ImportOptions{DefaultCity: defaultCity})
	if err := s.repo.Save(ctx, business); err != nil {
		return nil, false, err
	}
	s.record("imported")
	return business, true, nil
}

// isDuplicate checks the place id first, then the exact name.
func (s *ImportService) isDuplicate(ctx context.Context, candidate *places.Place) (bool, error) {
	if candidate.PlaceID == "" || strings.TrimSpace(candidate.Name) == "" {
		return true, nil
	}
	if _, err := s.repo.FindByPlaceID(ctx, candidate.PlaceID); err == nil {
		return true, nil
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return false, err
	}
	if _, err := s.repo.FindByName(ctx, candidate.Name); err == nil {
		logger.Debug("Candidate matches an existing business name", map[string]interface{}{
			"place_id": candidate.PlaceID,
			"name":     candidate.Name,
		})
		return true, nil
	} else if !errors.Is(err, docstore.ErrNotFound) {
		return false, err
	}
	return false, nil
}

// enrich fetches place details. Failures are logged and the candidate
// continues with its search data.
func (s *ImportService) enrich(ctx context.Context, candidate *places.Place) *places.Details {
	if s.provider == nil {
		return nil
	}
	details, err := s.provider.Details(ctx, candidate.PlaceID)
	if err != nil {
		logger.Warn("Place details unavailable, importing search data only", map[string]interface{}{
			"place_id": candidate.PlaceID,
			"error":    err.Error(),
		})
		return nil
	}
	return details
}

func (s *ImportService) buildBusiness(candidate *places.Place, details *places.Details, opts ImportOptions) *model.Business {
	source := candidate
	if details != nil {
		// Details repeat the search fields; prefer them when present.
		merged := details.Place
		if merged.PlaceID == "" {
			merged.PlaceID = candidate.PlaceID
		}
		if merged.Name == "" {
			merged.Name = candidate.Name
		}
		if merged.FormattedAddress == "" {
			merged.FormattedAddress = candidate.FormattedAddress
		}
		if len(merged.Types) == 0 {
			merged.Types = candidate.Types
		}
		if merged.Geometry.Location == (places.LatLng{}) {
			merged.Geometry = candidate.Geometry
		}
		if len(merged.Photos) == 0 {
			merged.Photos = candidate.Photos
		}
		if merged.Rating == 0 {
			merged.Rating = candidate.Rating
			merged.UserRatingsTotal = candidate.UserRatingsTotal
		}
		source = &merged
	}

	now := s.clock.Now().UnixMilli()
	business := &model.Business{
		ID:                 model.ImportedBusinessID(source.PlaceID),
		GooglePlaceID:      source.PlaceID,
		Name:               strings.TrimSpace(source.Name),
		Category:           MapCategory(source.Types),
		Address:            source.FormattedAddress,
		OwnerID:            model.OwnerAdminImport,
		Verified:           true,
		Plan:               model.PlanFree,
		GoogleRating:       source.Rating,
		GoogleRatingsTotal: source.UserRatingsTotal,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	s.resolveAddress(business, details, opts.DefaultCity)

	if loc := source.Geometry.Location; loc != (places.LatLng{}) {
		lat, lng := loc.Lat, loc.Lng
		business.Latitude, business.Longitude = &lat, &lng
	}

	if details != nil {
		s.applyContact(business, details)
		business.Website = details.Website
		business.OpenTime, business.CloseTime = hoursFromPeriods(details.OpeningHours)
	}

	business.Description = describe(business, details)
	business.Photos = s.photoURLs(source.Photos)
	if len(business.Photos) > 0 {
		business.ImageURL = business.Photos[0]
	}
	business.ApplyDefaults()
	return business
}

// resolveAddress prefers structured components, then the parsed one-line
// address, then the default city.
func (s *ImportService) resolveAddress(b *model.Business, details *places.Details, defaultCity string) {
	if details != nil {
		b.Street, _ = details.Component("route")
		b.Number, _ = details.Component("street_number")
		if n, ok := details.Component("sublocality_level_1"); ok {
			b.Neighborhood = n
		} else {
			b.Neighborhood, _ = details.Component("sublocality")
		}
		if city, ok := details.Component("administrative_area_level_2"); ok {
			b.City = city
		} else {
			b.City, _ = details.Component("locality")
		}
		b.State, _ = details.ShortComponent("administrative_area_level_1")
		b.ZipCode, _ = details.Component("postal_code")
		b.Country, _ = details.Component("country")
	}

	if b.City == "" || b.State == "" {
		parsed := util.ParseAddress(b.Address)
		if b.City == "" {
			b.City = parsed.City
		}
		if b.State == "" && parsed.Confident {
			b.State = parsed.State
		}
		if b.Country == "" {
			b.Country = parsed.Country
		}
	}
	if b.City == "" {
		b.City = strings.TrimSpace(defaultCity)
	}
	if b.Country == "" || b.Country == "Brazil" {
		b.Country = util.DefaultCountry
	}
}

func (s *ImportService) applyContact(b *model.Business, details *places.Details) {
	raw := details.InternationalPhoneNumber
	if raw == "" {
		raw = details.FormattedPhoneNumber
	}
	if raw == "" {
		return
	}
	e164, ok := util.NormalizePhone(raw, s.region)
	if !ok {
		logger.Debug("Discarding invalid provider phone", map[string]interface{}{
			"place_id": details.PlaceID,
			"phone":    raw,
		})
		return
	}
	b.Phone = details.FormattedPhoneNumber
	if b.Phone == "" {
		b.Phone = e164
	}
	if util.IsMobilePhone(e164) {
		b.Whatsapp = e164
	}
}

// hoursFromPeriods reads the first opening period. A period without a close
// time marks a place open around the clock.
func hoursFromPeriods(hours *places.OpeningHours) (string, string) {
	if hours == nil || len(hours.Periods) == 0 {
		return "", ""
	}
	period := hours.Periods[0]
	if period.Close == nil {
		return "00:00", "23:59"
	}
	return util.ClockFromHHMM(period.Open.Time), util.ClockFromHHMM(period.Close.Time)
}

// describe uses the editorial summary when there is one, otherwise a short
// Portuguese blurb from category, city, rating and the first review.
func describe(b *model.Business, details *places.Details) string {
	if details != nil && details.EditorialSummary != nil {
		if overview := strings.TrimSpace(details.EditorialSummary.Overview); overview != "" {
			return overview
		}
	}

	var sb strings.Builder
	sb.WriteString(b.Category)
	if b.City != "" {
		sb.WriteString(" em ")
		sb.WriteString(b.City)
	}
	sb.WriteString(".")
	if b.GoogleRating > 0 {
		sb.WriteString(fmt.Sprintf(" Nota %.1f no Google", b.GoogleRating))
		if b.GoogleRatingsTotal > 0 {
			sb.WriteString(fmt.Sprintf(" (%d avaliações)", b.GoogleRatingsTotal))
		}
		sb.WriteString(".")
	}
	if details != nil {
		for _, review := range details.Reviews {
			text := strings.TrimSpace(review.Text)
			if text == "" {
				continue
			}
			sb.WriteString(` "`)
			sb.WriteString(util.TruncateText(text, reviewSnippetLength, "..."))
			sb.WriteString(`"`)
			break
		}
	}
	return sb.String()
}

func (s *ImportService) photoURLs(photos []places.Photo) []string {
	linker, ok := s.provider.(photoLinker)
	if !ok || linker == nil {
		return []string{}
	}
	out := make([]string, 0, maxImportedPhotos)
	for _, p := range photos {
		if len(out) == maxImportedPhotos {
			break
		}
		if url := linker.PhotoURL(p.PhotoReference, photoMaxWidth); url != "" {
			out = append(out, url)
		}
	}
	return out
}

func (s *ImportService) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordImport(outcome)
	}
}
