package service

import (
	"context"
	"strings"
	"time"

	"github.com/guialocal/guialocal-backend/internal/app/model"
	"github.com/guialocal/guialocal-backend/internal/app/repository"
	"github.com/guialocal/guialocal-backend/pkg/logger"
	"github.com/guialocal/guialocal-backend/pkg/places"
	"github.com/guialocal/guialocal-backend/pkg/util"
)

type HybridSearchRequest struct {
	Term   string   `json:"term"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	City   string   `json:"city"`
	Radius int      `json:"radius"`
}

func (r HybridSearchRequest) location() *util.GeoPoint {
	if r.Lat == nil || r.Lng == nil {
		return nil
	}
	return &util.GeoPoint{Lat: *r.Lat, Lng: *r.Lng}
}

type HybridSearchResult struct {
	Results  []RankedBusiness `json:"results"`
	Local    int              `json:"local"`
	Imported int              `json:"imported"`
}

type HybridSearchConfig struct {
	MaxPages    int
	PageDelay   time.Duration
	DefaultCity string
}

// HybridSearchService answers a public search from the directory and then
// backfills it from the places provider, saving what it finds.
type HybridSearchService struct {
	repo     repository.BusinessRepository
	importer *ImportService
	provider PlaceProvider
	config   HybridSearchConfig
	clock    Clock
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewHybridSearchService(repo repository.BusinessRepository, importer *ImportService, provider PlaceProvider, cfg HybridSearchConfig, clock Clock) *HybridSearchService {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 3
	}
	return &HybridSearchService{
		repo:     repo,
		importer: importer,
		provider: provider,
		config:   cfg,
		clock:    clock,
		sleep:    sleepContext,
	}
}

// Search runs SearchLocal and, when a provider is configured and the term is
// not empty, BackfillFromProvider. Provider failures leave the local result.
func (s *HybridSearchService) Search(ctx context.Context, req HybridSearchRequest) (*HybridSearchResult, error) {
	req.Term = strings.TrimSpace(req.Term)
	if req.City == "" {
		req.City = s.config.DefaultCity
	}

	local, err := s.SearchLocal(ctx, req)
	if err != nil {
		return nil, err
	}

	var imported []model.Business
	if s.provider != nil && req.Term != "" {
		imported = s.BackfillFromProvider(ctx, req)
	}

	merged := append(local, imported...)
	return &HybridSearchResult{
		Results:  RankBusinesses(merged, req.location(), s.clock.Now()),
		Local:    len(local),
		Imported: len(imported),
	}, nil
}

// SearchLocal matches the term against the directory, narrowed to the city
// when one is given. A store failure degrades to no local results.
func (s *HybridSearchService) SearchLocal(ctx context.Context, req HybridSearchRequest) ([]model.Business, error) {
	filter := repository.BusinessFilter{City: req.City}
	corpus, err := s.repo.FindByFilter(ctx, filter)
	if err != nil {
		logger.Error("Hybrid search local read failed", err, map[string]interface{}{
			"term": req.Term,
			"city": req.City,
		})
		return []model.Business{}, nil
	}

	ranked := SearchBusinesses(corpus, SearchQuery{Query: req.Term}, s.clock.Now())
	out := make([]model.Business, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Business)
	}
	return out, nil
}

// BackfillFromProvider pages through the provider's text search and saves
// every new place. It is a write-on-read operation detached from the
// caller's cancellation, so a client that disconnects does not leave a
// half-imported page.
func (s *HybridSearchService) BackfillFromProvider(ctx context.Context, req HybridSearchRequest) []model.Business {
	ctx = context.WithoutCancel(ctx)

	query := req.Term
	if req.City != "" {
		query = req.Term + " em " + req.City
	}
	search := places.TextSearchRequest{Query: query, Radius: req.Radius, Paginate: s.config.MaxPages > 1}
	if loc := req.location(); loc != nil {
		search.Location = &places.LatLng{Lat: loc.Lat, Lng: loc.Lng}
	}

	var saved []model.Business
	for page := 0; page < s.config.MaxPages; page++ {
		if page > 0 {
			if err := s.sleep(ctx, s.config.PageDelay); err != nil {
				break
			}
		}

		resp, err := s.provider.TextSearch(ctx, search)
		if err != nil {
			logger.Warn("Provider backfill failed, keeping local results", map[string]interface{}{
				"query": query,
				"page":  page,
				"error": err.Error(),
			})
			break
		}

		for _, candidate := range resp.Results {
			business, created, err := s.importer.SaveSearchResult(ctx, candidate, req.City)
			if err != nil {
				logger.Error("Failed to save backfilled place", err, map[string]interface{}{
					"place_id": candidate.PlaceID,
				})
				continue
			}
			if created {
				saved = append(saved, *business)
			}
		}

		if resp.NextPageToken == "" {
			break
		}
		search = places.TextSearchRequest{PageToken: resp.NextPageToken}
	}

	if len(saved) > 0 {
		logger.Info("Backfilled businesses from provider", map[string]interface{}{
			"query":    query,
			"imported": len(saved),
		})
	}
	return saved
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
