package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guialocal/guialocal-backend/internal/app/service"
	apperrors "github.com/guialocal/guialocal-backend/internal/errors"
	"github.com/guialocal/guialocal-backend/internal/middleware"
	"github.com/guialocal/guialocal-backend/pkg/places"
)

// PlacesController serves the admin import flow and the public hybrid search.
type PlacesController struct {
	importService *service.ImportService
	hybridSearch  *service.HybridSearchService
}

func NewPlacesController(importService *service.ImportService, hybridSearch *service.HybridSearchService) *PlacesController {
	return &PlacesController{
		importService: importService,
		hybridSearch:  hybridSearch,
	}
}

type PlacesSearchRequest struct {
	Query  string   `json:"query" binding:"required"`
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Radius int      `json:"radius"`
}

type PlacesImportRequest struct {
	Businesses []places.Place `json:"businesses" binding:"required"`
	service.ImportOptions
}

// SearchPlaces POST /admin/places/search
// Returns one provider page for the admin to pick candidates from.
func (ctrl *PlacesController) SearchPlaces(c *gin.Context) {
	var req PlacesSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	var location *places.LatLng
	if req.Lat != nil && req.Lng != nil {
		location = &places.LatLng{Lat: *req.Lat, Lng: *req.Lng}
	}

	results, err := ctrl.importService.SearchProvider(c.Request.Context(), strings.TrimSpace(req.Query), location, req.Radius)
	if err != nil {
		respondError(c, err, "search places", map[string]interface{}{"query": req.Query})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"count":   len(results),
	})
}

// ImportPlaces POST /admin/places/import
func (ctrl *PlacesController) ImportPlaces(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PlacesImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := ctrl.importService.ImportCandidates(c.Request.Context(), req.Businesses, req.ImportOptions)
	if err != nil && result != nil {
		// The batch stopped midway; report what was written before the failure.
		info := apperrors.ParseError(err, "import places")
		log.Error("Place import aborted", err, map[string]interface{}{
			"candidates": len(req.Businesses),
			"imported":   result.Imported,
			"skipped":    result.Skipped,
		})
		c.JSON(info.Status, gin.H{
			"error":    info.Code,
			"message":  info.Message,
			"imported": result.Imported,
			"skipped":  result.Skipped,
		})
		return
	}
	if err != nil {
		respondError(c, err, "import places", map[string]interface{}{"candidates": len(req.Businesses)})
		return
	}

	log.Info("Places imported", map[string]interface{}{
		"candidates": len(req.Businesses),
		"imported":   result.Imported,
		"skipped":    result.Skipped,
	})
	c.JSON(http.StatusOK, result)
}

// HybridSearch POST /search/hybrid
// Local results first, then a provider backfill that is saved for next time.
func (ctrl *PlacesController) HybridSearch(c *gin.Context) {
	var req service.HybridSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := ctrl.hybridSearch.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "hybrid search", map[string]interface{}{"term": req.Term})
		return
	}

	middleware.GetLoggerFromContext(c).Debug("Hybrid search served", map[string]interface{}{
		"term":     req.Term,
		"local":    result.Local,
		"imported": result.Imported,
	})
	c.JSON(http.StatusOK, result)
}
