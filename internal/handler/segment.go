package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"street-segment-api/internal/models"

	"github.com/gin-gonic/gin"
)

// SegmentHandler serves the local street dataset and segment resolution.
type SegmentHandler struct {
	service SegmentService
}

// SegmentService interface for dependency injection
type SegmentService interface {
	ResolveSegment(context.Context, models.SegmentQuery) (*models.SegmentResponse, error)
	ResolveSegmentByOSM(context.Context, models.OSMSegmentQuery) (*models.SegmentResponse, error)
	SearchByPrefix(prefix string, limit int) []models.StreetSuggestion
	FastGeometry(name, key string, threshold int) (*models.StreetGeometry, error)
	CacheStats() models.CacheStats
	InvalidateCache() models.CacheStats
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(svc SegmentService) *SegmentHandler {
	return &SegmentHandler{service: svc}
}

// segmentPoints are the two query points shared by both segment requests.
// Pointers tell a missing coordinate apart from zero.
type segmentPoints struct {
	StartLat *float64 `json:"start_lat" binding:"required"`
	StartLon *float64 `json:"start_lon" binding:"required"`
	EndLat   *float64 `json:"end_lat" binding:"required"`
	EndLon   *float64 `json:"end_lon" binding:"required"`
}

func (p segmentPoints) start() models.Coordinate {
	return models.Coordinate{Lat: *p.StartLat, Lon: *p.StartLon}
}

func (p segmentPoints) end() models.Coordinate {
	return models.Coordinate{Lat: *p.EndLat, Lon: *p.EndLon}
}

type localSegmentRequest struct {
	segmentPoints
	StreetName     string `json:"street_name" binding:"required_without=StreetKey,max=200"`
	StreetKey      string `json:"street_key" binding:"max=200"`
	FuzzyThreshold int    `json:"fuzzy_threshold" binding:"omitempty,min=50,max=100"`
}

type osmSegmentRequest struct {
	segmentPoints
	OSMType    string `json:"street_osm_type" binding:"required,oneof=way relation"`
	OSMID      string `json:"street_osm_id" binding:"required"`
	StreetName string `json:"street_name"`
}

// SegmentLocal handles POST /streets/segment-local requests
//
//	@Summary		Resolve a street segment from the local dataset
//	@Description	Snaps both points onto the named street and returns the polyline between them.
//	@Description	A result flagged degraded covers only the start fragment of a disconnected street.
//	@Tags			segments
//	@Accept			json
//	@Produce		json
//	@Param			request	body		localSegmentRequest	true	"Street and points"
//	@Success		200		{object}	models.SegmentResponse
//	@Failure		400		{object}	errorResponse
//	@Failure		404		{object}	errorResponse
//	@Failure		422		{object}	errorResponse
//	@Router			/streets/segment-local [post]
func (h *SegmentHandler) SegmentLocal(c *gin.Context) {
	var req localSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	resp, err := h.service.ResolveSegment(c.Request.Context(), models.SegmentQuery{
		StreetName:     req.StreetName,
		StreetKey:      req.StreetKey,
		FuzzyThreshold: req.FuzzyThreshold,
		Start:          req.start(),
		End:            req.end(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Segment handles POST /streets/segment requests
//
//	@Summary	Resolve a street segment on an OSM way or relation
//	@Tags		segments
//	@Accept		json
//	@Produce	json
//	@Param		request	body		osmSegmentRequest	true	"OSM object and points"
//	@Success	200		{object}	models.SegmentResponse
//	@Failure	400		{object}	errorResponse
//	@Failure	422		{object}	errorResponse
//	@Failure	502		{object}	errorResponse
//	@Failure	503		{object}	errorResponse
//	@Router		/streets/segment [post]
func (h *SegmentHandler) Segment(c *gin.Context) {
	var req osmSegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	osmID, err := strconv.ParseInt(req.OSMID, 10, 64)
	if err != nil || osmID <= 0 {
		badRequest(c, "street_osm_id must be a positive integer")
		return
	}

	resp, err := h.service.ResolveSegmentByOSM(c.Request.Context(), models.OSMSegmentQuery{
		OSMType:    req.OSMType,
		OSMID:      osmID,
		StreetName: req.StreetName,
		Start:      req.start(),
		End:        req.end(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type fastGeometryRequest struct {
	FuzzyThreshold int    `form:"fuzzy_threshold,default=70" binding:"min=50,max=100"`
	StreetKey      string `form:"street_key"`
}

// FastGeometry handles GET /streets/fast-geometry/:street_name requests
//
//	@Summary	Geometry of a street from the local dataset
//	@Tags		streets
//	@Produce	json
//	@Param		street_name		path		string	true	"Street name"
//	@Param		fuzzy_threshold	query		int		false	"Minimum fuzzy score"	minimum(50)	maximum(100)	default(70)
//	@Param		street_key		query		string	false	"Exact street key"
//	@Success	200				{object}	models.StreetGeometry
//	@Failure	400				{object}	errorResponse
//	@Failure	404				{object}	errorResponse
//	@Router		/streets/fast-geometry/{street_name} [get]
func (h *SegmentHandler) FastGeometry(c *gin.Context) {
	var req fastGeometryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	name := strings.TrimSpace(c.Param("street_name"))
	if name == "" && req.StreetKey == "" {
		badRequest(c, "street name is required")
		return
	}

	geometry, err := h.service.FastGeometry(name, req.StreetKey, req.FuzzyThreshold)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, geometry)
}

type fastSearchRequest struct {
	Query string `form:"q" binding:"required,min=2,max=200"`
	Limit int    `form:"limit,default=10" binding:"min=1,max=50"`
}

type fastSearchResult struct {
	models.StreetSuggestion
	Source string `json:"source"`
}

// FastSearch handles GET /streets/fast-search requests
//
//	@Summary	Autocomplete street names from the local dataset
//	@Tags		streets
//	@Produce	json
//	@Param		q		query		string	true	"Part of a street name"	minlength(2)	maxlength(200)
//	@Param		limit	query		int		false	"Maximum results"		minimum(1)		maximum(50)	default(10)
//	@Success	200		{array}		fastSearchResult
//	@Failure	400		{object}	errorResponse
//	@Router		/streets/fast-search [get]
func (h *SegmentHandler) FastSearch(c *gin.Context) {
	var req fastSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	suggestions := h.service.SearchByPrefix(req.Query, req.Limit)
	results := make([]fastSearchResult, 0, len(suggestions))
	for _, s := range suggestions {
		results = append(results, fastSearchResult{StreetSuggestion: s, Source: "local_cache"})
	}

	c.JSON(http.StatusOK, results)
}

// CacheStats handles GET /streets/cache/stats requests
//
//	@Summary	Local dataset statistics
//	@Tags		cache
//	@Produce	json
//	@Success	200	{object}	models.CacheStats
//	@Router		/streets/cache/stats [get]
func (h *SegmentHandler) CacheStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.CacheStats())
}

// InvalidateCache handles POST /streets/cache/invalidate requests
//
//	@Summary	Reload the local dataset
//	@Tags		cache
//	@Produce	json
//	@Success	200	{object}	models.CacheStats
//	@Router		/streets/cache/invalidate [post]
func (h *SegmentHandler) InvalidateCache(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.InvalidateCache())
}
