package handler

import (
	"context"
	"net/http"
	"strconv"

	"street-segment-api/internal/models"

	"github.com/gin-gonic/gin"
)

// StreetSearchHandler handles remote street lookup requests
type StreetSearchHandler struct {
	service StreetSearchService
}

// StreetSearchService interface for dependency injection
type StreetSearchService interface {
	Search(context.Context, models.StreetSearchQuery) ([]models.StreetSearchResult, error)
	SearchSegments(context.Context, models.StreetSearchQuery) ([]models.StreetSearchResult, error)
	Geometry(context.Context, string, int64) (*models.StreetGeometry, error)
}

// NewStreetSearchHandler creates a new street search handler
func NewStreetSearchHandler(svc StreetSearchService) *StreetSearchHandler {
	return &StreetSearchHandler{service: svc}
}

type streetSearchRequest struct {
	Query   string `form:"q" binding:"required,min=2,max=200"`
	City    string `form:"city"`
	Country string `form:"country"`
	Limit   int    `form:"limit,default=10" binding:"min=1,max=50"`
}

func (r streetSearchRequest) query() models.StreetSearchQuery {
	return models.StreetSearchQuery{Query: r.Query, City: r.City, Country: r.Country, Limit: r.Limit}
}

// Search handles GET /streets/search requests
//
//	@Summary	Search streets with the remote geocoder
//	@Tags		streets
//	@Produce	json
//	@Param		q		query		string	true	"Street name"	minlength(2)	maxlength(200)
//	@Param		city	query		string	false	"City"
//	@Param		country	query		string	false	"Country"
//	@Param		limit	query		int		false	"Maximum results"	minimum(1)	maximum(50)	default(10)
//	@Success	200		{array}		models.StreetSearchResult
//	@Failure	400		{object}	errorResponse
//	@Failure	503		{object}	errorResponse
//	@Router		/streets/search [get]
func (h *StreetSearchHandler) Search(c *gin.Context) {
	var req streetSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	results, err := h.service.Search(c.Request.Context(), req.query())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// SearchSegments handles GET /streets/segments requests
//
//	@Summary	List every OSM way of a street
//	@Tags		streets
//	@Produce	json
//	@Param		q		query		string	true	"Street name"	minlength(2)	maxlength(200)
//	@Param		city	query		string	false	"City"
//	@Param		country	query		string	false	"Country"
//	@Success	200		{array}		models.StreetSearchResult
//	@Failure	400		{object}	errorResponse
//	@Failure	503		{object}	errorResponse
//	@Router		/streets/segments [get]
func (h *StreetSearchHandler) SearchSegments(c *gin.Context) {
	var req streetSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	results, err := h.service.SearchSegments(c.Request.Context(), req.query())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// Geometry handles GET /streets/geometry/:osm_type/:osm_id requests
//
//	@Summary	Fetch the geometry of an OSM way or relation
//	@Tags		streets
//	@Produce	json
//	@Param		osm_type	path		string	true	"way or relation"
//	@Param		osm_id		path		int		true	"OSM id"
//	@Success	200			{object}	models.StreetGeometry
//	@Failure	400			{object}	errorResponse
//	@Failure	502			{object}	errorResponse
//	@Failure	503			{object}	errorResponse
//	@Router		/streets/geometry/{osm_type}/{osm_id} [get]
func (h *StreetSearchHandler) Geometry(c *gin.Context) {
	osmType := c.Param("osm_type")
	osmID, err := strconv.ParseInt(c.Param("osm_id"), 10, 64)
	if err != nil || osmID <= 0 {
		badRequest(c, "osm_id must be a positive integer")
		return
	}

	geometry, err := h.service.Geometry(c.Request.Context(), osmType, osmID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, geometry)
}
