package handler

import (
	"context"
	"net/http"
	"strconv"

	"street-segment-api/internal/models"

	"github.com/gin-gonic/gin"
)

// ReverseGeocodeHandler handles reverse geocoding requests
type ReverseGeocodeHandler struct {
	service ReverseGeocodeService
}

// ReverseGeocodeService interface for dependency injection
type ReverseGeocodeService interface {
	ReverseGeocode(context.Context, float64, float64) (*models.ReverseGeocodeResult, error)
}

// NewReverseGeocodeHandler creates a new reverse geocode handler
func NewReverseGeocodeHandler(svc ReverseGeocodeService) *ReverseGeocodeHandler {
	return &ReverseGeocodeHandler{service: svc}
}

// ReverseGeocode handles GET /streets/reverse requests
//
//	@Summary	Find the address closest to a point
//	@Tags		streets
//	@Produce	json
//	@Param		lat	query		number	true	"Latitude"
//	@Param		lon	query		number	true	"Longitude"
//	@Success	200	{object}	models.ReverseGeocodeResult
//	@Failure	400	{object}	errorResponse
//	@Failure	404	{object}	errorResponse
//	@Failure	503	{object}	errorResponse
//	@Router		/streets/reverse [get]
func (h *ReverseGeocodeHandler) ReverseGeocode(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		badRequest(c, "missing required query parameters 'lat' and 'lon'")
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		badRequest(c, "invalid latitude format")
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		badRequest(c, "invalid longitude format")
		return
	}

	address, err := h.service.ReverseGeocode(c.Request.Context(), lat, lon)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, address)
}
