package handler

import (
	"errors"
	"net/http"

	"street-segment-api/internal/models"

	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// errorMapping pairs a domain error with its HTTP status and stable code.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{models.ErrInvalidCoordinate, http.StatusBadRequest, "invalid_request"},
	{models.ErrInvalidQuery, http.StatusBadRequest, "invalid_request"},
	{models.ErrStreetNotFound, http.StatusNotFound, "street_not_found"},
	{models.ErrTooFarFromStreet, http.StatusUnprocessableEntity, "too_far_from_street"},
	{models.ErrGeometryUnavailable, http.StatusBadGateway, "geometry_unavailable"},
	{models.ErrExternalService, http.StatusServiceUnavailable, "external_service_failure"},
}

// respondError writes the status and code for err. Unknown errors become a
// generic 500 without internal details.
func respondError(c *gin.Context, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			c.JSON(m.status, errorResponse{Error: m.err.Error(), Code: m.code})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error", Code: "internal_error"})
}

// badRequest reports a malformed request.
func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Code: "invalid_request"})
}
