package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"street-segment-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReverseGeocodeService is a mock implementation of the ReverseGeocodeService interface
type MockReverseGeocodeService struct {
	mock.Mock
}

func (m *MockReverseGeocodeService) ReverseGeocode(ctx context.Context, lat float64, lon float64) (*models.ReverseGeocodeResult, error) {
	args := m.Called(ctx, lat, lon)
	return args.Get(0).(*models.ReverseGeocodeResult), args.Error(1)
}

func TestReverseGeocodeHandler_ReverseGeocode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		rawQuery       string
		callsService   bool
		lat            float64
		lon            float64
		mockAddress    *models.ReverseGeocodeResult
		mockError      error
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name:           "missing query parameters",
			rawQuery:       "lat=50.0045",
			expectedStatus: http.StatusBadRequest,
			expectedBody: map[string]interface{}{
				"error": "missing required query parameters 'lat' and 'lon'",
				"code":  "invalid_request",
			},
		},
		{
			name:           "invalid latitude",
			rawQuery:       "lat=north&lon=36.2304",
			expectedStatus: http.StatusBadRequest,
			expectedBody: map[string]interface{}{
				"error": "invalid latitude format",
				"code":  "invalid_request",
			},
		},
		{
			name:         "address found",
			rawQuery:     "lat=50.0045&lon=36.2304",
			callsService: true,
			lat:          50.0045,
			lon:          36.2304,
			mockAddress: &models.ReverseGeocodeResult{
				DisplayName: "12, Сумська вулиця, Харків",
				HouseNumber: "12",
				Road:        "Сумська вулиця",
			},
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"display_name": "12, Сумська вулиця, Харків",
				"house_number": "12",
				"road":         "Сумська вулиця",
			},
		},
		{
			name:           "coordinates out of range",
			rawQuery:       "lat=120&lon=36.2304",
			callsService:   true,
			lat:            120,
			lon:            36.2304,
			mockAddress:    nil,
			mockError:      models.ErrInvalidCoordinate,
			expectedStatus: http.StatusBadRequest,
			expectedBody: map[string]interface{}{
				"error": models.ErrInvalidCoordinate.Error(),
				"code":  "invalid_request",
			},
		},
		{
			name:           "nothing found",
			rawQuery:       "lat=0&lon=0",
			callsService:   true,
			mockError:      models.ErrStreetNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody: map[string]interface{}{
				"error": models.ErrStreetNotFound.Error(),
				"code":  "street_not_found",
			},
		},
		{
			name:           "provider unavailable",
			rawQuery:       "lat=50.0045&lon=36.2304",
			callsService:   true,
			lat:            50.0045,
			lon:            36.2304,
			mockError:      models.ErrExternalService,
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody: map[string]interface{}{
				"error": models.ErrExternalService.Error(),
				"code":  "external_service_failure",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockReverseGeocodeService)
			handler := NewReverseGeocodeHandler(mockSvc)

			if tt.callsService {
				mockSvc.On("ReverseGeocode", mock.Anything, tt.lat, tt.lon).Return(tt.mockAddress, tt.mockError)
			}

			// Create request
			req := httptest.NewRequest(http.MethodGet, "/streets/reverse?"+tt.rawQuery, nil)
			w := httptest.NewRecorder()

			// Create Gin context
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			// Execute
			handler.ReverseGeocode(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)

			var actualBody interface{}
			err := json.Unmarshal(w.Body.Bytes(), &actualBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, actualBody)

			mockSvc.AssertExpectations(t)
		})
	}
}
