package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"street-segment-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStreetSearchService is a mock implementation of the StreetSearchService interface
type MockStreetSearchService struct {
	mock.Mock
}

func (m *MockStreetSearchService) Search(ctx context.Context, q models.StreetSearchQuery) ([]models.StreetSearchResult, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.StreetSearchResult), args.Error(1)
}

func (m *MockStreetSearchService) SearchSegments(ctx context.Context, q models.StreetSearchQuery) ([]models.StreetSearchResult, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]models.StreetSearchResult), args.Error(1)
}

func (m *MockStreetSearchService) Geometry(ctx context.Context, osmType string, osmID int64) (*models.StreetGeometry, error) {
	args := m.Called(ctx, osmType, osmID)
	return args.Get(0).(*models.StreetGeometry), args.Error(1)
}

func newTestContext(method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStreetSearchHandler_Search(t *testing.T) {
	results := []models.StreetSearchResult{
		{DisplayName: "Сумська вулиця, Харків", Lat: 50.01, Lon: 36.235, OSMType: "way", OSMID: 101},
	}

	tests := []struct {
		name           string
		params         url.Values
		expectQuery    *models.StreetSearchQuery
		mockResults    []models.StreetSearchResult
		mockError      error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "missing query",
			params:         url.Values{},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_request",
		},
		{
			name:           "query too short",
			params:         url.Values{"q": {"С"}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_request",
		},
		{
			name:           "limit too large",
			params:         url.Values{"q": {"Сумська"}, "limit": {"51"}},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "invalid_request",
		},
		{
			name:           "default limit",
			params:         url.Values{"q": {"Сумська"}, "city": {"Харків"}},
			expectQuery:    &models.StreetSearchQuery{Query: "Сумська", City: "Харків", Limit: 10},
			mockResults:    results,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "provider unavailable",
			params:         url.Values{"q": {"Сумська"}, "limit": {"5"}},
			expectQuery:    &models.StreetSearchQuery{Query: "Сумська", Limit: 5},
			mockResults:    []models.StreetSearchResult(nil),
			mockError:      models.ErrExternalService,
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   "external_service_failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockStreetSearchService)
			handler := NewStreetSearchHandler(mockSvc)
			if tt.expectQuery != nil {
				mockSvc.On("Search", mock.Anything, *tt.expectQuery).Return(tt.mockResults, tt.mockError)
			}

			c, w := newTestContext(http.MethodGet, "/streets/search?"+tt.params.Encode(), "")
			handler.Search(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Code)
			} else {
				var body []models.StreetSearchResult
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.mockResults, body)
			}

			mockSvc.AssertExpectations(t)
		})
	}
}

func TestStreetSearchHandler_SearchSegments(t *testing.T) {
	mockSvc := new(MockStreetSearchService)
	handler := NewStreetSearchHandler(mockSvc)

	ways := []models.StreetSearchResult{{DisplayName: "Сумська вулиця", OSMType: "way", OSMID: 100}}
	mockSvc.On("SearchSegments", mock.Anything, mock.MatchedBy(func(q models.StreetSearchQuery) bool {
		return q.Query == "Сумська вулиця"
	})).Return(ways, nil).Once()

	c, w := newTestContext(http.MethodGet, "/streets/segments?q="+url.QueryEscape("Сумська вулиця"), "")
	handler.SearchSegments(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body []models.StreetSearchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ways, body)

	mockSvc.AssertExpectations(t)
}

func TestStreetSearchHandler_Geometry(t *testing.T) {
	geometry := &models.StreetGeometry{
		Name:        "Сумська вулиця",
		OSMType:     "way",
		OSMID:       4242,
		Coordinates: [][]float64{{36.23, 50.0}, {36.231, 50.001}},
	}

	tests := []struct {
		name           string
		osmType        string
		osmID          string
		mockGeometry   *models.StreetGeometry
		mockError      error
		callsService   bool
		expectedStatus int
	}{
		{name: "invalid id", osmType: "way", osmID: "abc", expectedStatus: http.StatusBadRequest},
		{name: "negative id", osmType: "way", osmID: "-5", expectedStatus: http.StatusBadRequest},
		{
			name: "found", osmType: "way", osmID: "4242", callsService: true,
			mockGeometry: geometry, expectedStatus: http.StatusOK,
		},
		{
			name: "unsupported type", osmType: "node", osmID: "1", callsService: true,
			mockError: models.ErrInvalidQuery, expectedStatus: http.StatusBadRequest,
		},
		{
			name: "no geometry", osmType: "way", osmID: "1", callsService: true,
			mockError: models.ErrGeometryUnavailable, expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockStreetSearchService)
			handler := NewStreetSearchHandler(mockSvc)
			if tt.callsService {
				mockSvc.On("Geometry", mock.Anything, tt.osmType, mock.AnythingOfType("int64")).
					Return(tt.mockGeometry, tt.mockError)
			}

			c, w := newTestContext(http.MethodGet, "/streets/geometry/"+tt.osmType+"/"+tt.osmID, "")
			c.Params = gin.Params{{Key: "osm_type", Value: tt.osmType}, {Key: "osm_id", Value: tt.osmID}}
			handler.Geometry(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				var body models.StreetGeometry
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, *geometry, body)
			}

			mockSvc.AssertExpectations(t)
		})
	}
}
