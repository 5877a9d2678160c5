package average

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gambiamarkets/price-tracker/internal/models"
)

// MockService реализует интерфейс average.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) AveragePrice(ctx context.Context, productUID string, days int) (*models.PriceStats, error) {
	args := m.Called(ctx, productUID, days)
	if res := args.Get(0); res != nil {
		return res.(*models.PriceStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestAverageHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	stats := &models.PriceStats{
		AveragePrice: 20,
		MinPrice:     10,
		MaxPrice:     30,
		Count:        3,
	}

	tests := []struct {
		name           string
		productUID     string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:       "окно по умолчанию 30 дней",
			productUID: "product-uid",
			query:      "",
			setupMock: func(m *MockService) {
				m.On("AveragePrice", mock.Anything, "product-uid", 30).Return(stats, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"average_price":20`,
		},
		{
			name:       "явное окно",
			productUID: "product-uid",
			query:      "?days=7",
			setupMock: func(m *MockService) {
				m.On("AveragePrice", mock.Anything, "product-uid", 7).Return(stats, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"days":7`,
		},
		{
			name:       "некорректное окно заменяется на 30",
			productUID: "product-uid",
			query:      "?days=abc",
			setupMock: func(m *MockService) {
				m.On("AveragePrice", mock.Anything, "product-uid", 30).Return(stats, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":3`,
		},
		{
			name:       "нет подтверждённых наблюдений",
			productUID: "product-uid",
			query:      "",
			setupMock: func(m *MockService) {
				m.On("AveragePrice", mock.Anything, "product-uid", 30).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"OK"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet,
				"/price-submissions/average/"+tt.productUID+tt.query, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("productUid", tt.productUID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
