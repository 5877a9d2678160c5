package update

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

	"github.com/gambiamarkets/price-tracker/internal/http/middlewarectx"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// MockService реализует интерфейс update.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, actorUID string, actorRole models.Role, uid string, req models.DummyProduct) (int, error) {
	args := m.Called(ctx, actorUID, actorRole, uid, req)
	return args.Int(0), args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"name": "Tomatoes", "price": 45.5, "category": "Vegetables", "stock": 10}`

	tests := []struct {
		name           string
		uid            string
		useruid        string
		role           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "владелец обновляет продукт",
			uid:     "product-uid",
			useruid: "owner-uid",
			role:    "collector",
			body:    validBody,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "owner-uid", models.RoleCollector, "product-uid",
					mock.Anything).Return(1, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"updated_count":1`,
		},
		{
			name:    "чужой продукт",
			uid:     "product-uid",
			useruid: "stranger-uid",
			role:    "collector",
			body:    validBody,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "stranger-uid", models.RoleCollector, "product-uid",
					mock.Anything).Return(0, models.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"forbidden"`,
		},
		{
			name:    "продукт не найден",
			uid:     "missing-uid",
			useruid: "owner-uid",
			role:    "collector",
			body:    validBody,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, "owner-uid", models.RoleCollector, "missing-uid",
					mock.Anything).Return(0, models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"product not found"`,
		},
		{
			name:           "категория вне закрытого набора",
			uid:            "product-uid",
			useruid:        "owner-uid",
			role:           "collector",
			body:           `{"name": "Tomatoes", "price": 45.5, "category": "Gadgets"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Category must be one of the allowed values`,
		},
		{
			name:           "нет пользователя в контексте",
			uid:            "product-uid",
			useruid:        "",
			role:           "",
			body:           validBody,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPut, "/products/"+tt.uid, strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", tt.uid)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			if tt.useruid != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.useruid)
				ctx = context.WithValue(ctx, middlewarectx.Role, tt.role)
			}
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
