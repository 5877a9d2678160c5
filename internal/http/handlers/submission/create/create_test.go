package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/gambiamarkets/price-tracker/internal/http/middlewarectx"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, submitterUID string, req models.DummySubmission) (string, error) {
	args := m.Called(ctx, submitterUID, req)
	return args.String(0), args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{
		"product_uid": "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"market_uid": "6ba7b811-9dad-11d1-80b4-00c04fd430c8",
		"price": 45.5,
		"unit": "kg",
		"date": "2026-08-20",
		"notes": "morning price"
	}`

	tests := []struct {
		name           string
		body           string
		useruid        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное создание заявки",
			body:    validBody,
			useruid: "collector-uid",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "collector-uid", mock.MatchedBy(func(req models.DummySubmission) bool {
					return req.Unit == "kg" && req.Price == 45.5
				})).Return("submission-uid", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"uid":"submission-uid"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"product_uid":`,
			useruid:        "collector-uid",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "невалидная единица измерения",
			body:           `{"product_uid":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","market_uid":"6ba7b811-9dad-11d1-80b4-00c04fd430c8","price":10,"unit":"tonne"}`,
			useruid:        "collector-uid",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Unit must be one of the allowed values`,
		},
		{
			name:           "отрицательная цена",
			body:           `{"product_uid":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","market_uid":"6ba7b811-9dad-11d1-80b4-00c04fd430c8","price":-1,"unit":"kg"}`,
			useruid:        "collector-uid",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Price must not be negative`,
		},
		{
			name:           "нет пользователя в контексте",
			body:           validBody,
			useruid:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "ошибка сервиса",
			body:    validBody,
			useruid: "collector-uid",
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "collector-uid", mock.Anything).Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not create submission"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/price-submissions", strings.NewReader(tt.body))
			if tt.useruid != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.useruid))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
