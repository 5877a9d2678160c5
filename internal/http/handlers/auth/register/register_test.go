package register

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

	"github.com/gambiamarkets/price-tracker/internal/models"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная регистрация",
			body: `{"name": "Awa Ceesay", "email": "awa@example.com", "password": "secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.MatchedBy(func(req models.DummyRegister) bool {
					return req.Email == "awa@example.com" && req.Role == ""
				})).Return("user-uid", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"uid":"user-uid"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"name":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "невалидный email",
			body:           `{"name": "Awa Ceesay", "email": "not-an-email", "password": "secret123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email must be a valid email address`,
		},
		{
			name:           "короткий пароль",
			body:           `{"name": "Awa Ceesay", "email": "awa@example.com", "password": "123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Password is shorter than the allowed minimum`,
		},
		{
			name:           "роль вне закрытого набора",
			body:           `{"name": "Awa Ceesay", "email": "awa@example.com", "password": "secret123", "role": "superuser"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Role must be one of the allowed values`,
		},
		{
			name: "email уже занят",
			body: `{"name": "Awa Ceesay", "email": "awa@example.com", "password": "secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).Return("", models.ErrEmailTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"email already registered"`,
		},
		{
			name: "ошибка сервиса",
			body: `{"name": "Awa Ceesay", "email": "awa@example.com", "password": "secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).Return("", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not register user"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
