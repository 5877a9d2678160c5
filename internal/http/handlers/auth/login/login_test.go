package login

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
	auth "github.com/gambiamarkets/price-tracker/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if user := args.Get(1); user != nil {
		return args.String(0), user.(*models.User), args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	user := &models.User{
		UID:   "user-uid",
		Name:  "Awa Ceesay",
		Email: "awa@example.com",
		Role:  models.RoleCollector,
	}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			body: `{"email": "awa@example.com", "password": "secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "awa@example.com", "secret123").Return("jwt-token", user, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"jwt-token"`,
		},
		{
			name: "неверные учетные данные",
			body: `{"email": "awa@example.com", "password": "wrongpass"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "awa@example.com", "wrongpass").
					Return("", nil, auth.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"invalid credentials"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"email":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "пустой пароль",
			body:           `{"email": "awa@example.com", "password": ""}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Password is a required field`,
		},
		{
			name: "ошибка сервиса",
			body: `{"email": "awa@example.com", "password": "secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "awa@example.com", "secret123").
					Return("", nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not login"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
