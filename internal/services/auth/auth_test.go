package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/gambiamarkets/price-tracker/internal/lib/jwt"
	"github.com/gambiamarkets/price-tracker/internal/lib/password"
	"github.com/gambiamarkets/price-tracker/internal/models"
	services "github.com/gambiamarkets/price-tracker/internal/services/auth"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUser(ctx context.Context, uid, name, email string) (int, error) {
	args := m.Called(ctx, uid, name, email)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) UpdatePasswordHash(ctx context.Context, uid, passwordHash string) (int, error) {
	args := m.Called(ctx, uid, passwordHash)
	return args.Int(0), args.Error(1)
}

func (m *UserRepoMock) RemoveUser(ctx context.Context, uid string) (int, error) {
	args := m.Called(ctx, uid)
	return args.Int(0), args.Error(1)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(email, role, useruid string) (string, error) {
	args := m.Called(email, role, useruid)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name        string
		req         models.DummyRegister
		setupMocks  func(r *UserRepoMock)
		wantUserUID string
		wantErr     bool
		errMsg      string
	}{
		{
			name: "successful registration with default role",
			req: models.DummyRegister{
				Name:     "Awa Ceesay",
				Email:    "awa@example.com",
				Password: "password123",
			},
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "awa@example.com" &&
						user.Name == "Awa Ceesay" &&
						user.PasswordHash != "" &&
						user.Role == models.RoleCollector
				})).Return("some-uuid-string", nil).Once()
			},
			wantUserUID: "some-uuid-string",
			wantErr:     false,
		},
		{
			name: "explicit admin role",
			req: models.DummyRegister{
				Name:     "Admin",
				Email:    "admin@example.com",
				Password: "password123",
				Role:     "admin",
			},
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Role == models.RoleAdmin
				})).Return("admin-uuid", nil).Once()
			},
			wantUserUID: "admin-uuid",
			wantErr:     false,
		},
		{
			name: "unknown role rejected",
			req: models.DummyRegister{
				Name:     "Bad",
				Email:    "bad@example.com",
				Password: "password123",
				Role:     "superuser",
			},
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    true,
			errMsg:     "unknown role",
		},
		{
			name: "repository error",
			req: models.DummyRegister{
				Name:     "Awa Ceesay",
				Email:    "awa@example.com",
				Password: "password123",
			},
			setupMocks: func(r *UserRepoMock) {
				r.On("RegisterUser", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			wantUserUID: "",
			wantErr:     true,
			errMsg:      "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUserUID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	storedUser := &models.User{
		UID:          "user-uid-1",
		Name:         "Awa Ceesay",
		Email:        "awa@example.com",
		PasswordHash: hash,
		Role:         models.RoleCollector,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, j *JwtMakerMock)
		wantToken  string
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "awa@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, j *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "awa@example.com").Return(storedUser, nil).Once()
				j.On("GenerateToken", "awa@example.com", "collector", "user-uid-1").Return("jwt-token", nil).Once()
			},
			wantToken: "jwt-token",
		},
		{
			name:     "wrong password",
			email:    "awa@example.com",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "awa@example.com").Return(storedUser, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "unknown email maps to invalid credentials",
			email:    "ghost@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *JwtMakerMock) {
				r.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, models.ErrNotFound).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo, jwtMock)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, storedUser, user)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	maker := customjwt.NewJWTMaker("test_secret", 15*time.Minute)
	repo := new(UserRepoMock)
	svc := services.NewAuthService(repo, maker)

	token, err := maker.GenerateToken("awa@example.com", "collector", "user-uid-1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "awa@example.com", claims.Email)
	assert.Equal(t, "collector", claims.Role)
	assert.Equal(t, "user-uid-1", claims.UserUID)

	_, err = svc.ValidateToken(context.Background(), "garbage")
	assert.Error(t, err)
}

func TestAuthService_ValidateToken_UnknownRole(t *testing.T) {
	maker := customjwt.NewJWTMaker("test_secret", 15*time.Minute)
	repo := new(UserRepoMock)
	svc := services.NewAuthService(repo, maker)

	// Токен с ролью вне закрытого набора не проходит валидацию.
	token, err := maker.GenerateToken("awa@example.com", "superuser", "user-uid-1")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestAuthService_ChangePassword(t *testing.T) {
	current := "oldpassword"
	hash, err := password.GetHash(current)
	require.NoError(t, err)

	profile := &models.User{UID: "user-uid-1", Email: "awa@example.com", Role: models.RoleCollector}
	withHash := &models.User{UID: "user-uid-1", Email: "awa@example.com", PasswordHash: hash, Role: models.RoleCollector}

	t.Run("success", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUser", mock.Anything, "user-uid-1").Return(profile, nil).Once()
		repo.On("GetUserByEmail", mock.Anything, "awa@example.com").Return(withHash, nil).Once()
		repo.On("UpdatePasswordHash", mock.Anything, "user-uid-1", mock.AnythingOfType("string")).Return(1, nil).Once()

		svc := services.NewAuthService(repo, new(JwtMakerMock))
		err := svc.ChangePassword(context.Background(), "user-uid-1", models.DummyPasswordChange{
			CurrentPassword: current,
			NewPassword:     "newpassword",
		})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUser", mock.Anything, "user-uid-1").Return(profile, nil).Once()
		repo.On("GetUserByEmail", mock.Anything, "awa@example.com").Return(withHash, nil).Once()

		svc := services.NewAuthService(repo, new(JwtMakerMock))
		err := svc.ChangePassword(context.Background(), "user-uid-1", models.DummyPasswordChange{
			CurrentPassword: "notthepassword",
			NewPassword:     "newpassword",
		})
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
		repo.AssertExpectations(t)
	})
}
