// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"

	"github.com/gambiamarkets/price-tracker/internal/lib/jwt"
	"github.com/gambiamarkets/price-tracker/internal/lib/password"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль,
// не раскрывая, существует ли пользователь.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя с хэшем пароля или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по UID без хэша пароля.
	GetUser(ctx context.Context, uid string) (*models.User, error)

	// ListUsers возвращает страницу пользователей.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)

	// UpdateUser частично обновляет имя и email, возвращает число задетых строк.
	UpdateUser(ctx context.Context, uid, name, email string) (int, error)

	// UpdatePasswordHash заменяет хэш пароля пользователя.
	UpdatePasswordHash(ctx context.Context, uid, passwordHash string) (int, error)

	// RemoveUser удаляет пользователя, возвращает число удалённых строк.
	RemoveUser(ctx context.Context, uid string) (int, error)
}

// AuthService отвечает за регистрацию, авторизацию, валидацию JWT
// и управление учетными записями.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Если роль в запросе не указана, назначается роль "collector".
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	role := models.RoleCollector
	if req.Role != "" {
		role, err = models.ParseRole(req.Role)
		if err != nil {
			return "", err
		}
	}
	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         role,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (token string, user *models.User, err error) {
	user, err = s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Email, string(user.Role), user.UID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ValidateToken проверяет JWT и возвращает claims, если токен корректен.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	if _, err := models.ParseRole(claims.Role); err != nil {
		return nil, err
	}
	return claims, nil
}

// Me возвращает профиль пользователя по UID.
func (s *AuthService) Me(ctx context.Context, uid string) (*models.User, error) {
	return s.users.GetUser(ctx, uid)
}

// ListUsers возвращает страницу пользователей.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.users.ListUsers(ctx, limit, offset)
}

// UpdateUser частично обновляет профиль, пустые поля не трогает.
func (s *AuthService) UpdateUser(ctx context.Context, uid string, req models.DummyUserUpdate) (int, error) {
	return s.users.UpdateUser(ctx, uid, req.Name, req.Email)
}

// ChangePassword проверяет текущий пароль и заменяет его на новый.
func (s *AuthService) ChangePassword(ctx context.Context, uid string, req models.DummyPasswordChange) error {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return err
	}
	withHash, err := s.users.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if err := password.CompareHash(withHash.PasswordHash, req.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashed, err := password.GetHash(req.NewPassword)
	if err != nil {
		return err
	}
	count, err := s.users.UpdatePasswordHash(ctx, uid, hashed)
	if err != nil {
		return err
	}
	if count == 0 {
		return models.ErrNotFound
	}
	return nil
}

// RemoveUser удаляет пользователя по UID.
func (s *AuthService) RemoveUser(ctx context.Context, uid string) (int, error) {
	return s.users.RemoveUser(ctx, uid)
}
