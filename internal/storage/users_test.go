package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gambiamarkets/price-tracker/internal/models"
)

func TestRegisterAndGetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	uid, err := storage.RegisterUser(ctx, models.User{
		Name:         "Awa Ceesay",
		Email:        "Awa@Example.com",
		PasswordHash: "hashedpassword",
		Role:         models.RoleCollector,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	t.Run("GetUser не отдает хэш пароля", func(t *testing.T) {
		user, err := storage.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "Awa Ceesay", user.Name)
		assert.Equal(t, models.RoleCollector, user.Role)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("email хранится в нижнем регистре", func(t *testing.T) {
		user, err := storage.GetUserByEmail(ctx, "awa@example.com")
		require.NoError(t, err)
		assert.Equal(t, "awa@example.com", user.Email)
		assert.Equal(t, "hashedpassword", user.PasswordHash)
	})

	t.Run("повторный email отклоняется", func(t *testing.T) {
		_, err := storage.RegisterUser(ctx, models.User{
			Name:         "Other",
			Email:        "awa@example.com",
			PasswordHash: "otherhash",
			Role:         models.RoleCollector,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrEmailTaken)
	})

	t.Run("несуществующий пользователь", func(t *testing.T) {
		_, err := storage.GetUser(ctx, NewUID())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUpdateUserAndPassword(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "Lamin Jallow", "lamin@example.com", "oldhash", "collector")

	t.Run("обновление профиля", func(t *testing.T) {
		count, err := storage.UpdateUser(ctx, uid, "Lamin B. Jallow", "")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		user, err := storage.GetUser(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, "Lamin B. Jallow", user.Name)
		assert.Equal(t, "lamin@example.com", user.Email)
	})

	t.Run("смена хэша пароля", func(t *testing.T) {
		count, err := storage.UpdatePasswordHash(ctx, uid, "newhash")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		user, err := storage.GetUserByEmail(ctx, "lamin@example.com")
		require.NoError(t, err)
		assert.Equal(t, "newhash", user.PasswordHash)
	})

	t.Run("обновление несуществующего пользователя", func(t *testing.T) {
		count, err := storage.UpdateUser(ctx, NewUID(), "Ghost", "")
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestListAndRemoveUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	uid1 := factory.CreateUser(t, "User One", "one@example.com", "hash", "collector")
	factory.CreateUser(t, "User Two", "two@example.com", "hash", "admin")

	users, err := storage.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	count, err := storage.RemoveUser(ctx, uid1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	users, err = storage.ListUsers(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
