package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gambiamarkets/price-tracker/internal/models"
)

func TestCreateAndReadProduct(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateUser(t, "Owner", "owner@example.com", "hash", "collector")

	uid, err := storage.CreateProduct(ctx, models.Product{
		Name:        "Tomatoes",
		Description: "Fresh local tomatoes",
		Price:       45.5,
		Category:    models.CategoryVegetables,
		Stock:       20,
		Brand:       "Local Farm",
		Image:       models.DefaultProductImage,
		IsAvailable: true,
		CreatedBy:   ownerUID,
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	product, err := storage.ReadProduct(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Tomatoes", product.Name)
	assert.Equal(t, 45.5, product.Price)
	assert.Equal(t, models.CategoryVegetables, product.Category)
	assert.Equal(t, ownerUID, product.CreatedBy)
	assert.True(t, product.IsAvailable)

	_, err = storage.ReadProduct(ctx, NewUID())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListProductsWithFilter(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateUser(t, "Owner", "owner@example.com", "hash", "collector")
	factory.CreateProduct(t, "Tomatoes", models.CategoryVegetables, 45.5, ownerUID)
	factory.CreateProduct(t, "Mangoes", models.CategoryFruits, 30, ownerUID)
	factory.CreateProduct(t, "Rice", models.CategoryGrains, 120, ownerUID)

	t.Run("фильтр по категории", func(t *testing.T) {
		category := models.CategoryFruits
		products, err := storage.ListProducts(ctx, models.ProductFilter{
			Category: &category,
			Limit:    10,
		})
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Mangoes", products[0].Name)
	})

	t.Run("фильтр по диапазону цен", func(t *testing.T) {
		minPrice, maxPrice := 40.0, 130.0
		products, err := storage.ListProducts(ctx, models.ProductFilter{
			MinPrice: &minPrice,
			MaxPrice: &maxPrice,
			Limit:    10,
		})
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("выборка по категории", func(t *testing.T) {
		products, err := storage.ListProductsByCategory(ctx, models.CategoryGrains)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Rice", products[0].Name)
	})
}

func TestAdjustProductStock(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateUser(t, "Owner", "owner@example.com", "hash", "collector")
	uid := factory.CreateProduct(t, "Onions", models.CategoryVegetables, 25, ownerUID)

	t.Run("пополнение остатка", func(t *testing.T) {
		newStock, err := storage.AdjustProductStock(ctx, uid, 10)
		require.NoError(t, err)
		assert.Equal(t, 10, newStock)
	})

	t.Run("списание не опускает остаток ниже нуля", func(t *testing.T) {
		newStock, err := storage.AdjustProductStock(ctx, uid, -100)
		require.NoError(t, err)
		assert.Equal(t, 0, newStock)
	})

	t.Run("несуществующий продукт", func(t *testing.T) {
		_, err := storage.AdjustProductStock(ctx, NewUID(), 5)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUpdateAndRemoveProduct(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateUser(t, "Owner", "owner@example.com", "hash", "collector")
	uid := factory.CreateProduct(t, "Okra", models.CategoryVegetables, 15, ownerUID)

	count, err := storage.UpdateProduct(ctx, models.Product{
		Name:        "Okra",
		Price:       18,
		Category:    models.CategoryVegetables,
		Stock:       5,
		Image:       models.DefaultProductImage,
		IsAvailable: false,
	}, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	product, err := storage.ReadProduct(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 18.0, product.Price)
	assert.False(t, product.IsAvailable)

	count, err = storage.RemoveProduct(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = storage.ReadProduct(ctx, uid)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
