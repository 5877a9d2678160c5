package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gambiamarkets/price-tracker/internal/models"
)

// CreateProduct вставляет новый продукт и возвращает его UID.
func (s *Storage) CreateProduct(ctx context.Context, product models.Product) (string, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO products (name, description, price, category, stock,
			      brand, image, is_available, created_by)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid`
	var newUID string
	err := s.DB.QueryRowContext(ctx, query,
		product.Name, product.Description, product.Price, product.Category,
		product.Stock, product.Brand, product.Image, product.IsAvailable,
		product.CreatedBy).Scan(&newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// ReadProduct возвращает продукт по его UID.
func (s *Storage) ReadProduct(ctx context.Context, uid string) (*models.Product, error) {
	const op = "storage.ReadProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, price, category, stock, brand,
			      image, is_available, created_by, created_at, updated_at
			  FROM products
			  WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, uid)

	var result models.Product
	if err := row.Scan(&result.UID, &result.Name, &result.Description,
		&result.Price, &result.Category, &result.Stock, &result.Brand,
		&result.Image, &result.IsAvailable, &result.CreatedBy,
		&result.CreatedAt, &result.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListProducts возвращает список продуктов с фильтрами и пагинацией.
func (s *Storage) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, price, category, stock, brand,
			      image, is_available, created_by, created_at, updated_at
			  FROM products
			  WHERE ($1::text IS NULL OR category = $1)
			    AND ($2::boolean IS NULL OR is_available = $2)
			    AND ($3::numeric IS NULL OR price >= $3)
			    AND ($4::numeric IS NULL OR price <= $4)
			  ORDER BY created_at DESC
			  LIMIT $5 OFFSET $6`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.Category, filter.IsAvailable, filter.MinPrice, filter.MaxPrice,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		var item models.Product
		if err := rows.Scan(&item.UID, &item.Name, &item.Description,
			&item.Price, &item.Category, &item.Stock, &item.Brand,
			&item.Image, &item.IsAvailable, &item.CreatedBy,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListProductsByCategory возвращает доступные продукты указанной категории.
func (s *Storage) ListProductsByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	const op = "storage.ListProductsByCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, name, description, price, category, stock, brand,
			      image, is_available, created_by, created_at, updated_at
			  FROM products
			  WHERE category = $1
			    AND is_available = true
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		var item models.Product
		if err := rows.Scan(&item.UID, &item.Name, &item.Description,
			&item.Price, &item.Category, &item.Stock, &item.Brand,
			&item.Image, &item.IsAvailable, &item.CreatedBy,
			&item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProduct обновляет данные продукта по UID, возвращает число изменённых строк.
func (s *Storage) UpdateProduct(ctx context.Context, product models.Product, uid string) (int, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET name = $1, description = $2, price = $3, category = $4,
			      stock = $5, brand = $6, image = $7, is_available = $8,
			      updated_at = now()
			  WHERE uid = $9`
	result, err := s.DB.ExecContext(ctx, query,
		product.Name, product.Description, product.Price, product.Category,
		product.Stock, product.Brand, product.Image, product.IsAvailable, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// AdjustProductStock изменяет остаток продукта на delta с отсечкой в нуле
// и возвращает новый остаток.
func (s *Storage) AdjustProductStock(ctx context.Context, uid string, delta int) (int, error) {
	const op = "storage.AdjustProductStock"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE products
			  SET stock = GREATEST(stock + $1, 0), updated_at = now()
			  WHERE uid = $2
			  RETURNING stock`
	var newStock int
	if err := s.DB.QueryRowContext(ctx, query, delta, uid).Scan(&newStock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newStock, nil
}

// RemoveProduct удаляет продукт по UID, возвращает число удалённых строк.
func (s *Storage) RemoveProduct(ctx context.Context, uid string) (int, error) {
	const op = "storage.RemoveProduct"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM products WHERE uid = $1`
	result, err := s.DB.ExecContext(ctx, query, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
