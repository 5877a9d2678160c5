package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gambiamarkets/price-tracker/internal/models"
)

// CreateMarket вставляет новый рынок и возвращает его UID.
func (s *Storage) CreateMarket(ctx context.Context, market models.Market) (string, error) {
	const op = "storage.CreateMarket"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO markets (name, description, street, city, state, zip_code,
			      country, phone, contact_email, hours_monday, hours_tuesday,
			      hours_wednesday, hours_thursday, hours_friday, hours_saturday,
			      hours_sunday, type, image, is_active, manager)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			      $14, $15, $16, $17, $18, $19, $20)
			  RETURNING uid`
	var newUID string
	err := s.DB.QueryRowContext(ctx, query,
		market.Name, market.Description,
		market.Address.Street, market.Address.City, market.Address.State,
		market.Address.ZipCode, market.Address.Country,
		market.Contact.Phone, market.Contact.Email,
		market.OperatingHours.Monday, market.OperatingHours.Tuesday,
		market.OperatingHours.Wednesday, market.OperatingHours.Thursday,
		market.OperatingHours.Friday, market.OperatingHours.Saturday,
		market.OperatingHours.Sunday,
		market.Type, market.Image, market.IsActive, market.Manager).Scan(&newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// scanMarket читает одну строку рынка из выборки marketColumns.
func scanMarket(row interface{ Scan(...any) error }) (*models.Market, error) {
	var m models.Market
	if err := row.Scan(&m.UID, &m.Name, &m.Description,
		&m.Address.Street, &m.Address.City, &m.Address.State,
		&m.Address.ZipCode, &m.Address.Country,
		&m.Contact.Phone, &m.Contact.Email,
		&m.OperatingHours.Monday, &m.OperatingHours.Tuesday,
		&m.OperatingHours.Wednesday, &m.OperatingHours.Thursday,
		&m.OperatingHours.Friday, &m.OperatingHours.Saturday,
		&m.OperatingHours.Sunday,
		&m.Type, &m.Image, &m.IsActive, &m.Manager,
		&m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

const marketColumns = `uid, name, description, street, city, state, zip_code,
	country, phone, contact_email, hours_monday, hours_tuesday, hours_wednesday,
	hours_thursday, hours_friday, hours_saturday, hours_sunday, type, image,
	is_active, manager, created_at, updated_at`

// ReadMarket возвращает рынок по его UID вместе со списком продуктов.
func (s *Storage) ReadMarket(ctx context.Context, uid string) (*models.Market, error) {
	const op = "storage.ReadMarket"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + marketColumns + ` FROM markets WHERE uid = $1`
	m, err := scanMarket(s.DB.QueryRowContext(ctx, query, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	products, err := s.listMarketProducts(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.Products = products
	return m, nil
}

// listMarketProducts возвращает UID продуктов, представленных на рынке.
func (s *Storage) listMarketProducts(ctx context.Context, marketUID string) ([]string, error) {
	query := `SELECT product_uid FROM market_products WHERE market_uid = $1 ORDER BY added_at`
	rows, err := s.DB.QueryContext(ctx, query, marketUID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var productUID string
		if err := rows.Scan(&productUID); err != nil {
			return nil, err
		}
		result = append(result, productUID)
	}
	return result, rows.Err()
}

// ListMarkets возвращает список рынков с фильтрами и пагинацией.
func (s *Storage) ListMarkets(ctx context.Context, filter models.MarketFilter) ([]*models.Market, error) {
	const op = "storage.ListMarkets"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + marketColumns + `
			  FROM markets
			  WHERE ($1::text IS NULL OR city ILIKE '%' || $1 || '%')
			    AND ($2::text IS NULL OR state ILIKE '%' || $2 || '%')
			    AND ($3::text IS NULL OR type = $3)
			    AND ($4::boolean IS NULL OR is_active = $4)
			  ORDER BY created_at DESC
			  LIMIT $5 OFFSET $6`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.City, filter.State, filter.Type, filter.IsActive,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListMarketsByCity возвращает активные рынки города (без учёта регистра).
func (s *Storage) ListMarketsByCity(ctx context.Context, city string) ([]*models.Market, error) {
	const op = "storage.ListMarketsByCity"
	city = "%" + city + "%"
	return s.listMarketsWhere(ctx, op,
		`city ILIKE $1 AND is_active = true`, city)
}

// ListMarketsByType возвращает активные рынки указанного типа.
func (s *Storage) ListMarketsByType(ctx context.Context, marketType string) ([]*models.Market, error) {
	const op = "storage.ListMarketsByType"
	return s.listMarketsWhere(ctx, op,
		`type = $1 AND is_active = true`, marketType)
}

func (s *Storage) listMarketsWhere(ctx context.Context, op, where string, arg any) ([]*models.Market, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + marketColumns + ` FROM markets WHERE ` + where + ` ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Market
	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateMarket обновляет данные рынка по UID, возвращает число изменённых строк.
func (s *Storage) UpdateMarket(ctx context.Context, market models.Market, uid string) (int, error) {
	const op = "storage.UpdateMarket"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE markets
			  SET name = $1, description = $2, street = $3, city = $4, state = $5,
			      zip_code = $6, country = $7, phone = $8, contact_email = $9,
			      hours_monday = $10, hours_tuesday = $11, hours_wednesday = $12,
			      hours_thursday = $13, hours_friday = $14, hours_saturday = $15,
			      hours_sunday = $16, type = $17, image = $18, is_active = $19,
			      updated_at = now()
			  WHERE uid = $20`
	result, err := s.DB.ExecContext(ctx, query,
		market.Name, market.Description,
		market.Address.Street, market.Address.City, market.Address.State,
		market.Address.ZipCode, market.Address.Country,
		market.Contact.Phone, market.Contact.Email,
		market.OperatingHours.Monday, market.OperatingHours.Tuesday,
		market.OperatingHours.Wednesday, market.OperatingHours.Thursday,
		market.OperatingHours.Friday, market.OperatingHours.Saturday,
		market.OperatingHours.Sunday,
		market.Type, market.Image, market.IsActive, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// AddMarketProduct добавляет продукт в множество продуктов рынка.
// Повторное добавление той же пары не создаёт второй записи.
func (s *Storage) AddMarketProduct(ctx context.Context, marketUID, productUID string) error {
	const op = "storage.AddMarketProduct"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO market_products (market_uid, product_uid)
			  VALUES ($1, $2)
			  ON CONFLICT (market_uid, product_uid) DO NOTHING`
	if _, err := s.DB.ExecContext(ctx, query, marketUID, productUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveMarketProduct убирает продукт из множества продуктов рынка.
func (s *Storage) RemoveMarketProduct(ctx context.Context, marketUID, productUID string) error {
	const op = "storage.RemoveMarketProduct"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM market_products WHERE market_uid = $1 AND product_uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, marketUID, productUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveMarket удаляет рынок по UID, возвращает число удалённых строк.
func (s *Storage) RemoveMarket(ctx context.Context, uid string) (int, error) {
	const op = "storage.RemoveMarket"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM markets WHERE uid = $1`
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
