package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gambiamarkets/price-tracker/internal/models"
)

const submissionColumns = `s.uid, s.product_uid, s.market_uid, s.submitted_by,
	s.price, s.unit, s.date, s.notes, s.status, s.is_verified, s.verified_by,
	s.verified_at, s.rejection_reason, p.name, m.name, s.created_at, s.updated_at`

// submissionFrom объединяет заявки со справочниками продуктов и рынков.
// LEFT JOIN: висячая ссылка отдаёт NULL вместо названия, а не ошибку.
const submissionFrom = ` FROM price_submissions s
	LEFT JOIN products p ON p.uid = s.product_uid
	LEFT JOIN markets m ON m.uid = s.market_uid`

// scanSubmission читает одну строку заявки из выборки submissionColumns.
func scanSubmission(row interface{ Scan(...any) error }) (*models.PriceSubmission, error) {
	var item models.PriceSubmission
	var notes, reason, verifiedBy, productName, marketName sql.NullString
	var verifiedAt sql.NullTime
	if err := row.Scan(&item.UID, &item.ProductUID, &item.MarketUID,
		&item.SubmittedBy, &item.Price, &item.Unit, &item.Date, &notes,
		&item.Status, &item.IsVerified, &verifiedBy, &verifiedAt, &reason,
		&productName, &marketName, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	item.Notes = notes.String
	if verifiedBy.Valid {
		item.VerifiedBy = &verifiedBy.String
	}
	if verifiedAt.Valid {
		item.VerifiedAt = &verifiedAt.Time
	}
	if reason.Valid {
		item.RejectionReason = &reason.String
	}
	if productName.Valid {
		item.ProductName = &productName.String
	}
	if marketName.Valid {
		item.MarketName = &marketName.String
	}
	return &item, nil
}

// CreateSubmission вставляет новую ценовую заявку и возвращает её UID.
// Статус и признак проверки задаются вызывающим сервисом, не клиентом.
func (s *Storage) CreateSubmission(ctx context.Context, sub models.PriceSubmission) (string, error) {
	const op = "storage.CreateSubmission"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO price_submissions (product_uid, market_uid, submitted_by,
			      price, unit, date, notes, status, is_verified)
			  VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
			  RETURNING uid`
	var newUID string
	err := s.DB.QueryRowContext(ctx, query,
		sub.ProductUID, sub.MarketUID, sub.SubmittedBy, sub.Price, sub.Unit,
		sub.Date, sub.Notes, string(sub.Status), sub.IsVerified).Scan(&newUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// ReadSubmission возвращает заявку по UID в объединённом виде.
func (s *Storage) ReadSubmission(ctx context.Context, uid string) (*models.PriceSubmission, error) {
	const op = "storage.ReadSubmission"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + submissionColumns + submissionFrom + ` WHERE s.uid = $1`
	result, err := scanSubmission(s.DB.QueryRowContext(ctx, query, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSubmissions возвращает заявки по фильтру, новые даты первыми.
func (s *Storage) ListSubmissions(ctx context.Context, filter models.SubmissionFilter) ([]*models.PriceSubmission, error) {
	const op = "storage.ListSubmissions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + submissionColumns + submissionFrom + `
			  WHERE ($1::uuid IS NULL OR s.product_uid = $1)
			    AND ($2::uuid IS NULL OR s.market_uid = $2)
			    AND ($3::uuid IS NULL OR s.submitted_by = $3)
			    AND ($4::text IS NULL OR s.status = $4)
			    AND ($5::timestamptz IS NULL OR s.date >= $5)
			    AND ($6::timestamptz IS NULL OR s.date <= $6)
			  ORDER BY s.date DESC
			  LIMIT $7 OFFSET $8`
	rows, err := s.DB.QueryContext(ctx, query,
		filter.ProductUID, filter.MarketUID, filter.SubmittedBy,
		(*string)(filter.Status), filter.StartDate, filter.EndDate,
		filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectSubmissions(op, rows)
}

// ListSubmissionsByProduct возвращает подтверждённые заявки продукта,
// новые даты первыми.
func (s *Storage) ListSubmissionsByProduct(ctx context.Context, productUID string) ([]*models.PriceSubmission, error) {
	const op = "storage.ListSubmissionsByProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + submissionColumns + submissionFrom + `
			  WHERE s.product_uid = $1 AND s.status = 'approved'
			  ORDER BY s.date DESC`
	rows, err := s.DB.QueryContext(ctx, query, productUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectSubmissions(op, rows)
}

// ListSubmissionsByMarket возвращает подтверждённые заявки рынка,
// новые даты первыми.
func (s *Storage) ListSubmissionsByMarket(ctx context.Context, marketUID string) ([]*models.PriceSubmission, error) {
	const op = "storage.ListSubmissionsByMarket"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + submissionColumns + submissionFrom + `
			  WHERE s.market_uid = $1 AND s.status = 'approved'
			  ORDER BY s.date DESC`
	rows, err := s.DB.QueryContext(ctx, query, marketUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectSubmissions(op, rows)
}

// PriceHistory возвращает подтверждённые заявки пары продукт/рынок,
// новые даты первыми. Pending и rejected заявки в историю не попадают.
func (s *Storage) PriceHistory(ctx context.Context, productUID, marketUID string) ([]*models.PriceSubmission, error) {
	const op = "storage.PriceHistory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + submissionColumns + submissionFrom + `
			  WHERE s.product_uid = $1 AND s.market_uid = $2 AND s.status = 'approved'
			  ORDER BY s.date DESC`
	rows, err := s.DB.QueryContext(ctx, query, productUID, marketUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectSubmissions(op, rows)
}

func collectSubmissions(op string, rows *sql.Rows) ([]*models.PriceSubmission, error) {
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.PriceSubmission
	for rows.Next() {
		item, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AveragePrice считает среднюю, минимальную и максимальную цену и число
// подтверждённых заявок продукта с датой не раньше since. При пустой
// выборке возвращает nil без ошибки — отличимо от нулевых значений.
// Единицы измерения не нормализуются: среднее считается по сырым ценам.
func (s *Storage) AveragePrice(ctx context.Context, productUID string, since time.Time) (*models.PriceStats, error) {
	const op = "storage.AveragePrice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT AVG(price), MIN(price), MAX(price), COUNT(*)
			  FROM price_submissions
			  WHERE product_uid = $1 AND status = 'approved' AND date >= $2`
	var avg, minPrice, maxPrice sql.NullFloat64
	var count int
	err := s.DB.QueryRowContext(ctx, query, productUID, since).
		Scan(&avg, &minPrice, &maxPrice, &count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if count == 0 {
		return nil, nil
	}
	return &models.PriceStats{
		AveragePrice: avg.Float64,
		MinPrice:     minPrice.Float64,
		MaxPrice:     maxPrice.Float64,
		Count:        count,
	}, nil
}

// VerifySubmission переводит заявку в approved и штампует проверяющего
// и время. Повторное подтверждение перештамповывает verified_by/verified_at.
func (s *Storage) VerifySubmission(ctx context.Context, uid, verifierUID string, at time.Time) (*models.PriceSubmission, error) {
	const op = "storage.VerifySubmission"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE price_submissions
			  SET status = 'approved', is_verified = true, verified_by = $1,
			      verified_at = $2, updated_at = now()
			  WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, verifierUID, at, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return s.ReadSubmission(ctx, uid)
}

// RejectSubmission переводит заявку в rejected. Поля verified_by/verified_at
// намеренно не очищаются: отклонение ранее подтверждённой заявки оставляет
// устаревшие метаданные проверки.
func (s *Storage) RejectSubmission(ctx context.Context, uid string, reason *string) (*models.PriceSubmission, error) {
	const op = "storage.RejectSubmission"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE price_submissions
			  SET status = 'rejected', rejection_reason = $1, updated_at = now()
			  WHERE uid = $2`
	result, err := s.DB.ExecContext(ctx, query, reason, uid)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return s.ReadSubmission(ctx, uid)
}

// UpdateSubmission обновляет данные заявки по UID, возвращает число
// изменённых строк. Статус через этот метод не меняется.
func (s *Storage) UpdateSubmission(ctx context.Context, sub models.PriceSubmission, uid string) (int, error) {
	const op = "storage.UpdateSubmission"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE price_submissions
			  SET product_uid = $1, market_uid = $2, price = $3, unit = $4,
			      date = $5, notes = NULLIF($6, ''), updated_at = now()
			  WHERE uid = $7`
	result, err := s.DB.ExecContext(ctx, query,
		sub.ProductUID, sub.MarketUID, sub.Price, sub.Unit, sub.Date,
		sub.Notes, uid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubmission удаляет заявку по UID, возвращает число удалённых строк.
func (s *Storage) RemoveSubmission(ctx context.Context, uid string) (int, error) {
	const op = "storage.RemoveSubmission"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM price_submissions WHERE uid = $1`
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
