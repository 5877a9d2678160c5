// Package services содержит бизнес-логику работы с ценовыми заявками:
// создание, проверку, историю и агрегацию цен, включая кеширование
// и публикацию событий проверки в очередь уведомлений.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gambiamarkets/price-tracker/internal/lib/sl"
	"github.com/gambiamarkets/price-tracker/internal/models"
)

// SubmissionRepository определяет методы для работы с заявками в хранилище.
type SubmissionRepository interface {
	// CreateSubmission добавляет новую заявку и возвращает её UID.
	CreateSubmission(ctx context.Context, sub models.PriceSubmission) (string, error)
	// ReadSubmission возвращает заявку по UID вместе с названиями продукта и рынка.
	ReadSubmission(ctx context.Context, uid string) (*models.PriceSubmission, error)
	// ListSubmissions возвращает список заявок по фильтру с пагинацией.
	ListSubmissions(ctx context.Context, filter models.SubmissionFilter) ([]*models.PriceSubmission, error)
	// ListSubmissionsByProduct возвращает подтверждённые заявки продукта.
	ListSubmissionsByProduct(ctx context.Context, productUID string) ([]*models.PriceSubmission, error)
	// ListSubmissionsByMarket возвращает подтверждённые заявки рынка.
	ListSubmissionsByMarket(ctx context.Context, marketUID string) ([]*models.PriceSubmission, error)
	// PriceHistory возвращает подтверждённые заявки пары продукт-рынок,
	// отсортированные по дате наблюдения по убыванию.
	PriceHistory(ctx context.Context, productUID, marketUID string) ([]*models.PriceSubmission, error)
	// AveragePrice считает статистику подтверждённых цен продукта с даты since.
	AveragePrice(ctx context.Context, productUID string, since time.Time) (*models.PriceStats, error)
	// VerifySubmission переводит заявку в approved и возвращает её свежее состояние.
	VerifySubmission(ctx context.Context, uid, verifierUID string, at time.Time) (*models.PriceSubmission, error)
	// RejectSubmission переводит заявку в rejected и возвращает её свежее состояние.
	RejectSubmission(ctx context.Context, uid string, reason *string) (*models.PriceSubmission, error)
	// UpdateSubmission обновляет данные заявки без смены статуса.
	UpdateSubmission(ctx context.Context, sub models.PriceSubmission, uid string) (int, error)
	// RemoveSubmission удаляет заявку, возвращает число удалённых строк.
	RemoveSubmission(ctx context.Context, uid string) (int, error)
}

// UserGetter возвращает профиль автора заявки для события уведомления.
type UserGetter interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ReviewPublisher публикует событие проверки заявки в очередь уведомлений.
type ReviewPublisher interface {
	PublishReview(event models.ReviewEvent) error
}

// TTL агрегата короткий: ключ зависит от окна, точечная инвалидация при
// verify невозможна, поэтому устаревание ограничивается временем жизни.
const (
	submissionCacheTTL = time.Hour
	averageCacheTTL    = 5 * time.Minute
)

// SubmissionService реализует бизнес-логику работы с ценовыми заявками.
//
// Проверки прав (admin для verify/reject/update/remove) выполняются
// на уровне HTTP-маршрутов, сервис доверяет вызывающему.
type SubmissionService struct {
	repo      SubmissionRepository
	users     UserGetter
	cache     Cache
	publisher ReviewPublisher
	log       *slog.Logger
}

// NewSubmissionService создает новый экземпляр SubmissionService.
func NewSubmissionService(repo SubmissionRepository, users UserGetter, cache Cache,
	publisher ReviewPublisher, log *slog.Logger) *SubmissionService {
	return &SubmissionService{
		repo:      repo,
		users:     users,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// Create создает новую заявку от имени submitterUID и возвращает её UID.
// Статус всегда pending, признак верификации сброшен — значения из запроса
// игнорируются. Пустая дата наблюдения заменяется текущей, дата в будущем
// не отклоняется.
func (s *SubmissionService) Create(ctx context.Context, submitterUID string, req models.DummySubmission) (string, error) {
	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(models.SubmissionDateLayout, req.Date)
		if err != nil {
			return "", fmt.Errorf("invalid date: %w", err)
		}
		date = parsed
	}

	sub := models.PriceSubmission{
		ProductUID:  req.ProductUID,
		MarketUID:   req.MarketUID,
		SubmittedBy: submitterUID,
		Price:       req.Price,
		Unit:        req.Unit,
		Date:        date,
		Notes:       req.Notes,
		Status:      models.StatusPending,
		IsVerified:  false,
	}

	uid, err := s.repo.CreateSubmission(ctx, sub)
	if err != nil {
		return "", err
	}

	s.log.Info("created new price submission", slog.String("uid", uid))
	return uid, nil
}

// Read возвращает заявку по UID, используя кеш или репозиторий.
func (s *SubmissionService) Read(ctx context.Context, uid string) (*models.PriceSubmission, error) {
	var result *models.PriceSubmission
	cacheKey := fmt.Sprintf("submission:%s", uid)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadSubmission(ctx, uid)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, submissionCacheTTL); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return result, nil
}

// List возвращает список заявок по фильтру.
func (s *SubmissionService) List(ctx context.Context, filter models.SubmissionFilter) ([]*models.PriceSubmission, error) {
	return s.repo.ListSubmissions(ctx, filter)
}

// ByProduct возвращает подтверждённые заявки продукта.
func (s *SubmissionService) ByProduct(ctx context.Context, productUID string) ([]*models.PriceSubmission, error) {
	return s.repo.ListSubmissionsByProduct(ctx, productUID)
}

// ByMarket возвращает подтверждённые заявки рынка.
func (s *SubmissionService) ByMarket(ctx context.Context, marketUID string) ([]*models.PriceSubmission, error) {
	return s.repo.ListSubmissionsByMarket(ctx, marketUID)
}

// History возвращает подтверждённые заявки пары продукт-рынок,
// от новых наблюдений к старым.
func (s *SubmissionService) History(ctx context.Context, productUID, marketUID string) ([]*models.PriceSubmission, error) {
	return s.repo.PriceHistory(ctx, productUID, marketUID)
}

// AveragePrice возвращает статистику подтверждённых цен продукта за
// последние days дней. Если подтверждённых заявок в окне нет, возвращает
// nil без ошибки. Единицы измерения не нормализуются: среднее считается
// по сырым ценам.
func (s *SubmissionService) AveragePrice(ctx context.Context, productUID string, days int) (*models.PriceStats, error) {
	cacheKey := fmt.Sprintf("avgprice:%s:%d", productUID, days)
	var stats *models.PriceStats
	found, err := s.cache.Get(cacheKey, &stats)
	if err != nil {
		return nil, err
	}
	if found {
		return stats, nil
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	stats, err = s.repo.AveragePrice(ctx, productUID, since)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, stats, averageCacheTTL); err != nil {
		s.log.Warn("failed to cache price stats", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return stats, nil
}

// Verify переводит заявку в approved от имени verifierUID. Повторное
// подтверждение допустимо и перештамповывает проверяющего и время.
func (s *SubmissionService) Verify(ctx context.Context, uid, verifierUID string) (*models.PriceSubmission, error) {
	sub, err := s.repo.VerifySubmission(ctx, uid, verifierUID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.log.Info("verified price submission",
		slog.String("uid", uid), slog.String("verified_by", verifierUID))

	s.refreshCache(sub)
	s.publishReview(ctx, sub, "")
	return sub, nil
}

// Reject переводит заявку в rejected. Проверяющий не записывается;
// если заявка была подтверждена ранее, метаданные верификации остаются.
func (s *SubmissionService) Reject(ctx context.Context, uid string, req models.DummyRejection) (*models.PriceSubmission, error) {
	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}
	sub, err := s.repo.RejectSubmission(ctx, uid, reason)
	if err != nil {
		return nil, err
	}

	s.log.Info("rejected price submission", slog.String("uid", uid))

	s.refreshCache(sub)
	s.publishReview(ctx, sub, req.Reason)
	return sub, nil
}

// Update обновляет данные заявки без смены статуса и обновляет кеш.
func (s *SubmissionService) Update(ctx context.Context, uid string, req models.DummySubmission) (int, error) {
	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse(models.SubmissionDateLayout, req.Date)
		if err != nil {
			return 0, fmt.Errorf("invalid date: %w", err)
		}
		date = parsed
	}

	sub := models.PriceSubmission{
		ProductUID: req.ProductUID,
		MarketUID:  req.MarketUID,
		Price:      req.Price,
		Unit:       req.Unit,
		Date:       date,
		Notes:      req.Notes,
	}
	count, err := s.repo.UpdateSubmission(ctx, sub, uid)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated price submission", slog.String("uid", uid))

	cacheKey := fmt.Sprintf("submission:%s", uid)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return count, nil
}

// Remove удаляет заявку по UID и инвалидирует кеш.
func (s *SubmissionService) Remove(ctx context.Context, uid string) (int, error) {
	cacheKey := fmt.Sprintf("submission:%s", uid)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveSubmission(ctx, uid)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *SubmissionService) refreshCache(sub *models.PriceSubmission) {
	cacheKey := fmt.Sprintf("submission:%s", sub.UID)
	if err := s.cache.Set(cacheKey, sub, submissionCacheTTL); err != nil {
		s.log.Warn("failed to cache submission", slog.String("key", cacheKey), slog.Any("err", err))
	}
}

// publishReview отправляет событие проверки в очередь уведомлений.
// Ошибки публикации не прерывают операцию: заявка уже проверена.
func (s *SubmissionService) publishReview(ctx context.Context, sub *models.PriceSubmission, reason string) {
	submitter, err := s.users.GetUser(ctx, sub.SubmittedBy)
	if err != nil {
		s.log.Warn("failed to resolve submitter for review event",
			slog.String("uid", sub.UID), sl.Err(err))
		return
	}

	event := models.ReviewEvent{
		SubmissionUID: sub.UID,
		Status:        sub.Status,
		Price:         sub.Price,
		Unit:          sub.Unit,
		Reason:        reason,
		SubmitterName: submitter.Name,
		Email:         submitter.Email,
	}
	if sub.ProductName != nil {
		event.ProductName = *sub.ProductName
	}
	if sub.MarketName != nil {
		event.MarketName = *sub.MarketName
	}

	if err := s.publisher.PublishReview(event); err != nil {
		s.log.Error("failed to publish review event", slog.String("uid", sub.UID), sl.Err(err))
	}
}
