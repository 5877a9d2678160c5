package services

import (
	"context"
	"log/slog"

	"github.com/gambiamarkets/price-tracker/internal/models"
)

// MarketRepository определяет методы для работы с рынками в хранилище.
type MarketRepository interface {
	// CreateMarket добавляет новый рынок и возвращает его UID.
	CreateMarket(ctx context.Context, market models.Market) (string, error)
	// ReadMarket возвращает рынок по UID вместе со списком продуктов.
	ReadMarket(ctx context.Context, uid string) (*models.Market, error)
	// ListMarkets возвращает список рынков по фильтру с пагинацией.
	ListMarkets(ctx context.Context, filter models.MarketFilter) ([]*models.Market, error)
	// ListMarketsByCity возвращает активные рынки города.
	ListMarketsByCity(ctx context.Context, city string) ([]*models.Market, error)
	// ListMarketsByType возвращает активные рынки указанного типа.
	ListMarketsByType(ctx context.Context, marketType string) ([]*models.Market, error)
	// UpdateMarket обновляет данные рынка, возвращает число задетых строк.
	UpdateMarket(ctx context.Context, market models.Market, uid string) (int, error)
	// AddMarketProduct добавляет продукт на рынок; повторное добавление не ошибка.
	AddMarketProduct(ctx context.Context, marketUID, productUID string) error
	// RemoveMarketProduct убирает продукт с рынка.
	RemoveMarketProduct(ctx context.Context, marketUID, productUID string) error
	// RemoveMarket удаляет рынок, возвращает число удалённых строк.
	RemoveMarket(ctx context.Context, uid string) (int, error)
}

// MarketService реализует бизнес-логику работы с рынками.
type MarketService struct {
	repo MarketRepository
	log  *slog.Logger
}

// NewMarketService создает новый экземпляр MarketService.
func NewMarketService(repo MarketRepository, log *slog.Logger) *MarketService {
	return &MarketService{
		repo: repo,
		log:  log,
	}
}

// Create создает новый рынок, менеджером назначается actorUID.
func (s *MarketService) Create(ctx context.Context, actorUID string, req models.DummyMarket) (string, error) {
	market := marketFromRequest(req)
	market.Manager = actorUID

	uid, err := s.repo.CreateMarket(ctx, market)
	if err != nil {
		return "", err
	}

	s.log.Info("created new market", slog.String("uid", uid))
	return uid, nil
}

func marketFromRequest(req models.DummyMarket) models.Market {
	address := req.Address
	if address.Country == "" {
		address.Country = models.DefaultCountry
	}
	hours := req.OperatingHours
	for _, day := range []*string{
		&hours.Monday, &hours.Tuesday, &hours.Wednesday, &hours.Thursday,
		&hours.Friday, &hours.Saturday, &hours.Sunday,
	} {
		if *day == "" {
			*day = "Closed"
		}
	}
	marketType := req.Type
	if marketType == "" {
		marketType = models.MarketTypeOther
	}
	image := req.Image
	if image == "" {
		image = models.DefaultMarketImage
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return models.Market{
		Name:           req.Name,
		Description:    req.Description,
		Address:        address,
		Contact:        req.Contact,
		OperatingHours: hours,
		Type:           marketType,
		Image:          image,
		IsActive:       isActive,
	}
}

// Read возвращает рынок по UID.
func (s *MarketService) Read(ctx context.Context, uid string) (*models.Market, error) {
	return s.repo.ReadMarket(ctx, uid)
}

// List возвращает список рынков по фильтру.
func (s *MarketService) List(ctx context.Context, filter models.MarketFilter) ([]*models.Market, error) {
	return s.repo.ListMarkets(ctx, filter)
}

// ListByCity возвращает активные рынки города.
func (s *MarketService) ListByCity(ctx context.Context, city string) ([]*models.Market, error) {
	return s.repo.ListMarketsByCity(ctx, city)
}

// ListByType возвращает активные рынки указанного типа.
func (s *MarketService) ListByType(ctx context.Context, marketType string) ([]*models.Market, error) {
	return s.repo.ListMarketsByType(ctx, marketType)
}

// Update обновляет рынок. Разрешено менеджеру рынка и администратору.
func (s *MarketService) Update(ctx context.Context, actorUID string, actorRole models.Role, uid string, req models.DummyMarket) (int, error) {
	existing, err := s.repo.ReadMarket(ctx, uid)
	if err != nil {
		return 0, err
	}
	if !canModify(actorUID, actorRole, existing.Manager) {
		return 0, models.ErrForbidden
	}

	market := marketFromRequest(req)
	if req.Image == "" {
		market.Image = existing.Image
	}
	if req.IsActive == nil {
		market.IsActive = existing.IsActive
	}
	count, err := s.repo.UpdateMarket(ctx, market, uid)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated market", slog.String("uid", uid))
	return count, nil
}

// AddProduct добавляет продукт на рынок. Повторное добавление того же
// продукта не считается ошибкой и не создает дубликат.
func (s *MarketService) AddProduct(ctx context.Context, actorUID string, actorRole models.Role, marketUID, productUID string) error {
	existing, err := s.repo.ReadMarket(ctx, marketUID)
	if err != nil {
		return err
	}
	if !canModify(actorUID, actorRole, existing.Manager) {
		return models.ErrForbidden
	}
	if err := s.repo.AddMarketProduct(ctx, marketUID, productUID); err != nil {
		return err
	}
	s.log.Info("added product to market",
		slog.String("market_uid", marketUID), slog.String("product_uid", productUID))
	return nil
}

// RemoveProduct убирает продукт с рынка.
func (s *MarketService) RemoveProduct(ctx context.Context, actorUID string, actorRole models.Role, marketUID, productUID string) error {
	existing, err := s.repo.ReadMarket(ctx, marketUID)
	if err != nil {
		return err
	}
	if !canModify(actorUID, actorRole, existing.Manager) {
		return models.ErrForbidden
	}
	if err := s.repo.RemoveMarketProduct(ctx, marketUID, productUID); err != nil {
		return err
	}
	s.log.Info("removed product from market",
		slog.String("market_uid", marketUID), slog.String("product_uid", productUID))
	return nil
}

// Remove удаляет рынок. Разрешено менеджеру рынка и администратору.
func (s *MarketService) Remove(ctx context.Context, actorUID string, actorRole models.Role, uid string) (int, error) {
	existing, err := s.repo.ReadMarket(ctx, uid)
	if err != nil {
		return 0, err
	}
	if !canModify(actorUID, actorRole, existing.Manager) {
		return 0, models.ErrForbidden
	}
	count, err := s.repo.RemoveMarket(ctx, uid)
	if err != nil {
		return 0, err
	}
	s.log.Info("removed market", slog.String("uid", uid))
	return count, nil
}
