// Package services содержит бизнес-логику каталога: продукты и рынки.
//
// Правила доступа на изменение одинаковы для обеих сущностей: запись может
// менять её создатель или администратор, всем остальным возвращается
// models.ErrForbidden.
package services

import (
	"context"
	"log/slog"

	"github.com/gambiamarkets/price-tracker/internal/models"
)

// ProductRepository определяет методы для работы с продуктами в хранилище.
type ProductRepository interface {
	// CreateProduct добавляет новый продукт и возвращает его UID.
	CreateProduct(ctx context.Context, product models.Product) (string, error)
	// ReadProduct возвращает продукт по UID.
	ReadProduct(ctx context.Context, uid string) (*models.Product, error)
	// ListProducts возвращает список продуктов по фильтру с пагинацией.
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error)
	// ListProductsByCategory возвращает доступные продукты категории.
	ListProductsByCategory(ctx context.Context, category string) ([]*models.Product, error)
	// UpdateProduct обновляет данные продукта, возвращает число задетых строк.
	UpdateProduct(ctx context.Context, product models.Product, uid string) (int, error)
	// AdjustProductStock изменяет остаток на delta, не опуская его ниже нуля.
	AdjustProductStock(ctx context.Context, uid string, delta int) (int, error)
	// RemoveProduct удаляет продукт, возвращает число удалённых строк.
	RemoveProduct(ctx context.Context, uid string) (int, error)
}

// ProductService реализует бизнес-логику работы с продуктами каталога.
type ProductService struct {
	repo ProductRepository
	log  *slog.Logger
}

// NewProductService создает новый экземпляр ProductService.
func NewProductService(repo ProductRepository, log *slog.Logger) *ProductService {
	return &ProductService{
		repo: repo,
		log:  log,
	}
}

// canModify проверяет право actor изменять запись, созданную ownerUID.
func canModify(actorUID string, actorRole models.Role, ownerUID string) bool {
	return actorRole == models.RoleAdmin || actorUID == ownerUID
}

// Create создает новый продукт от имени actorUID и возвращает его UID.
func (s *ProductService) Create(ctx context.Context, actorUID string, req models.DummyProduct) (string, error) {
	image := req.Image
	if image == "" {
		image = models.DefaultProductImage
	}
	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}
	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Brand:       req.Brand,
		Image:       image,
		IsAvailable: isAvailable,
		CreatedBy:   actorUID,
	}

	uid, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return "", err
	}

	s.log.Info("created new product", slog.String("uid", uid))
	return uid, nil
}

// Read возвращает продукт по UID.
func (s *ProductService) Read(ctx context.Context, uid string) (*models.Product, error) {
	return s.repo.ReadProduct(ctx, uid)
}

// List возвращает список продуктов по фильтру.
func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

// ListByCategory возвращает доступные продукты указанной категории.
func (s *ProductService) ListByCategory(ctx context.Context, category string) ([]*models.Product, error) {
	return s.repo.ListProductsByCategory(ctx, category)
}

// Update обновляет продукт. Разрешено создателю продукта и администратору.
func (s *ProductService) Update(ctx context.Context, actorUID string, actorRole models.Role, uid string, req models.DummyProduct) (int, error) {
	existing, err := s.repo.ReadProduct(ctx, uid)
	if err != nil {
		return 0, err
	}
	if !canModify(actorUID, actorRole, existing.CreatedBy) {
		return 0, models.ErrForbidden
	}

	image := req.Image
	if image == "" {
		image = existing.Image
	}
	isAvailable := existing.IsAvailable
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}
	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Brand:       req.Brand,
		Image:       image,
		IsAvailable: isAvailable,
	}
	count, err := s.repo.UpdateProduct(ctx, product, uid)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated product", slog.String("uid", uid))
	return count, nil
}

// AdjustStock изменяет остаток продукта на quantity (может быть отрицательным).
// Итоговый остаток не опускается ниже нуля. Возвращает новый остаток.
func (s *ProductService) AdjustStock(ctx context.Context, actorUID string, actorRole models.Role, uid string, quantity int) (int, error) {
	existing, err := s.repo.ReadProduct(ctx, uid)
	if err != nil {
		return 0, err
	}
	if !canModify(actorUID, actorRole, existing.CreatedBy) {
		return 0, models.ErrForbidden
	}
	stock, err := s.repo.AdjustProductStock(ctx, uid, quantity)
	if err != nil {
		return 0, err
	}
	s.log.Info("adjusted product stock",
		slog.String("uid", uid), slog.Int("quantity", quantity), slog.Int("stock", stock))
	return stock, nil
}

// Remove удаляет продукт. Разрешено создателю продукта и администратору.
func (s *ProductService) Remove(ctx context.Context, actorUID string, actorRole models.Role, uid string) (int, error) {
	existing, err := s.repo.ReadProduct(ctx, uid)
	if err != nil {
		return 0, err
	}
	if !canModify(actorUID, actorRole, existing.CreatedBy) {
		return 0, models.ErrForbidden
	}
	count, err := s.repo.RemoveProduct(ctx, uid)
	if err != nil {
		return 0, err
	}
	s.log.Info("removed product", slog.String("uid", uid))
	return count, nil
}
