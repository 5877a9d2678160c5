package models

import "time"

// Категории продуктов. Закрытый набор, совпадает с ограничением
// oneof в DummyProduct.
const (
	CategoryVegetables = "Vegetables"
	CategoryFruits     = "Fruits"
	CategoryGrains     = "Grains"
	CategoryMeat       = "Meat"
	CategoryDairy      = "Dairy"
	CategorySeafood    = "Seafood"
	CategorySpices     = "Spices"
	CategoryOther      = "Other"
)

// DefaultProductImage используется, когда продукт создан без изображения.
const DefaultProductImage = "https://via.placeholder.com/400x300?text=No+Image"

// Product представляет продукт каталога.
//
// CreatedBy — ссылка на пользователя-создателя. Ссылочная целостность
// рекомендательная: запись с несуществующим создателем допустима.
type Product struct {
	UID         string  // Уникальный идентификатор продукта
	Name        string  // Название продукта
	Description string  // Описание (опционально)
	Price       float64 // Справочная цена, >= 0
	Category    string  // Категория из закрытого набора
	Stock       int     // Остаток, >= 0
	Brand       string  // Бренд (опционально)
	Image       string  // URL изображения
	IsAvailable bool    // Доступен ли продукт для отображения
	CreatedBy   string  // UID пользователя-создателя
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DummyProduct используется для приёма данных продукта из JSON-запроса.
type DummyProduct struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" validate:"required,oneof=Vegetables Fruits Grains Meat Dairy Seafood Spices Other"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Brand       string  `json:"brand" validate:"omitempty,max=50"`
	Image       string  `json:"image" validate:"omitempty,url"`
	IsAvailable *bool   `json:"is_available"`
}

// DummyStockAdjustment используется для приёма изменения остатка.
// Quantity может быть отрицательным, итоговый остаток не опускается ниже нуля.
type DummyStockAdjustment struct {
	Quantity int `json:"quantity" validate:"required"`
}

// ProductFilter описывает фильтры списка продуктов.
type ProductFilter struct {
	Category    *string
	IsAvailable *bool
	MinPrice    *float64
	MaxPrice    *float64
	Limit       int
	Offset      int
}
