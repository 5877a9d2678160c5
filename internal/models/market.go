package models

import "time"

// Типы рынков. Закрытый набор, совпадает с ограничением oneof в DummyMarket.
const (
	MarketTypeFarmers     = "farmers-market"
	MarketTypeSupermarket = "supermarket"
	MarketTypeConvenience = "convenience-store"
	MarketTypeSpecialty   = "specialty-store"
	MarketTypeWholesale   = "wholesale"
	MarketTypeOther       = "other"
)

// DefaultMarketImage используется, когда рынок создан без изображения.
const DefaultMarketImage = "https://via.placeholder.com/600x400?text=Market+Image"

// DefaultCountry — страна по умолчанию для адреса рынка.
const DefaultCountry = "The Gambia"

// Address — структурированный адрес рынка.
type Address struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"omitempty"`
	Country string `json:"country" validate:"omitempty"`
}

// Contact — контактные данные рынка.
type Contact struct {
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// OperatingHours — часы работы по дням недели. Пустое значение дня
// означает "Closed".
type OperatingHours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

/// Market представляет рынок: точку, для которой собираются цены.
//
// Manager — пользователь, создавший рынок; только он или администратор
// может изменять и удалять запись. Products — множество ссылок на продукты,
// каждая ссылка встречается не более одного раза.
type Market struct {
	UID            string // Уникальный идентификатор рынка
	Name           string // Название рынка
	Description    string // Описание (опционально)
	Address        Address
	Contact        Contact
	OperatingHours OperatingHours
	Type           string   // Тип рынка из закрытого набора
	Image          string   // URL изображения
	IsActive       bool     // Активен ли рынок
	Manager        string   // UID пользователя-менеджера
	Products       []string // UID продуктов, представленных на рынке
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DummyMarket используется для приёма данных рынка из JSON-запроса.
type DummyMarket struct {
	Name           string         `json:"name" validate:"required,max=100"`
	Description    string         `json:"description" validate:"omitempty,max=1000"`
	Address        Address        `json:"address" validate:"required"`
	Contact        Contact        `json:"contact" validate:"required"`
	OperatingHours OperatingHours `json:"operating_hours"`
	Type           string         `json:"type" validate:"omitempty,oneof=farmers-market supermarket convenience-store specialty-store wholesale other"`
	Image          string         `json:"image" validate:"omitempty,url"`
	IsActive       *bool          `json:"is_active"`
}

// DummyMarketProduct используется для добавления продукта на рынок.
type DummyMarketProduct struct {
	ProductUID string `json:"product_uid" validate:"required,uuid"`
}

// MarketFilter описывает фильтры списка рынков.
type MarketFilter struct {
	City     *string
	State    *string
	Type     *string
	IsActive *bool
	Limit    int
	Offset   int
}
