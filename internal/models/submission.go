package models

import "time"

// SubmissionStatus — статус ценовой заявки. Новая заявка всегда создаётся
// в статусе pending; approved и rejected выставляются только администратором.
// Терминальной блокировки нет: повторное подтверждение перештамповывает
// проверяющего и время, отклонение ранее подтверждённой заявки не очищает
// verified_by/verified_at.
type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

// Единицы измерения цены. Закрытый набор, совпадает с ограничением
// oneof в DummySubmission.
const (
	UnitKg     = "kg"
	UnitLb     = "lb"
	UnitOz     = "oz"
	UnitG      = "g"
	UnitPiece  = "piece"
	UnitDozen  = "dozen"
	UnitLiter  = "liter"
	UnitGallon = "gallon"
	UnitBunch  = "bunch"
	UnitBag    = "bag"
	UnitBox    = "box"
	UnitOther  = "other"
)

// SubmissionDateLayout — формат даты наблюдения в JSON-запросах.
const SubmissionDateLayout = "2006-01-02"

// PriceSubmission представляет одно наблюдение цены продукта на рынке.
//
// Ссылки на продукт и рынок рекомендательные: заявка с несуществующей
// ссылкой допустима, в объединённых выборках такие ссылки отдаются
// с пустыми ProductName/MarketName.
type PriceSubmission struct {
	UID             string           // Уникальный идентификатор заявки
	ProductUID      string           // UID продукта
	MarketUID       string           // UID рынка
	SubmittedBy     string           // UID автора заявки
	Price           float64          // Наблюдённая цена, >= 0
	Unit            string           // Единица измерения
	Date            time.Time        // Дата наблюдения
	Notes           string           // Заметки автора (опционально)
	Status          SubmissionStatus // Статус проверки
	IsVerified      bool             // Производное от статуса approved
	VerifiedBy      *string          // UID проверившего администратора
	VerifiedAt      *time.Time       // Время подтверждения
	RejectionReason *string          // Причина отклонения (опционально)
	ProductName     *string          // Название продукта из объединённой выборки, nil при висячей ссылке
	MarketName      *string          // Название рынка из объединённой выборки, nil при висячей ссылке
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DummySubmission используется для приёма данных заявки из JSON-запроса.
// Поля статуса и верификации намеренно отсутствуют: сервер их игнорирует
// и всегда создаёт заявку как pending/неподтверждённую. Дата в будущем
// сервером не отклоняется.
type DummySubmission struct {
	ProductUID string  `json:"product_uid" validate:"required,uuid"`
	MarketUID  string  `json:"market_uid" validate:"required,uuid"`
	Price      float64 `json:"price" validate:"gte=0"`
	Unit       string  `json:"unit" validate:"required,oneof=kg lb oz g piece dozen liter gallon bunch bag box other"`
	Date       string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes      string  `json:"notes" validate:"omitempty,max=500"`
}

// DummyRejection используется для приёма причины отклонения заявки.
type DummyRejection struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// PriceStats — агрегированная статистика цен продукта за окно времени.
// Среднее считается как невзвешенное среднее сырых цен без нормализации
// единиц измерения.
type PriceStats struct {
	AveragePrice float64 `json:"average_price"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	Count        int     `json:"count"`
}

// SubmissionFilter описывает фильтры списка заявок.
type SubmissionFilter struct {
	ProductUID  *string
	MarketUID   *string
	SubmittedBy *string
	Status      *SubmissionStatus
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int
	Offset      int
}

// ReviewEvent — событие проверки заявки, публикуемое в очередь уведомлений
// при подтверждении или отклонении.
type ReviewEvent struct {
	SubmissionUID string           `json:"submission_uid"`
	Status        SubmissionStatus `json:"status"`
	ProductName   string           `json:"product_name"`
	MarketName    string           `json:"market_name"`
	Price         float64          `json:"price"`
	Unit          string           `json:"unit"`
	Reason        string           `json:"reason,omitempty"`
	SubmitterName string           `json:"submitter_name"`
	Email         string           `json:"email"`
}
