// Package models содержит доменные структуры приложения: пользователей,
// продукты, рынки и ценовые заявки, а также вспомогательные типы для приёма
// данных из JSON-запросов.
package models

import (
	"fmt"
	"time"
)

// Role — закрытый тип роли пользователя. Любая строка вне набора
// admin/collector считается невалидной и не проходит ParseRole.
type Role string

const (
	// RoleAdmin — администратор, подтверждает и отклоняет ценовые заявки.
	RoleAdmin Role = "admin"
	// RoleCollector — сборщик цен, роль по умолчанию при регистрации.
	RoleCollector Role = "collector"
)

// ParseRole преобразует строку в Role или возвращает ошибку,
// если роль не входит в закрытый набор.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCollector:
		return RoleCollector, nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Name         string    // Отображаемое имя
	Email        string    // Электронная почта (уникальная, хранится в нижнем регистре)
	PasswordHash string    `json:"-"` // Хэш пароля, никогда не сериализуется наружу
	Role         Role      // Роль пользователя
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin collector"`
}

// DummyLogin используется для приёма учетных данных из JSON-запроса.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// DummyUserUpdate используется для обновления профиля пользователя.
type DummyUserUpdate struct {
	Name  string `json:"name" validate:"omitempty,min=2,max=50"`
	Email string `json:"email" validate:"omitempty,email"`
}

// DummyPasswordChange используется для смены пароля пользователя.
type DummyPasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required,min=6"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}
