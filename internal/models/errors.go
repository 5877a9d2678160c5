package models

import "errors"

// Сигнальные ошибки доменного уровня. Хранилище и сервисы оборачивают их
// через fmt.Errorf("%s: %w", ...), обработчики распознают через errors.Is
// и отображают в HTTP-статусы 404/409/403.
var (
	// ErrNotFound — запись с указанным идентификатором не существует.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken — email уже зарегистрирован (уникальный ключ).
	ErrEmailTaken = errors.New("email already registered")
	// ErrForbidden — действующий пользователь не владелец и не администратор.
	ErrForbidden = errors.New("forbidden")
)
