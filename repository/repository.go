// Package repository предоставляет generic репозитории агрегатов
// для различных storage backends.
package repository

import "context"

// Entity сущность, которую умеет хранить репозиторий
type Entity interface {
	// ID возвращает идентификатор сущности
	ID() string
	// Version возвращает текущую версию сущности
	Version() int64
}

// Repository generic репозиторий агрегатов. Ядро не предполагает
// конкретного storage: обработчики команд работают только через этот
// интерфейс.
type Repository[T Entity] interface {
	// Get возвращает сущность по идентификатору.
	// Отсутствующая сущность - ошибка not found.
	Get(ctx context.Context, id string) (T, error)
	// Add добавляет новую сущность.
	// Существующий идентификатор - ошибка conflict.
	Add(ctx context.Context, entity T) error
	// Update обновляет существующую сущность
	Update(ctx context.Context, entity T) error
	// Contains проверяет наличие сущности
	Contains(ctx context.Context, id string) (bool, error)
}
