package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/akriventsev/margherita/core"
)

// InMemoryConfig конфигурация для InMemory репозитория
type InMemoryConfig struct {
	// MaxEntities максимальное количество сущностей (0 = без ограничений)
	MaxEntities int
}

// DefaultInMemoryConfig возвращает конфигурацию InMemory по умолчанию
func DefaultInMemoryConfig() InMemoryConfig {
	return InMemoryConfig{
		MaxEntities: 0,
	}
}

// InMemoryRepository generic in-memory репозиторий.
// Сущности, реализующие Clone() T, хранятся и выдаются копиями:
// каждый Get возвращает независимый снимок, а Add и Update фиксируют
// снимок переданного состояния. Конкурентные операции над одной
// сущностью не разделяют память за пределами блокировки репозитория.
type InMemoryRepository[T Entity] struct {
	config   InMemoryConfig
	entities map[string]T
	mu       sync.RWMutex
}

func cloneEntity[T Entity](entity T) T {
	if c, ok := any(entity).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return entity
}

// NewInMemoryRepository создает новый in-memory репозиторий
func NewInMemoryRepository[T Entity](config InMemoryConfig) *InMemoryRepository[T] {
	return &InMemoryRepository[T]{
		config:   config,
		entities: make(map[string]T),
	}
}

// Get возвращает сущность по идентификатору
func (r *InMemoryRepository[T]) Get(ctx context.Context, id string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entity, exists := r.entities[id]
	if !exists {
		var zero T
		return zero, core.NewNotFoundError(fmt.Sprintf("entity not found: %s", id))
	}
	return cloneEntity(entity), nil
}

// Add добавляет новую сущность
func (r *InMemoryRepository[T]) Add(ctx context.Context, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := entity.ID()
	if id == "" {
		return core.NewValidationError("entity ID cannot be empty")
	}
	if _, exists := r.entities[id]; exists {
		return core.NewConflictError(fmt.Sprintf("entity already exists: %s", id))
	}
	if r.config.MaxEntities > 0 && len(r.entities) >= r.config.MaxEntities {
		return core.NewInternalError(
			fmt.Sprintf("repository limit reached: max %d entities", r.config.MaxEntities))
	}

	r.entities[id] = cloneEntity(entity)
	return nil
}

// Update обновляет существующую сущность с проверкой версии
func (r *InMemoryRepository[T]) Update(ctx context.Context, entity T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := entity.ID()
	stored, exists := r.entities[id]
	if !exists {
		return core.NewNotFoundError(fmt.Sprintf("entity not found: %s", id))
	}
	if entity.Version() <= stored.Version() {
		return core.NewConflictError(fmt.Sprintf(
			"stale update for entity %s: version %d is not newer than %d",
			id, entity.Version(), stored.Version()))
	}

	r.entities[id] = cloneEntity(entity)
	return nil
}

// Contains проверяет наличие сущности
func (r *InMemoryRepository[T]) Contains(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.entities[id]
	return exists, nil
}

// Count возвращает количество сущностей
func (r *InMemoryRepository[T]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entities)
}
