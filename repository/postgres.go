package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/akriventsev/margherita/core"
)

// Mapper интерфейс для преобразования между entity и database rows
type Mapper[T Entity] interface {
	ToRow(entity T) (map[string]interface{}, error)
	FromRow(id string, version int64, row map[string]interface{}) (T, error)
}

// PostgresConfig конфигурация для PostgreSQL репозитория
type PostgresConfig struct {
	DSN        string
	TableName  string
	SchemaName string
}

// Validate проверяет корректность конфигурации
func (c PostgresConfig) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("DSN cannot be empty")
	}
	if c.TableName == "" {
		return fmt.Errorf("TableName cannot be empty")
	}
	return nil
}

// DefaultPostgresConfig возвращает конфигурацию PostgreSQL по умолчанию
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		SchemaName: "public",
	}
}

// PostgresRepository generic PostgreSQL репозиторий. Хранит сущность
// как JSONB-документ с явной колонкой версии. Update использует
// сохраненную версию как оптимистическую проверку: запись с версией
// не выше сохраненной отклоняется как conflict.
type PostgresRepository[T Entity] struct {
	config PostgresConfig
	db     *pgx.Conn
	mapper Mapper[T]
}

// NewPostgresRepository создает новый PostgreSQL репозиторий
func NewPostgresRepository[T Entity](ctx context.Context, config PostgresConfig, mapper Mapper[T]) (*PostgresRepository[T], error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid postgres config: %w", err)
	}

	conn, err := pgx.Connect(ctx, config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	return &PostgresRepository[T]{
		config: config,
		db:     conn,
		mapper: mapper,
	}, nil
}

// Close закрывает соединение с базой
func (p *PostgresRepository[T]) Close(ctx context.Context) error {
	if p.db != nil {
		return p.db.Close(ctx)
	}
	return nil
}

func (p *PostgresRepository[T]) tableName() string {
	return fmt.Sprintf("%s.%s", p.config.SchemaName, p.config.TableName)
}

// Get возвращает сущность по идентификатору
func (p *PostgresRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	query := fmt.Sprintf("SELECT version, data FROM %s WHERE id = $1", p.tableName())

	var version int64
	var dataJSON []byte
	err := p.db.QueryRow(ctx, query, id).Scan(&version, &dataJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, core.NewNotFoundError(fmt.Sprintf("entity not found: %s", id))
		}
		return zero, core.Wrap(err, core.ErrorKindInternal, "failed to find entity")
	}

	var row map[string]interface{}
	if err := json.Unmarshal(dataJSON, &row); err != nil {
		return zero, core.Wrap(err, core.ErrorKindInternal, "failed to unmarshal entity")
	}

	entity, err := p.mapper.FromRow(id, version, row)
	if err != nil {
		return zero, core.Wrap(err, core.ErrorKindInternal, "failed to convert row to entity")
	}

	return entity, nil
}

// Add добавляет новую сущность
func (p *PostgresRepository[T]) Add(ctx context.Context, entity T) error {
	row, err := p.mapper.ToRow(entity)
	if err != nil {
		return core.Wrap(err, core.ErrorKindInternal, "failed to convert entity to row")
	}

	dataJSON, err := json.Marshal(row)
	if err != nil {
		return core.Wrap(err, core.ErrorKindInternal, "failed to marshal entity")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, version, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, p.tableName())

	result, err := p.db.Exec(ctx, query, entity.ID(), entity.Version(), dataJSON)
	if err != nil {
		return core.Wrap(err, core.ErrorKindInternal, "failed to add entity")
	}
	if result.RowsAffected() == 0 {
		return core.NewConflictError(fmt.Sprintf("entity already exists: %s", entity.ID()))
	}

	return nil
}

// Update обновляет существующую сущность с оптимистической проверкой версии
func (p *PostgresRepository[T]) Update(ctx context.Context, entity T) error {
	row, err := p.mapper.ToRow(entity)
	if err != nil {
		return core.Wrap(err, core.ErrorKindInternal, "failed to convert entity to row")
	}

	dataJSON, err := json.Marshal(row)
	if err != nil {
		return core.Wrap(err, core.ErrorKindInternal, "failed to marshal entity")
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET version = $2, data = $3, updated_at = NOW()
		WHERE id = $1 AND version < $2
	`, p.tableName())

	result, err := p.db.Exec(ctx, query, entity.ID(), entity.Version(), dataJSON)
	if err != nil {
		return core.Wrap(err, core.ErrorKindInternal, "failed to update entity")
	}
	if result.RowsAffected() == 0 {
		exists, err := p.Contains(ctx, entity.ID())
		if err != nil {
			return err
		}
		if !exists {
			return core.NewNotFoundError(fmt.Sprintf("entity not found: %s", entity.ID()))
		}
		return core.NewConflictError(fmt.Sprintf(
			"stale update for entity %s at version %d", entity.ID(), entity.Version()))
	}

	return nil
}

// Contains проверяет наличие сущности
func (p *PostgresRepository[T]) Contains(ctx context.Context, id string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", p.tableName())

	var exists bool
	if err := p.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, core.Wrap(err, core.ErrorKindInternal, "failed to check entity")
	}
	return exists, nil
}
