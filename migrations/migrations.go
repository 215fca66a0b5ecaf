// Package migrations предоставляет обертку над goose для управления
// схемой хранилища заказов.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

// MigrationStatus представляет статус миграции
type MigrationStatus struct {
	Version   int64
	Name      string
	AppliedAt *time.Time
	Status    string // "pending", "applied"
}

func setup() error {
	goose.SetBaseFS(embedded)
	return goose.SetDialect("postgres")
}

// Up применяет все pending миграции
func Up(db *sql.DB) error {
	if err := setup(); err != nil {
		return fmt.Errorf("failed to configure goose: %w", err)
	}
	if err := goose.Up(db, "sql"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Down откатывает последнюю миграцию
func Down(db *sql.DB) error {
	if err := setup(); err != nil {
		return fmt.Errorf("failed to configure goose: %w", err)
	}
	if err := goose.Down(db, "sql"); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	return nil
}

// CurrentVersion возвращает текущую версию схемы
func CurrentVersion(db *sql.DB) (int64, error) {
	if err := setup(); err != nil {
		return 0, fmt.Errorf("failed to configure goose: %w", err)
	}
	version, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// Status возвращает статус всех миграций
func Status(db *sql.DB) ([]MigrationStatus, error) {
	if err := setup(); err != nil {
		return nil, fmt.Errorf("failed to configure goose: %w", err)
	}

	migrations, err := goose.CollectMigrations("sql", 0, goose.MaxVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to collect migrations: %w", err)
	}

	currentVersion, err := goose.GetDBVersion(db)
	if err != nil {
		currentVersion = 0
	}

	statuses := make([]MigrationStatus, 0, len(migrations))
	for _, migration := range migrations {
		status := MigrationStatus{
			Version: migration.Version,
			Name:    migration.Source,
			Status:  "pending",
		}
		if migration.Version <= currentVersion {
			status.Status = "applied"
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}
