package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	appconfig "volunteerHub/internal/config"
	"volunteerHub/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Storage struct {
	pool       *pgxpool.Pool
	connString string
}

func New(ctx context.Context, dbConfig appconfig.DatabaseConfig) (*Storage, error) {
	connString := dbConfig.URL

	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	applyPoolSettings(config, dbConfig)

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, connString: connString}, nil
}

// applyPoolSettings переносит лимиты пула из конфига, нулевые значения
// заменяются безопасными умолчаниями
func applyPoolSettings(config *pgxpool.Config, dbConfig appconfig.DatabaseConfig) {
	config.MaxConns = 10
	if dbConfig.MaxConnections > 0 {
		config.MaxConns = int32(dbConfig.MaxConnections)
	}

	config.MinConns = 2
	if dbConfig.MinConnections > 0 {
		config.MinConns = int32(dbConfig.MinConnections)
	}

	config.MaxConnIdleTime = time.Minute * 5
	if dbConfig.IdleTimeout > 0 {
		config.MaxConnIdleTime = dbConfig.IdleTimeout
	}
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// Migrate применяет встроенные миграции через golang-migrate
func (s *Storage) Migrate() error {
	logger.Info("Repository: Применение миграций")

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		logger.Error("Repository: Ошибка чтения встроенных миграций", err)
		return fmt.Errorf("чтение миграций: %w", err)
	}

	// драйвер golang-migrate для pgx/v5 ждёт схему pgx5://
	url := strings.Replace(s.connString, "postgres://", "pgx5://", 1)

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		logger.Error("Repository: Ошибка инициализации миграций", err)
		return fmt.Errorf("инициализация миграций: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Error("Repository: Ошибка применения миграций", err)
		return fmt.Errorf("применение миграций: %w", err)
	}

	logger.Info("Repository: Миграции применены")
	return nil
}

// Down откатывает миграции, используется в интеграционных тестах
func (s *Storage) Down() error {
	logger.Info("Repository: Откат миграций")

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("чтение миграций: %w", err)
	}

	url := strings.Replace(s.connString, "postgres://", "pgx5://", 1)

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("инициализация миграций: %w", err)
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("откат миграций: %w", err)
	}

	return nil
}
