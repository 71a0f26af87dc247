package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector строит GORM-диалект поверх уже открытого соединения,
// чтобы sqlx-клиент и GORM делили один пул
func Dialector(db *sql.DB) gorm.Dialector {
	return postgres.New(postgres.Config{Conn: db})
}

// Open открывает *gorm.DB для переданного диалекта.
// Ошибки драйвера переводятся в gorm.ErrDuplicatedKey и т.п.
func Open(dialector gorm.Dialector, logger *slog.Logger) (*gorm.DB, error) {
	start := time.Now()

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.NewSlogLogger(logger, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		logger.Error("failed to open GORM session", "error", err)
		return nil, fmt.Errorf("ошибка инициализации GORM: %w", err)
	}

	logger.Info("GORM session initialized", "dialect", dialector.Name(),
		"duration_ms", time.Since(start).Milliseconds())
	return db, nil
}

// translate приводит ошибки GORM к доменным
func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
	}
}

// DefineTables создает таблицы по моделям GORM. В проде схемой управляют миграции,
// функция нужна для тестов на sqlite.
func DefineTables(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &smokeModel{})
}
