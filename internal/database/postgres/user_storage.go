package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserStorage реализует интерфейс ports.UserStorage с использованием GORM
type GormUserStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormUserStorage создает новый экземпляр GormUserStorage
func NewGormUserStorage(db *gorm.DB, logger *slog.Logger) *GormUserStorage {
	return &GormUserStorage{db: db, logger: logger}
}

// CreateUser сохраняет пользователя; дубликат username или email дает domain.ErrConflict
func (s *GormUserStorage) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	m := userFromDomain(user)
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		s.logger.Warn("failed to create user with GORM", "username", user.Username, "error", err)
		return translate("ошибка при создании пользователя с GORM", err)
	}

	s.logger.Info("user created successfully (GORM)", "user_id", user.ID)
	return nil
}

// GetUserByEmail ищет пользователя по email
func (s *GormUserStorage) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.first(ctx, "email = ?", email)
}

// GetUserByID ищет пользователя по ID
func (s *GormUserStorage) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormUserStorage) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var m userModel
	if err := s.db.WithContext(ctx).Where(cond, arg).First(&m).Error; err != nil {
		return nil, translate("ошибка при поиске пользователя с GORM", err)
	}
	return m.toDomain(), nil
}
