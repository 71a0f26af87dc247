package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSmokeStorage реализует ports.SmokeStorage с использованием GORM
type GormSmokeStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormSmokeStorage(db *gorm.DB, logger *slog.Logger) *GormSmokeStorage {
	return &GormSmokeStorage{db: db, logger: logger}
}

func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "username")
	})
}

// CreateSmoke сохраняет запись с помощью GORM
func (s *GormSmokeStorage) CreateSmoke(ctx context.Context, smoke *domain.Smoke) (*domain.Smoke, error) {
	start := time.Now()

	if smoke.ID == uuid.Nil {
		smoke.ID = uuid.New()
	}
	now := time.Now().UTC()
	smoke.CreatedAt = now
	smoke.UpdatedAt = now

	m := smokeFromDomain(smoke)
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		s.logger.Error("failed to save smoke with GORM", "user_id", smoke.UserID, "error", err)
		return nil, translate("ошибка при сохранении записи с помощью GORM", err)
	}

	s.logger.Info("smoke saved successfully (GORM)",
		"id", smoke.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.GetSmokeByID(ctx, smoke.ID)
}

// GetSmokeByID получает запись по ID вместе с владельцем
func (s *GormSmokeStorage) GetSmokeByID(ctx context.Context, id uuid.UUID) (*domain.Smoke, error) {
	var m smokeModel
	if err := withOwner(s.db.WithContext(ctx)).First(&m, "id = ?", id).Error; err != nil {
		return nil, translate("ошибка при получении записи по ID с помощью GORM", err)
	}
	smoke := m.toDomain()
	return &smoke, nil
}

// ListSmokes выбирает записи владельца с фильтрами и сортировкой
func (s *GormSmokeStorage) ListSmokes(ctx context.Context, q domain.SmokeQuery) ([]domain.Smoke, error) {
	start := time.Now()

	tx := withOwner(s.db.WithContext(ctx)).Where("user_id = ?", q.OwnerID)
	if q.Weather != nil {
		tx = tx.Where("weather = ?", *q.Weather)
	}
	if q.RecipeTitle != nil {
		tx = tx.Where("recipe_title = ?", *q.RecipeTitle)
	}

	var models []smokeModel
	if err := tx.Order(q.OrderClause()).Find(&models).Error; err != nil {
		s.logger.Error("failed to list smokes with GORM", "user_id", q.OwnerID, "error", err)
		return nil, translate("ошибка при получении списка записей с помощью GORM", err)
	}

	smokes := make([]domain.Smoke, 0, len(models))
	for _, m := range models {
		smokes = append(smokes, m.toDomain())
	}

	s.logger.Debug("listed smokes successfully (GORM)",
		"user_id", q.OwnerID,
		"count", len(smokes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return smokes, nil
}

// ListRecipeTitles возвращает уникальные названия рецептов владельца
func (s *GormSmokeStorage) ListRecipeTitles(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	titles := []string{}
	err := s.db.WithContext(ctx).
		Model(&smokeModel{}).
		Where("user_id = ?", ownerID).
		Distinct().
		Order("recipe_title ASC").
		Pluck("recipe_title", &titles).Error
	if err != nil {
		return nil, translate("ошибка при получении рецептов с помощью GORM", err)
	}
	return titles, nil
}

// UpdateSmoke обновляет все редактируемые поля записи владельца
func (s *GormSmokeStorage) UpdateSmoke(ctx context.Context, ownerID, id uuid.UUID, f domain.SmokeFields) (*domain.Smoke, error) {
	res := s.db.WithContext(ctx).
		Model(&smokeModel{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(map[string]any{
			"recipe_title": f.RecipeTitle,
			"date":         f.Date,
			"smoker_type":  f.SmokerType,
			"weather":      f.Weather,
			"details":      f.Details,
			"rating":       f.Rating,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		s.logger.Error("failed to update smoke with GORM", "id", id, "error", res.Error)
		return nil, translate("ошибка при обновлении записи с помощью GORM", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, translate("запись исчезла до обновления", gorm.ErrRecordNotFound)
	}

	s.logger.Info("smoke updated successfully (GORM)", "id", id)
	return s.GetSmokeByID(ctx, id)
}

// DeleteSmoke удаляет запись владельца
func (s *GormSmokeStorage) DeleteSmoke(ctx context.Context, ownerID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&smokeModel{})
	if res.Error != nil {
		s.logger.Error("failed to delete smoke with GORM", "id", id, "error", res.Error)
		return translate("ошибка при удалении записи с помощью GORM", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("запись уже удалена", gorm.ErrRecordNotFound)
	}

	s.logger.Info("smoke deleted successfully (GORM)", "id", id)
	return nil
}
