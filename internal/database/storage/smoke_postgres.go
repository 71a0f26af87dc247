package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const selectSmokeWithOwner = `
	SELECT s.id, s.user_id, s.recipe_title, s.date, s.smoker_type, s.weather, s.details, s.rating,
	       s.created_at, s.updated_at,
	       u.id AS "user.id", u.username AS "user.username"
	FROM smokes s
	JOIN users u ON u.id = s.user_id
`

// SmokeStorage реализует ports.SmokeStorage поверх sqlx
type SmokeStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewSmokeStorage(db *sqlx.DB, logger *slog.Logger) *SmokeStorage {
	return &SmokeStorage{db: db, logger: logger}
}

// CreateSmoke сохраняет новую запись и возвращает ее вместе с владельцем
func (s *SmokeStorage) CreateSmoke(ctx context.Context, smoke *domain.Smoke) (*domain.Smoke, error) {
	start := time.Now()

	if smoke.ID == uuid.Nil {
		smoke.ID = uuid.New()
	}
	now := time.Now().UTC()
	smoke.CreatedAt = now
	smoke.UpdatedAt = now

	query := `
	INSERT INTO smokes (id, user_id, recipe_title, date, smoker_type, weather, details, rating, created_at, updated_at)
	VALUES (:id, :user_id, :recipe_title, :date, :smoker_type, :weather, :details, :rating, :created_at, :updated_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, smoke); err != nil {
		s.logger.Error("failed to save smoke", "user_id", smoke.UserID, "error", err)
		return nil, unavailable("insert smoke", err)
	}

	s.logger.Info("smoke saved successfully",
		"id", smoke.ID,
		"user_id", smoke.UserID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.GetSmokeByID(ctx, smoke.ID)
}

// GetSmokeByID получает запись по ID вместе с владельцем
func (s *SmokeStorage) GetSmokeByID(ctx context.Context, id uuid.UUID) (*domain.Smoke, error) {
	start := time.Now()

	var smoke domain.Smoke
	err := s.db.GetContext(ctx, &smoke, selectSmokeWithOwner+` WHERE s.id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("smoke not found by id", "id", id)
			return nil, fmt.Errorf("select smoke %s: %w", id, domain.ErrNotFound)
		}
		s.logger.Error("failed to get smoke by id", "id", id, "error", err)
		return nil, unavailable("select smoke", err)
	}

	s.logger.Debug("smoke retrieved by id",
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &smoke, nil
}

// ListSmokes выбирает записи владельца с фильтрами и сортировкой из SmokeQuery
func (s *SmokeStorage) ListSmokes(ctx context.Context, q domain.SmokeQuery) ([]domain.Smoke, error) {
	start := time.Now()

	where := []string{"s.user_id = $1"}
	args := []any{q.OwnerID}
	if q.Weather != nil {
		args = append(args, *q.Weather)
		where = append(where, "s.weather = $"+strconv.Itoa(len(args)))
	}
	if q.RecipeTitle != nil {
		args = append(args, *q.RecipeTitle)
		where = append(where, "s.recipe_title = $"+strconv.Itoa(len(args)))
	}

	query := selectSmokeWithOwner +
		" WHERE " + strings.Join(where, " AND ") +
		" ORDER BY s." + q.OrderClause()

	smokes := []domain.Smoke{}
	if err := s.db.SelectContext(ctx, &smokes, query, args...); err != nil {
		s.logger.Error("failed to list smokes", "user_id", q.OwnerID, "error", err)
		return nil, unavailable("list smokes", err)
	}

	s.logger.Debug("listed smokes successfully",
		"user_id", q.OwnerID,
		"sort", q.OrderClause(),
		"count", len(smokes),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return smokes, nil
}

// ListRecipeTitles возвращает уникальные названия рецептов владельца по возрастанию
func (s *SmokeStorage) ListRecipeTitles(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	titles := []string{}
	err := s.db.SelectContext(ctx, &titles,
		`SELECT DISTINCT recipe_title FROM smokes WHERE user_id = $1 ORDER BY recipe_title ASC`, ownerID)
	if err != nil {
		s.logger.Error("failed to list recipe titles", "user_id", ownerID, "error", err)
		return nil, unavailable("list recipe titles", err)
	}
	return titles, nil
}

// UpdateSmoke заменяет все шесть полей. Условие по user_id закрывает гонку
// с параллельным удалением: если строки уже нет, вернется domain.ErrNotFound.
func (s *SmokeStorage) UpdateSmoke(ctx context.Context, ownerID, id uuid.UUID, f domain.SmokeFields) (*domain.Smoke, error) {
	start := time.Now()

	res, err := s.db.ExecContext(ctx, `
	UPDATE smokes
	SET recipe_title = $1, date = $2, smoker_type = $3, weather = $4, details = $5, rating = $6, updated_at = $7
	WHERE id = $8 AND user_id = $9
	`, f.RecipeTitle, f.Date, f.SmokerType, f.Weather, f.Details, f.Rating, time.Now().UTC(), id, ownerID)
	if err != nil {
		s.logger.Error("failed to update smoke", "id", id, "error", err)
		return nil, unavailable("update smoke", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, unavailable("update smoke rows affected", err)
	}
	if n == 0 {
		s.logger.Warn("smoke disappeared before update", "id", id, "user_id", ownerID)
		return nil, fmt.Errorf("update smoke %s: %w", id, domain.ErrNotFound)
	}

	s.logger.Info("smoke updated successfully",
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return s.GetSmokeByID(ctx, id)
}

// DeleteSmoke удаляет запись владельца навсегда
func (s *SmokeStorage) DeleteSmoke(ctx context.Context, ownerID, id uuid.UUID) error {
	start := time.Now()

	res, err := s.db.ExecContext(ctx, `DELETE FROM smokes WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		s.logger.Error("failed to delete smoke", "id", id, "error", err)
		return unavailable("delete smoke", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return unavailable("delete smoke rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("delete smoke %s: %w", id, domain.ErrNotFound)
	}

	s.logger.Info("smoke deleted successfully",
		"id", id,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
