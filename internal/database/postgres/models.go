package postgres

import (
	"time"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/google/uuid"
)

// userModel — строка таблицы users в представлении GORM
type userModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:100;not null;uniqueIndex"`
	Email        string    `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func userFromDomain(u *domain.User) userModel {
	return userModel{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// smokeModel — строка таблицы smokes; User подгружается через Preload
type smokeModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	RecipeTitle string    `gorm:"size:255;not null"`
	Date        time.Time `gorm:"not null"`
	SmokerType  string    `gorm:"size:100;not null"`
	Weather     string    `gorm:"size:100;not null"`
	Details     string    `gorm:"not null"`
	Rating      int       `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (smokeModel) TableName() string { return "smokes" }

func (m smokeModel) toDomain() domain.Smoke {
	return domain.Smoke{
		ID:          m.ID,
		UserID:      m.UserID,
		RecipeTitle: m.RecipeTitle,
		Date:        m.Date.UTC(),
		SmokerType:  m.SmokerType,
		Weather:     m.Weather,
		Details:     m.Details,
		Rating:      m.Rating,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
		User:        domain.UserSummary{ID: m.User.ID, Username: m.User.Username},
	}
}

func smokeFromDomain(s *domain.Smoke) smokeModel {
	return smokeModel{
		ID:          s.ID,
		UserID:      s.UserID,
		RecipeTitle: s.RecipeTitle,
		Date:        s.Date,
		SmokerType:  s.SmokerType,
		Weather:     s.Weather,
		Details:     s.Details,
		Rating:      s.Rating,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
