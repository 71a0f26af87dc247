package domain

import (
	"time"

	"github.com/google/uuid"
)

// Smoke представляет одну запись о копчении (готовке на смокере),
// соответствует таблице smokes в бд
type Smoke struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	UserID      uuid.UUID   `json:"userId" db:"user_id"`
	RecipeTitle string      `json:"recipeTitle" db:"recipe_title"`
	Date        time.Time   `json:"date" db:"date"`
	SmokerType  string      `json:"smokerType" db:"smoker_type"`
	Weather     string      `json:"weather" db:"weather"`
	Details     string      `json:"details" db:"details"`
	Rating      int         `json:"rating" db:"rating"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
	User        UserSummary `json:"user" db:"user"`
}

func (Smoke) TableName() string {
	return "smokes"
}

// SmokeFields — шесть редактируемых полей записи уже после валидации.
// Create и Update всегда получают полный набор (full replace).
type SmokeFields struct {
	RecipeTitle string
	Date        time.Time
	SmokerType  string
	Weather     string
	Details     string
	Rating      int
}

// Apply переносит редактируемые поля в запись
func (f SmokeFields) Apply(s *Smoke) {
	s.RecipeTitle = f.RecipeTitle
	s.Date = f.Date
	s.SmokerType = f.SmokerType
	s.Weather = f.Weather
	s.Details = f.Details
	s.Rating = f.Rating
}

const (
	MinRating = 1
	MaxRating = 10
)
