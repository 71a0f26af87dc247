package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator возвращает общий экземпляр валидатора (используется и для запросов auth)
func Validator() *validator.Validate {
	return validate
}

// RatingValue хранит рейтинг в том виде, в каком его прислал клиент:
// число, числовая строка, null или вообще ничего.
type RatingValue struct {
	raw     json.RawMessage
	present bool
}

// NewRating создает заданный числовой рейтинг
func NewRating(v int) RatingValue {
	return RatingValue{raw: json.RawMessage(strconv.Itoa(v)), present: true}
}

// RawRating собирает рейтинг из произвольного JSON-литерала
func RawRating(literal string) RatingValue {
	return RatingValue{raw: json.RawMessage(literal), present: true}
}

func (r *RatingValue) UnmarshalJSON(data []byte) error {
	r.raw = append(r.raw[:0], data...)
	r.present = true
	return nil
}

func (r RatingValue) MarshalJSON() ([]byte, error) {
	if !r.present {
		return []byte("null"), nil
	}
	return r.raw, nil
}

// Present сообщает, было ли поле в теле запроса (даже если null)
func (r RatingValue) Present() bool {
	return r.present
}

// Truthy повторяет правило «пустого» значения: отсутствие, null, 0, "" и false считаются пропуском
func (r RatingValue) Truthy() bool {
	if !r.present {
		return false
	}
	raw := bytes.TrimSpace(r.raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")), bytes.Equal(raw, []byte("false")):
		return false
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s != ""
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return f != 0
	}
	return true
}

// Number приводит рейтинг к числу. ok=false для нечисловых значений.
func (r RatingValue) Number() (float64, bool) {
	raw := bytes.TrimSpace(r.raw)
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		raw = []byte(strings.TrimSpace(s))
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SmokeInput — тело запроса на создание или обновление записи
type SmokeInput struct {
	RecipeTitle string      `json:"recipeTitle" validate:"required"`
	Date        string      `json:"date" validate:"required"`
	SmokerType  string      `json:"smokerType" validate:"required"`
	Weather     string      `json:"weather" validate:"required"`
	Details     string      `json:"details" validate:"required"`
	Rating      RatingValue `json:"rating"`
}

// ValidationMode различает правила создания и обновления для рейтинга
type ValidationMode int

const (
	// ValidateCreate: рейтинг обязан быть «истинным», поэтому 0 считается пропуском
	ValidateCreate ValidationMode = iota
	// ValidateUpdate: пропуском считается только отсутствие поля, 0 попадает под проверку диапазона
	ValidateUpdate
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseSmokeDate разбирает дату в формате ISO-8601; без зоны считается UTC
func ParseSmokeDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Validate проверяет все шесть полей и возвращает нормализованные значения.
// Порядок проверок: обязательные поля, диапазон рейтинга, формат даты.
func (in SmokeInput) Validate(mode ValidationMode) (SmokeFields, error) {
	if err := validate.Struct(in); err != nil {
		return SmokeFields{}, NewValidationError(MsgMissingFields)
	}

	switch mode {
	case ValidateCreate:
		if !in.Rating.Truthy() {
			return SmokeFields{}, NewValidationError(MsgMissingFields)
		}
	default:
		if !in.Rating.Present() {
			return SmokeFields{}, NewValidationError(MsgMissingFields)
		}
	}

	rating, ok := in.Rating.Number()
	if !ok {
		if mode == ValidateUpdate && !in.Rating.Truthy() {
			// null и пустая строка при обновлении ведут себя как 0
			return SmokeFields{}, NewValidationError(MsgRatingRange)
		}
		return SmokeFields{}, NewValidationError(MsgRatingNumber)
	}
	if rating < MinRating || rating > MaxRating {
		return SmokeFields{}, NewValidationError(MsgRatingRange)
	}

	date, err := ParseSmokeDate(in.Date)
	if err != nil {
		return SmokeFields{}, NewValidationError(MsgInvalidDate)
	}

	return SmokeFields{
		RecipeTitle: in.RecipeTitle,
		Date:        date,
		SmokerType:  in.SmokerType,
		Weather:     in.Weather,
		Details:     in.Details,
		Rating:      int(math.Trunc(rating)),
	}, nil
}
