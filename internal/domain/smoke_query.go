package domain

import (
	"strings"

	"github.com/google/uuid"
)

// SortField — поле сортировки списка записей
type SortField string

const (
	SortByDate    SortField = "date"
	SortByRating  SortField = "rating"
	SortByWeather SortField = "weather"
)

// SortDirection — направление сортировки
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortField возвращает поле сортировки; неизвестные значения сводятся к дате
func ParseSortField(s string) SortField {
	switch SortField(strings.ToLower(strings.TrimSpace(s))) {
	case SortByRating:
		return SortByRating
	case SortByWeather:
		return SortByWeather
	default:
		return SortByDate
	}
}

// ParseSortDirection возвращает направление; все, кроме asc, считается desc
func ParseSortDirection(s string) SortDirection {
	if SortDirection(strings.ToLower(strings.TrimSpace(s))) == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// ListParams — параметры списка в том виде, в каком они пришли от клиента.
// UserID только подсказка и никогда не попадает в фильтр напрямую.
type ListParams struct {
	SortBy      string
	SortOrder   string
	Weather     string
	RecipeTitle string
	UserID      string
}

// SmokeQuery — типизированное описание выборки записей одного владельца
type SmokeQuery struct {
	OwnerID     uuid.UUID
	Weather     *string
	RecipeTitle *string
	SortField   SortField
	Direction   SortDirection
}

// NewSmokeQuery строит запрос для владельца, которого уже определил Guard.
// Пустые строки фильтров считаются отсутствующими.
func NewSmokeQuery(ownerID uuid.UUID, p ListParams) SmokeQuery {
	q := SmokeQuery{
		OwnerID:   ownerID,
		SortField: ParseSortField(p.SortBy),
		Direction: ParseSortDirection(p.SortOrder),
	}
	if p.Weather != "" {
		w := p.Weather
		q.Weather = &w
	}
	if p.RecipeTitle != "" {
		t := p.RecipeTitle
		q.RecipeTitle = &t
	}
	return q
}

// OrderColumn отдает имя колонки для сортировки. Значение берется только из белого списка.
func (q SmokeQuery) OrderColumn() string {
	switch q.SortField {
	case SortByRating:
		return "rating"
	case SortByWeather:
		return "weather"
	default:
		return "date"
	}
}

// OrderClause возвращает выражение ORDER BY, например "rating ASC"
func (q SmokeQuery) OrderClause() string {
	if q.Direction == SortAsc {
		return q.OrderColumn() + " ASC"
	}
	return q.OrderColumn() + " DESC"
}

// Matches проверяет запись против фильтров запроса (используется при сравнении и в тестах)
func (q SmokeQuery) Matches(s Smoke) bool {
	if s.UserID != q.OwnerID {
		return false
	}
	if q.Weather != nil && s.Weather != *q.Weather {
		return false
	}
	if q.RecipeTitle != nil && s.RecipeTitle != *q.RecipeTitle {
		return false
	}
	return true
}
