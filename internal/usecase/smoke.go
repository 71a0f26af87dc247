package usecase

import (
	"context"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/auth"
	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/GoArmGo/SmokeLog/internal/messaging/payloads"
)

// SmokeUseCase определяет бизнес-логику работы с записями о копчении.
// Каждый метод получает Principal явно; владелец берется только из него.
type SmokeUseCase interface {
	// ListSmokes возвращает записи текущего пользователя с фильтрами и сортировкой.
	// params.UserID лишь подсказка и на выборку не влияет
	ListSmokes(ctx context.Context, p auth.Principal, params domain.ListParams) ([]domain.Smoke, error)

	// ListRecipes возвращает уникальные названия рецептов пользователя
	ListRecipes(ctx context.Context, p auth.Principal, userIDHint string) ([]string, error)

	CreateSmoke(ctx context.Context, p auth.Principal, in domain.SmokeInput) (*domain.Smoke, error)

	// GetSmoke: сначала проверяется существование (404), затем владение (403)
	GetSmoke(ctx context.Context, p auth.Principal, id string) (*domain.Smoke, error)

	// UpdateSmoke полностью заменяет шесть полей записи
	UpdateSmoke(ctx context.Context, p auth.Principal, id string, in domain.SmokeInput) (*domain.Smoke, error)

	DeleteSmoke(ctx context.Context, p auth.Principal, id string) error

	// CompareSmokes возвращает записи в порядке запроса, каждая проходит проверки GetSmoke
	CompareSmokes(ctx context.Context, p auth.Principal, ids []string) ([]domain.Smoke, error)

	// RequestExport ставит задачу на выгрузку записей пользователя в очередь
	RequestExport(ctx context.Context, p auth.Principal) error

	// ExportSmokes выполняет задачу из очереди и возвращает URL выгруженного файла
	ExportSmokes(ctx context.Context, payload payloads.SmokeExportPayload) (string, error)
}

// UserUseCase определяет регистрацию и управление сессиями
type UserUseCase interface {
	Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in domain.LoginInput) (*Session, error)
	Logout(ctx context.Context, p auth.Principal) error
	CurrentUser(ctx context.Context, p auth.Principal) (*domain.User, error)
}

// Session — результат успешного входа
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}
