package auth

import (
	"context"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/google/uuid"
)

// Principal — аутентифицированный пользователь текущего запроса
type Principal struct {
	UserID    uuid.UUID
	TokenID   string
	ExpiresAt time.Time
}

type principalKey struct{}

// WithPrincipal кладет Principal в контекст запроса
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext достает Principal; без него запрос считается неаутентифицированным
func PrincipalFromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UserID == uuid.Nil {
		return Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// CheckOwner возвращает domain.ErrForbidden, если запись принадлежит другому пользователю
func CheckOwner(p Principal, ownerID uuid.UUID) error {
	if p.UserID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	if p.UserID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}
