package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/google/uuid"
)

// Guard определяет пользователя по токену сессии и проверяет владение записями
type Guard struct {
	sessions *SessionManager
	revoker  TokenRevoker
	logger   *slog.Logger
}

// NewGuard создает Guard
func NewGuard(sessions *SessionManager, revoker TokenRevoker, logger *slog.Logger) *Guard {
	return &Guard{sessions: sessions, revoker: revoker, logger: logger}
}

// Authenticate превращает токен в Principal или возвращает domain.ErrUnauthenticated
func (g *Guard) Authenticate(ctx context.Context, token string) (Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Principal{}, domain.ErrUnauthenticated
	}

	p, err := g.sessions.Parse(token)
	if err != nil {
		g.logger.Debug("session token rejected", "error", err)
		return Principal{}, domain.ErrUnauthenticated
	}

	revoked, err := g.revoker.IsRevoked(ctx, p.TokenID)
	if err != nil {
		g.logger.Error("failed to check token revocation", "token_id", p.TokenID, "error", err)
		return Principal{}, fmt.Errorf("check revocation: %w", domain.ErrStorageUnavailable)
	}
	if revoked {
		return Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}

// Revoke отзывает сессию до конца ее срока действия
func (g *Guard) Revoke(ctx context.Context, p Principal) error {
	ttl := time.Until(p.ExpiresAt)
	if err := g.revoker.Revoke(ctx, p.TokenID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", domain.ErrStorageUnavailable)
	}
	return nil
}

// ResolveOwner определяет владельца для выборки. Подсказка клиента (userId)
// разбирается, но в фильтр всегда попадает ID из сессии.
func (g *Guard) ResolveOwner(p Principal, hint string) uuid.UUID {
	hint = strings.TrimSpace(hint)
	if hint != "" {
		hinted, err := uuid.Parse(hint)
		if err != nil || hinted != p.UserID {
			g.logger.Debug("ignoring foreign userId hint", "user_id", p.UserID, "hint", hint)
		}
	}
	return p.UserID
}
