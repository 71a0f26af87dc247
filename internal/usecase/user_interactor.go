package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/auth"
	"github.com/GoArmGo/SmokeLog/internal/core/ports"
	"github.com/GoArmGo/SmokeLog/internal/domain"
)

// userUseCase implements UserUseCase
type userUseCase struct {
	users        ports.UserStorage
	sessions     *auth.SessionManager
	guard        *auth.Guard
	storeTimeout time.Duration
	logger       *slog.Logger
}

// NewUserUseCase создает новый экземпляр UserUseCase
func NewUserUseCase(
	users ports.UserStorage,
	sessions *auth.SessionManager,
	guard *auth.Guard,
	storeTimeout time.Duration,
	logger *slog.Logger,
) UserUseCase {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &userUseCase{
		users:        users,
		sessions:     sessions,
		guard:        guard,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// Register создает пользователя с bcrypt-хешем пароля
func (uc *userUseCase) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка хеширования пароля: %w", err)
	}

	user := &domain.User{Username: in.Username, Email: in.Email, PasswordHash: hash}

	ctx, cancel := context.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()

	if err := uc.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("usecase: ошибка регистрации пользователя: %w", err)
	}

	uc.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login проверяет email и пароль и выдает токен сессии
func (uc *userUseCase) Login(ctx context.Context, in domain.LoginInput) (*Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	storeCtx, cancel := context.WithTimeout(ctx, uc.storeTimeout)
	user, err := uc.users.GetUserByEmail(storeCtx, in.Email)
	cancel()
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Info("login failed: unknown email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("usecase: ошибка поиска пользователя: %w", err)
	}

	if !auth.CheckPassword(in.Password, user.PasswordHash) {
		uc.logger.Info("login failed: wrong password", "user_id", user.ID)
		return nil, domain.ErrInvalidCredentials
	}

	token, p, err := uc.sessions.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка выдачи токена: %w", err)
	}

	uc.logger.Info("user logged in", "user_id", user.ID)
	return &Session{Token: token, ExpiresAt: p.ExpiresAt, User: *user}, nil
}

// Logout отзывает текущий токен
func (uc *userUseCase) Logout(ctx context.Context, p auth.Principal) error {
	if err := uc.guard.Revoke(ctx, p); err != nil {
		return fmt.Errorf("usecase: ошибка завершения сессии: %w", err)
	}
	uc.logger.Info("user logged out", "user_id", p.UserID)
	return nil
}

// CurrentUser возвращает пользователя текущей сессии
func (uc *userUseCase) CurrentUser(ctx context.Context, p auth.Principal) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()

	user, err := uc.users.GetUserByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// пользователь удален, а токен еще жив
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("usecase: ошибка получения пользователя: %w", err)
	}
	return user, nil
}
