package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/auth"
	"github.com/GoArmGo/SmokeLog/internal/core/ports"
	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/GoArmGo/SmokeLog/internal/messaging/payloads"
	"github.com/google/uuid"
)

// smokeUseCase implements SmokeUseCase
type smokeUseCase struct {
	smokes       ports.SmokeStorage
	guard        *auth.Guard
	publisher    ports.SmokeExportPublisher
	files        ports.FileStorage
	storeTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// SmokeUseCaseDeps — зависимости сервиса записей.
// Publisher и Files могут быть nil: тогда экспорт недоступен.
type SmokeUseCaseDeps struct {
	Smokes       ports.SmokeStorage
	Guard        *auth.Guard
	Publisher    ports.SmokeExportPublisher
	Files        ports.FileStorage
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

// NewSmokeUseCase создает новый экземпляр SmokeUseCase
func NewSmokeUseCase(deps SmokeUseCaseDeps) SmokeUseCase {
	timeout := deps.StoreTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &smokeUseCase{
		smokes:       deps.Smokes,
		guard:        deps.Guard,
		publisher:    deps.Publisher,
		files:        deps.Files,
		storeTimeout: timeout,
		logger:       deps.Logger,
		now:          time.Now,
	}
}

// store ограничивает один вызов хранилища по времени
func (uc *smokeUseCase) store(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, uc.storeTimeout)
}

// unavailable приводит истекший STORE_TIMEOUT к domain.ErrStorageUnavailable
func unavailable(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrStorageUnavailable) {
		return fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return err
}

func (uc *smokeUseCase) ListSmokes(ctx context.Context, p auth.Principal, params domain.ListParams) ([]domain.Smoke, error) {
	if p.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	q := domain.NewSmokeQuery(uc.guard.ResolveOwner(p, params.UserID), params)

	ctx, cancel := uc.store(ctx)
	defer cancel()

	smokes, err := uc.smokes.ListSmokes(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении списка записей: %w", unavailable(err))
	}
	return smokes, nil
}

func (uc *smokeUseCase) ListRecipes(ctx context.Context, p auth.Principal, userIDHint string) ([]string, error) {
	if p.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	ownerID := uc.guard.ResolveOwner(p, userIDHint)

	ctx, cancel := uc.store(ctx)
	defer cancel()

	titles, err := uc.smokes.ListRecipeTitles(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении рецептов: %w", unavailable(err))
	}
	return titles, nil
}

func (uc *smokeUseCase) CreateSmoke(ctx context.Context, p auth.Principal, in domain.SmokeInput) (*domain.Smoke, error) {
	if p.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	fields, err := in.Validate(domain.ValidateCreate)
	if err != nil {
		return nil, err
	}

	smoke := &domain.Smoke{UserID: p.UserID}
	fields.Apply(smoke)

	ctx, cancel := uc.store(ctx)
	defer cancel()

	created, err := uc.smokes.CreateSmoke(ctx, smoke)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании записи: %w", unavailable(err))
	}

	uc.logger.Info("smoke created", "id", created.ID, "user_id", p.UserID)
	return created, nil
}

func (uc *smokeUseCase) GetSmoke(ctx context.Context, p auth.Principal, id string) (*domain.Smoke, error) {
	if p.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	_, smoke, err := uc.loadOwned(ctx, p, id)
	return smoke, err
}

func (uc *smokeUseCase) UpdateSmoke(ctx context.Context, p auth.Principal, id string, in domain.SmokeInput) (*domain.Smoke, error) {
	if p.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	smokeID, _, err := uc.loadOwned(ctx, p, id)
	if err != nil {
		return nil, err
	}

	fields, err := in.Validate(domain.ValidateUpdate)
	if err != nil {
		return nil, err
	}

	ctx, cancel := uc.store(ctx)
	defer cancel()

	updated, err := uc.smokes.UpdateSmoke(ctx, p.UserID, smokeID, fields)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при обновлении записи %s: %w", smokeID, unavailable(err))
	}

	uc.logger.Info("smoke updated", "id", smokeID, "user_id", p.UserID)
	return updated, nil
}

func (uc *smokeUseCase) DeleteSmoke(ctx context.Context, p auth.Principal, id string) error {
	if p.UserID == uuid.Nil {
		return domain.ErrUnauthenticated
	}

	smokeID, _, err := uc.loadOwned(ctx, p, id)
	if err != nil {
		return err
	}

	ctx, cancel := uc.store(ctx)
	defer cancel()

	if err := uc.smokes.DeleteSmoke(ctx, p.UserID, smokeID); err != nil {
		return fmt.Errorf("usecase: ошибка при удалении записи %s: %w", smokeID, unavailable(err))
	}

	uc.logger.Info("smoke deleted", "id", smokeID, "user_id", p.UserID)
	return nil
}

func (uc *smokeUseCase) CompareSmokes(ctx context.Context, p auth.Principal, ids []string) ([]domain.Smoke, error) {
	if p.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	switch {
	case len(unique) == 0:
		return nil, domain.NewValidationError(domain.MsgCompareIDsRequired)
	case len(unique) > domain.MaxCompareIDs:
		return nil, domain.NewValidationError(domain.MsgCompareTooManyIDs)
	}

	result := make([]domain.Smoke, 0, len(unique))
	for _, id := range unique {
		_, smoke, err := uc.loadOwned(ctx, p, id)
		if err != nil {
			return nil, err
		}
		result = append(result, *smoke)
	}
	return result, nil
}

func (uc *smokeUseCase) RequestExport(ctx context.Context, p auth.Principal) error {
	if p.UserID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	if uc.publisher == nil {
		return domain.ErrExportUnavailable
	}

	payload := payloads.SmokeExportPayload{UserID: p.UserID, RequestedAt: uc.now().UTC()}
	if err := uc.publisher.PublishSmokeExportRequest(ctx, payload); err != nil {
		uc.logger.Error("failed to publish export request", "user_id", p.UserID, "error", err)
		return fmt.Errorf("usecase: ошибка публикации задачи экспорта: %w", err)
	}

	uc.logger.Info("export request published", "user_id", p.UserID)
	return nil
}

// exportDocument — содержимое файла выгрузки
type exportDocument struct {
	UserID     uuid.UUID      `json:"userId"`
	ExportedAt time.Time      `json:"exportedAt"`
	Count      int            `json:"count"`
	Smokes     []domain.Smoke `json:"smokes"`
}

// ExportKey возвращает ключ объекта выгрузки в бакете
func ExportKey(userID uuid.UUID, at time.Time) string {
	return fmt.Sprintf("exports/%s/%s.json", userID, at.UTC().Format("20060102T150405Z"))
}

func (uc *smokeUseCase) ExportSmokes(ctx context.Context, payload payloads.SmokeExportPayload) (string, error) {
	start := uc.now()

	if uc.files == nil {
		return "", domain.ErrExportUnavailable
	}
	if payload.UserID == uuid.Nil {
		return "", fmt.Errorf("usecase: задача экспорта без пользователя: %w", domain.ErrInvalidInput)
	}

	listCtx, cancel := uc.store(ctx)
	smokes, err := uc.smokes.ListSmokes(listCtx, domain.NewSmokeQuery(payload.UserID, domain.ListParams{}))
	cancel()
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка при загрузке записей для экспорта: %w", unavailable(err))
	}

	doc := exportDocument{
		UserID:     payload.UserID,
		ExportedAt: start.UTC(),
		Count:      len(smokes),
		Smokes:     smokes,
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка сериализации экспорта: %w", err)
	}

	key := ExportKey(payload.UserID, start)
	url, err := uc.files.UploadFile(ctx, key, bytes.NewReader(body), "application/json")
	if err != nil {
		return "", fmt.Errorf("usecase: ошибка загрузки экспорта %s: %w", key, err)
	}

	uc.logger.Info("smokes exported",
		"user_id", payload.UserID,
		"count", len(smokes),
		"key", key,
		"duration_ms", uc.now().Sub(start).Milliseconds(),
	)
	return url, nil
}

// loadOwned разбирает ID, загружает запись и проверяет владельца.
// Порядок всегда один: сначала существование, затем владение.
func (uc *smokeUseCase) loadOwned(ctx context.Context, p auth.Principal, id string) (uuid.UUID, *domain.Smoke, error) {
	smokeID, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("usecase: некорректный ID записи %q: %w", id, domain.ErrNotFound)
	}

	ctx, cancel := uc.store(ctx)
	defer cancel()

	smoke, err := uc.smokes.GetSmokeByID(ctx, smokeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, nil, err
		}
		return uuid.Nil, nil, fmt.Errorf("usecase: ошибка при получении записи %s: %w", smokeID, unavailable(err))
	}

	if err := auth.CheckOwner(p, smoke.UserID); err != nil {
		uc.logger.Warn("access to foreign smoke denied", "id", smokeID, "user_id", p.UserID)
		return uuid.Nil, nil, err
	}
	return smokeID, smoke, nil
}
