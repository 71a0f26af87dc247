package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/google/uuid"
)

// SmokeStorage определяет методы для взаимодействия с хранилищем записей.
// Все методы возвращают domain.ErrNotFound, если записи нет,
// и оборачивают сбои бд в domain.ErrStorageUnavailable.
type SmokeStorage interface {
	CreateSmoke(ctx context.Context, smoke *domain.Smoke) (*domain.Smoke, error)
	GetSmokeByID(ctx context.Context, id uuid.UUID) (*domain.Smoke, error)
	ListSmokes(ctx context.Context, q domain.SmokeQuery) ([]domain.Smoke, error)
	ListRecipeTitles(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	// UpdateSmoke обновляет запись только если она все еще принадлежит ownerID
	UpdateSmoke(ctx context.Context, ownerID, id uuid.UUID, fields domain.SmokeFields) (*domain.Smoke, error)
	// DeleteSmoke удаляет запись только если она все еще принадлежит ownerID
	DeleteSmoke(ctx context.Context, ownerID, id uuid.UUID) error
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
type FileStorage interface {
	// UploadFile загружает файл в хранилище и возвращает его URL
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}
