package domain

import "errors"

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConflict — пользователь с таким username или email уже существует
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials — неверная пара email/пароль при входе
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrExportUnavailable — очередь или файловое хранилище для экспорта не настроены
	ErrExportUnavailable = errors.New("export unavailable")
)

// Сообщения, которые видит клиент при ошибках валидации.
const (
	MsgMissingFields = "Missing required fields"
	MsgRatingRange   = "Rating must be between 1 and 10"
	MsgRatingNumber  = "Rating must be a number"
	MsgInvalidDate   = "Invalid date"
)

// ValidationError несет сообщение для клиента и всегда сводится к ErrInvalidInput
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError создает ошибку валидации с сообщением для клиента
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// Сообщения для сравнения записей
const (
	MaxCompareIDs         = 10
	MsgCompareIDsRequired = "At least one id is required"
	MsgCompareTooManyIDs  = "At most 10 smokes can be compared"
)
