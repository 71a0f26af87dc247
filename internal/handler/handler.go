package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/SmokeLog/internal/domain"
)

const (
	// SessionCookie — имя cookie с токеном сессии
	SessionCookie = "session_token"

	maxBodyBytes = 1 << 20
)

// Сообщения об ошибках для клиента
const (
	msgUnauthorized      = "Unauthorized"
	msgSmokeNotFound     = "Smoke not found"
	msgInvalidBody       = "Invalid request body"
	msgExportUnavailable = "Export is not configured"
	msgInternal          = "Internal server error"
)

// respondWithJSON отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload any, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// respondWithDomainError переводит доменную ошибку в HTTP-статус.
// fallback отдается клиенту для всех непредвиденных ошибок (500).
func respondWithDomainError(w http.ResponseWriter, r *http.Request, err error, fallback string, logger *slog.Logger) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.Message, logger)
	case errors.Is(err, domain.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, msgInvalidBody, logger)
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, domain.MsgInvalidCredentials, logger)
	case errors.Is(err, domain.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, msgUnauthorized, logger)
	case errors.Is(err, domain.ErrForbidden):
		// как и в исходном приложении, 403 тоже несет "Unauthorized"
		respondWithError(w, http.StatusForbidden, msgUnauthorized, logger)
	case errors.Is(err, domain.ErrNotFound):
		respondWithError(w, http.StatusNotFound, msgSmokeNotFound, logger)
	case errors.Is(err, domain.ErrConflict):
		respondWithError(w, http.StatusConflict, domain.MsgUserExists, logger)
	case errors.Is(err, domain.ErrExportUnavailable):
		respondWithError(w, http.StatusServiceUnavailable, msgExportUnavailable, logger)
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		respondWithError(w, http.StatusInternalServerError, fallback, logger)
	}
}

// decodeJSON читает тело запроса в dst; любая ошибка разбора оборачивается в domain.ErrInvalidInput
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Join(domain.ErrInvalidInput, err)
	}
	return nil
}
