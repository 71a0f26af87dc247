package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/GoArmGo/SmokeLog/internal/auth"
	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/GoArmGo/SmokeLog/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// SmokeHandler — обработчик HTTP-запросов для работы с записями о копчении.
type SmokeHandler struct {
	smokeUseCase usecase.SmokeUseCase
	logger       *slog.Logger
}

// NewSmokeHandler создаёт новый экземпляр SmokeHandler.
func NewSmokeHandler(uc usecase.SmokeUseCase, logger *slog.Logger) *SmokeHandler {
	return &SmokeHandler{smokeUseCase: uc, logger: logger}
}

// principal достает пользователя, положенного в контекст middleware Authenticate
func (h *SmokeHandler) principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, msgUnauthorized, h.logger)
		return auth.Principal{}, false
	}
	return p, true
}

// ListSmokes обрабатывает GET /smokes?sortBy=&sortOrder=&weather=&recipeTitle=&userId=
func (h *SmokeHandler) ListSmokes(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	params := domain.ListParams{
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
		Weather:     q.Get("weather"),
		RecipeTitle: q.Get("recipeTitle"),
		UserID:      q.Get("userId"),
	}

	smokes, err := h.smokeUseCase.ListSmokes(r.Context(), p, params)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to fetch smokes", h.logger)
		return
	}

	h.logger.Debug("smokes fetched", "user_id", p.UserID, "count", len(smokes))
	respondWithJSON(w, http.StatusOK, smokes, h.logger)
}

// ListRecipes обрабатывает GET /recipes?userId=
func (h *SmokeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	titles, err := h.smokeUseCase.ListRecipes(r.Context(), p, r.URL.Query().Get("userId"))
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to fetch recipes", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, titles, h.logger)
}

// CreateSmoke обрабатывает POST /smokes
func (h *SmokeHandler) CreateSmoke(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var in domain.SmokeInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.logger.Warn("invalid smoke body", "error", err)
		respondWithError(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}

	smoke, err := h.smokeUseCase.CreateSmoke(r.Context(), p, in)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to create smoke", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, smoke, h.logger)
}

// GetSmoke обрабатывает GET /smokes/{id}
func (h *SmokeHandler) GetSmoke(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	smoke, err := h.smokeUseCase.GetSmoke(r.Context(), p, chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to fetch smoke", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, smoke, h.logger)
}

// UpdateSmoke обрабатывает PUT /smokes/{id}
func (h *SmokeHandler) UpdateSmoke(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")

	var in domain.SmokeInput
	if err := decodeJSON(w, r, &in); err != nil {
		// 404 и 403 важнее ошибки в теле запроса
		if _, getErr := h.smokeUseCase.GetSmoke(r.Context(), p, id); getErr != nil {
			respondWithDomainError(w, r, getErr, "Failed to update smoke", h.logger)
			return
		}
		h.logger.Warn("invalid smoke body", "error", err)
		respondWithError(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}

	smoke, err := h.smokeUseCase.UpdateSmoke(r.Context(), p, id, in)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to update smoke", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, smoke, h.logger)
}

// DeleteSmoke обрабатывает DELETE /smokes/{id}
func (h *SmokeHandler) DeleteSmoke(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	if err := h.smokeUseCase.DeleteSmoke(r.Context(), p, chi.URLParam(r, "id")); err != nil {
		respondWithDomainError(w, r, err, "Failed to delete smoke", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Smoke deleted successfully"}, h.logger)
}

// CompareSmokes обрабатывает GET /smokes/compare?ids=a,b,c
func (h *SmokeHandler) CompareSmokes(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	var ids []string
	for _, raw := range r.URL.Query()["ids"] {
		ids = append(ids, strings.Split(raw, ",")...)
	}

	smokes, err := h.smokeUseCase.CompareSmokes(r.Context(), p, ids)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to fetch smokes", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, smokes, h.logger)
}

// RequestExport обрабатывает POST /smokes/export
func (h *SmokeHandler) RequestExport(w http.ResponseWriter, r *http.Request) {
	p, ok := h.principal(w, r)
	if !ok {
		return
	}

	if err := h.smokeUseCase.RequestExport(r.Context(), p); err != nil {
		respondWithDomainError(w, r, err, "Failed to request export", h.logger)
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]string{"message": "Export requested"}, h.logger)
}
