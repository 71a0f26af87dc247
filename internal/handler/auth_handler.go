package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/auth"
	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/GoArmGo/SmokeLog/internal/usecase"
	"github.com/google/uuid"
)

// AuthHandler обслуживает регистрацию, вход и выход
type AuthHandler struct {
	userUseCase  usecase.UserUseCase
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(uc usecase.UserUseCase, secureCookie bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{userUseCase: uc, secureCookie: secureCookie, logger: logger}
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email,omitempty"`
}

type loginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	User      domain.UserSummary `json:"user"`
}

// Register обрабатывает POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in domain.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}

	user, err := h.userUseCase.Register(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to register user", h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, Email: user.Email}, h.logger)
}

// Login обрабатывает POST /auth/login; токен отдается в теле и в cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		respondWithError(w, http.StatusBadRequest, msgInvalidBody, h.logger)
		return
	}

	session, err := h.userUseCase.Login(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to log in", h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      session.User.Summary(),
	}, h.logger)
}

// Logout обрабатывает POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, msgUnauthorized, h.logger)
		return
	}

	if err := h.userUseCase.Logout(r.Context(), p); err != nil {
		respondWithDomainError(w, r, err, "Failed to log out", h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"}, h.logger)
}

// Session обрабатывает GET /auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	p, err := auth.PrincipalFromContext(r.Context())
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, msgUnauthorized, h.logger)
		return
	}

	user, err := h.userUseCase.CurrentUser(r.Context(), p)
	if err != nil {
		respondWithDomainError(w, r, err, "Failed to fetch session", h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]userResponse{
		"user": {ID: user.ID, Username: user.Username, Email: user.Email},
	}, h.logger)
}
