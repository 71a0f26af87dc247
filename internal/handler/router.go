package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/auth"
	"github.com/GoArmGo/SmokeLog/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps — все, что нужно для сборки HTTP-маршрутов
type RouterDeps struct {
	Smokes         usecase.SmokeUseCase
	Users          usecase.UserUseCase
	Guard          *auth.Guard
	RequestTimeout time.Duration
	SecureCookie   bool
	Logger         *slog.Logger
}

// NewRouter собирает chi-роутер со всеми эндпоинтами сервиса
func NewRouter(deps RouterDeps) http.Handler {
	smokeHandler := NewSmokeHandler(deps.Smokes, deps.Logger)
	authHandler := NewAuthHandler(deps.Users, deps.SecureCookie, deps.Logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(Metrics)
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, deps.Logger)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/register", authHandler.Register)
	r.Post("/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(deps.Guard, deps.Logger))

		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/session", authHandler.Session)

		r.Get("/recipes", smokeHandler.ListRecipes)

		r.Route("/smokes", func(r chi.Router) {
			r.Get("/", smokeHandler.ListSmokes)
			r.Post("/", smokeHandler.CreateSmoke)
			r.Get("/compare", smokeHandler.CompareSmokes)
			r.Post("/export", smokeHandler.RequestExport)
			r.Get("/{id}", smokeHandler.GetSmoke)
			r.Put("/{id}", smokeHandler.UpdateSmoke)
			r.Delete("/{id}", smokeHandler.DeleteSmoke)
		})
	})

	return r
}
