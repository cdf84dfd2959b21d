package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/baechuer/user-service/internal/domain"
	"github.com/baechuer/user-service/internal/transport/http/middleware"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type UsersHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
}

// IPRateLimit configures the global per-IP limiter. Zero Limit disables it.
type IPRateLimit struct {
	Limit  int
	Window time.Duration
}

type Deps struct {
	Health HealthHandler
	Users  UsersHandler
	Auth   AuthHandler

	AuthMW  func(http.Handler) http.Handler
	AdminMW func(http.Handler) http.Handler
	// WriteLimitMW throttles admin writes (optional)
	WriteLimitMW func(http.Handler) http.Handler

	WriteErr           middleware.WriteErrFunc
	CORSAllowedOrigins []string
	IPRateLimit        IPRateLimit
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("nil Users handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}
	if deps.WriteErr == nil {
		return nil, fmt.Errorf("nil error writer")
	}
	writeLimit := deps.WriteLimitMW
	if writeLimit == nil {
		writeLimit = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	// "/users/me/" and "/users/{id}/" resolve like their slashless forms
	r.Use(chimw.StripSlashes)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)

	if len(deps.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", middleware.HeaderXRequestID},
			ExposedHeaders:   []string{middleware.HeaderXRequestID, "Retry-After"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if deps.IPRateLimit.Limit > 0 {
			r.Use(httprate.Limit(
				deps.IPRateLimit.Limit,
				deps.IPRateLimit.Window,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					middleware.RateLimitedTotal.WithLabelValues("ip").Inc()
					deps.WriteErr(w, r, domain.ErrRateLimited("ip"))
				}),
			))
		}

		r.Post("/auth/login", deps.Auth.Login)

		r.Route("/users", func(r chi.Router) {
			r.Use(deps.AuthMW)

			r.Get("/me", deps.Users.Me)

			r.Group(func(r chi.Router) {
				r.Use(deps.AdminMW)

				r.Get("/", deps.Users.List)
				r.With(writeLimit).Post("/", deps.Users.Create)
				r.With(writeLimit).Patch("/{id}", deps.Users.Update)
				r.With(writeLimit).Delete("/{id}", deps.Users.Delete)
			})
		})
	})

	return r, nil
}
