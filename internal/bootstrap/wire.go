package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/baechuer/user-service/internal/application/users"
	"github.com/baechuer/user-service/internal/audit"
	"github.com/baechuer/user-service/internal/config"
	"github.com/baechuer/user-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/user-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/user-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/user-service/internal/infrastructure/redis"
	"github.com/baechuer/user-service/internal/infrastructure/security"
	"github.com/baechuer/user-service/internal/logger"
	http_handlers "github.com/baechuer/user-service/internal/transport/http/handlers"
	"github.com/baechuer/user-service/internal/transport/http/middleware"
	"github.com/baechuer/user-service/internal/transport/http/response"
	"github.com/baechuer/user-service/internal/transport/http/router"
	"github.com/baechuer/user-service/internal/transport/http/validate"
)

/*
========================
 Public entry (prod)
========================
*/

// Server is the configured HTTP server plus how long Shutdown may take.
type Server struct {
	*http.Server
	ShutdownTimeout time.Duration
}

func NewServer() (*Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string, debug bool) (*sql.DB, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface {
	users.EventPublisher
	Close() error
}

// Store is a user repository that can also answer readiness probes.
type Store interface {
	users.UserRepo
	Ping(ctx context.Context) error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) store
	store, closeStore, err := openStore(deps, cfg)
	if err != nil {
		return nil, nil, err
	}
	if closeStore != nil {
		cleanupFns = append(cleanupFns, closeStore)
	}

	// 2) redis (best-effort)
	var limiter *redis.FixedWindowLimiter
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; admin write limit disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			if rc, ok := c.(*redis.Client); ok {
				limiter = redis.NewFixedWindowLimiter(rc)
			}
		}
	}

	// 3) publisher
	var pub users.EventPublisher = memory.NoopPublisher{}
	if deps.NewPublisher != nil && cfg.RabbitURL != "" {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			if cfg.Env == "prod" {
				runCleanup(cleanupFns)
				return nil, nil, fmt.Errorf("rabbitmq: %w", err)
			}
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		} else {
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		}
	}

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 5) service
	aud := audit.New(logger.Logger)
	usersSvc := users.NewService(store, hasher, signer, pub, users.Config{
		AccessTTL: cfg.AccessTokenTTL,
	}).WithAudit(aud.Record)

	// seed
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		u, created, err := usersSvc.EnsureAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
		cancel()
		if err != nil {
			runCleanup(cleanupFns)
			return nil, nil, fmt.Errorf("seed admin: %w", err)
		}
		logger.Logger.Info().Int64("user_id", u.ID).Bool("created", created).Msg("seed admin ensured")
	}

	// 6) handlers + middleware
	val, err := validate.New(cfg.DefaultLocale)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}
	ew := response.NewErrorWriter(val)

	usersH := http_handlers.NewUsersHandler(usersSvc, val, ew.Write)
	authH := http_handlers.NewAuthHandler(usersSvc, val, ew.Write)
	healthH := http_handlers.NewHealthHandler(store)

	authMW := middleware.Auth(signer, usersSvc, aud, ew.Write)
	adminMW := middleware.RequireAdmin(aud, ew.Write)

	// rate limit (fail-open)
	var writeLimitMW func(http.Handler) http.Handler
	if limiter != nil && cfg.RLAdminLimit > 0 {
		writeLimitMW = middleware.RateLimitFixedWindow(
			limiter,
			middleware.FixedWindowConfig{
				RouteKey: "users.admin.write",
				Limit:    cfg.RLAdminLimit,
				Window:   cfg.RLAdminWindow,
			},
			aud,
			ew.Write,
		)
	}

	var ipLimit router.IPRateLimit
	if cfg.RLEnabled {
		ipLimit = router.IPRateLimit{Limit: cfg.RLLimit, Window: cfg.RLWindow}
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:             healthH,
		Users:              usersH,
		Auth:               authH,
		AuthMW:             authMW,
		AdminMW:            adminMW,
		WriteLimitMW:       writeLimitMW,
		WriteErr:           ew.Write,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		IPRateLimit:        ipLimit,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return &Server{Server: srv, ShutdownTimeout: cfg.ShutdownTimeout}, cleanup, nil
}

// openStore returns the configured user store and its close func (nil for memory).
func openStore(deps Deps, cfg *config.Config) (Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		logger.Logger.Warn().Msg("using in-memory user store; data is lost on restart")
		return memory.NewUserRepo(), nil, nil
	}

	sqlDB, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { _ = sqlDB.Close() }

	gdb, err := postgres.Open(sqlDB, cfg.DBDebug)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	if cfg.DBAutoMigrate {
		if err := postgres.Migrate(gdb); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Logger.Info().Msg("database schema migrated")
	}

	return postgres.NewUserRepo(gdb), closeDB, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
