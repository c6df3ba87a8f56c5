package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrymomot/campusmove/internal/db/migrations"
	"github.com/dmitrymomot/campusmove/internal/store/postgres"
	"github.com/dmitrymomot/campusmove/modules/account"
	"github.com/dmitrymomot/campusmove/pkg/clientip"
	"github.com/dmitrymomot/campusmove/pkg/config"
	"github.com/dmitrymomot/campusmove/pkg/file"
	"github.com/dmitrymomot/campusmove/pkg/httpserver"
	"github.com/dmitrymomot/campusmove/pkg/jwt"
	"github.com/dmitrymomot/campusmove/pkg/logger"
	"github.com/dmitrymomot/campusmove/pkg/pg"
	"github.com/dmitrymomot/campusmove/pkg/ratelimiter"
	"github.com/dmitrymomot/campusmove/pkg/redis"
	"github.com/dmitrymomot/campusmove/pkg/requestid"
	"github.com/dmitrymomot/campusmove/svc/auth"
	"github.com/dmitrymomot/campusmove/svc/token"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	AppName  string `env:"APP_NAME" envDefault:"campusmove"`
	LogLevel string `env:"LOG_LEVEL"`

	JWTSecret     string        `env:"JWT_SECRET,required"`
	JWTAccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	JWTRefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"24h"`
	BcryptCost    int           `env:"AUTH_BCRYPT_COST" envDefault:"10"`

	LoginPerMinute   int `env:"RATE_LOGIN_PER_MINUTE" envDefault:"5"`
	RefreshPerMinute int `env:"RATE_REFRESH_PER_MINUTE" envDefault:"10"`

	HTTP     httpserver.Config
	PG       pg.Config
	Redis    redis.Config
	Files    file.Config
	ClientIP clientip.Config
}

func main() {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		slog.Error("failed to load config", logger.Error(err))
		os.Exit(1)
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.AppEnv, cfg.AppName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		logOpts = append(logOpts, logger.WithLevelName(cfg.LogLevel))
	}
	log := logger.New(logOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, log *slog.Logger) error {
	ips, err := clientip.New(cfg.ClientIP)
	if err != nil {
		return err
	}

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, cfg.PG, log); err != nil {
		return err
	}

	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database handle", logger.Error(err))
		}
	}()

	files, err := file.New(ctx, cfg.Files)
	if err != nil {
		return err
	}

	checks := []httpserver.Check{pg.Healthcheck(pool)}

	var (
		blacklist token.Blacklist
		limits    ratelimiter.Store
	)
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("failed to close redis client", logger.Error(err))
			}
		}()
		blacklist = token.NewRedisBlacklist(client)
		limits = ratelimiter.NewRedisStore(client)
		checks = append(checks, redis.Healthcheck(client))
	} else {
		log.Warn("REDIS_URL is not set, using in-memory blacklist and rate limiter")
		blacklist = token.NewMemoryBlacklist()
		mem := ratelimiter.NewMemoryStore()
		defer mem.Close()
		limits = mem
	}

	loginLimiter, err := ratelimiter.NewBucket(limits, ratelimiter.PerMinute(cfg.LoginPerMinute))
	if err != nil {
		return err
	}
	refreshLimiter, err := ratelimiter.NewBucket(limits, ratelimiter.PerMinute(cfg.RefreshPerMinute))
	if err != nil {
		return err
	}

	signer, err := jwt.NewFromString(cfg.JWTSecret)
	if err != nil {
		return err
	}

	authSvc := auth.NewService(
		postgres.NewAccountStore(db),
		auth.WithBcryptCost(cfg.BcryptCost),
		auth.WithFileStorage(files),
		auth.WithLogger(log),
	)
	tokens := token.NewService(signer, blacklist, authSvc,
		token.WithAccessTTL(cfg.JWTAccessTTL),
		token.WithRefreshTTL(cfg.JWTRefreshTTL),
		token.WithLogger(log),
	)

	r := chi.NewRouter()
	r.Use(requestid.Middleware, ips.Middleware, middleware.Recoverer)

	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(log, checks...))

	if _, ok := files.(*file.LocalStorage); ok {
		prefix := "/" + strings.Trim(cfg.Files.LocalURL, "/") + "/"
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.Files.LocalDir))))
	}

	r.Mount("/api", account.Router(account.RouterOptions{
		Auth:           authSvc,
		Tokens:         tokens,
		LoginLimiter:   loginLimiter,
		RefreshLimiter: refreshLimiter,
		Logger:         log,
	}))

	return httpserver.New(cfg.HTTP, httpserver.WithLogger(log)).Run(ctx, r)
}
