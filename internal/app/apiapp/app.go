package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/krjofficial/mern-ecomm/internal/config"
	s3infra "github.com/krjofficial/mern-ecomm/internal/infra/s3"
	pgrepo "github.com/krjofficial/mern-ecomm/internal/repo/postgres"
	redrepo "github.com/krjofficial/mern-ecomm/internal/repo/redis"
	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
	"github.com/krjofficial/mern-ecomm/internal/services/cart"
	"github.com/krjofficial/mern-ecomm/internal/services/catalog"
	mediasvc "github.com/krjofficial/mern-ecomm/internal/services/media"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/cookies"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	httpRouter http.Handler
}

// New wires the API. Redis is required; Postgres and S3 failures leave the
// app running in degraded mode.
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := redrepo.Ping(ctx, redisClient); err != nil {
		_ = redisClient.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else if err := pgrepo.Migrate(ctx, p); err != nil {
		log.Warn("postgres migrations failed, continuing in degraded mode", zap.Error(err))
		pool = p
	} else {
		pool = p
	}

	var images catalog.ImageStorage
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, product images disabled", zap.Error(err))
	} else {
		images = mediasvc.NewS3Storage(c, cfg.S3.Bucket, s3infra.PublicBaseURL(cfg.S3.Endpoint, cfg.S3.UseSSL, cfg.S3.PublicBaseURL))
	}

	codec := authsvc.NewTokenCodec(authsvc.CodecConfig{
		AccessSecret:  cfg.Auth.AccessTokenSecret,
		RefreshSecret: cfg.Auth.RefreshTokenSecret,
		AccessTTL:     cfg.Auth.AccessTokenTTL,
		RefreshTTL:    cfg.Auth.RefreshTokenTTL,
	})
	authService := authsvc.NewService(codec, pgrepo.NewUserRepo(pool), redrepo.NewRefreshRepo(redisClient))
	products := pgrepo.NewProductRepo(pool)
	isProductNotFound := func(err error) bool { return errors.Is(err, pgrepo.ErrProductNotFound) }
	catalogService := catalog.NewService(
		products,
		redrepo.NewCacheRepo(redisClient),
		images,
		isProductNotFound,
		log,
	)
	cartService := cart.NewService(pgrepo.NewCartRepo(pool), products, isProductNotFound, log)

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)
	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		CatalogService: catalogService,
		CartService:    cartService,
		Cookies: cookies.NewBinder(cookies.Options{
			Path:   cfg.Cookies.Path,
			Domain: cfg.Cookies.Domain,
			Secure: cfg.CookieSecure(),
		}),
		Logger: log,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started",
		zap.String("addr", a.cfg.HTTP.Addr),
		zap.String("env", a.cfg.Env),
	)
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Serve runs the server until ctx is cancelled, then drains it within the
// configured shutdown timeout.
func (a *App) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = a.Shutdown(context.Background())
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("api server stopping", zap.Duration("timeout", a.cfg.HTTP.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api server: %w", err)
	}
	return <-errCh
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
