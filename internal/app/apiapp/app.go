package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vivahapp/backend/internal/config"
	s3infra "github.com/vivahapp/backend/internal/infra/s3"
	pgrepo "github.com/vivahapp/backend/internal/repo/postgres"
	redrepo "github.com/vivahapp/backend/internal/repo/redis"
	authsvc "github.com/vivahapp/backend/internal/services/auth"
	interestsvc "github.com/vivahapp/backend/internal/services/interests"
	photossvc "github.com/vivahapp/backend/internal/services/photos"
	privacysvc "github.com/vivahapp/backend/internal/services/privacy"
	profilesvc "github.com/vivahapp/backend/internal/services/profiles"
	ratesvc "github.com/vivahapp/backend/internal/services/rate"
	subssvc "github.com/vivahapp/backend/internal/services/subscriptions"
	telemetrysvc "github.com/vivahapp/backend/internal/services/telemetry"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	s3         *minio.Client
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	privacyCacheRepo := redrepo.NewPrivacyCacheRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)

	visibilityRepo := pgrepo.NewVisibilityRepo(pool)
	subscriptionRepo := pgrepo.NewSubscriptionRepo(pool)
	interestRepo := pgrepo.NewInterestRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	contactRepo := pgrepo.NewContactRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)
	quotaRepo := pgrepo.NewQuotaRepo(pool)
	eventRepo := pgrepo.NewEventRepo(pool)

	tokenVerifier := authsvc.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	privacyService := privacysvc.NewService(visibilityRepo, subscriptionRepo, interestRepo, log, privacysvc.Config{
		CacheTTL: cfg.Privacy.FactsCacheTTL,
	})
	privacyService.AttachCache(privacyCacheRepo)

	rateLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.Limits.SendRatePerMinute,
		cfg.Limits.SendRatePer10Seconds,
	)
	interestService := interestsvc.NewService(interestsvc.Dependencies{
		Pool:          pool,
		InterestStore: interestRepo,
		QuotaStore:    quotaRepo,
		Subscriptions: subscriptionRepo,
		RateLimiter:   rateLimiter,
		PrivacyCache:  privacyCacheRepo,
		Logger:        log,
	}, interestsvc.Config{
		FreeInterestsPerDay: cfg.Limits.FreeInterestsPerDay,
		DefaultTimezone:     cfg.Limits.DefaultTimezone,
	})

	subscriptionService := subssvc.NewService(subscriptionRepo)

	profileService := profilesvc.NewService(profileRepo, visibilityRepo, contactRepo, log)
	profileService.AttachPrivacyCache(privacyCacheRepo)

	telemetryService := telemetrysvc.NewService(eventRepo, log, telemetrysvc.Config{})

	var s3Client *minio.Client
	if c, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
	} else {
		s3Client = c
	}

	photoStorage := photossvc.NewS3Storage(s3Client, cfg.S3.Bucket)
	photoService := photossvc.NewService(photoRepo, photoStorage)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		TokenVerifier:       tokenVerifier,
		PrivacyService:      privacyService,
		ProfileService:      profileService,
		PhotoService:        photoService,
		InterestService:     interestService,
		SubscriptionService: subscriptionService,
		TelemetryService:    telemetryService,
		Logger:              log,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		s3:         s3Client,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
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
