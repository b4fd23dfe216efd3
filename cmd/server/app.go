package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mockprep/interview/internal/config"
	"mockprep/interview/internal/events"
	"mockprep/interview/internal/handlers"
	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/jobs"
	"mockprep/interview/internal/llm"
	_ "mockprep/interview/internal/llm/gemini"
	_ "mockprep/interview/internal/llm/openai"
	"mockprep/interview/internal/locking"
	"mockprep/interview/internal/metrics"
	appmw "mockprep/interview/internal/middleware"
	"mockprep/interview/internal/prompts"
	"mockprep/interview/internal/repositories"
	"mockprep/interview/internal/repositories/gormstore"
	mongorepo "mockprep/interview/internal/repositories/mongo"
	"mockprep/interview/internal/routers"
)

// seams for tests
var (
	newProvider     = llm.NewProvider
	connectPostgres = gormstore.ConnectWithRetry
	newMongoClient  = mongorepo.NewClient
	newRedisClient  = func(addr, password string) *redis.Client {
		return redis.NewClient(&redis.Options{Addr: addr, Password: password})
	}
)

// app holds everything both commands need. close releases it in reverse order.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	provider llm.Provider
	prompts  *prompts.PromptManager
	store    repositories.SessionStore
	service  *interview.Service
	closers  []func(context.Context) error
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	pm, err := prompts.NewPromptManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prompt manager: %w", err)
	}
	a.prompts = pm

	provider, err := newProvider(cfg.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI provider: %w", err)
	}
	a.provider = provider

	if err := a.openStore(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}

	locker, publisher, err := a.openRedis(ctx)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	interviewer := llm.NewInterviewer(provider, pm)
	service, err := interview.NewService(a.store, interviewer, interviewer, locker, publisher, interview.Config{
		TotalMainQuestions: cfg.TotalMainQuestions,
		MaxFollowUps:       cfg.MaxFollowUps,
		ProviderTimeout:    cfg.ProviderTimeout,
	}, logger)
	if err != nil {
		a.close(ctx)
		return nil, err
	}
	a.service = service

	logger.Info("application initialized",
		zap.String("provider", provider.GetProviderName()),
		zap.String("store", cfg.StoreBackend),
		zap.Bool("redis", cfg.RedisAddr != ""),
		zap.Int("total_main_questions", cfg.TotalMainQuestions),
		zap.Int("max_follow_ups", cfg.MaxFollowUps))
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.StoreBackend {
	case config.StoreMongo:
		client, err := newMongoClient(ctx, a.cfg.MongoURI, a.cfg.MongoDBName)
		if err != nil {
			return fmt.Errorf("failed to connect to mongo: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		repo, err := mongorepo.NewSessionRepo(client, a.cfg.SessionsCollection)
		if err != nil {
			return fmt.Errorf("failed to open sessions collection: %w", err)
		}
		a.store = repo

	case config.StorePostgres:
		db, err := connectPostgres(a.cfg.Postgres.DSN(), a.cfg.Postgres.ConnectTimeout, a.logger)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, func(context.Context) error { return sqlDB.Close() })
		}
		if err := gormstore.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		a.store = &gormstore.SessionRepository{DB: db}

	default:
		a.logger.Warn("using in-memory session store, sessions are lost on restart")
		a.store = repositories.NewMemoryStore()
	}
	return nil
}

func (a *app) openRedis(ctx context.Context) (locking.Locker, events.Publisher, error) {
	if a.cfg.RedisAddr == "" {
		a.logger.Info("REDIS_ADDR not set, using in-process locks and no completion events")
		return locking.NewLocalLocker(), events.NopPublisher{}, nil
	}

	rdb := newRedisClient(a.cfg.RedisAddr, a.cfg.RedisPassword)
	a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", a.cfg.RedisAddr, err)
	}
	return locking.NewRedisLocker(rdb, a.cfg.SessionLockTTL, a.logger), events.NewRedisPublisher(rdb), nil
}

func (a *app) retryJob() *jobs.EvaluationRetryJob {
	return jobs.NewEvaluationRetryJob(a.store, a.service, &jobs.RetryConfig{
		Enabled:     a.cfg.Retry.Enabled,
		Schedule:    a.cfg.Retry.Schedule,
		BatchSize:   a.cfg.Retry.BatchSize,
		Concurrency: a.cfg.Retry.Concurrency,
	}, a.logger)
}

func (a *app) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil
}

func newRouter(a *app) *chi.Mux {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	// provider calls are bounded separately, so the request timeout only needs to exceed them
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer,
		middleware.Timeout(a.cfg.ProviderTimeout*2+10*time.Second))
	router.Use(metrics.Middleware)

	registerRoutes(router, a)
	return router
}

func registerRoutes(router *chi.Mux, a *app) {
	interviewHandler := handlers.NewInterviewHandler(a.service, a.logger)
	healthHandler := handlers.NewHealthHandler(a.provider, a.prompts, a.store)

	routers.HealthRoutes(router, healthHandler)
	routers.InterviewRoutes(router, interviewHandler,
		appmw.Auth(a.cfg.JWTSecret, a.logger),
		appmw.NewRateLimiter(a.cfg.RateLimitPerMinute))
}

func newServer(addr string, handler http.Handler, cfg *config.Config) *http.Server {
	// a completing answer waits on two provider calls
	writeTimeout := cfg.ProviderTimeout*2 + 15*time.Second
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
}
