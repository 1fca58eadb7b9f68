package main

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cacheadapter "github.com/prospectly/leadtrack/internal/adapter/cache"
	"github.com/prospectly/leadtrack/internal/bootstrap"
	"github.com/prospectly/leadtrack/internal/config"
	httptransport "github.com/prospectly/leadtrack/internal/http"
	"github.com/prospectly/leadtrack/internal/http/handler"
	httpmiddleware "github.com/prospectly/leadtrack/internal/http/middleware"
	"github.com/prospectly/leadtrack/internal/importer"
	apimiddleware "github.com/prospectly/leadtrack/internal/middleware"
	"github.com/prospectly/leadtrack/internal/repository"
	"github.com/prospectly/leadtrack/internal/server"
	"github.com/prospectly/leadtrack/internal/service"
	"github.com/prospectly/leadtrack/internal/telemetry"
	"github.com/prospectly/leadtrack/internal/token"
)

func main() {
	app := fx.New(
		fx.Provide(
			newConfig,
			newLogger,
			newTelemetry,
			newSnowflake,
			newPGXPool,
			newUserRepository,
			newLeadRepository,
			newNoteRepository,
			newFollowUpRepository,
			newStatsRepository,
			newStatsCache,
			newSigner,
			newRateLimiter,
			service.NewAuthService,
			service.NewLeadService,
			service.NewNoteService,
			service.NewFollowUpService,
			newStatsService,
			newImporter,
			handler.NewAuthHandler,
			handler.NewLeadHandler,
			newImportHandler,
			handler.NewNoteHandler,
			handler.NewFollowUpHandler,
			handler.NewStatsHandler,
			newAuthMiddleware,
			newHandlers,
			httptransport.NewRouter,
			server.NewHTTPServer,
		),
		fx.Invoke(useTelemetry, bootstrap.EnsureSchema, startHTTPServer),
	)

	app.Run()
}

func newConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

func newTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*telemetry.Provider, error) {
	provider, err := telemetry.New(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("telemetry init: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return provider.Shutdown(stopCtx)
		},
	})

	return provider, nil
}

func newSnowflake() (*snowflake.Node, error) {
	node, err := snowflake.NewNode(1)
	return node, err
}

func newPGXPool(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})

	return pool, nil
}

func newUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return repository.NewPostgresUserRepo(pool)
}

func newLeadRepository(pool *pgxpool.Pool) repository.LeadRepository {
	return repository.NewPostgresLeadRepo(pool)
}

func newNoteRepository(pool *pgxpool.Pool) repository.NoteRepository {
	return repository.NewPostgresNoteRepo(pool)
}

func newFollowUpRepository(pool *pgxpool.Pool) repository.FollowUpRepository {
	return repository.NewPostgresFollowUpRepo(pool)
}

func newStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return repository.NewPostgresStatsRepo(pool)
}

// newStatsCache returns a Redis-backed cache when REDIS_ADDR is set, and a
// noop cache otherwise so the service runs without Redis.
func newStatsCache(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (repository.StatsCache, error) {
	if cfg.RedisAddr == "" {
		logger.Info("stats cache disabled, no redis address configured")
		return cacheadapter.NewNoopStatsCache(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return cacheadapter.NewRedisStatsCache(client), nil
}

func newSigner(cfg config.Config) *token.Signer {
	return token.NewSigner(cfg.SessionSecret, cfg.SessionTTL)
}

func newRateLimiter(cfg config.Config) *apimiddleware.RateLimiter {
	return apimiddleware.NewRateLimiter(cfg.RateLimitRPM)
}

func newStatsService(stats repository.StatsRepository, cache repository.StatsCache, cfg config.Config, logger *zap.Logger) *service.StatsService {
	return service.NewStatsService(stats, cache, cfg.StatsCacheTTL, logger)
}

func newImporter(leads repository.LeadRepository, cache repository.StatsCache, node *snowflake.Node, logger *zap.Logger) *importer.Importer {
	return importer.New(leads, cache, node, logger)
}

func newImportHandler(imp *importer.Importer, cfg config.Config, logger *zap.Logger) *handler.ImportHandler {
	return handler.NewImportHandler(imp, cfg, logger)
}

func newAuthMiddleware(signer *token.Signer) *httpmiddleware.Auth {
	return &httpmiddleware.Auth{Signer: signer}
}

func newHandlers(auth *handler.AuthHandler, leads *handler.LeadHandler, imp *handler.ImportHandler, notes *handler.NoteHandler, followUps *handler.FollowUpHandler, stats *handler.StatsHandler) httptransport.Handlers {
	return httptransport.Handlers{
		Auth:      auth,
		Leads:     leads,
		Import:    imp,
		Notes:     notes,
		FollowUps: followUps,
		Stats:     stats,
	}
}

func startHTTPServer(lc fx.Lifecycle, srv *server.HTTPServer, cfg config.Config, logger *zap.Logger) {
	addr := ":" + cfg.HTTPPort
	var (
		cancel context.CancelFunc
		done   chan struct{}
	)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			runCtx, stop := context.WithCancel(context.Background())
			cancel = stop
			done = make(chan struct{})

			go func() {
				if err := srv.Run(runCtx, addr); err != nil {
					logger.Error("http server stopped", zap.Error(err))
				}
				close(done)
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			if cancel != nil {
				cancel()
			}
			if done == nil {
				return nil
			}
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

func useTelemetry(*telemetry.Provider) {}
