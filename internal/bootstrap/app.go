package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/cassiomorais/coursepay/internal/infrastructure/config"
	"github.com/cassiomorais/coursepay/internal/infrastructure/mongodb"
	"github.com/cassiomorais/coursepay/internal/infrastructure/observability"
	infraRedis "github.com/cassiomorais/coursepay/internal/infrastructure/redis"
	"github.com/cassiomorais/coursepay/internal/repository/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
)

// App holds the shared infrastructure every binary needs: config, logging,
// metrics, and connections to Postgres, Redis and the document store.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Mongo   *mongo.Client
	Metrics *observability.Metrics
}

func New(ctx context.Context, serviceName string, metricsNamespace string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info().Str("service", serviceName).Msg("Starting")

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer(serviceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			go func() {
				<-ctx.Done()
				observability.Shutdown(context.Background(), tp)
			}()
			logger.Info().Msg("Tracing enabled")
		}
	}

	metrics := observability.NewMetrics(metricsNamespace, nil)

	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info().Msg("Connected to PostgreSQL")

	redisClient, err := infraRedis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info().Msg("Connected to Redis")

	mongoClient, err := mongodb.Connect(ctx, &cfg.Mongo)
	if err != nil {
		redisClient.Close()
		pool.Close()
		return nil, fmt.Errorf("connect to document store: %w", err)
	}
	logger.Info().Msg("Connected to MongoDB")

	return &App{
		Config:  cfg,
		Logger:  logger,
		Pool:    pool,
		Redis:   redisClient,
		Mongo:   mongoClient,
		Metrics: metrics,
	}, nil
}

func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Mongo.Disconnect(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("Error disconnecting from MongoDB")
	}
	a.Redis.Close()
	a.Pool.Close()
}
