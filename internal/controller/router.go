package controller

import (
	"time"

	"github.com/cassiomorais/coursepay/internal/infrastructure/config"
	"github.com/cassiomorais/coursepay/internal/infrastructure/observability"
	customMW "github.com/cassiomorais/coursepay/internal/middleware"
	"github.com/cassiomorais/coursepay/internal/repository/postgres"
	"github.com/cassiomorais/coursepay/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type RouterDeps struct {
	Pool            *pgxpool.Pool
	RedisClient     *redis.Client
	MongoClient     *mongo.Client
	CheckoutService *service.CheckoutService
	IdempotencyRepo *postgres.IdempotencyRepository
	Metrics         *observability.Metrics
	ServerConfig    config.ServerConfig
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.ServerConfig.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-User-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.ServerConfig.CORS.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.RateLimit(deps.ServerConfig.RateLimitPerMin))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient, deps.MongoClient)
	checkoutH := NewCheckoutController(deps.CheckoutService, deps.Metrics)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		idempotencyMW := customMW.Idempotency(deps.IdempotencyRepo)

		r.Route("/checkout", func(r chi.Router) {
			r.Use(customMW.RequireIdentity())
			r.With(idempotencyMW).Post("/intents", checkoutH.CreateIntent)
			r.Post("/verify", checkoutH.Verify)
		})
	})

	return r
}
