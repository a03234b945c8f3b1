package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cassiomorais/coursepay/internal/bootstrap"
	"github.com/cassiomorais/coursepay/internal/controller"
	"github.com/cassiomorais/coursepay/internal/gateway"
	infraRedis "github.com/cassiomorais/coursepay/internal/infrastructure/redis"
	"github.com/cassiomorais/coursepay/internal/repository/mongodb"
	"github.com/cassiomorais/coursepay/internal/repository/postgres"
	"github.com/cassiomorais/coursepay/internal/service"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "coursepay-api", "coursepay")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	courseRepo := mongodb.NewCourseRepository(app.Mongo, app.Config.Mongo.Database)
	userRepo := mongodb.NewUserRepository(app.Mongo, app.Config.Mongo.Database)
	progressRepo := mongodb.NewProgressRepository(app.Mongo, app.Config.Mongo.Database)
	checkoutRepo := postgres.NewCheckoutRepository(app.Pool)
	idempotencyRepo := postgres.NewIdempotencyRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	// --- Services ---
	gatewayFactory := gateway.NewFactory()
	emailProducer := infraRedis.NewStreamProducer(app.Redis)
	locker := infraRedis.NewLocker(app.Redis, app.Config.Checkout.LockTTL)

	checkoutService := service.NewCheckoutService(
		courseRepo,
		userRepo,
		progressRepo,
		checkoutRepo,
		txManager,
		gatewayFactory,
		emailProducer,
		locker,
		app.Config.Checkout.Gateway,
		app.Config.Checkout.Currency,
	)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:            app.Pool,
		RedisClient:     app.Redis,
		MongoClient:     app.Mongo,
		CheckoutService: checkoutService,
		IdempotencyRepo: idempotencyRepo,
		Metrics:         app.Metrics,
		ServerConfig:    app.Config.Server,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
