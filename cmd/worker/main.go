package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cassiomorais/coursepay/internal/bootstrap"
	infraRedis "github.com/cassiomorais/coursepay/internal/infrastructure/redis"
	"github.com/cassiomorais/coursepay/internal/mail"
	"github.com/cassiomorais/coursepay/internal/repository/mongodb"
	"github.com/cassiomorais/coursepay/internal/worker"
	"github.com/cassiomorais/coursepay/pkg/retry"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "coursepay-worker", "coursepay_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	userRepo := mongodb.NewUserRepository(app.Mongo, app.Config.Mongo.Database)
	sender := mail.NewSMTPSender(&app.Config.SMTP)
	producer := infraRedis.NewStreamProducer(app.Redis)

	workerCfg := app.Config.Worker
	consumer := infraRedis.NewStreamConsumer(
		app.Redis,
		infraRedis.EmailStream,
		workerCfg.ConsumerGroup,
		app.Config.InstanceID,
		workerCfg.BatchSize,
		workerCfg.BlockDuration,
	)
	if err := consumer.CreateGroup(ctx); err != nil {
		app.Logger.Error().Err(err).Msg("Failed to create consumer group (may already exist)")
	}

	emailWorker := worker.NewEmailWorker(
		consumer,
		producer,
		userRepo,
		sender,
		app.Metrics,
		app.Logger,
		retry.Config{
			MaxAttempts:  workerCfg.SendMaxRetries,
			InitialDelay: workerCfg.SendRetryDelay,
			MaxDelay:     retry.DefaultConfig().MaxDelay,
		},
	)

	app.Logger.Info().
		Str("stream", infraRedis.EmailStream).
		Str("group", workerCfg.ConsumerGroup).
		Str("consumer", app.Config.InstanceID).
		Msg("Worker started, listening for messages...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return emailWorker.Run(gCtx)
	})

	// Reclaim events stuck pending on dead consumers.
	g.Go(func() error {
		return emailWorker.RunReclaimer(gCtx, 30*time.Second, time.Minute)
	})

	g.Go(func() error {
		select {
		case <-gCtx.Done():
			return gCtx.Err()
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			return nil
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		app.Logger.Error().Err(err).Msg("Worker error")
	}
	app.Logger.Info().Msg("Worker exited")
}
