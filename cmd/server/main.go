package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ecotrack-backend/internal/auth"
	"ecotrack-backend/internal/config"
	"ecotrack-backend/internal/database"
	"ecotrack-backend/internal/fanout"
	"ecotrack-backend/internal/handlers"
	"ecotrack-backend/internal/logger"
	"ecotrack-backend/internal/metrics"
	"ecotrack-backend/internal/notify"
	"ecotrack-backend/internal/repository"
	"ecotrack-backend/internal/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const serviceName = "ecotrack-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg, err := logger.New(cfg.LogLevel, cfg.App.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logg.Sync()

	if err := run(cfg, logg); err != nil {
		logg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	client, err := database.Connect(ctx, cfg.Mongo.URI, logg)
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			logg.Warn("mongo disconnect", zap.Error(err))
		}
	}()

	feedbackRepo := repository.NewFeedbackRepo(database.Collection(client, cfg.Mongo.FeedbackDB, cfg.Mongo.FeedbackCollection))
	diagnosticsRepo := repository.NewDiagnosticsRepo(database.Collection(client, cfg.Mongo.TestDB, cfg.Mongo.TestCollection))

	ictx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := feedbackRepo.EnsureIndexes(ictx); err != nil {
		logg.Warn("failed to create feedback indexes", zap.Error(err))
	}
	cancel()

	m := metrics.New()
	hub := fanout.NewHub(fanout.DefaultBuffer, logg.Named("fanout"), m)
	defer hub.Close()

	var broadcaster handlers.Broadcaster = hub
	if cfg.Redis.RelayEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		relay := fanout.NewRedisRelay(rdb, cfg.Redis.Channel, hub, logg.Named("relay"))
		if err := relay.Start(ctx); err != nil {
			logg.Warn("redis relay unavailable, broadcasting locally only", zap.Error(err))
		} else {
			defer relay.Close()
			broadcaster = relay
		}
	}

	var notifier notify.Notifier = notify.NewLogNotifier(logg.Named("notify"))
	if cfg.Notify.ResendAPIKey != "" && cfg.Notify.AdminEmail != "" {
		notifier = notify.NewResendNotifier(cfg.Notify.ResendAPIKey, cfg.Notify.FromEmail, cfg.Notify.AdminEmail, logg.Named("notify"))
	}

	tokens := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	router := server.NewRouter(server.Deps{
		Auth:        handlers.NewAuthHandler(tokens, logg),
		Feedback:    handlers.NewFeedbackHandler(feedbackRepo, broadcaster, notifier, m, logg),
		Diagnostics: handlers.NewDiagnosticsHandler(diagnosticsRepo, serviceName, logg),
		Realtime:    handlers.NewRealtimeHandler(hub, cfg.App.AllowedOrigins(), logg),
		Verifier:    tokens,
		Metrics:     m,
		Origins:     cfg.App.AllowedOrigins(),
		Log:         logg,
	})

	srv := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		logg.Info("EcoTrack backend starting", zap.String("addr", srv.Addr))
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logg.Info("shutdown signal received")
	case err := <-srvErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	// Hijacked WebSocket connections are not tracked by Shutdown; closing
	// the hub ends their handlers.
	hub.Close()

	sctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	logg.Info("server stopped cleanly")
	return nil
}
