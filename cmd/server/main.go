package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/di"
	"github.com/eventup-dev/eventup/internal/router"
	"github.com/eventup-dev/eventup/migrations"
	"github.com/eventup-dev/eventup/pkg/config"
	"github.com/eventup-dev/eventup/pkg/database"
	"github.com/eventup-dev/eventup/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get().Fatal("load config", zap.Error(err))
	}

	logger.Init(&logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Development: cfg.Log.Development,
	})
	log := logger.Get()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	postgres, err := database.NewPostgresDB(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnTimeout:     cfg.Database.ConnTimeout,
		MaxRetries:      3,
		RetryInterval:   time.Second,
	})
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer postgres.Close()

	if err := migrations.Up(ctx, postgres.Pool()); err != nil {
		log.Fatal("run migrations", zap.Error(err))
	}

	// The document store is best effort: without it audit writes are
	// dropped and audit reads answer 503, but everything else works.
	mongoDB, err := database.NewMongoDB(ctx, &database.MongoConfig{
		URI:            cfg.MongoDB.URI,
		Database:       cfg.MongoDB.Database,
		ConnectTimeout: cfg.MongoDB.ConnectTimeout,
	})
	if err != nil {
		log.Warn("mongodb unavailable, access log disabled", zap.Error(err))
		mongoDB = nil
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, rate limiting falls back to local counters", zap.Error(err))
		}
	}

	container := di.NewContainer(cfg, log.Logger, postgres, mongoDB, redisClient)
	defer container.Close()

	if mongoDB != nil {
		idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := container.EnsureAccessLogIndexes(idxCtx); err != nil {
			log.Warn("create access log indexes", zap.Error(err))
		}
		cancel()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.New(container),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}

	if mongoDB != nil {
		if err := mongoDB.Close(shutdownCtx); err != nil {
			log.Error("mongodb close", zap.Error(err))
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("redis close", zap.Error(err))
		}
	}
}
