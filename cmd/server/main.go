package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trogers1052/portfolio-rollup/internal/api"
	"github.com/trogers1052/portfolio-rollup/internal/cache"
	"github.com/trogers1052/portfolio-rollup/internal/config"
	"github.com/trogers1052/portfolio-rollup/internal/database"
	"github.com/trogers1052/portfolio-rollup/internal/kafka"
	"github.com/trogers1052/portfolio-rollup/internal/logger"
)

func main() {
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	log.Info().Msg("Starting portfolio rollup service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := database.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Dashboard cache
	var dashboards *cache.DashboardCache
	if cfg.Redis.Enabled {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, dashboards will not be cached")
		} else {
			defer client.Close()
			dashboards = cache.NewDashboardCache(client, cfg.Redis.TTL, log)
		}
	}

	// Kafka
	consumerDone := make(chan struct{})
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.RollupTopic)
		defer producer.Close()

		consumer := kafka.NewPositionsConsumer(cfg.Kafka.Brokers, cfg.Kafka.PositionsTopic, cfg.Kafka.GroupID, db, producer, log)
		go func() {
			defer close(consumerDone)
			if err := consumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("Positions consumer stopped")
			}
		}()
	} else {
		close(consumerDone)
	}

	// HTTP server
	handler := api.NewHandler(db, dashboards, log)
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.SetupRoutes(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	<-consumerDone

	log.Info().Msg("Server stopped")
}
