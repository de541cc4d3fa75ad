package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoicegen/internal/config"
	"invoicegen/internal/infra"
	"invoicegen/internal/numbering"
	"invoicegen/internal/render"
	"invoicegen/internal/router"
	"invoicegen/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title invoicegen API
// @version 1.0
// @description GST invoice rendering, numbering and delivery.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			log.Fatal().Msg("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = randomSecret()
		log.Warn().Msg("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	// Redis backs numbering and the email queue; without it numbering is kept
	// in memory and email delivery is disabled.
	var (
		rdb   *redis.Client
		store numbering.Store
	)
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		store = infra.NewRedisStore(rdb)
	} else {
		log.Warn().Msg("REDIS_URL not set: numbering kept in memory, email delivery disabled")
		store = numbering.NewMemoryStore()
	}

	doc := render.Document{FontPath: cfg.PDFFontPath, Compress: true}
	smtpCB := infra.NewCircuitBreaker(infra.SMTPBreakerConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pool *worker.Pool
	if rdb != nil {
		mailer := infra.NewMailer(cfg)
		if !mailer.Configured() {
			log.Warn().Msg("SMTP_HOST not set: queued emails will fail and land in the DLQ")
		}
		pool = worker.NewPool(rdb, cfg.WorkerPoolSize)
		pool.Handle(worker.QueueEmail, worker.JobTypeEmail, worker.NewEmailWorker(mailer, smtpCB, doc))
		pool.Start(ctx)
	}

	r := router.New(cfg, router.Deps{
		Ctx:      ctx,
		DB:       db,
		Redis:    rdb,
		Store:    store,
		SMTPCB:   smtpCB,
		Renderer: doc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("invoicegen listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	cancel()
	if pool != nil {
		pool.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}

// setupLogger: dev pretty console, prod JSON.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.IsProduction() {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatal().Err(err).Msg("failed to generate secret")
	}
	return hex.EncodeToString(b)
}
