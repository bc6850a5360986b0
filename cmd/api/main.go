package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ilungi/gestora-api/internal/api"
	"github.com/ilungi/gestora-api/internal/core/ports"
	"github.com/ilungi/gestora-api/internal/core/service"
	"github.com/ilungi/gestora-api/internal/infrastructure/config"
	mongodb "github.com/ilungi/gestora-api/internal/infrastructure/db/mongo"
	redisdb "github.com/ilungi/gestora-api/internal/infrastructure/db/redis"
	"github.com/ilungi/gestora-api/internal/infrastructure/notify"
	"github.com/ilungi/gestora-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load(slog.Default())

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("redis close failed")
		}
	}()

	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	emailRepo := mongodb.NewEmailRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := taskRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("task index creation failed")
	}

	// --- Notification pipeline ---
	var sender ports.EmailSender
	if cfg.SMTP.Host == "" {
		log.Info().Msg("no SMTP host configured, email delivery is simulated")
		sender = notify.NewDevSender(log)
	} else {
		sender = notify.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	}

	dedup := redisdb.NewNotificationDedup(rdb)
	emailService := service.NewEmailService(emailRepo, sender, dedup, log)

	dispatcher := notify.NewDispatcher(cfg.NotifyWorkers, emailService, log)
	dispatcher.Start(ctx)
	emailService.SetNotifier(dispatcher)

	// --- Core services ---
	authService := service.NewAuthService(userRepo, dispatcher, cfg.JWTSecret, cfg.TokenTTL)
	taskService := service.NewTaskService(taskRepo, userRepo, dispatcher, log)
	userService := service.NewUserService(userRepo, taskRepo, dispatcher, cfg.AdminEmail, log)

	e := api.NewRouter(api.Deps{
		Tasks:        taskService,
		Users:        userService,
		Auth:         authService,
		UserRepo:     userRepo,
		EmailRepo:    emailRepo,
		EmailService: emailService,
		Mongo:        db,
		Redis:        rdb,
		JWTSecret:    cfg.JWTSecret,
		Log:          log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
