// @title Janakural API
// @version 1.0
// @description Public issue submission and administrator triage for the Janakural grievance platform.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/janakural/configs"
	"github.com/janakural/internal/auth"
	"github.com/janakural/internal/events"
	"github.com/janakural/internal/handlers"
	"github.com/janakural/internal/middleware"
	"github.com/janakural/internal/push"
	"github.com/janakural/internal/repositories"
	"github.com/janakural/internal/routes"
	"github.com/janakural/internal/services"
	"github.com/janakural/pkg/db"
	"github.com/janakural/pkg/logger"
)

const serviceName = "janakural"

func main() {
	cfg, err := configs.Load()
	if err != nil {
		// logger 还未初始化
		_, _ = os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, serviceName)
	if err != nil {
		_, _ = os.Stderr.WriteString("init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	for _, warning := range cfg.Warnings() {
		log.Warn(warning)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal("Server exited with error", zap.Error(err))
	}
	log.Info("Server stopped")
}

func run(cfg configs.Configuration, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 初始化数据库连接
	conn, err := db.Open(cfg.DBPath, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	adminRepo := repositories.NewGormAdministratorRepository(conn)
	issueRepo := repositories.NewGormIssueRepository(conn)
	notificationRepo := repositories.NewGormNotificationRepository(conn)
	historyRepo := repositories.NewGormIssueHistoryRepository(conn)

	var sender push.Sender
	if cfg.Push.ProjectID != "" {
		sender = push.NewFCMSender(push.FCMConfig{
			BaseURL:     cfg.Push.BaseURL,
			ProjectID:   cfg.Push.ProjectID,
			AccessToken: cfg.Push.AccessToken,
			Concurrency: cfg.Push.Concurrency,
			Timeout:     cfg.Push.Timeout,
		}, log)
	} else {
		sender = push.NewLogSender(log)
	}

	assigner := services.NewAutoAssigner(adminRepo, issueRepo, log)
	dispatcher := services.NewNotificationDispatcher(adminRepo, notificationRepo, sender, cfg.FrontendBaseURL, log)

	g, gctx := errgroup.WithContext(ctx)

	var publisher events.Publisher
	var inline *events.InlinePublisher
	switch cfg.Events.Backend {
	case configs.EventsBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Events.RedisAddr,
			Password: cfg.Events.RedisPassword,
			DB:       cfg.Events.RedisDB,
		})
		defer func() { _ = client.Close() }()
		if err := client.Ping(ctx).Err(); err != nil {
			return err
		}

		streams := events.StreamConfig{
			IssueStream:        cfg.Events.IssueStream,
			NotificationStream: cfg.Events.NotificationStream,
			ConsumerGroup:      cfg.Events.ConsumerGroup,
			ConsumerName:       cfg.Events.ConsumerName,
			BlockTimeout:       cfg.Events.BlockTimeout,
		}
		publisher = events.NewRedisPublisher(client, streams)
		consumer := events.NewConsumer(client, streams, assigner, dispatcher, log)
		g.Go(func() error { return consumer.Run(gctx) })
		log.Info("Using Redis Streams for record events", zap.String("addr", cfg.Events.RedisAddr))
	default:
		inline = events.NewInlinePublisher(assigner, dispatcher, log)
		publisher = inline
	}

	adminService := services.NewAdminService(adminRepo)
	issueService := services.NewIssueService(issueRepo, notificationRepo, historyRepo, publisher, log)
	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLHours)*time.Hour)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.NewRouter(routes.Dependencies{
		Handlers: routes.Handlers{
			Auth:        handlers.NewAuthHandler(adminService, tokens),
			Issues:      handlers.NewIssueHandler(issueService),
			AdminIssues: handlers.NewAdminIssueHandler(issueService, adminService),
			AdminUsers:  handlers.NewAdminUserHandler(adminService),
		},
		Tokens:        tokens,
		SubmitLimiter: middleware.NewIPRateLimiter(cfg.RateLimit.SubmissionsPerMinute, cfg.RateLimit.Burst),
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	if inline != nil {
		inline.Wait()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
