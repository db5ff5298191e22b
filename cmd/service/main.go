package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	kafkalib "github.com/s21platform/kafka-lib"
	logger_lib "github.com/s21platform/logger-lib"
	"github.com/s21platform/metrics-lib/pkg"

	"github.com/s21platform/chat-sync/internal/client/centrifugo"
	"github.com/s21platform/chat-sync/internal/client/storage"
	"github.com/s21platform/chat-sync/internal/config"
	"github.com/s21platform/chat-sync/internal/databus/user"
	"github.com/s21platform/chat-sync/internal/feed"
	"github.com/s21platform/chat-sync/internal/feed/memory"
	api "github.com/s21platform/chat-sync/internal/generated"
	"github.com/s21platform/chat-sync/internal/infra"
	"github.com/s21platform/chat-sync/internal/pkg/jwt"
	"github.com/s21platform/chat-sync/internal/pkg/validator"
	db "github.com/s21platform/chat-sync/internal/repository/postgres"
	"github.com/s21platform/chat-sync/internal/rest"
	"github.com/s21platform/chat-sync/internal/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	logger := logger_lib.New(cfg.Logger.Host, cfg.Logger.Port, cfg.Service.Name, cfg.Platform.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = context.WithValue(ctx, config.KeyLogger, logger)

	metrics, err := pkg.NewMetrics(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Service.Name, cfg.Platform.Env)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to connect graphite: %v", err))
	}
	ctx = context.WithValue(ctx, config.KeyMetrics, metrics)

	opts := []memory.Option{memory.WithLogger(logger)}

	if cfg.Feed.JournalEnabled {
		dbRepo := db.New(cfg)
		defer dbRepo.Close()
		opts = append(opts, memory.WithJournal(dbRepo))
	}

	if cfg.Feed.PublishEnabled {
		centrifugeClient := centrifugo.New(cfg)
		defer centrifugeClient.Close()
		opts = append(opts, memory.WithPublisher(centrifugeClient))
	}

	feedServer := memory.New(opts...)
	replayed, err := feedServer.Replay(ctx)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to replay feed journal: %v", err))
		return
	}
	logger.Info(fmt.Sprintf("feed restored from %d journal entries", replayed))

	var uploader session.Uploader
	if cfg.Storage.BaseURL != "" {
		storageClient := storage.New(cfg)
		defer storageClient.Close()
		uploader = storageClient
	}

	vldtr := validator.New()
	jwtGenerator := jwt.New(cfg.Auth.JWTSecret)

	manager := session.NewManager(func() feed.Feed {
		return feedServer.Connect()
	}, uploader, vldtr, logger)
	defer manager.Close(context.Background())

	handler := rest.New(rest.NewSessions(manager), jwtGenerator)
	router := chi.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return infra.AuthInterceptorHTTP(next, jwtGenerator)
	})
	router.Use(func(next http.Handler) http.Handler {
		return infra.LoggerHTTP(next, logger)
	})

	api.HandlerFromMux(handler, router)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.Port),
		Handler: router,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	consumerConfig := kafkalib.DefaultConsumerConfig(
		cfg.Kafka.Host,
		cfg.Kafka.Port,
		cfg.Kafka.UserTopic,
		cfg.Kafka.GroupID,
	)
	consumer, err := kafkalib.NewConsumer(consumerConfig, metrics)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create consumer: %v", err))
		return
	}
	userHandler := user.New(feedServer.Connect())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		consumer.RegisterHandler(gctx, userHandler.Handler)
		<-gctx.Done()
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("server error: %v", err))
	}
}
