// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/danielhkuo/feedbackform/cache"
	"github.com/danielhkuo/feedbackform/cliparse"
	"github.com/danielhkuo/feedbackform/db"
	"github.com/danielhkuo/feedbackform/logger"
	"github.com/danielhkuo/feedbackform/metrics"
	"github.com/danielhkuo/feedbackform/models"
	"github.com/danielhkuo/feedbackform/notify"
	"github.com/danielhkuo/feedbackform/router"
	"github.com/danielhkuo/feedbackform/store"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	logger.Bootstrap()

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		logger.SLog.Fatalw("error parsing flags", "error", err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		logger.SLog.Fatalw("logger init failed", "error", err)
	}
	defer logger.Sync()
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal("database connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		logger.Log.Fatal("schema creation failed", zap.Error(err))
	}
	logger.Log.Info("database schema ready", zap.String("type", cfg.DatabaseType))

	var formCache cache.FormCache = cache.Noop{}
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Log.Fatal("redis connection failed", zap.Error(err))
		}
		defer client.Close()
		formCache = cache.NewRedis(client, cache.DefaultTTL)
		logger.Log.Info("public form cache enabled")
	}

	senders := map[string]notify.Sender{
		models.ChannelWebhook: notify.NewWebhookSender(),
	}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := notify.NewKafkaProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Log.Fatal("kafka producer failed", zap.Strings("brokers", cfg.KafkaBrokers), zap.Error(err))
		}
		defer producer.Close()
		senders[models.ChannelKafka] = notify.NewKafkaSender(producer)
		logger.Log.Info("kafka events enabled", zap.String("topic", cfg.KafkaTopic))
	}

	dispatcher := notify.NewDispatcher(store.New(dbConn), senders, cfg.DispatchInterval, cfg.DispatchMaxAttempts)
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dispatcher.Run(dispatchCtx)
	}()

	mux := router.NewRouter(dbConn, cfg, router.Services{Cache: formCache, Waker: dispatcher})

	server := &http.Server{
		Handler:           mux,
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Warn("graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Log.Info("listening", zap.Int("port", cfg.Port), zap.String("site_url", cfg.SiteURL))
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Error("server closed", zap.Error(err))
	} else {
		logger.Log.Info("server closed")
	}

	// Let an in-flight delivery pass finish before the database closes
	stopDispatch()
	wg.Wait()
}
