// @title Medication Reminder API
// @version 1.0
// @description Agenda de tomas de medicación del hogar.
// @BasePath /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"

	logNotify "medication-reminder/internal/adapters/notify/logging"
	mqttNotify "medication-reminder/internal/adapters/notify/mqtt"
	redisNotify "medication-reminder/internal/adapters/notify/redis"
	webhookNotify "medication-reminder/internal/adapters/notify/webhook"
	fileStore "medication-reminder/internal/adapters/storage/file"
	mem "medication-reminder/internal/adapters/storage/memory"
	pg "medication-reminder/internal/adapters/storage/postgres"
	s3Store "medication-reminder/internal/adapters/storage/s3"
	sqliteStore "medication-reminder/internal/adapters/storage/sqlite"
	"medication-reminder/internal/domain/session"
	"medication-reminder/internal/platform/config"
	"medication-reminder/internal/platform/logger"
	"medication-reminder/internal/platform/metrics"
	"medication-reminder/internal/ports/notify"
	"medication-reminder/internal/ports/persistence"
	"medication-reminder/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.ParseEnv()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})
	if zl, ok := log.(*logger.ZapLogger); ok {
		defer func() { _ = zl.Sync() }()
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage %s: %w", cfg.Storage.Driver, err)
	}
	defer closeStore()

	notifier, closeNotify, err := openNotifiers(cfg.Notify, log)
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	defer closeNotify()

	m := metrics.New()

	s, err := session.Open(ctx, session.Options{
		Store:    store,
		Notifier: notifier,
		Logger:   log,
		Metrics:  m,
		Location: loc,
		Title:    cfg.Notify.Title,
	})
	if err != nil {
		return err
	}

	go s.RunReschedule(ctx, cfg.Notify.RescheduleEvery)

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(router.Options{
			Session: s,
			Logger:  log,
			Metrics: m,
			APIKey:  cfg.APIKey,
		}),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":     srv.Addr,
			"storage":  cfg.Storage.Driver,
			"notify":   cfg.Notify.Drivers,
			"timezone": loc.String(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.StorageConfig) (persistence.Store, func(), error) {
	noop := func() {}

	switch cfg.Driver {
	case "", "file":
		s, err := fileStore.NewStore(cfg.DataPath)
		return s, noop, err
	case "memory":
		return mem.NewStore(), noop, nil
	case "sqlite":
		s, err := sqliteStore.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		if cfg.DSN == "" {
			return nil, noop, errors.New("DB_DSN required")
		}
		s, err := pg.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	case "s3":
		s, err := s3Store.New(ctx, s3Store.Config{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Key:             cfg.S3Key,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			SessionToken:    cfg.S3SessionToken,
			PathStyle:       cfg.S3PathStyle,
		})
		return s, noop, err
	default:
		return nil, noop, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

func openNotifiers(cfg config.NotifyConfig, log logger.Logger) (notify.Notifier, func(), error) {
	var (
		out     notify.Multi
		closers []func()
	)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, d := range cfg.Drivers {
		switch d {
		case "":
			continue
		case "log":
			out = append(out, logNotify.New(log))
		case "redis":
			rdb := goredis.NewClient(&goredis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			closers = append(closers, func() { _ = rdb.Close() })
			out = append(out, redisNotify.New(rdb, cfg.RedisPrefix))
		case "mqtt":
			c, err := mqttNotify.Connect(mqttNotify.Config{
				Broker:   cfg.MQTTBroker,
				ClientID: cfg.MQTTClientID,
				Username: cfg.MQTTUsername,
				Password: cfg.MQTTPassword,
			})
			if err != nil {
				closeAll()
				return nil, func() {}, err
			}
			closers = append(closers, c.Disconnect)
			out = append(out, mqttNotify.New(c, cfg.MQTTTopic))
		case "webhook":
			n, err := webhookNotify.New(webhookNotify.Config{
				BaseURL: cfg.WebhookURL,
				APIKey:  cfg.WebhookAPIKey,
				Timeout: cfg.WebhookTimeout,
				Retries: cfg.WebhookRetries,
			})
			if err != nil {
				closeAll()
				return nil, func() {}, err
			}
			out = append(out, n)
		default:
			closeAll()
			return nil, func() {}, fmt.Errorf("unknown driver %q", d)
		}
	}
	return out, closeAll, nil
}
