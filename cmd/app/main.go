package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"stockledger/cmd"
	"stockledger/internal/adapters/out/postgres"
	"stockledger/internal/adapters/out/redis"
	"stockledger/internal/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "loading .env: %v\n", err)
	}

	cfg, err := cmd.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err = run(cfg, log); err != nil {
		log.Fatal("stockledger stopped", zap.Error(err))
	}
}

func run(cfg cmd.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := openDatabase(ctx, cfg.DB)
	if err != nil {
		return err
	}
	if sqlDB, dbErr := gormDB.DB(); dbErr == nil {
		defer func() { _ = sqlDB.Close() }()
	}
	log.Info("database connected", zap.String("host", cfg.DB.Host), zap.String("database", cfg.DB.Name))

	if cfg.DB.AutoMigrate {
		if err = postgres.Migrate(ctx, gormDB); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		log.Info("migrations applied")
	}

	idempotency, err := redis.New(ctx, redis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.Redis.IdempotencyTTL,

		PendingTTL: cfg.Redis.PendingTTL,
	})
	if err != nil {
		return fmt.Errorf("connecting redis: %w", err)
	}
	defer func() { _ = idempotency.Close() }()
	if !idempotency.Enabled() {
		log.Warn("redis address not configured, idempotency keys are not enforced")
	}

	app, err := cmd.NewCompositionRoot(cfg, gormDB, idempotency, log)
	if err != nil {
		return err
	}

	jobManager := app.NewJobManager()
	if err = jobManager.StartAll(); err != nil {
		return fmt.Errorf("starting jobs: %w", err)
	}
	defer jobManager.StopAll()

	return serve(ctx, app, cfg.HTTP, log)
}

func openDatabase(ctx context.Context, cfg cmd.DBConfig) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormpostgres.Open(cfg.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("extracting sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err = sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return gormDB, nil
}

func serve(ctx context.Context, app *cmd.CompositionRoot, cfg cmd.HTTPConfig, log *zap.Logger) error {
	e := app.NewRouter()

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("port", cfg.Port))
		errCh <- e.Start(fmt.Sprintf("0.0.0.0:%s", cfg.Port))
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
