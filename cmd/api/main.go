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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpadp "loan-origination-backend/internal/adapter/http"
	"loan-origination-backend/internal/adapter/lock"
	idem "loan-origination-backend/internal/adapter/middleware"
	"loan-origination-backend/internal/adapter/notifier"
	"loan-origination-backend/internal/adapter/repository/mysql"
	"loan-origination-backend/internal/adapter/scoring"
	"loan-origination-backend/internal/config"
	"loan-origination-backend/internal/domain/notification"
	"loan-origination-backend/internal/infrastructure/cache"
	"loan-origination-backend/internal/infrastructure/db"
	"loan-origination-backend/internal/infrastructure/logger"
	"loan-origination-backend/internal/usecase/workflow"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func openDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.DBDriver == config.DriverMySQL {
		return db.OpenGorm(cfg.MySQLDSN(), log)
	}
	return db.OpenSQLite(cfg.SQLitePath, log)
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gdb, err := openDB(cfg, log)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := mysql.AutoMigrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	apps := mysql.NewApplicationRepository(gdb)
	var notifs notification.Repository = mysql.NewNotificationRepository(gdb, nil)
	opts := []workflow.Option{
		workflow.WithLogger(log.Named("workflow")),
		workflow.WithMaxRetries(cfg.MaxRetries),
	}

	var (
		mutating []echo.MiddlewareFunc
		cacheCmd redis.Cmdable // stays nil without Redis
	)
	if cfg.RedisEnabled() {
		rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		cacheCmd = rdb

		opts = append(opts, workflow.WithLocker(lock.NewRedisLocker(rdb, cfg.LockTTL(), cfg.LockWait(), log.Named("lock"))))
		notifs = notifier.NewRedisFanout(notifs, rdb, cfg.NotifyChannelPrefix, log.Named("notifier"))
		mutating = append(mutating, idem.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL(), log.Named("idempotency")))
		log.Info("redis enabled", zap.String("addr", cfg.RedisAddr))
	} else {
		log.Warn("REDIS_ADDR not set; using in-process locks without idempotency")
	}

	eng := workflow.NewEngine(apps, notifs, mysql.NewGormUoW(gdb, nil), scoring.NewRandom(nil), opts...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	}))

	httpadp.RegisterRoutes(e,
		httpadp.NewHandler(gdb, cacheCmd),
		httpadp.NewApplicationHandler(eng, log.Named("http")),
		httpadp.NewNotificationHandler(eng, log.Named("http")),
		mutating...,
	)

	addr := ":" + cfg.AppPort
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
