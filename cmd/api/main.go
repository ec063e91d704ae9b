package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "separation-engine/internal/adapter/http"
	"separation-engine/internal/adapter/middleware"
	"separation-engine/internal/adapter/notify"
	repo "separation-engine/internal/adapter/repository/mysql"
	"separation-engine/internal/adapter/storage"
	"separation-engine/internal/config"
	"separation-engine/internal/domain/document"
	"separation-engine/internal/infrastructure/cache"
	"separation-engine/internal/infrastructure/db"
	"separation-engine/internal/infrastructure/logger"
	"separation-engine/internal/usecase/separation"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), log)
	if err != nil {
		log.Fatal("open mysql", zap.Error(err))
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal("migrate", zap.Error(err))
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatal("sql handle", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, log)
	if err != nil {
		log.Fatal("open redis", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("open document store", zap.Error(err))
	}

	accounts := repo.NewAccountRepository(gdb)
	if cfg.AccountsFile != "" {
		n, err := accounts.SeedAccountsFile(ctx, cfg.AccountsFile)
		if err != nil {
			log.Fatal("seed accounts", zap.String("file", cfg.AccountsFile), zap.Error(err))
		}
		log.Info("accounts seeded", zap.Int("count", n))
	}
	notifications := repo.NewNotificationRepository(gdb)

	dispatcher := notify.NewDispatcher(accounts, log, notify.Options{Buffer: cfg.NotifyBuffer},
		notifications,
		notify.NewRedisSink(rdb, cfg.NotifyChannel, 0),
	)
	// not tied to the signal context so queued notifications survive shutdown
	if err := dispatcher.Start(context.Background()); err != nil {
		log.Fatal("start dispatcher", zap.Error(err))
	}

	uc := separation.NewUsecase(separation.Deps{
		Cases:        repo.NewCaseRepository(gdb),
		Templates:    repo.NewTemplateRepository(gdb),
		UoW:          repo.NewGormUoW(gdb),
		Store:        store,
		Directory:    accounts,
		Notifier:     dispatcher,
		Clock:        clock.WallClock,
		Logger:       log,
		AccountGrace: cfg.AccountGrace(),
	})

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.JSONSerializer = httpadp.JSONSerializer{}
	e.Use(echomw.Logger(), echomw.Recover(), echomw.BodyLimit("64M"))

	httpadp.Register(e, httpadp.Handlers{
		Health: httpadp.NewHandler(
			httpadp.Check{Name: "mysql", Ping: sqlDB.PingContext},
			httpadp.Check{Name: "redis", Ping: cache.Ping(rdb)},
		),
		Separations:   httpadp.NewSeparationHandler(uc, log),
		Notifications: httpadp.NewNotificationHandler(notifications, log),
	},
		middleware.ActorMiddleware(accounts, log),
		middleware.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL(), log),
	)

	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	// drain queued notifications after the last request has finished
	dispatcher.Stop()

	_ = rdb.Close()
	_ = sqlDB.Close()
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (document.Store, error) {
	if cfg.StorageDriver == "s3" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		}, log)
	}
	return storage.NewLocalStore(cfg.StorageLocalDir, log), nil
}
