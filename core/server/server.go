package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/chooinsik-ship-it/WHEN-MEET/core/cache"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/config"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/constants"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/database"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/logger"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/middleware"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/queue"
	"github.com/chooinsik-ship-it/WHEN-MEET/core/utils"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/auth"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/group"
	"github.com/chooinsik-ship-it/WHEN-MEET/modules/schedule"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Run loads configuration, wires every module and serves until SIGINT or
// SIGTERM.
func Run() error {
	cfg, err := config.Load(os.Getenv("WHENMEET_CONFIG"))
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	gridCache, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer gridCache.Close()

	deps := schedule.Deps{
		DB:               db,
		Cache:            gridCache,
		MinDurationHours: cfg.Schedule.MinDurationHours,
		LoadAttempts:     cfg.Schedule.LoadAttempts,
	}

	var workers *queue.Server
	if cfg.Queue.Enabled {
		redisOpt := queue.RedisConfig{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}
		client := queue.NewClient(redisOpt, cfg.Queue.MaxRetry)
		defer client.Close()

		workers = queue.NewServer(redisOpt, cfg.Queue.Concurrency)
		deps.Enqueuer = client
		deps.Workers = workers
	}

	tokens := utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	mw := middleware.NewMiddleware(tokens)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(mw.RequestLogger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	schedules := schedule.Init(e, deps, mw)
	group.Init(e, db, schedules, mw)
	auth.Init(e, db, tokens, mw)

	if workers != nil {
		if err := workers.Start(); err != nil {
			return fmt.Errorf("starting workers: %w", err)
		}
		defer workers.Shutdown()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", cfg.Address(), "environment", cfg.Environment)
		if err := e.Start(cfg.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("Server exited")
	return nil
}

func newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.Cache.Driver == "memory" {
		logger.Info("Using in-memory grid cache", "max_size", cfg.Cache.MaxSize)
		return cache.NewMemoryCache(cfg.Cache.MaxSize, cfg.Cache.TTL), nil
	}

	client, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	return cache.NewRedisCache(client, cfg.Cache.TTL), nil
}
