// @title           SVGShare API
// @version         1.0
// @description     Upload, preview and share SVG files. Sign-in is GitHub OAuth; the session lives in an HttpOnly cookie.
// @BasePath        /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"svgshare/internal/api"
	"svgshare/internal/auth"
	"svgshare/internal/config"
	"svgshare/internal/database"
	"svgshare/internal/ratelimit"
	"svgshare/internal/storage"
	"svgshare/internal/websocket"
	"svgshare/web"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	_ "svgshare/docs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("cannot load configuration")
	}
	configureLogger(logger, cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.Migrate {
		if err := database.Migrate(cfg.DB.Source); err != nil {
			logger.WithError(err).Fatal("cannot apply migrations")
		}
		logger.Info("database schema is up to date")
	}

	dbpool, err := pgxpool.New(ctx, cfg.DB.Source)
	if err != nil {
		logger.WithError(err).Fatal("cannot connect to database")
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("cannot ping database")
	}
	logger.Info("connected to database")

	blobs, err := newStorage(ctx, cfg.Storage)
	if err != nil {
		logger.WithError(err).Fatal("cannot initialize storage")
	}
	logger.WithField("driver", cfg.Storage.Driver).Info("storage ready")

	limiter, closeLimiter, err := newLimiter(ctx, cfg)
	if err != nil {
		logger.WithError(err).Fatal("cannot initialize rate limiter")
	}
	defer closeLimiter()

	assets, err := web.Static()
	if err != nil {
		logger.WithError(err).Fatal("cannot load static assets")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	wsHub := websocket.NewHub(logger)
	go wsHub.Run(ctx)

	server := api.NewServer(api.Deps{
		Config:  cfg,
		Store:   database.NewStore(dbpool),
		Storage: blobs,
		Provider: auth.NewGitHubProvider(auth.GitHubConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			AuthURL:      cfg.OAuth.AuthURL,
			TokenURL:     cfg.OAuth.TokenURL,
			UserAPIURL:   cfg.OAuth.UserAPIURL,
			Scopes:       cfg.OAuth.Scopes,
		}),
		Hub:      wsHub,
		Limiter:  limiter,
		Logger:   logger,
		Registry: registry,
		Assets:   assets,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("address", cfg.Server.Address).Info("starting server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Fatal("cannot start server")
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	server.Wait()
}

func configureLogger(logger *logrus.Logger, cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logger.WithField("level", cfg.Level).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	logger.SetFormatter(&logrus.JSONFormatter{})
}

func newStorage(ctx context.Context, cfg config.StorageConfig) (storage.Storage, error) {
	if cfg.Driver == config.StorageDriverLocal {
		return storage.NewLocalStorage(cfg.Path)
	}
	return storage.NewMinioStorage(ctx, storage.MinioOptions{
		Endpoint:     cfg.Minio.Endpoint,
		AccessKey:    cfg.Minio.AccessKey,
		SecretKey:    cfg.Minio.SecretKey,
		Bucket:       cfg.Minio.Bucket,
		Region:       cfg.Minio.Region,
		CreateBucket: cfg.Minio.CreateBucket,
	})
}

// newLimiter prefers Redis so that several replicas share one budget. The
// returned func releases whatever the limiter holds.
func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, func(), error) {
	if !cfg.RateLimit.Enabled {
		return nil, func() {}, nil
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		limiter := ratelimit.NewRedisLimiter(client, cfg.Redis.Prefix, cfg.RateLimit.Burst, cfg.RateLimit.Window)
		return limiter, func() { client.Close() }, nil
	}

	limiter := ratelimit.NewMemoryLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	return limiter, limiter.Close, nil
}
