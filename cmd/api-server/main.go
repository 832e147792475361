package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moviehub/database"
	"moviehub/internal/cache"
	"moviehub/internal/config"
	"moviehub/internal/events"
	"moviehub/internal/logger"
	"moviehub/internal/microservices/http-api/handler"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/microservices/http-api/service"
	live "moviehub/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("api-server: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	zl, err := logger.New("api-server", cfg.GoEnv, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("could not build logger: %w", err)
	}
	defer zl.Sync() //nolint:errcheck

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenGorm(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer database.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	var movieCache *cache.MovieCache
	if cfg.RedisURL != "" {
		movieCache, err = cache.NewMovieCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTLDuration(), zl)
		if err != nil {
			// the catalog still works uncached
			zl.Warn("movie cache disabled", zap.Error(err))
			movieCache = nil
		} else {
			defer movieCache.Close()
		}
	}

	// the live feed always listens; NATS is added when configured
	hub := live.NewHub(zl)
	go hub.Run(ctx)

	sinks := events.Fanout{hub}
	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL, "moviehub-api")
		if err != nil {
			zl.Warn("nats publishing disabled", zap.Error(err))
		} else {
			defer drain(nc, zl)
			sinks = append(sinks, nc)
		}
	}
	publisher := events.NewPublisher(sinks, zl)

	userRepo := repository.NewUserRepository(db)
	movieRepo := repository.NewMovieRepository(db)

	router := handler.NewRouter(handler.Dependencies{
		Auth:      service.NewAuthService(userRepo, publisher, cfg),
		Movies:    service.NewMovieService(movieRepo, movieCache),
		Reviews:   service.NewReviewService(repository.NewReviewRepository(db), movieRepo, userRepo, publisher),
		Ratings:   service.NewRatingService(repository.NewRatingRepository(db), publisher),
		Wishlists: service.NewWishlistService(repository.NewWishlistRepository(db), movieRepo, publisher),
		Users:     userRepo,
		DB:        sqlDB,
		Logger:    zl,
		Live:      hub,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("http server listening", zap.String("addr", srv.Addr))
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

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func drain(nc *nats.Conn, zl *zap.Logger) {
	if err := nc.Drain(); err != nil {
		zl.Warn("nats drain failed", zap.Error(err))
	}
}
