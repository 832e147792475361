package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moviehub/database"
	"moviehub/internal/cache"
	"moviehub/internal/config"
	"moviehub/internal/events"
	"moviehub/internal/ingestion/tmdb"
	"moviehub/internal/logger"
	"moviehub/internal/microservices/http-api/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// flag values; unset flags fall back to TMDB_SYNC_PAGES and TMDB_SYNC_WORKERS
var (
	pages   int
	workers int
)

// rootCmd syncs popular movies once and exits.
var rootCmd = &cobra.Command{
	Use:   "tmdb-sync",
	Short: "Import popular movies from TMDB into the MovieHub catalog",
	Long: `tmdb-sync pulls pages of TMDB's popular movies and upserts them into the
catalog. Rating aggregates and reviews are never touched. Safe to re-run.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("pages") {
			cfg.TMDBSyncPages = pages
		}
		if cmd.Flags().Changed("workers") {
			cfg.TMDBSyncWorkers = workers
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.TMDBAPIKey == "" {
			return fmt.Errorf("TMDB_API_KEY is not set")
		}
		return runSync(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.Flags().IntVarP(&pages, "pages", "p", 1, "number of popular pages to import (max 500)")
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 4, "concurrent page fetchers")
}

func runSync(ctx context.Context, cfg *config.Config) error {
	zl, err := logger.New("tmdb-sync", cfg.GoEnv, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer zl.Sync() //nolint:errcheck

	db, err := database.OpenGorm(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer database.Close(db)

	var invalidator tmdb.CacheInvalidator
	if cfg.RedisURL != "" {
		movieCache, err := cache.NewMovieCache(cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTLDuration(), zl)
		if err != nil {
			zl.Warn("skipping cache invalidation", zap.Error(err))
		} else {
			defer movieCache.Close()
			invalidator = movieCache
		}
	}

	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL, "moviehub-tmdb-sync")
		if err != nil {
			zl.Warn("event publishing disabled", zap.Error(err))
		} else {
			defer nc.Drain() //nolint:errcheck
			publisher = events.NewPublisher(nc, zl)
		}
	}

	client := tmdb.NewClient(cfg.TMDBAPIURL, cfg.TMDBAPIKey, zl)
	svc := tmdb.NewSyncService(client, repository.NewMovieRepository(db), invalidator, publisher, cfg.TMDBSyncWorkers, zl)

	result, err := svc.Run(ctx, cfg.TMDBSyncPages)
	if err != nil {
		return err
	}
	fmt.Printf("synced %d movies from %d pages (%d failures) in %s\n",
		result.Movies, result.Pages, result.Failed, result.Duration.Round(time.Millisecond))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
