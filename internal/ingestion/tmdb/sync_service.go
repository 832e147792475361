package tmdb

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"moviehub/internal/events"
	"moviehub/internal/microservices/http-api/models"

	"go.uber.org/zap"
)

// TMDB never serves pages past 500.
const maxPages = 500

// PageFetcher is the part of Client the sync needs.
type PageFetcher interface {
	GetPopular(ctx context.Context, page int) (*PopularResponse, error)
}

// MovieStore persists catalog entries. repository.MovieRepository satisfies it.
type MovieStore interface {
	UpsertCatalogMovie(ctx context.Context, movie *models.Movie, genreIDs []int64) error
}

// CacheInvalidator drops cached catalog reads after a sync.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// SyncResult summarises one run.
type SyncResult struct {
	Pages    int           `json:"pages"`
	Movies   int           `json:"movies"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// SyncService pulls popular movies from TMDB into the catalog.
type SyncService struct {
	client    PageFetcher
	store     MovieStore
	cache     CacheInvalidator
	publisher *events.Publisher
	workers   int
	log       *zap.Logger
}

// NewSyncService wires a sync run. cache and publisher may be nil.
func NewSyncService(client PageFetcher, store MovieStore, cache CacheInvalidator, publisher *events.Publisher, workers int, log *zap.Logger) *SyncService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncService{
		client:    client,
		store:     store,
		cache:     cache,
		publisher: publisher,
		workers:   workers,
		log:       log,
	}
}

// Run syncs the first pages pages of /movie/popular. Page 1 is fetched up
// front to learn total_pages; its failure aborts the run. Later page and
// movie failures are counted in SyncResult.Failed.
func (s *SyncService) Run(ctx context.Context, pages int) (*SyncResult, error) {
	if pages < 1 {
		return nil, fmt.Errorf("pages must be at least 1, got %d", pages)
	}
	start := time.Now()

	first, err := s.client.GetPopular(ctx, 1)
	if err != nil {
		return nil, err
	}

	total := pages
	if first.TotalPages > 0 && first.TotalPages < total {
		total = first.TotalPages
	}
	if total > maxPages {
		total = maxPages
	}

	var synced, failed atomic.Int64
	savePage := func(ctx context.Context, resp *PopularResponse) {
		for _, m := range resp.Results {
			if err := s.store.UpsertCatalogMovie(ctx, m.ToModel(), m.GenreIDs); err != nil {
				failed.Add(1)
				s.log.Warn("movie upsert failed", zap.Int64("tmdb_id", m.ID), zap.Error(err))
				continue
			}
			synced.Add(1)
		}
	}

	pool := NewWorkerPool(ctx, s.workers, s.log)
	pool.Start()

	pool.Submit(func(ctx context.Context) error {
		savePage(ctx, first)
		return nil
	})
	for page := 2; page <= total; page++ {
		if !pool.Submit(func(ctx context.Context) error {
			resp, err := s.client.GetPopular(ctx, page)
			if err != nil {
				return err
			}
			savePage(ctx, resp)
			return nil
		}) {
			break
		}
	}

	failedPages := pool.Wait()

	result := &SyncResult{
		Pages:    total - failedPages,
		Movies:   int(synced.Load()),
		Failed:   int(failed.Load()) + failedPages,
		Duration: time.Since(start),
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn("movie cache invalidation failed", zap.Error(err))
		}
	}

	s.publisher.Publish(events.SubjectCatalogSynced, "catalog_synced", "", map[string]any{
		"pages":  result.Pages,
		"movies": result.Movies,
		"failed": result.Failed,
	})

	s.log.Info("tmdb sync completed",
		zap.Int("pages", result.Pages),
		zap.Int("movies", result.Movies),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}
