package service

import (
	"context"
	"fmt"

	"moviehub/internal/cache"
	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/shared"

	"github.com/google/uuid"
)

const (
	DefaultMoviePage  = 1
	DefaultMovieLimit = 20
	MaxMovieLimit     = 100
)

type MovieService interface {
	List(ctx context.Context, page, limit int) ([]models.Movie, error)
	Get(ctx context.Context, id string) (*models.Movie, error)
}

type movieService struct {
	repo  repository.MovieRepository
	cache *cache.MovieCache
}

// NewMovieService builds the catalog read service. cache may be nil.
func NewMovieService(repo repository.MovieRepository, cache *cache.MovieCache) MovieService {
	return &movieService{repo: repo, cache: cache}
}

// List returns one page of movies ordered by popularity.
func (s *movieService) List(ctx context.Context, page, limit int) ([]models.Movie, error) {
	if page < 1 {
		return nil, shared.Validation("page must be at least 1")
	}
	if limit < 1 || limit > MaxMovieLimit {
		return nil, shared.Validation("limit must be between 1 and %d", MaxMovieLimit)
	}

	if movies, ok := s.cache.GetPage(ctx, page, limit); ok {
		return movies, nil
	}

	movies, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}

	s.cache.SetPage(ctx, page, limit, movies)
	return movies, nil
}

// Get returns the movie, or nil when no movie has this id.
func (s *movieService) Get(ctx context.Context, id string) (*models.Movie, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}

	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return movie, nil
}

// movieExists treats malformed ids as absent so they surface as NotFound.
func movieExists(ctx context.Context, repo repository.MovieRepository, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	return repo.Exists(ctx, id)
}
