package service

import (
	"context"
	"fmt"

	"moviehub/internal/events"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/shared"
)

type WishlistService interface {
	AddToWishlist(ctx context.Context, userID, movieID string) (bool, error)
}

type wishlistService struct {
	repo      repository.WishlistRepository
	movieRepo repository.MovieRepository
	publisher *events.Publisher
}

func NewWishlistService(repo repository.WishlistRepository, movieRepo repository.MovieRepository, publisher *events.Publisher) WishlistService {
	return &wishlistService{repo: repo, movieRepo: movieRepo, publisher: publisher}
}

// AddToWishlist is idempotent: adding a movie twice still reports success.
func (s *wishlistService) AddToWishlist(ctx context.Context, userID, movieID string) (bool, error) {
	exists, err := movieExists(ctx, s.movieRepo, movieID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, shared.NotFound("movie not found")
	}

	created, err := s.repo.Add(ctx, userID, movieID)
	if err != nil {
		return false, fmt.Errorf("add to wishlist: %w", err)
	}
	if created {
		s.publisher.Publish(events.SubjectWishlistAdded, "wishlist_added", userID, map[string]any{
			"movie_id": movieID,
		})
	}
	return true, nil
}
