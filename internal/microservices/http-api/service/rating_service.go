package service

import (
	"context"
	"fmt"

	"moviehub/internal/events"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/shared"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

type RatingService interface {
	RateMovie(ctx context.Context, userID, movieID string, value int) (bool, error)
}

type ratingService struct {
	repo      repository.RatingRepository
	publisher *events.Publisher
}

func NewRatingService(repo repository.RatingRepository, publisher *events.Publisher) RatingService {
	return &ratingService{repo: repo, publisher: publisher}
}

// RateMovie records or replaces the user's rating and updates the movie's
// running mean in the same transaction.
func (s *ratingService) RateMovie(ctx context.Context, userID, movieID string, value int) (bool, error) {
	if value < MinRating || value > MaxRating {
		return false, shared.Validation("rating must be between %d and %d", MinRating, MaxRating)
	}
	if _, err := uuid.Parse(movieID); err != nil {
		return false, shared.NotFound("movie not found")
	}

	result, err := s.repo.RateMovie(ctx, userID, movieID, value)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, shared.NotFound("movie not found")
		}
		return false, fmt.Errorf("rate movie: %w", err)
	}

	props := map[string]any{
		"movie_id":       movieID,
		"value":          value,
		"created":        result.Created,
		"rating_count":   result.Movie.RatingCount,
		"average_rating": result.Movie.AverageRating,
	}
	if !result.Created {
		props["previous_value"] = result.Previous
	}
	s.publisher.Publish(events.SubjectMovieRated, "movie_rated", userID, props)

	return true, nil
}
