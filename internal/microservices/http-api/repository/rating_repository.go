package repository

import (
	"context"
	"errors"
	"fmt"

	"moviehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateResult describes the outcome of a committed RateMovie call.
type RateResult struct {
	Movie    *models.Movie // aggregate after the change
	Created  bool          // first rating by this user for this movie
	Previous int           // previous value when Created is false
}

type RatingRepository interface {
	RateMovie(ctx context.Context, userID, movieID string, value int) (*RateResult, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// RateMovie writes the user's rating and the movie aggregate in one
// transaction. The movie row is locked first so concurrent raters of the
// same movie are serialised; any failure rolls both writes back.
// Returns gorm.ErrRecordNotFound when the movie does not exist.
func (r *ratingRepository) RateMovie(ctx context.Context, userID, movieID string, value int) (*RateResult, error) {
	result := &RateResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var movie models.Movie
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&movie, "id = ?", movieID).Error; err != nil {
			return err
		}

		var existing models.Rating
		err := tx.Where("user_id = ? AND movie_id = ?", userID, movieID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			movie.AddRating(value)
			rating := &models.Rating{UserID: userID, MovieID: movieID, Value: value}
			if err := tx.Create(rating).Error; err != nil {
				return fmt.Errorf("create rating: %w", err)
			}
			result.Created = true
		case err != nil:
			return fmt.Errorf("find rating: %w", err)
		default:
			movie.ReplaceRating(existing.Value, value)
			result.Previous = existing.Value
			if err := tx.Model(&existing).Update("value", value).Error; err != nil {
				return fmt.Errorf("update rating: %w", err)
			}
		}

		if err := tx.Model(&models.Movie{}).
			Where("id = ?", movie.ID).
			Updates(map[string]interface{}{
				"rating_count":   movie.RatingCount,
				"average_rating": movie.AverageRating,
			}).Error; err != nil {
			return fmt.Errorf("update movie aggregate: %w", err)
		}

		result.Movie = &movie
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
