package repository

import (
	"context"
	"fmt"

	"moviehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	Upsert(ctx context.Context, review *models.Review) error
	ListByMovie(ctx context.Context, movieID, cursor string, take int) ([]models.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Upsert creates the user's review or replaces its content and spoiler
// flag in a single statement.
func (r *reviewRepository) Upsert(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).
		Omit("User", "Movie").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "is_spoiler", "updated_at"}),
		}).
		Create(review).Error
	if err != nil {
		return fmt.Errorf("upsert review: %w", err)
	}
	return nil
}

// ListByMovie returns up to take reviews of a movie, newest first, that come
// strictly after the review named by cursor. An empty cursor starts from the
// newest review. ErrCursorNotFound is returned when the cursor review is gone
// or belongs to another movie.
func (r *reviewRepository) ListByMovie(ctx context.Context, movieID, cursor string, take int) ([]models.Review, error) {
	query := r.db.WithContext(ctx).Where("movie_id = ?", movieID)

	if cursor != "" {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&models.Review{}).
			Where("id = ? AND movie_id = ?", cursor, movieID).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("find cursor review: %w", err)
		}
		if count == 0 {
			return nil, ErrCursorNotFound
		}

		// compare against the stored anchor row so timestamps never leave the database
		const anchorCreatedAt = "(SELECT created_at FROM reviews WHERE id = ?)"
		query = query.Where(
			"(created_at < "+anchorCreatedAt+" OR (created_at = "+anchorCreatedAt+" AND id < ?))",
			cursor, cursor, cursor,
		)
	}

	var reviews []models.Review
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(take).
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
