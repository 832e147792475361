package repository

import (
	"context"
	"fmt"

	"moviehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistRepository interface {
	Add(ctx context.Context, userID, movieID string) (bool, error)
}

type wishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

// Add inserts the entry unless it already exists. The bool reports whether a
// row was written.
func (r *wishlistRepository) Add(ctx context.Context, userID, movieID string) (bool, error) {
	entry := &models.Wishlist{UserID: userID, MovieID: movieID}

	result := r.db.WithContext(ctx).
		Omit("User", "Movie").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	if result.Error != nil {
		return false, fmt.Errorf("add wishlist entry: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
