package repository

import (
	"context"
	"fmt"

	"moviehub/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository interface {
	List(ctx context.Context, page, limit int) ([]models.Movie, error)
	GetByID(ctx context.Context, id string) (*models.Movie, error)
	Exists(ctx context.Context, id string) (bool, error)
	UpsertCatalogMovie(ctx context.Context, movie *models.Movie, genreIDs []int64) error
}

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

// List returns one offset page ordered by popularity, most popular first.
func (r *movieRepository) List(ctx context.Context, page, limit int) ([]models.Movie, error) {
	var list []models.Movie

	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Order("popularity DESC").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return list, nil
}

func (r *movieRepository) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).Preload("Genres").First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movieRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Movie{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check movie: %w", err)
	}
	return count > 0, nil
}

// UpsertCatalogMovie inserts or refreshes a movie keyed by its TMDB id and
// links it to genreIDs, creating placeholder genres as needed. Rating
// aggregates are never touched. On return movie.ID holds the stored id.
func (r *movieRepository) UpsertCatalogMovie(ctx context.Context, movie *models.Movie, genreIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tmdb_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "description", "release_date", "poster_url",
				"backdrop_url", "popularity", "updated_at",
			}),
		}).Create(movie).Error; err != nil {
			return fmt.Errorf("upsert movie %d: %w", movie.TMDBID, err)
		}

		// the hook-generated id is discarded when the row already existed
		var stored models.Movie
		if err := tx.Select("id").Where("tmdb_id = ?", movie.TMDBID).First(&stored).Error; err != nil {
			return fmt.Errorf("reload movie %d: %w", movie.TMDBID, err)
		}
		movie.ID = stored.ID

		for _, genreID := range genreIDs {
			genre := models.Genre{ID: genreID, Name: fmt.Sprintf("Genre-%d", genreID)}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&genre).Error; err != nil {
				return fmt.Errorf("upsert genre %d: %w", genreID, err)
			}
			link := models.MovieGenre{MovieID: movie.ID, GenreID: genreID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
				return fmt.Errorf("link genre %d: %w", genreID, err)
			}
		}
		return nil
	})
}
