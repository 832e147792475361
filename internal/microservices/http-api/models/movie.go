package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Movie struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid"`
	TMDBID      int64      `json:"tmdbId" gorm:"column:tmdb_id;uniqueIndex;not null"`
	Title       string     `json:"title" gorm:"not null"`
	Description *string    `json:"description,omitempty" gorm:"type:text"`
	ReleaseDate *time.Time `json:"releaseDate,omitempty"`
	PosterURL   *string    `json:"posterUrl,omitempty"`
	BackdropURL *string    `json:"backdropUrl,omitempty"`
	Popularity  float64    `json:"popularity" gorm:"not null;default:0;index"`

	// aggregate over ratings, maintained by the rating repository
	RatingCount   int     `json:"ratingCount" gorm:"not null;default:0"`
	AverageRating float64 `json:"averageRating" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// association
	Genres []Genre `json:"genres,omitempty" gorm:"many2many:movie_genres;constraint:OnDelete:CASCADE;"`
}

func (m *Movie) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

func (Movie) TableName() string {
	return "movies"
}

// AddRating folds a first-time rating into the running mean.
func (m *Movie) AddRating(value int) {
	newCount := m.RatingCount + 1
	m.AverageRating = (m.AverageRating*float64(m.RatingCount) + float64(value)) / float64(newCount)
	m.RatingCount = newCount
}

// ReplaceRating swaps a user's previous value for a new one; the count is unchanged.
func (m *Movie) ReplaceRating(oldValue, newValue int) {
	if m.RatingCount <= 0 {
		// aggregate lost track of the existing row; restart from it
		m.RatingCount = 0
		m.AverageRating = 0
		m.AddRating(newValue)
		return
	}
	m.AverageRating = (m.AverageRating*float64(m.RatingCount) - float64(oldValue) + float64(newValue)) / float64(m.RatingCount)
}
