package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is at most one per (user, movie); upserts replace it wholesale.
type Review struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_movie"`
	MovieID   string    `json:"movieId" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_movie;index:idx_reviews_movie_created,priority:1"`
	Content   string    `json:"content" gorm:"not null;type:text"`
	IsSpoiler bool      `json:"isSpoiler" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;index:idx_reviews_movie_created,priority:2"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// Associations
	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Movie *Movie `json:"-" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (Review) TableName() string {
	return "reviews"
}
