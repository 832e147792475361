package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one user's score for one movie.
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_movie"`
	MovieID   string    `json:"movieId" gorm:"type:uuid;not null;uniqueIndex:idx_ratings_user_movie;index"`
	Value     int       `json:"value" gorm:"not null;check:chk_ratings_value,value >= 1 AND value <= 5"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`

	// Associations
	User  *User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Movie *Movie `json:"-" gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (Rating) TableName() string {
	return "ratings"
}
