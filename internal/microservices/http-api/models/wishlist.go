package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Wishlist struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_movie" json:"userId"`
	MovieID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_movie" json:"movieId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`

	// Associations
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	Movie *Movie `gorm:"foreignKey:MovieID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (w *Wishlist) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	return
}

func (Wishlist) TableName() string {
	return "wishlists"
}
