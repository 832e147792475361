package models

// Genre ids come from TMDB, so they are not auto-incremented.
type Genre struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name string `json:"name" gorm:"unique;not null"`
}

func (Genre) TableName() string {
	return "genres"
}

// MovieGenre is the join row behind Movie.Genres.
type MovieGenre struct {
	MovieID string `json:"movieId" gorm:"primaryKey;type:uuid"`
	GenreID int64  `json:"genreId" gorm:"primaryKey;autoIncrement:false"`
}

func (MovieGenre) TableName() string {
	return "movie_genres"
}
