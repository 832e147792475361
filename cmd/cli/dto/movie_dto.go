package dto

import "time"

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Movie struct {
	ID            string    `json:"id"`
	TMDBID        int64     `json:"tmdbId"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	ReleaseDate   *string   `json:"releaseDate"`
	PosterURL     *string   `json:"posterUrl"`
	Popularity    float64   `json:"popularity"`
	RatingCount   int       `json:"ratingCount"`
	AverageRating float64   `json:"averageRating"`
	Genres        []Genre   `json:"genres"`
	CreatedAt     time.Time `json:"createdAt"`
}

type MovieList struct {
	Items []Movie `json:"items"`
	Page  int     `json:"page"`
	Limit int     `json:"limit"`
}

type MovieEnvelope struct {
	Movie *Movie `json:"movie"`
}

type RateRequest struct {
	Value int `json:"value"`
}

type ReviewRequest struct {
	Content   string `json:"content"`
	IsSpoiler bool   `json:"isSpoiler"`
}

type Review struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsSpoiler bool      `json:"isSpoiler"`
	CreatedAt time.Time `json:"createdAt"`
	User      struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
}

type ReviewPage struct {
	Items       []Review `json:"items"`
	NextCursor  *string  `json:"nextCursor"`
	HasNextPage bool     `json:"hasNextPage"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}
