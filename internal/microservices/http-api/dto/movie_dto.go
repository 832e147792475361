package dto

import (
	"time"

	"moviehub/internal/microservices/http-api/models"
)

const releaseDateLayout = "2006-01-02"

type GenreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MovieResponse struct {
	ID            string          `json:"id"`
	TMDBID        int64           `json:"tmdbId"`
	Title         string          `json:"title"`
	Description   *string         `json:"description"`
	ReleaseDate   *string         `json:"releaseDate"`
	PosterURL     *string         `json:"posterUrl"`
	BackdropURL   *string         `json:"backdropUrl"`
	Popularity    float64         `json:"popularity"`
	RatingCount   int             `json:"ratingCount"`
	AverageRating float64         `json:"averageRating"`
	Genres        []GenreResponse `json:"genres,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// MovieListResponse is one offset page of the catalog.
type MovieListResponse struct {
	Items []MovieResponse `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// MovieEnvelope wraps a single movie; Movie is null when not found.
type MovieEnvelope struct {
	Movie *MovieResponse `json:"movie"`
}

func FromMovie(m *models.Movie) MovieResponse {
	resp := MovieResponse{
		ID:            m.ID,
		TMDBID:        m.TMDBID,
		Title:         m.Title,
		Description:   m.Description,
		PosterURL:     m.PosterURL,
		BackdropURL:   m.BackdropURL,
		Popularity:    m.Popularity,
		RatingCount:   m.RatingCount,
		AverageRating: m.AverageRating,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.ReleaseDate != nil {
		s := m.ReleaseDate.Format(releaseDateLayout)
		resp.ReleaseDate = &s
	}
	for _, g := range m.Genres {
		resp.Genres = append(resp.Genres, GenreResponse{ID: g.ID, Name: g.Name})
	}
	return resp
}

func FromMovies(list []models.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(list))
	for i := range list {
		out = append(out, FromMovie(&list[i]))
	}
	return out
}
