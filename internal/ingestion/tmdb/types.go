package tmdb

import (
	"strings"
	"time"

	"moviehub/internal/microservices/http-api/models"
)

const releaseDateLayout = "2006-01-02"

// PopularResponse is one page of GET /movie/popular.
type PopularResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Movie is a TMDB list entry.
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	GenreIDs     []int64 `json:"genre_ids"`
	Popularity   float64 `json:"popularity"`
}

// ToModel maps the entry onto a catalog row. Rating aggregates are left
// zero; the upsert never overwrites them.
func (m Movie) ToModel() *models.Movie {
	movie := &models.Movie{
		TMDBID:      m.ID,
		Title:       m.Title,
		PosterURL:   m.PosterPath,
		BackdropURL: m.BackdropPath,
		Popularity:  m.Popularity,
	}
	if overview := strings.TrimSpace(m.Overview); overview != "" {
		movie.Description = &overview
	}
	if m.ReleaseDate != "" {
		if t, err := time.Parse(releaseDateLayout, m.ReleaseDate); err == nil {
			movie.ReleaseDate = &t
		}
	}
	return movie
}
