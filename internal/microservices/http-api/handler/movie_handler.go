package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"moviehub/internal/microservices/http-api/dto"
	"moviehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MovieHandler struct {
	movies  service.MovieService
	reviews service.ReviewService
	log     *zap.Logger
}

func NewMovieHandler(movies service.MovieService, reviews service.ReviewService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{movies: movies, reviews: reviews, log: log}
}

// RegisterRoutes registers the public catalog routes
func (h *MovieHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/reviews", h.Reviews)
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// List returns movies by popularity
// GET /api/movies?page=1&limit=20
func (h *MovieHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page, ok := queryInt(c, "page", service.DefaultMoviePage)
	if !ok {
		badInput(c, h.log, "page must be an integer")
		return
	}
	limit, ok := queryInt(c, "limit", service.DefaultMovieLimit)
	if !ok {
		badInput(c, h.log, "limit must be an integer")
		return
	}

	list, err := h.movies.List(ctx, page, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MovieListResponse{
		Items: dto.FromMovies(list),
		Page:  page,
		Limit: limit,
	})
}

// Get returns one movie, or {"movie": null}
// GET /api/movies/:id
func (h *MovieHandler) Get(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	movie, err := h.movies.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var resp dto.MovieEnvelope
	if movie != nil {
		m := dto.FromMovie(movie)
		resp.Movie = &m
	}
	c.JSON(http.StatusOK, resp)
}

// Reviews pages through a movie's reviews, newest first
// GET /api/movies/:id/reviews?cursor=<reviewId>&limit=10
func (h *MovieHandler) Reviews(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	limit, ok := queryInt(c, "limit", service.DefaultReviewLimit)
	if !ok {
		badInput(c, h.log, "limit must be an integer")
		return
	}

	page, err := h.reviews.ReviewsByMovie(ctx, c.Param("id"), c.Query("cursor"), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromReviewPage(page))
}
