package handler

import (
	"context"
	"net/http"
	"time"

	"moviehub/internal/microservices/http-api/service"
	"moviehub/internal/shared"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LiveFeed upgrades a request into a movie activity subscription.
// *websocket.Hub satisfies it.
type LiveFeed interface {
	Serve(w http.ResponseWriter, r *http.Request, movieID string) error
}

type LiveHandler struct {
	movies service.MovieService
	feed   LiveFeed
	log    *zap.Logger
}

func NewLiveHandler(movies service.MovieService, feed LiveFeed, log *zap.Logger) *LiveHandler {
	return &LiveHandler{movies: movies, feed: feed, log: log}
}

func (h *LiveHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/live", h.Subscribe)
}

// Subscribe streams rating and review activity of one movie
// GET /api/movies/:id/live (websocket)
func (h *LiveHandler) Subscribe(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	movie, err := h.movies.Get(ctx, c.Param("id"))
	cancel()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if movie == nil {
		respondError(c, h.log, shared.NotFound("movie not found"))
		return
	}

	if err := h.feed.Serve(c.Writer, c.Request, movie.ID); err != nil {
		// the upgrader has already replied
		h.log.Debug("websocket upgrade failed", zap.String("movie_id", movie.ID), zap.Error(err))
	}
}
