package handler

import (
	"context"
	"net/http"
	"time"

	"moviehub/internal/microservices/http-api/middleware"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Dependencies struct {
	Auth      service.AuthService
	Movies    service.MovieService
	Reviews   service.ReviewService
	Ratings   service.RatingService
	Wishlists service.WishlistService
	Users     repository.UserRepository
	DB        Pinger
	Logger    *zap.Logger
	// Live is optional; nil leaves /movies/:id/live unrouted.
	Live LiveFeed
}

// NewRouter wires middleware and every route of the public API.
func NewRouter(d Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(d.Logger))

	r.GET("/healthz", healthz(d.DB))

	api := r.Group("/api")
	api.Use(middleware.UserLoader(d.Users))
	api.Use(middleware.Authenticate(d.Auth, d.Logger))

	NewAuthHandler(d.Auth, d.Logger).RegisterRoutes(api.Group("/auth"))

	movies := api.Group("/movies")
	NewMovieHandler(d.Movies, d.Reviews, d.Logger).RegisterRoutes(movies)
	NewInteractionHandler(d.Ratings, d.Reviews, d.Wishlists, d.Logger).RegisterRoutes(movies)
	if d.Live != nil {
		NewLiveHandler(d.Movies, d.Live, d.Logger).RegisterRoutes(movies)
	}

	return r
}

func healthz(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
