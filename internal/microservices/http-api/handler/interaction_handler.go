package handler

import (
	"context"
	"net/http"
	"time"

	"moviehub/internal/microservices/http-api/dto"
	"moviehub/internal/microservices/http-api/middleware"
	"moviehub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InteractionHandler serves the authenticated per-movie mutations. Each one
// calls middleware.RequireAuth before touching a service.
type InteractionHandler struct {
	ratings   service.RatingService
	reviews   service.ReviewService
	wishlists service.WishlistService
	log       *zap.Logger
}

func NewInteractionHandler(
	ratings service.RatingService,
	reviews service.ReviewService,
	wishlists service.WishlistService,
	log *zap.Logger,
) *InteractionHandler {
	return &InteractionHandler{ratings: ratings, reviews: reviews, wishlists: wishlists, log: log}
}

func (h *InteractionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/wishlist", h.AddToWishlist)
	rg.POST("/:id/rating", h.RateMovie)
	rg.PUT("/:id/review", h.CreateOrUpdateReview)
}

// AddToWishlist
// POST /api/movies/:id/wishlist
func (h *InteractionHandler) AddToWishlist(c *gin.Context) {
	identity, err := middleware.RequireAuth(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ok, err := h.wishlists.AddToWishlist(ctx, identity.UserID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKResponse{OK: ok})
}

// RateMovie
// POST /api/movies/:id/rating {"value": 1..5}
func (h *InteractionHandler) RateMovie(c *gin.Context) {
	identity, err := middleware.RequireAuth(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var req dto.RateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, h.log, "invalid request body: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ok, err := h.ratings.RateMovie(ctx, identity.UserID, c.Param("id"), *req.Value)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKResponse{OK: ok})
}

// CreateOrUpdateReview
// PUT /api/movies/:id/review {"content": "...", "isSpoiler": false}
func (h *InteractionHandler) CreateOrUpdateReview(c *gin.Context) {
	identity, err := middleware.RequireAuth(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, h.log, "invalid request body: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	ok, err := h.reviews.CreateOrUpdateReview(ctx, identity.UserID, c.Param("id"), req.Content, req.IsSpoiler)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.OKResponse{OK: ok})
}
