package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"moviehub/internal/events"
	"moviehub/internal/microservices/http-api/loader"
	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/shared"

	"github.com/google/uuid"
)

const (
	DefaultReviewLimit = 10
	MaxReviewLimit     = 50

	MinReviewLength = 3
	MaxReviewLength = 2000
)

// ReviewItem is a review together with its resolved author.
type ReviewItem struct {
	Review models.Review
	User   *models.User
}

// ReviewPage is one slice of a movie's reviews, newest first. NextCursor is
// empty when HasNextPage is false.
type ReviewPage struct {
	Items       []ReviewItem
	NextCursor  string
	HasNextPage bool
}

type ReviewService interface {
	CreateOrUpdateReview(ctx context.Context, userID, movieID, content string, isSpoiler *bool) (bool, error)
	ReviewsByMovie(ctx context.Context, movieID, cursor string, limit int) (*ReviewPage, error)
}

type reviewService struct {
	repo      repository.ReviewRepository
	movieRepo repository.MovieRepository
	userRepo  repository.UserRepository
	publisher *events.Publisher
}

func NewReviewService(
	repo repository.ReviewRepository,
	movieRepo repository.MovieRepository,
	userRepo repository.UserRepository,
	publisher *events.Publisher,
) ReviewService {
	return &reviewService{
		repo:      repo,
		movieRepo: movieRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// CreateOrUpdateReview stores the trimmed content as the user's only review
// of the movie. A nil isSpoiler means false.
func (s *reviewService) CreateOrUpdateReview(ctx context.Context, userID, movieID, content string, isSpoiler *bool) (bool, error) {
	trimmed := strings.TrimSpace(content)

	length := utf8.RuneCountInString(trimmed)
	if length < MinReviewLength {
		return false, shared.Validation("review too short")
	}
	if length > MaxReviewLength {
		return false, shared.Validation("review too long")
	}

	exists, err := movieExists(ctx, s.movieRepo, movieID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, shared.NotFound("movie not found")
	}

	review := &models.Review{
		UserID:    userID,
		MovieID:   movieID,
		Content:   trimmed,
		IsSpoiler: isSpoiler != nil && *isSpoiler,
	}
	if err := s.repo.Upsert(ctx, review); err != nil {
		return false, err
	}

	s.publisher.Publish(events.SubjectReviewUpserted, "review_upserted", userID, map[string]any{
		"movie_id":   movieID,
		"is_spoiler": review.IsSpoiler,
		"length":     length,
	})
	return true, nil
}

// ReviewsByMovie pages through a movie's reviews with a cursor naming the
// last review of the previous page. A cursor that no longer resolves yields
// an empty final page.
func (s *reviewService) ReviewsByMovie(ctx context.Context, movieID, cursor string, limit int) (*ReviewPage, error) {
	take := limit
	if take <= 0 {
		take = DefaultReviewLimit
	}
	if take > MaxReviewLimit {
		take = MaxReviewLimit
	}

	empty := &ReviewPage{Items: []ReviewItem{}}

	if _, err := uuid.Parse(movieID); err != nil {
		return empty, nil
	}
	if cursor != "" {
		if _, err := uuid.Parse(cursor); err != nil {
			return empty, nil
		}
	}

	reviews, err := s.repo.ListByMovie(ctx, movieID, cursor, take+1)
	if err != nil {
		if errors.Is(err, repository.ErrCursorNotFound) {
			return empty, nil
		}
		return nil, err
	}

	page := &ReviewPage{HasNextPage: len(reviews) > take}
	if page.HasNextPage {
		reviews = reviews[:take]
		page.NextCursor = reviews[len(reviews)-1].ID
	}

	users, err := s.loadAuthors(ctx, reviews)
	if err != nil {
		return nil, err
	}

	page.Items = make([]ReviewItem, len(reviews))
	for i := range reviews {
		if users[i] == nil {
			return nil, shared.NotFound("user not found")
		}
		page.Items[i] = ReviewItem{Review: reviews[i], User: users[i]}
	}
	return page, nil
}

// loadAuthors resolves review authors through the request's loader, falling
// back to a private one when called outside an HTTP request.
func (s *reviewService) loadAuthors(ctx context.Context, reviews []models.Review) ([]*models.User, error) {
	l := loader.UserLoaderFromContext(ctx)
	if l == nil {
		l = loader.NewUserLoader(s.userRepo)
	}

	ids := make([]string, len(reviews))
	for i, r := range reviews {
		ids[i] = r.UserID
	}

	users, err := l.LoadMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load review authors: %w", err)
	}
	return users, nil
}
