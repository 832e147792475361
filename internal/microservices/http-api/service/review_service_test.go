package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"moviehub/database/dbtest"
	"moviehub/internal/microservices/http-api/loader"
	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"
	"moviehub/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB) ReviewService {
	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewMovieRepository(db),
		repository.NewUserRepository(db),
		nil,
	)
}

func boolPtr(b bool) *bool { return &b }

func TestCreateOrUpdateReview_LengthBounds(t *testing.T) {
	db := dbtest.NewTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	movie := dbtest.SeedMovie(t, db, 1, 1)
	user := dbtest.SeedUser(t, db, "Critic")

	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"TwoChars", "ab", "review too short"},
		{"PaddedTwoChars", "   ab   ", "review too short"},
		{"ThreeChars", "abc", ""},
		{"MaxLength", strings.Repeat("a", 2000), ""},
		{"MaxLengthMultibyte", strings.Repeat("é", 2000), ""},
		{"TooLong", strings.Repeat("a", 2001), "review too long"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := svc.CreateOrUpdateReview(ctx, user.ID, movie.ID, tc.content, nil)
			if tc.wantErr != "" {
				assert.ErrorIs(t, err, shared.Validation("%s", tc.wantErr))
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestCreateOrUpdateReview_Upserts(t *testing.T) {
	db := dbtest.NewTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	movie := dbtest.SeedMovie(t, db, 1, 1)
	user := dbtest.SeedUser(t, db, "Critic")

	_, err := svc.CreateOrUpdateReview(ctx, user.ID, movie.ID, "  great ending  ", boolPtr(true))
	require.NoError(t, err)
	_, err = svc.CreateOrUpdateReview(ctx, user.ID, movie.ID, "changed my mind", nil)
	require.NoError(t, err)

	var reviews []models.Review
	require.NoError(t, db.Where("movie_id = ?", movie.ID).Find(&reviews).Error)
	require.Len(t, reviews, 1)
	assert.Equal(t, "changed my mind", reviews[0].Content)
	assert.False(t, reviews[0].IsSpoiler)

	_, err = svc.CreateOrUpdateReview(ctx, user.ID, uuid.NewString(), "valid text", nil)
	assert.ErrorIs(t, err, shared.NotFound("movie not found"))
}

func seedReviewsForService(t *testing.T, db *gorm.DB, movieID string, n int) []models.Review {
	t.Helper()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	out := make([]models.Review, n)
	for i := range out {
		user := dbtest.SeedUser(t, db, fmt.Sprintf("Writer%d", i))
		out[i] = models.Review{
			UserID:    user.ID,
			MovieID:   movieID,
			Content:   fmt.Sprintf("review %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&out[i]).Error)
	}
	return out
}

func TestReviewsByMovie_TwelveReviewsLimitTen(t *testing.T) {
	db := dbtest.NewTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	movie := dbtest.SeedMovie(t, db, 1, 1)
	seeded := seedReviewsForService(t, db, movie.ID, 12)

	first, err := svc.ReviewsByMovie(ctx, movie.ID, "", 10)
	require.NoError(t, err)
	require.Len(t, first.Items, 10)
	assert.True(t, first.HasNextPage)
	assert.Equal(t, first.Items[9].Review.ID, first.NextCursor)
	assert.Equal(t, seeded[11].ID, first.Items[0].Review.ID)
	assert.Equal(t, "Writer11", first.Items[0].User.Name)

	second, err := svc.ReviewsByMovie(ctx, movie.ID, first.NextCursor, 10)
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.False(t, second.HasNextPage)
	assert.Empty(t, second.NextCursor)

	// concatenation reproduces the full newest-first list
	var got []string
	for _, item := range append(first.Items, second.Items...) {
		got = append(got, item.Review.ID)
	}
	var want []string
	for i := len(seeded) - 1; i >= 0; i-- {
		want = append(want, seeded[i].ID)
	}
	assert.Equal(t, want, got)
}

func TestReviewsByMovie_Limits(t *testing.T) {
	db := dbtest.NewTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	movie := dbtest.SeedMovie(t, db, 1, 1)
	seedReviewsForService(t, db, movie.ID, 55)

	page, err := svc.ReviewsByMovie(ctx, movie.ID, "", 0)
	require.NoError(t, err)
	assert.Len(t, page.Items, DefaultReviewLimit)

	page, err = svc.ReviewsByMovie(ctx, movie.ID, "", 500)
	require.NoError(t, err)
	assert.Len(t, page.Items, MaxReviewLimit)
	assert.True(t, page.HasNextPage)
}

func TestReviewsByMovie_StaleCursorIsEmptyPage(t *testing.T) {
	db := dbtest.NewTestDB(t)
	svc := newReviewService(db)
	ctx := context.Background()

	movie := dbtest.SeedMovie(t, db, 1, 1)
	seedReviewsForService(t, db, movie.ID, 3)

	for _, cursor := range []string{uuid.NewString(), "garbage"} {
		page, err := svc.ReviewsByMovie(ctx, movie.ID, cursor, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.False(t, page.HasNextPage)
	}

	page, err := svc.ReviewsByMovie(ctx, "not-a-uuid", "", 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestReviewsByMovie_MissingAuthor(t *testing.T) {
	db := dbtest.NewTestDB(t)
	ctx := context.Background()

	movie := dbtest.SeedMovie(t, db, 1, 1)
	seedReviewsForService(t, db, movie.ID, 2)

	// a user repository that knows nobody
	users := new(MockUserRepository)
	users.On("FindByIDs", mock.Anything, mock.Anything).Return([]models.User{}, nil)

	svc := NewReviewService(repository.NewReviewRepository(db), repository.NewMovieRepository(db), users, nil)
	l := loader.NewUserLoader(users)

	_, err := svc.ReviewsByMovie(loader.WithUserLoader(ctx, l), movie.ID, "", 10)
	assert.ErrorIs(t, err, shared.NotFound("user not found"))
}
