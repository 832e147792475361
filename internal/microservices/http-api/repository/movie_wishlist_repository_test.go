package repository_test

import (
	"context"
	"testing"
	"time"

	"moviehub/database/dbtest"
	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovieRepository_ListByPopularity(t *testing.T) {
	db := dbtest.NewTestDB(t)
	repo := repository.NewMovieRepository(db)
	ctx := context.Background()

	low := dbtest.SeedMovie(t, db, 1, 1.5)
	high := dbtest.SeedMovie(t, db, 2, 99)
	mid := dbtest.SeedMovie(t, db, 3, 50)

	first, err := repo.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, high.ID, first[0].ID)
	assert.Equal(t, mid.ID, first[1].ID)

	second, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, low.ID, second[0].ID)

	empty, err := repo.List(ctx, 3, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMovieRepository_GetAndExists(t *testing.T) {
	db := dbtest.NewTestDB(t)
	repo := repository.NewMovieRepository(db)
	ctx := context.Background()

	movie := dbtest.SeedMovie(t, db, 7, 1)

	got, err := repo.GetByID(ctx, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, "Movie 7", got.Title)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.True(t, repository.IsNotFound(err))

	ok, err := repo.Exists(ctx, movie.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMovieRepository_UpsertCatalogMovie(t *testing.T) {
	db := dbtest.NewTestDB(t)
	repo := repository.NewMovieRepository(db)
	ratings := repository.NewRatingRepository(db)
	ctx := context.Background()

	release := time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)
	first := &models.Movie{TMDBID: 27205, Title: "Inception", ReleaseDate: &release, Popularity: 80}
	require.NoError(t, repo.UpsertCatalogMovie(ctx, first, []int64{28, 878}))

	user := dbtest.SeedUser(t, db, "Fan")
	_, err := ratings.RateMovie(ctx, user.ID, first.ID, 5)
	require.NoError(t, err)

	second := &models.Movie{TMDBID: 27205, Title: "Inception (2010)", Popularity: 95}
	require.NoError(t, repo.UpsertCatalogMovie(ctx, second, []int64{28, 12}))
	assert.Equal(t, first.ID, second.ID)

	stored, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Inception (2010)", stored.Title)
	assert.InDelta(t, 95.0, stored.Popularity, 1e-9)
	assert.Nil(t, stored.ReleaseDate)
	assert.Equal(t, 1, stored.RatingCount)
	assert.InDelta(t, 5.0, stored.AverageRating, 1e-9)
	assert.Len(t, stored.Genres, 3)

	var genre models.Genre
	require.NoError(t, db.First(&genre, "id = ?", 878).Error)
	assert.Equal(t, "Genre-878", genre.Name)

	var count int64
	require.NoError(t, db.Model(&models.Movie{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestWishlistRepository_AddIsIdempotent(t *testing.T) {
	db := dbtest.NewTestDB(t)
	repo := repository.NewWishlistRepository(db)
	ctx := context.Background()

	movie := dbtest.SeedMovie(t, db, 1, 1)
	user := dbtest.SeedUser(t, db, "Collector")

	created, err := repo.Add(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.Add(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&models.Wishlist{}).
		Where("user_id = ? AND movie_id = ?", user.ID, movie.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_FindByIDs(t *testing.T) {
	db := dbtest.NewTestDB(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	a := dbtest.SeedUser(t, db, "Ann")
	b := dbtest.SeedUser(t, db, "Ben")

	users, err := repo.FindByIDs(ctx, []string{a.ID, b.ID, uuid.NewString()})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)

	found, err := repo.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRole, found.Role.Name)
}
