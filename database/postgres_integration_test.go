//go:build integration

package database_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"moviehub/database"
	"moviehub/database/dbtest"
	"moviehub/internal/config"
	"moviehub/internal/microservices/http-api/models"
	"moviehub/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PostgresSuite runs the repositories against a real Postgres so row locks
// and unique violations behave as in production.
type PostgresSuite struct {
	suite.Suite
	container testcontainers.Container
	db        *gorm.DB
}

func (s *PostgresSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "moviehub",
				"POSTGRES_PASSWORD": "moviehub",
				"POSTGRES_DB":       "moviehub",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432")
	s.Require().NoError(err)

	cfg := &config.Config{
		GoEnv:          "test",
		DatabaseURL:    fmt.Sprintf("postgres://moviehub:moviehub@%s:%s/moviehub?sslmode=disable", host, port.Port()),
		DBMaxOpenConns: 10,
	}
	s.db, err = database.OpenGorm(ctx, cfg, zap.NewNop())
	s.Require().NoError(err)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.db != nil {
		_ = database.Close(s.db)
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresSuite) SetupTest() {
	s.Require().NoError(s.db.Exec(
		"TRUNCATE reviews, ratings, wishlists, movie_genres, genres, movies, users CASCADE",
	).Error)
}

func (s *PostgresSuite) TestMigrateIsIdempotent() {
	s.NoError(database.Migrate(context.Background(), s.db))

	var roles int64
	s.Require().NoError(s.db.Model(&models.Role{}).Where("name = ?", models.DefaultRole).Count(&roles).Error)
	s.Equal(int64(1), roles)
}

func (s *PostgresSuite) TestDuplicateEmailIsUniqueViolation() {
	ctx := context.Background()
	existing := dbtest.SeedUser(s.T(), s.db, "Ada")

	users := repository.NewUserRepository(s.db)
	err := users.Create(ctx, &models.User{
		Name:     "Ada Again",
		Email:    existing.Email,
		Password: "x",
		RoleID:   existing.RoleID,
	})
	s.Require().Error(err)
	s.True(repository.IsUniqueViolation(err))
}

func (s *PostgresSuite) TestConcurrentRatingsKeepAggregatesConsistent() {
	ctx := context.Background()
	movie := dbtest.SeedMovie(s.T(), s.db, 550, 10)
	ratings := repository.NewRatingRepository(s.db)

	const raters = 30
	users := make([]*models.User, raters)
	for i := range users {
		users[i] = dbtest.SeedUser(s.T(), s.db, fmt.Sprintf("rater%02d", i))
	}

	var wg sync.WaitGroup
	errs := make(chan error, raters*2)
	for i, u := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ratings.RateMovie(ctx, u.ID, movie.ID, i%5+1); err != nil {
				errs <- err
				return
			}
			if _, err := ratings.RateMovie(ctx, u.ID, movie.ID, 5-i%5); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	var stored models.Movie
	s.Require().NoError(s.db.First(&stored, "id = ?", movie.ID).Error)

	var values []int
	s.Require().NoError(s.db.Model(&models.Rating{}).Where("movie_id = ?", movie.ID).Pluck("value", &values).Error)
	s.Require().Len(values, raters)

	sum := 0
	for _, v := range values {
		sum += v
	}
	s.Equal(raters, stored.RatingCount)
	s.InDelta(float64(sum)/float64(raters), stored.AverageRating, 1e-6)
}

func (s *PostgresSuite) TestReviewCursorPaging() {
	ctx := context.Background()
	movie := dbtest.SeedMovie(s.T(), s.db, 680, 5)
	reviews := repository.NewReviewRepository(s.db)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		u := dbtest.SeedUser(s.T(), s.db, fmt.Sprintf("critic%d", i))
		r := &models.Review{UserID: u.ID, MovieID: movie.ID, Content: "worth it", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		s.Require().NoError(s.db.Create(r).Error)
	}

	first, err := reviews.ListByMovie(ctx, movie.ID, "", 3)
	s.Require().NoError(err)
	s.Require().Len(first, 3)
	s.True(first[0].CreatedAt.After(first[1].CreatedAt))

	rest, err := reviews.ListByMovie(ctx, movie.ID, first[2].ID, 3)
	s.Require().NoError(err)
	s.Len(rest, 2)
	s.True(rest[0].CreatedAt.Before(first[2].CreatedAt))
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}
