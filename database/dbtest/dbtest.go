package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"moviehub/database"
	"moviehub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB creates a migrated in-memory SQLite database for tests.
// A single connection keeps every goroutine on the same in-memory database
// and serialises transactions the way row locks do on Postgres.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(context.Background(), db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// SeedMovie inserts a movie with the given TMDB id and popularity.
func SeedMovie(t *testing.T, db *gorm.DB, tmdbID int64, popularity float64) *models.Movie {
	t.Helper()

	movie := &models.Movie{
		TMDBID:     tmdbID,
		Title:      fmt.Sprintf("Movie %d", tmdbID),
		Popularity: popularity,
	}
	require.NoError(t, db.Create(movie).Error)
	return movie
}

// SeedUser inserts a user with the default role. The password hash is not a
// valid bcrypt hash; use the auth service when a login is needed.
func SeedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	var role models.Role
	require.NoError(t, db.Where("name = ?", models.DefaultRole).First(&role).Error)

	user := &models.User{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "not-a-hash",
		RoleID:   role.ID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
