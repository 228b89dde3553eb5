// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"testing"
	"time"

	"pawfeed/internal/database"
	"pawfeed/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens an isolated in-memory database with the feed schema
// migrated. The pool is pinned to one connection so every query sees the
// same in-memory database; never use the returned handle inside a
// transaction callback.
func NewSQLiteDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// CommunityPost returns an unsaved community post with a fresh id.
func CommunityPost(authorID, description string) *models.Post {
	return &models.Post{
		ID:          uuid.NewString(),
		Variant:     models.VariantCommunity,
		AuthorID:    authorID,
		Description: description,
		Edits:       models.EditHistory{},
	}
}

// PlaydatePost returns an unsaved playdate post with every required field set.
func PlaydatePost(authorID, title string) *models.Post {
	when := time.Now().UTC().Add(48 * time.Hour).Truncate(time.Second)
	return &models.Post{
		ID:          uuid.NewString(),
		Variant:     models.VariantPlaydate,
		AuthorID:    authorID,
		Title:       title,
		Description: "Meet at the big oak",
		DogBreed:    "Beagle",
		Address:     "1 Park Ave",
		City:        "Portland",
		State:       "OR",
		Zip:         "97201",
		WhenAt:      &when,
		Place:       "Laurelhurst Park",
		Edits:       models.EditHistory{},
	}
}

// MustCreate inserts rows directly, bypassing services.
func MustCreate(t testing.TB, db *gorm.DB, rows ...interface{}) {
	t.Helper()
	for _, row := range rows {
		require.NoError(t, db.Create(row).Error)
	}
}
