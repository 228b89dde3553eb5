package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testMigrationFS() fstest.MapFS {
	return fstest.MapFS{
		"m/000001_widgets.up.sql":      {Data: []byte("CREATE TABLE widgets (id TEXT PRIMARY KEY);")},
		"m/000001_widgets.down.sql":    {Data: []byte("DROP TABLE widgets;")},
		"m/000002_gadgets.up.sql":      {Data: []byte("CREATE TABLE gadgets (id TEXT PRIMARY KEY);")},
		"m/000002_gadgets.down.sql":    {Data: []byte("DROP TABLE gadgets;")},
		"m/README.md":                  {Data: []byte("ignored")},
		"m/notaversion_thing.up.sql":   {Data: []byte("SELECT 1;")},
		"m/notaversion_thing.down.sql": {Data: []byte("SELECT 1;")},
	}
}

func newMigrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestLoadMigrations(t *testing.T) {
	ms, err := LoadMigrations(testMigrationFS(), "m")
	require.NoError(t, err)
	require.Len(t, ms, 2)
	assert.Equal(t, 1, ms[0].Version)
	assert.Equal(t, "widgets", ms[0].Name)
	assert.Equal(t, "000002_gadgets", ms[1].String())

	missingDown := fstest.MapFS{"m/000003_x.up.sql": {Data: []byte("SELECT 1;")}}
	_, err = LoadMigrations(missingDown, "m")
	assert.Error(t, err)
}

func TestEmbeddedMigrationsRegistered(t *testing.T) {
	ms := GetMigrations()
	require.NotEmpty(t, ms)
	assert.Equal(t, "feed_schema", ms[0].Name)
	assert.Contains(t, ms[0].UpScript, "PRIMARY KEY (post_id, user_id)")
	assert.Contains(t, ms[0].DownScript, "DROP TABLE IF EXISTS posts")

	require.Len(t, ms, 2)
	assert.Equal(t, "engagement_seq", ms[1].Name)
	assert.Contains(t, ms[1].UpScript, "idx_joins_post_user")
}

func TestRunner_UpDownStatus(t *testing.T) {
	db := newMigrationDB(t)
	ms, err := LoadMigrations(testMigrationFS(), "m")
	require.NoError(t, err)
	r := NewRunner(db, ms)
	ctx := context.Background()

	applied, pending, err := r.Status(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
	assert.Len(t, pending, 2)

	done, err := r.Up(ctx)
	require.NoError(t, err)
	assert.Len(t, done, 2)
	assert.True(t, db.Migrator().HasTable("gadgets"))

	done, err = r.Up(ctx)
	require.NoError(t, err)
	assert.Empty(t, done, "up is idempotent")

	reverted, err := r.Down(ctx)
	require.NoError(t, err)
	require.NotNil(t, reverted)
	assert.Equal(t, 2, reverted.Version)
	assert.False(t, db.Migrator().HasTable("gadgets"))
	assert.True(t, db.Migrator().HasTable("widgets"))

	applied, pending, err = r.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Version)

	assert.Error(t, r.Rollback(ctx, 2), "not applied")
	assert.Error(t, r.Rollback(ctx, 99), "unknown")
}

func TestRunner_RejectsUnknownAppliedVersions(t *testing.T) {
	db := newMigrationDB(t)
	ms, err := LoadMigrations(testMigrationFS(), "m")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = NewRunner(db, ms).Up(ctx)
	require.NoError(t, err)

	_, err = NewRunner(db, ms[:1]).Up(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000002")
}

func TestRunner_FailedMigrationIsNotRecorded(t *testing.T) {
	db := newMigrationDB(t)
	r := NewRunner(db, []Migration{{Version: 1, Name: "broken", UpScript: "CREATE TABLE (", DownScript: ""}})
	ctx := context.Background()

	_, err := r.Up(ctx)
	require.Error(t, err)

	applied, _, err := r.Status(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}
