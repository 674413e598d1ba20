package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwbook/internal/models"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "hwbook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSettings(t *testing.T) {
	database := openTestDB(t)

	v, err := database.GetSetting("last_batch_id")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, database.SetSetting("last_batch_id", "42"))
	require.NoError(t, database.SetSetting("last_batch_id", "43"))

	v, err = database.GetSetting("last_batch_id")
	require.NoError(t, err)
	assert.Equal(t, "43", v)
}

func TestSubjectCacheRoundTrip(t *testing.T) {
	database := openTestDB(t)

	subjects, err := database.CachedSubjects()
	require.NoError(t, err)
	assert.Empty(t, subjects)

	first := []models.Subject{
		{ID: 2, Name: "Math", Color: "#60A5FA", SortOrder: 1},
		{ID: 1, Name: "Chinese", Color: "#FB7185", SortOrder: 0},
	}
	require.NoError(t, database.CacheSubjects(first))

	subjects, err = database.CachedSubjects()
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	// returned in sort order
	assert.Equal(t, "Chinese", subjects[0].Name)

	// a refresh replaces, never appends
	require.NoError(t, database.CacheSubjects([]models.Subject{{ID: 9, Name: "Art", Color: "#000"}}))
	subjects, err = database.CachedSubjects()
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "Art", subjects[0].Name)
}
