package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwbook/internal/api"
	"hwbook/internal/db"
	"hwbook/internal/models"
	"hwbook/internal/pipeline"
)

type subjectGateway struct {
	api.Gateway
	subjects []models.Subject
	err      error
	calls    int
}

func (g *subjectGateway) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	g.calls++
	return g.subjects, g.err
}

func openStore(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "hwbook.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSubjectsRemote(t *testing.T) {
	gw := &subjectGateway{subjects: []models.Subject{{ID: 1, Name: "Math", Color: "#60A5FA"}}}
	store := openStore(t)
	app := New(gw, store, pipeline.ModeCombined, nil)

	got := app.Subjects(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "Math", got[0].Name)

	// loaded once, then served from memory
	app.Subjects(context.Background())
	assert.Equal(t, 1, gw.calls)

	// and persisted for the next offline start
	cached, err := store.CachedSubjects()
	require.NoError(t, err)
	assert.Equal(t, got, cached)
}

func TestSubjectsFallsBackToCache(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.CacheSubjects([]models.Subject{{ID: 2, Name: "English", Color: "#4ADE80"}}))

	gw := &subjectGateway{err: errors.New("network down")}
	app := New(gw, store, pipeline.ModeCombined, nil)

	got := app.Subjects(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "English", got[0].Name)
}

func TestSubjectsFallsBackToDefaults(t *testing.T) {
	gw := &subjectGateway{err: errors.New("network down")}
	app := New(gw, nil, pipeline.ModeCombined, nil)

	got := app.Subjects(context.Background())
	assert.Equal(t, models.DefaultSubjects(), got)
}

func TestMergeSubjects(t *testing.T) {
	gw := &subjectGateway{subjects: models.DefaultSubjects()}
	app := New(gw, nil, pipeline.ModeCombined, nil)
	before := app.Subjects(context.Background())

	app.MergeSubjects([]models.Subject{
		before[0], // already known, must not duplicate
		{ID: 99, Name: "Science", Color: "#A78BFA"},
	})

	after := app.Subjects(context.Background())
	assert.Len(t, after, len(before)+1)
	assert.Equal(t, "Science", app.SubjectByID(99).Name)
}

func TestSubjectByIDUnknown(t *testing.T) {
	app := New(&subjectGateway{}, nil, pipeline.ModeCombined, nil)
	s := app.SubjectByID(42)
	assert.Equal(t, "Other", s.Name)
	assert.Equal(t, int64(42), s.ID)
}

func TestPipelineSlot(t *testing.T) {
	app := New(&subjectGateway{}, nil, pipeline.ModeCombined, nil)
	p := app.Pipeline()
	require.NotNil(t, p)
	assert.Same(t, p, app.Pipeline(), "single slot, reused across flows")
}
