// Package state holds the application-wide session shared by every view:
// the subject cache and the single active upload pipeline.
package state

import (
	"context"

	"go.uber.org/zap"

	"hwbook/internal/api"
	"hwbook/internal/db"
	"hwbook/internal/models"
	"hwbook/internal/pipeline"
)

// App is the shared session. Like the pipeline it belongs to the event
// loop and is not safe for concurrent use.
type App struct {
	gw    api.Gateway
	store *db.DB
	log   *zap.Logger

	subjects []models.Subject
	loaded   bool

	pipe *pipeline.Pipeline
	mode pipeline.Mode
}

// New creates a session. store may be nil when the local cache is
// unavailable; the subject fallback chain then skips it.
func New(gw api.Gateway, store *db.DB, mode pipeline.Mode, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{gw: gw, store: store, log: log, mode: mode}
}

// Subjects returns the subject list, loading it on first use. The chain
// is remote, then the local cache, then the built-in defaults; it never
// fails, because every view needs subjects to render at all.
func (a *App) Subjects(ctx context.Context) []models.Subject {
	if a.loaded {
		return a.subjects
	}

	subjects, err := a.gw.ListSubjects(ctx)
	if err == nil && len(subjects) > 0 {
		a.subjects = subjects
		a.loaded = true
		if a.store != nil {
			if cerr := a.store.CacheSubjects(subjects); cerr != nil {
				a.log.Warn("subject cache write failed", zap.Error(cerr))
			}
		}
		return a.subjects
	}
	a.log.Warn("subject fetch failed, falling back", zap.Error(err))

	if a.store != nil {
		cached, cerr := a.store.CachedSubjects()
		if cerr == nil && len(cached) > 0 {
			a.subjects = cached
			a.loaded = true
			return a.subjects
		}
	}

	a.subjects = models.DefaultSubjects()
	a.loaded = true
	return a.subjects
}

// SubjectByID resolves one subject, with a stable placeholder for ids
// the cache does not know.
func (a *App) SubjectByID(id int64) models.Subject {
	for _, s := range a.subjects {
		if s.ID == id {
			return s
		}
	}
	return models.Subject{ID: id, Name: "Other", Color: "#9CA3AF"}
}

// MergeSubjects folds subjects discovered during recognition into the
// cache, by id. Already known subjects are left alone.
func (a *App) MergeSubjects(found []models.Subject) {
	for _, s := range found {
		known := false
		for _, have := range a.subjects {
			if have.ID == s.ID {
				known = true
				break
			}
		}
		if !known {
			a.subjects = append(a.subjects, s)
		}
	}
	if a.store != nil && len(found) > 0 {
		if err := a.store.CacheSubjects(a.subjects); err != nil {
			a.log.Warn("subject cache write failed", zap.Error(err))
		}
	}
}

// InvalidateSubjects forces a refetch on the next Subjects call.
func (a *App) InvalidateSubjects() { a.loaded = false }

// Pipeline returns the active upload pipeline, creating an idle one on
// first use. There is only ever one; a second upload flow reuses the
// slot after Reset.
func (a *App) Pipeline() *pipeline.Pipeline {
	if a.pipe == nil {
		a.pipe = pipeline.New(a.gw, a.mode, a.log)
	}
	return a.pipe
}

// Gateway exposes the API client to the views.
func (a *App) Gateway() api.Gateway { return a.gw }

// Logger exposes the shared logger to the views.
func (a *App) Logger() *zap.Logger { return a.log }
