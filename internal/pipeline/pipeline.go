// Package pipeline drives a single in-flight draft batch from file
// selection through recognition and review to confirmation.
//
// The machine is split in two halves so all state mutation stays on the
// event loop: Run* methods perform the gateway call off-loop and produce
// an event; Apply* methods consume the event on-loop. Every event carries
// the session token it was started under, and events from a session that
// is no longer active are dropped rather than applied.
package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hwbook/internal/api"
	"hwbook/internal/models"
)

// State names the phases of the upload pipeline.
type State int

const (
	Idle State = iota
	FilesSelected
	Uploading
	Recognizing
	Previewing
	Editing
	Confirming
	Committed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FilesSelected:
		return "files-selected"
	case Uploading:
		return "uploading"
	case Recognizing:
		return "recognizing"
	case Previewing:
		return "previewing"
	case Editing:
		return "editing"
	case Confirming:
		return "confirming"
	case Committed:
		return "committed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Mode selects which gateway shape performs recognition.
type Mode int

const (
	// ModeCombined uploads and recognizes in one call.
	ModeCombined Mode = iota
	// ModeLegacy uploads first, then runs recognition as a second call.
	ModeLegacy
)

// ErrBusy means the pipeline already has an upload in flight; starting a
// second one into the same draft state is not a legal transition.
var ErrBusy = errors.New("pipeline busy")

// ErrNoItems is the validation failure for confirming with nothing left
// after blank items are discarded.
var ErrNoItems = errors.New("at least one homework item is required")

// ErrToggleInFlight means an image-type toggle is already waiting on the
// server; concurrent toggles on the same draft are dropped, not queued.
var ErrToggleInFlight = errors.New("image toggle in flight")

// Pipeline is the state machine for one draft batch. Not safe for
// concurrent use; it belongs to the event loop.
type Pipeline struct {
	gw   api.Gateway
	log  *zap.Logger
	mode Mode

	state   State
	session string
	errText string

	files          []api.File
	batch          *models.Batch
	images         []models.Image
	items          []models.DraftItem
	classification *models.Classification
	newSubjects    []models.Subject
	deadline       *time.Time

	toggleBusy bool
}

// New creates an idle pipeline.
func New(gw api.Gateway, mode Mode, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{gw: gw, log: log, mode: mode, state: Idle}
}

func (p *Pipeline) State() State                           { return p.state }
func (p *Pipeline) Err() string                            { return p.errText }
func (p *Pipeline) Batch() *models.Batch                   { return p.batch }
func (p *Pipeline) Images() []models.Image                 { return p.images }
func (p *Pipeline) Items() []models.DraftItem              { return p.items }
func (p *Pipeline) Classification() *models.Classification { return p.classification }
func (p *Pipeline) NewSubjects() []models.Subject          { return p.newSubjects }
func (p *Pipeline) Deadline() *time.Time                   { return p.deadline }

// Reset discards all local pipeline state and returns to Idle. A draft
// batch already created on the server stays there, orphaned; draft
// batches are excluded from every non-draft view.
func (p *Pipeline) Reset() {
	*p = Pipeline{gw: p.gw, log: p.log, mode: p.mode, state: Idle}
}

// imageFile reports whether name looks like an image upload.
func imageFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

// SelectFiles stages an upload. Non-image files are filtered out; an
// empty result is a no-op and the pipeline stays Idle. Selecting while an
// upload is already running returns ErrBusy.
func (p *Pipeline) SelectFiles(files []api.File) (bool, error) {
	if p.state != Idle {
		return false, ErrBusy
	}
	var images []api.File
	for _, f := range files {
		if imageFile(f.Name) {
			images = append(images, f)
		}
	}
	if len(images) == 0 {
		return false, nil
	}
	p.files = images
	p.session = uuid.NewString()
	p.state = FilesSelected
	return true, nil
}

// UploadEvent is the outcome of the upload+recognition phase.
type UploadEvent struct {
	Session string
	Result  *api.DraftUpload
	Err     error
}

// StartUpload moves the staged selection into Uploading and returns the
// work to run off-loop.
func (p *Pipeline) StartUpload() (func(context.Context) UploadEvent, error) {
	if p.state != FilesSelected {
		return nil, ErrBusy
	}
	p.state = Uploading
	session := p.session
	files := p.files
	p.log.Info("draft upload started",
		zap.String("session", session),
		zap.Int("files", len(files)))

	gw := p.gw
	if p.mode == ModeLegacy {
		return func(ctx context.Context) UploadEvent {
			res, err := gw.CreateDraft(ctx, files)
			return UploadEvent{Session: session, Result: res, Err: err}
		}, nil
	}
	return func(ctx context.Context) UploadEvent {
		res, err := gw.CreateDraftRecognized(ctx, files)
		return UploadEvent{Session: session, Result: res, Err: err}
	}, nil
}

// ApplyUpload consumes the upload outcome. Events from a stale session
// (the user reset or restarted in the meantime) are dropped so a late
// response cannot corrupt unrelated state.
//
// In combined mode the one call already recognized, so this lands in
// Previewing. Legacy mode lands in Recognizing and the caller follows up
// with StartParse.
func (p *Pipeline) ApplyUpload(ev UploadEvent) {
	if ev.Session != p.session || p.state != Uploading {
		p.log.Debug("dropping stale upload event", zap.String("session", ev.Session))
		return
	}
	if ev.Err != nil {
		p.fail(ev.Err)
		return
	}

	p.batch = &ev.Result.Batch
	p.images = ev.Result.Images

	if p.mode == ModeLegacy {
		p.state = Recognizing
		return
	}
	p.stageParsed(ev.Result.Parsed)
}

// ParseEvent is the outcome of the standalone recognition call in legacy
// mode.
type ParseEvent struct {
	Session string
	Parsed  *api.ParseResult
	Err     error
}

// StartParse runs recognition over an already-uploaded draft batch.
func (p *Pipeline) StartParse() (func(context.Context) ParseEvent, error) {
	if p.state != Recognizing {
		return nil, ErrBusy
	}
	session := p.session
	gw := p.gw
	batchID := p.batch.ID
	return func(ctx context.Context) ParseEvent {
		parsed, err := gw.ParseDraft(ctx, batchID)
		return ParseEvent{Session: session, Parsed: parsed, Err: err}
	}, nil
}

// ApplyParse consumes the recognition outcome.
func (p *Pipeline) ApplyParse(ev ParseEvent) {
	if ev.Session != p.session || p.state != Recognizing {
		return
	}
	if ev.Err != nil {
		p.fail(ev.Err)
		return
	}
	p.stageParsed(ev.Parsed)
}

// stageParsed moves the machine into Previewing with the recognition
// result staged for review. A non-success parse is an empty starting
// point for manual entry, not a pipeline failure.
func (p *Pipeline) stageParsed(parsed *api.ParseResult) {
	if parsed != nil && parsed.Success {
		p.newSubjects = parsed.NewSubjects
		p.classification = parsed.Classification
		p.items = make([]models.DraftItem, len(parsed.Items))
		for i, it := range parsed.Items {
			it.ClientID = uuid.NewString()
			p.items[i] = it
		}
	} else {
		p.items = nil
		p.classification = nil
	}
	p.state = Previewing
	p.log.Info("draft staged",
		zap.Int64("batch_id", p.batch.ID),
		zap.Int("items", len(p.items)))
}

// fail records the error and parks the machine in Failed. The caller
// resets back to Idle after surfacing the message.
func (p *Pipeline) fail(err error) {
	p.errText = api.UserMessage(err)
	p.state = Failed
	p.log.Warn("pipeline failed", zap.String("session", p.session), zap.Error(err))
}

func (p *Pipeline) editable() bool {
	return p.state == Previewing || p.state == Editing
}

// AddItem appends a blank draft item for manual entry and returns its
// correlation id.
func (p *Pipeline) AddItem(subjectID int64) string {
	if !p.editable() {
		return ""
	}
	p.state = Editing
	id := uuid.NewString()
	p.items = append(p.items, models.DraftItem{ClientID: id, SubjectID: subjectID})
	return id
}

// UpdateItem edits the draft item with the given correlation id.
func (p *Pipeline) UpdateItem(clientID string, subjectID int64, text, keyConcept string) {
	if !p.editable() {
		return
	}
	for i := range p.items {
		if p.items[i].ClientID == clientID {
			p.state = Editing
			p.items[i].SubjectID = subjectID
			p.items[i].Text = text
			p.items[i].KeyConcept = keyConcept
			return
		}
	}
}

// RemoveItem deletes the draft item with the given correlation id.
func (p *Pipeline) RemoveItem(clientID string) {
	if !p.editable() {
		return
	}
	for i := range p.items {
		if p.items[i].ClientID == clientID {
			p.state = Editing
			p.items = append(p.items[:i], p.items[i+1:]...)
			return
		}
	}
}

// SetDeadline stores the deadline submitted with confirmation.
func (p *Pipeline) SetDeadline(t *time.Time) {
	if !p.editable() {
		return
	}
	p.state = Editing
	p.deadline = t
}

// ToggleEvent is the outcome of one image-type toggle.
type ToggleEvent struct {
	Session string
	Index   int
	Image   *models.Image
	Err     error
}

// StartToggle flips one image between homework and reference. Local state
// is only updated after the gateway confirms, and a second toggle while
// one is in flight returns ErrToggleInFlight instead of racing it.
func (p *Pipeline) StartToggle(index int) (func(context.Context) ToggleEvent, error) {
	if !p.editable() {
		return nil, ErrBusy
	}
	if p.toggleBusy {
		return nil, ErrToggleInFlight
	}
	if index < 0 || index >= len(p.images) {
		return nil, errors.New("image index out of range")
	}

	p.toggleBusy = true
	session := p.session
	gw := p.gw
	batchID := p.batch.ID
	img := p.images[index]
	newType := img.ImageType.Toggled()

	return func(ctx context.Context) ToggleEvent {
		updated, err := gw.UpdateImageType(ctx, batchID, img.ID, newType)
		return ToggleEvent{Session: session, Index: index, Image: updated, Err: err}
	}, nil
}

// ApplyToggle consumes a toggle outcome, keeping the classification's two
// index sets consistent with the image's new type.
func (p *Pipeline) ApplyToggle(ev ToggleEvent) error {
	if ev.Session != p.session {
		return nil
	}
	p.toggleBusy = false
	if ev.Err != nil {
		return ev.Err
	}
	if ev.Index < 0 || ev.Index >= len(p.images) {
		return nil
	}
	p.images[ev.Index].ImageType = ev.Image.ImageType
	if p.classification != nil {
		p.classification.Assign(ev.Index, ev.Image.ImageType)
	}
	return nil
}

// DeleteImageEvent is the outcome of removing one draft image.
type DeleteImageEvent struct {
	Session string
	Index   int
	Err     error
}

// StartDeleteImage removes one image from the draft batch.
func (p *Pipeline) StartDeleteImage(index int) (func(context.Context) DeleteImageEvent, error) {
	if !p.editable() {
		return nil, ErrBusy
	}
	if index < 0 || index >= len(p.images) {
		return nil, errors.New("image index out of range")
	}
	session := p.session
	gw := p.gw
	batchID := p.batch.ID
	imageID := p.images[index].ID
	return func(ctx context.Context) DeleteImageEvent {
		err := gw.DeleteImage(ctx, batchID, imageID)
		return DeleteImageEvent{Session: session, Index: index, Err: err}
	}, nil
}

// ApplyDeleteImage consumes a delete outcome.
func (p *Pipeline) ApplyDeleteImage(ev DeleteImageEvent) error {
	if ev.Session != p.session {
		return nil
	}
	if ev.Err != nil {
		return ev.Err
	}
	if ev.Index < 0 || ev.Index >= len(p.images) {
		return nil
	}
	p.images = append(p.images[:ev.Index], p.images[ev.Index+1:]...)
	return nil
}

// ConfirmEvent is the outcome of the confirmation call.
type ConfirmEvent struct {
	Session string
	Batch   *models.Batch
	Err     error
}

// StartConfirm collects the edited items, discards blank ones, and sends
// the confirm call. With no items left it returns ErrNoItems before any
// network traffic and the pipeline stays editable.
func (p *Pipeline) StartConfirm() (func(context.Context) ConfirmEvent, error) {
	if !p.editable() {
		return nil, ErrBusy
	}

	var items []models.DraftItem
	for _, it := range p.items {
		it.Text = strings.TrimSpace(it.Text)
		if it.Text == "" {
			continue
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		p.state = Editing
		return nil, ErrNoItems
	}

	p.state = Confirming
	session := p.session
	gw := p.gw
	batchID := p.batch.ID
	cls := p.classification
	deadline := p.deadline
	p.log.Info("confirming batch",
		zap.Int64("batch_id", batchID),
		zap.Int("items", len(items)))

	return func(ctx context.Context) ConfirmEvent {
		b, err := gw.ConfirmBatch(ctx, batchID, items, cls, deadline)
		return ConfirmEvent{Session: session, Batch: b, Err: err}
	}, nil
}

// ApplyConfirm consumes the confirmation outcome. On success the batch is
// active and the registry view owns the refresh; the pipeline only parks
// in Committed.
func (p *Pipeline) ApplyConfirm(ev ConfirmEvent) {
	if ev.Session != p.session || p.state != Confirming {
		return
	}
	if ev.Err != nil {
		p.fail(ev.Err)
		return
	}
	p.batch = ev.Batch
	p.state = Committed
	p.log.Info("batch committed", zap.Int64("batch_id", ev.Batch.ID))
}

// Abandon deletes the in-flight draft batch from the server, best effort,
// and resets to Idle. Used when the user backs out of the editor.
func (p *Pipeline) Abandon(ctx context.Context) {
	if p.batch != nil && p.batch.Status == models.BatchDraft {
		if err := p.gw.DeleteDraftBatch(ctx, p.batch.ID); err != nil {
			p.log.Warn("draft cleanup failed", zap.Int64("batch_id", p.batch.ID), zap.Error(err))
		}
	}
	p.Reset()
}
