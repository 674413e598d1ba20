// Package today drives the detail view of one batch: its item checklist,
// image viewer, and completion flow. The same controller backs both the
// "today" shortcut (current batch) and a batch opened from the registry.
package today

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hwbook/internal/api"
	"hwbook/internal/models"
)

// Controller loads and mutates one batch. Single-threaded: Start* runs
// off-loop, Apply* lands on-loop.
type Controller struct {
	gw  api.Gateway
	log *zap.Logger

	generation int
	loading    bool
	loaded     bool
	errText    string

	batch  *models.Batch
	items  []models.Item
	images []models.Image
	filter models.ItemStatus

	askComplete bool
	viewer      int
}

// New creates an empty controller.
func New(gw api.Gateway, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{gw: gw, log: log, viewer: -1}
}

func (c *Controller) Batch() *models.Batch   { return c.batch }
func (c *Controller) Items() []models.Item   { return c.items }
func (c *Controller) Images() []models.Image { return c.images }
func (c *Controller) Loading() bool          { return c.loading }
func (c *Controller) Loaded() bool           { return c.loaded }
func (c *Controller) Err() string            { return c.errText }

// LoadEvent is the outcome of one full batch load.
type LoadEvent struct {
	Generation int
	Batch      *models.Batch
	Items      []models.Item
	Images     []models.Image
	Err        error
}

// StartLoad fetches the batch, its items, and its images together. The
// three requests run in parallel and the load is all-or-nothing: one
// failure fails the whole event. batchID zero loads the current batch,
// the most urgent active one.
func (c *Controller) StartLoad(batchID int64) func(context.Context) LoadEvent {
	c.generation++
	c.loading = true
	c.errText = ""

	gen := c.generation
	gw := c.gw
	return func(ctx context.Context) LoadEvent {
		var (
			batch  *models.Batch
			err    error
			items  []models.Item
			images []models.Image
		)
		if batchID == 0 {
			batch, err = gw.CurrentBatch(ctx)
		} else {
			batch, err = gw.GetBatch(ctx, batchID)
		}
		if err != nil {
			return LoadEvent{Generation: gen, Err: err}
		}
		if batch == nil {
			return LoadEvent{Generation: gen}
		}

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var ierr error
			items, ierr = gw.ListBatchItems(ctx, batch.ID)
			return ierr
		})
		g.Go(func() error {
			var ierr error
			images, ierr = gw.ListBatchImages(ctx, batch.ID)
			return ierr
		})
		if err := g.Wait(); err != nil {
			return LoadEvent{Generation: gen, Err: err}
		}
		return LoadEvent{Generation: gen, Batch: batch, Items: items, Images: images}
	}
}

// Apply lands a load, reporting false when the event was stale and
// dropped, so a slow load for a batch the user already navigated away
// from cannot clobber the current one.
func (c *Controller) Apply(ev LoadEvent) bool {
	if ev.Generation != c.generation {
		return false
	}
	c.loading = false
	if ev.Err != nil {
		c.errText = api.UserMessage(ev.Err)
		return true
	}
	c.errText = ""
	c.loaded = true
	c.batch = ev.Batch
	c.items = ev.Items
	c.images = ev.Images
	c.askComplete = false
	c.viewer = -1
	return true
}

// Empty reports that the load finished and found no batch to show.
func (c *Controller) Empty() bool { return c.loaded && c.batch == nil }

// Todo returns the items still to be worked, in stored order.
func (c *Controller) Todo() []models.Item {
	var out []models.Item
	for _, it := range c.items {
		if it.Status != models.ItemDone {
			out = append(out, it)
		}
	}
	return out
}

// Done returns the finished items.
func (c *Controller) Done() []models.Item {
	var out []models.Item
	for _, it := range c.items {
		if it.Status == models.ItemDone {
			out = append(out, it)
		}
	}
	return out
}

// AllDone reports that every item in a non-empty batch is finished; the
// view renders the celebratory state for it.
func (c *Controller) AllDone() bool {
	return c.batch != nil && len(c.items) > 0 && len(c.Todo()) == 0
}

// ItemFilter returns the active checklist filter, empty for all.
func (c *Controller) ItemFilter() models.ItemStatus { return c.filter }

// SetItemFilter narrows the checklist to one status. Filtering is local;
// it does not refetch.
func (c *Controller) SetItemFilter(status models.ItemStatus) { c.filter = status }

// Visible returns the checklist in display order: unfinished items
// first, finished last, or only the filtered status when a filter is
// set.
func (c *Controller) Visible() []models.Item {
	if c.filter == "" {
		return append(c.Todo(), c.Done()...)
	}
	var out []models.Item
	for _, it := range c.items {
		if it.Status == c.filter {
			out = append(out, it)
		}
	}
	return out
}

// StatusEvent is the outcome of advancing one item.
type StatusEvent struct {
	Generation int
	ItemID     int64
	Result     *api.ItemStatusResult
	Err        error
}

// StartAdvance moves an item one step forward: start it or finish it.
// Items only move forward; a finished item has no transition and returns
// nil.
func (c *Controller) StartAdvance(itemID int64) func(context.Context) StatusEvent {
	var next models.ItemStatus
	found := false
	for _, it := range c.items {
		if it.ID == itemID {
			if it.Status == models.ItemDone {
				return nil
			}
			next = it.Status.Next()
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	gen := c.generation
	gw := c.gw
	return func(ctx context.Context) StatusEvent {
		res, err := gw.UpdateItemStatus(ctx, itemID, next)
		return StatusEvent{Generation: gen, ItemID: itemID, Result: res, Err: err}
	}
}

// ApplyStatus lands an item advance. When the server reports the batch
// ready to complete, the completion prompt is raised instead of
// completing silently.
func (c *Controller) ApplyStatus(ev StatusEvent) error {
	if ev.Generation != c.generation {
		return nil
	}
	if ev.Err != nil {
		return ev.Err
	}
	for i := range c.items {
		if c.items[i].ID == ev.ItemID {
			c.items[i] = ev.Result.Item
			break
		}
	}
	if ev.Result.ReadyToComplete {
		c.askComplete = true
	}
	return nil
}

// CompletePrompt reports whether the batch-completion confirmation is
// showing.
func (c *Controller) CompletePrompt() bool { return c.askComplete }

// DeclineComplete dismisses the prompt. The caller reloads afterwards so
// the view reflects the server's idea of the batch.
func (c *Controller) DeclineComplete() { c.askComplete = false }

// CompleteEvent is the outcome of marking the batch complete.
type CompleteEvent struct {
	Generation int
	Err        error
}

// StartComplete accepts the prompt and marks the batch complete.
func (c *Controller) StartComplete() func(context.Context) CompleteEvent {
	if c.batch == nil {
		return nil
	}
	c.askComplete = false
	gen := c.generation
	gw := c.gw
	batchID := c.batch.ID
	return func(ctx context.Context) CompleteEvent {
		return CompleteEvent{Generation: gen, Err: gw.MarkBatchComplete(ctx, batchID)}
	}
}

// ApplyComplete lands the completion. The caller reloads on success.
func (c *Controller) ApplyComplete(ev CompleteEvent) error {
	if ev.Generation != c.generation {
		return nil
	}
	return ev.Err
}

// UpdateEvent is the outcome of rewriting the batch's deadline.
type UpdateEvent struct {
	Generation int
	Batch      *models.Batch
	Err        error
}

// draftItems rebuilds the current item list in the shape UpdateBatch
// takes. The server reconciles by id, so every current item must ride
// along on any batch rewrite to keep it from being dropped.
func (c *Controller) draftItems() []models.DraftItem {
	items := make([]models.DraftItem, len(c.items))
	for i, it := range c.items {
		items[i] = models.DraftItem{
			ID:            it.ID,
			SubjectID:     it.Subject.ID,
			Text:          it.Text,
			KeyConcept:    it.KeyConcept,
			SourceImageID: it.SourceImageID,
		}
	}
	return items
}

func (c *Controller) startUpdate(items []models.DraftItem, deadline *time.Time) func(context.Context) UpdateEvent {
	gen := c.generation
	gw := c.gw
	batchID := c.batch.ID
	return func(ctx context.Context) UpdateEvent {
		b, err := gw.UpdateBatch(ctx, batchID, items, deadline)
		return UpdateEvent{Generation: gen, Batch: b, Err: err}
	}
}

// StartDeadline rewrites the batch's deadline, items unchanged.
func (c *Controller) StartDeadline(deadline *time.Time) func(context.Context) UpdateEvent {
	if c.batch == nil {
		return nil
	}
	return c.startUpdate(c.draftItems(), deadline)
}

// StartEditItem rewrites one item's text and key concept on a committed
// batch, keeping the rest of the batch as it is.
func (c *Controller) StartEditItem(itemID int64, text, keyConcept string) func(context.Context) UpdateEvent {
	if c.batch == nil {
		return nil
	}
	items := c.draftItems()
	found := false
	for i := range items {
		if items[i].ID == itemID {
			items[i].Text = text
			items[i].KeyConcept = keyConcept
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	return c.startUpdate(items, c.batch.DeadlineAt)
}

// StartAddItem appends a new item to a committed batch. The server
// creates items sent without an id.
func (c *Controller) StartAddItem(subjectID int64, text, keyConcept string) func(context.Context) UpdateEvent {
	if c.batch == nil {
		return nil
	}
	items := append(c.draftItems(), models.DraftItem{SubjectID: subjectID, Text: text, KeyConcept: keyConcept})
	return c.startUpdate(items, c.batch.DeadlineAt)
}

// ApplyUpdate lands a batch rewrite.
func (c *Controller) ApplyUpdate(ev UpdateEvent) error {
	if ev.Generation != c.generation {
		return nil
	}
	if ev.Err != nil {
		return ev.Err
	}
	c.batch = ev.Batch
	return nil
}

// DeleteEvent is the outcome of removing one item.
type DeleteEvent struct {
	Generation int
	ItemID     int64
	Err        error
}

// StartDelete removes one item from the batch.
func (c *Controller) StartDelete(itemID int64) func(context.Context) DeleteEvent {
	gen := c.generation
	gw := c.gw
	return func(ctx context.Context) DeleteEvent {
		return DeleteEvent{Generation: gen, ItemID: itemID, Err: gw.DeleteItem(ctx, itemID)}
	}
}

// ApplyDelete lands an item removal.
func (c *Controller) ApplyDelete(ev DeleteEvent) error {
	if ev.Generation != c.generation {
		return nil
	}
	if ev.Err != nil {
		return ev.Err
	}
	for i := range c.items {
		if c.items[i].ID == ev.ItemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return nil
}

// Viewer navigation walks the display order, homework pages first, then
// reference pages, wrapping at both ends.

// DisplayImages returns the images in viewer order.
func (c *Controller) DisplayImages() []models.Image {
	return models.DisplayImages(c.images)
}

// OpenViewer opens the image viewer at the given display index.
func (c *Controller) OpenViewer(index int) {
	if index < 0 || index >= len(c.images) {
		return
	}
	c.viewer = index
}

// CloseViewer closes the image viewer.
func (c *Controller) CloseViewer() { c.viewer = -1 }

// ViewerOpen reports whether the viewer is showing.
func (c *Controller) ViewerOpen() bool { return c.viewer >= 0 }

// ViewerImage returns the image under the viewer.
func (c *Controller) ViewerImage() (models.Image, bool) {
	imgs := c.DisplayImages()
	if c.viewer < 0 || c.viewer >= len(imgs) {
		return models.Image{}, false
	}
	return imgs[c.viewer], true
}

// ViewerNext advances the viewer, wrapping past the last image.
func (c *Controller) ViewerNext() {
	if n := len(c.images); c.viewer >= 0 && n > 0 {
		c.viewer = (c.viewer + 1) % n
	}
}

// ViewerPrev steps the viewer back, wrapping before the first image.
func (c *Controller) ViewerPrev() {
	if n := len(c.images); c.viewer >= 0 && n > 0 {
		c.viewer = (c.viewer - 1 + n) % n
	}
}
