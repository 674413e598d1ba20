// Package registry pages the batch list for the grid view, growing it
// with infinite scroll instead of discrete pages.
package registry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hwbook/internal/api"
	"hwbook/internal/models"
)

// Size buckets the terminal width the way the grid lays out cards.
type Size int

const (
	SizeSmall Size = iota
	SizeMedium
	SizeLarge
)

// SizeFor buckets a terminal width in cells.
func SizeFor(width int) Size {
	switch {
	case width < 80:
		return SizeSmall
	case width < 120:
		return SizeMedium
	default:
		return SizeLarge
	}
}

// policy is the page tuning per layout size: column count for the grid,
// item counts for the first page and each scroll increment.
type policy struct {
	columns int
	initial int
	scroll  int
}

var policies = map[Size]policy{
	SizeSmall:  {columns: 2, initial: 3, scroll: 2},
	SizeMedium: {columns: 3, initial: 5, scroll: 3},
	SizeLarge:  {columns: 4, initial: 7, scroll: 4},
}

// Columns reports the card columns for a layout size.
func (s Size) Columns() int { return policies[s].columns }

func (s Size) initialCount() int { return policies[s].initial }
func (s Size) scrollCount() int  { return policies[s].scroll }

// nearBottomRows is how close to the end of the scrolled grid the cursor
// must be before the next page is requested.
const nearBottomRows = 4

// debounceInterval spaces out scroll-triggered requests so one flick of
// the wheel does not queue several.
const debounceInterval = 100 * time.Millisecond

// Controller accumulates pages of batches. Single-threaded like the
// pipeline: Start* runs off-loop, Apply lands on-loop.
type Controller struct {
	gw  api.Gateway
	log *zap.Logger

	size   Size
	filter models.BatchStatus

	batches []models.Batch
	loading bool
	hasMore bool
	loaded  bool
	errText string

	generation int
	lastMore   time.Time
	now        func() time.Time
}

// New creates a controller for the given layout size.
func New(gw api.Gateway, size Size, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{gw: gw, log: log, size: size, hasMore: true, now: time.Now}
}

func (c *Controller) Batches() []models.Batch { return c.batches }
func (c *Controller) Loading() bool           { return c.loading }
func (c *Controller) HasMore() bool           { return c.hasMore }
func (c *Controller) Loaded() bool            { return c.loaded }
func (c *Controller) Err() string             { return c.errText }
func (c *Controller) Size() Size              { return c.size }

// SetSize switches the layout bucket. Batches already accumulated stay;
// only future page sizes change.
func (c *Controller) SetSize(size Size) { c.size = size }

// Filter returns the active status filter, empty for all.
func (c *Controller) Filter() models.BatchStatus { return c.filter }

// SetFilter changes the status filter. Filtering is local to what has
// been accumulated; it does not refetch.
func (c *Controller) SetFilter(status models.BatchStatus) { c.filter = status }

// Visible returns the accumulated batches that pass the filter.
func (c *Controller) Visible() []models.Batch {
	if c.filter == "" {
		return c.batches
	}
	out := make([]models.Batch, 0, len(c.batches))
	for _, b := range c.batches {
		if b.Status == c.filter {
			out = append(out, b)
		}
	}
	return out
}

// PageEvent is the outcome of one page fetch.
type PageEvent struct {
	Generation int
	Reset      bool
	Requested  int
	Batches    []models.Batch
	Err        error
}

// StartInitial begins a fresh load, discarding prior accumulation when
// the event lands. Bumping the generation makes any in-flight page from
// the previous load stale.
func (c *Controller) StartInitial() func(context.Context) PageEvent {
	c.generation++
	c.loading = true
	c.errText = ""

	gen := c.generation
	limit := c.size.initialCount()
	gw := c.gw
	return func(ctx context.Context) PageEvent {
		batches, err := gw.ListBatches(ctx, limit, 0)
		return PageEvent{Generation: gen, Reset: true, Requested: limit, Batches: batches, Err: err}
	}
}

// StartMore requests the next page. It returns nil when a load is
// already running, everything is loaded, or the last request was too
// recent; callers treat nil as "nothing to do".
func (c *Controller) StartMore() func(context.Context) PageEvent {
	if c.loading || !c.hasMore || !c.loaded {
		return nil
	}
	now := c.now()
	if now.Sub(c.lastMore) < debounceInterval {
		return nil
	}
	c.lastMore = now
	c.loading = true

	gen := c.generation
	limit := c.size.scrollCount()
	offset := len(c.batches)
	gw := c.gw
	return func(ctx context.Context) PageEvent {
		batches, err := gw.ListBatches(ctx, limit, offset)
		return PageEvent{Generation: gen, Requested: limit, Batches: batches, Err: err}
	}
}

// Apply lands a page, reporting false when the event was stale and
// dropped. A short page means the end was reached; a full page may or
// may not be the end, so one more request is allowed.
func (c *Controller) Apply(ev PageEvent) bool {
	if ev.Generation != c.generation {
		c.log.Debug("dropping stale page", zap.Int("generation", ev.Generation))
		return false
	}
	c.loading = false
	if ev.Err != nil {
		c.errText = api.UserMessage(ev.Err)
		return true
	}
	c.errText = ""
	if ev.Reset {
		c.batches = nil
		c.loaded = true
	}
	c.batches = append(c.batches, ev.Batches...)
	c.hasMore = len(ev.Batches) >= ev.Requested
	return true
}

// NearBottom reports whether the cursor row is close enough to the last
// grid row to prefetch the next page.
func (c *Controller) NearBottom(cursorRow, totalRows int) bool {
	return totalRows-cursorRow <= nearBottomRows
}
