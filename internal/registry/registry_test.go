package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwbook/internal/api"
	"hwbook/internal/models"
)

// pagingGateway serves batches out of a fixed backing slice, honoring
// limit and offset, and records every request it sees.
type pagingGateway struct {
	api.Gateway
	all      []models.Batch
	err      error
	requests [][2]int
}

func (g *pagingGateway) ListBatches(ctx context.Context, limit, offset int) ([]models.Batch, error) {
	g.requests = append(g.requests, [2]int{limit, offset})
	if g.err != nil {
		return nil, g.err
	}
	if offset >= len(g.all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(g.all) {
		end = len(g.all)
	}
	return g.all[offset:end], nil
}

func makeBatches(n int) []models.Batch {
	out := make([]models.Batch, n)
	for i := range out {
		out[i] = models.Batch{ID: int64(i + 1), Status: models.BatchActive}
	}
	return out
}

// load drives one controller call to completion synchronously.
func load(c *Controller, run func(context.Context) PageEvent) {
	c.Apply(run(context.Background()))
}

func TestSizeFor(t *testing.T) {
	assert.Equal(t, SizeSmall, SizeFor(60))
	assert.Equal(t, SizeMedium, SizeFor(80))
	assert.Equal(t, SizeLarge, SizeFor(140))
	assert.Equal(t, 2, SizeSmall.Columns())
	assert.Equal(t, 3, SizeMedium.Columns())
	assert.Equal(t, 4, SizeLarge.Columns())
}

func TestPagePolicyCounts(t *testing.T) {
	assert.Equal(t, 3, SizeSmall.initialCount())
	assert.Equal(t, 5, SizeMedium.initialCount())
	assert.Equal(t, 7, SizeLarge.initialCount())
	assert.Equal(t, 2, SizeSmall.scrollCount())
	assert.Equal(t, 3, SizeMedium.scrollCount())
	assert.Equal(t, 4, SizeLarge.scrollCount())
}

func TestInitialLoad(t *testing.T) {
	gw := &pagingGateway{all: makeBatches(40)}
	c := New(gw, SizeMedium, nil)

	load(c, c.StartInitial())

	// medium layout opens with a 5-item page
	require.Len(t, c.Batches(), 5)
	assert.Equal(t, [2]int{5, 0}, gw.requests[0])
	assert.True(t, c.HasMore())
	assert.False(t, c.Loading())
}

func TestLoadMoreAccumulates(t *testing.T) {
	gw := &pagingGateway{all: makeBatches(40)}
	c := New(gw, SizeMedium, nil)
	// sidestep the debounce by advancing a fake clock
	clock := time.Unix(0, 0)
	c.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	load(c, c.StartInitial())
	run := c.StartMore()
	require.NotNil(t, run)
	load(c, run)

	// next page offset equals what has accumulated so far
	require.Len(t, c.Batches(), 8)
	assert.Equal(t, [2]int{3, 5}, gw.requests[1])

	// no duplicates across page boundaries
	seen := map[int64]bool{}
	for _, b := range c.Batches() {
		assert.False(t, seen[b.ID], "batch %d appeared twice", b.ID)
		seen[b.ID] = true
	}
}

func TestShortPageEndsScrolling(t *testing.T) {
	gw := &pagingGateway{all: makeBatches(4)}
	c := New(gw, SizeMedium, nil)
	clock := time.Unix(0, 0)
	c.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	load(c, c.StartInitial())
	require.Len(t, c.Batches(), 4)
	assert.False(t, c.HasMore(), "short page means the end was reached")
	assert.Nil(t, c.StartMore(), "no request once everything is loaded")
}

func TestExactPageAllowsOneMoreProbe(t *testing.T) {
	// exactly one full page: the controller cannot know it is the end
	// until the follow-up comes back empty
	gw := &pagingGateway{all: makeBatches(5)}
	c := New(gw, SizeMedium, nil)
	clock := time.Unix(0, 0)
	c.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	load(c, c.StartInitial())
	assert.True(t, c.HasMore())

	run := c.StartMore()
	require.NotNil(t, run)
	load(c, run)
	assert.Len(t, c.Batches(), 5)
	assert.False(t, c.HasMore())
}

func TestLoadMoreGuards(t *testing.T) {
	t.Run("no more while a load is in flight", func(t *testing.T) {
		gw := &pagingGateway{all: makeBatches(40)}
		c := New(gw, SizeMedium, nil)
		clock := time.Unix(0, 0)
		c.now = func() time.Time { clock = clock.Add(time.Second); return clock }

		load(c, c.StartInitial())
		first := c.StartMore()
		require.NotNil(t, first)
		assert.Nil(t, c.StartMore(), "second request while first is in flight")

		load(c, first)
		assert.NotNil(t, c.StartMore())
	})

	t.Run("rapid scroll events are debounced", func(t *testing.T) {
		gw := &pagingGateway{all: makeBatches(100)}
		c := New(gw, SizeMedium, nil)
		clock := time.Unix(0, 0)
		step := time.Second
		c.now = func() time.Time { clock = clock.Add(step); return clock }

		load(c, c.StartInitial())
		run := c.StartMore()
		require.NotNil(t, run)
		load(c, run)

		// now fire events 10ms apart
		step = 10 * time.Millisecond
		assert.Nil(t, c.StartMore())
	})

	t.Run("no more before the initial load landed", func(t *testing.T) {
		c := New(&pagingGateway{all: makeBatches(40)}, SizeMedium, nil)
		assert.Nil(t, c.StartMore())
	})
}

func TestStalePageDropped(t *testing.T) {
	gw := &pagingGateway{all: makeBatches(40)}
	c := New(gw, SizeMedium, nil)
	clock := time.Unix(0, 0)
	c.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	load(c, c.StartInitial())
	stale := c.StartMore()
	require.NotNil(t, stale)
	ev := stale(context.Background())

	// a refresh supersedes the in-flight page
	load(c, c.StartInitial())
	assert.False(t, c.Apply(ev), "stale events report as dropped")

	assert.Len(t, c.Batches(), 5, "stale page must not append after refresh")
}

func TestResizeKeepsAccumulation(t *testing.T) {
	gw := &pagingGateway{all: makeBatches(100)}
	c := New(gw, SizeSmall, nil)
	clock := time.Unix(0, 0)
	c.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	load(c, c.StartInitial())
	require.Len(t, c.Batches(), 3)

	c.SetSize(SizeLarge)
	run := c.StartMore()
	require.NotNil(t, run)
	load(c, run)

	// next page uses the new size, offset still from accumulation
	assert.Equal(t, [2]int{4, 3}, gw.requests[1])
	assert.Len(t, c.Batches(), 7)
}

func TestLoadError(t *testing.T) {
	gw := &pagingGateway{err: errors.New("boom")}
	c := New(gw, SizeMedium, nil)

	load(c, c.StartInitial())
	assert.NotEmpty(t, c.Err())
	assert.False(t, c.Loading())
	assert.Empty(t, c.Batches())
}

func TestRefreshErrorAfterLoad(t *testing.T) {
	gw := &pagingGateway{all: makeBatches(20)}
	c := New(gw, SizeMedium, nil)
	clock := time.Unix(0, 0)
	c.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	load(c, c.StartInitial())
	require.True(t, c.Loaded())

	gw.err = errors.New("boom")
	run := c.StartMore()
	require.NotNil(t, run)
	assert.True(t, c.Apply(run(context.Background())), "current-generation errors land")
	assert.NotEmpty(t, c.Err())
	assert.True(t, c.Loaded(), "the accumulated grid survives a failed page")
	assert.Len(t, c.Batches(), 5)

	gw.err = nil
	run = c.StartMore()
	require.NotNil(t, run)
	load(c, run)
	assert.Empty(t, c.Err(), "a later success clears the error")
}

func TestFilter(t *testing.T) {
	gw := &pagingGateway{all: []models.Batch{
		{ID: 1, Status: models.BatchActive},
		{ID: 2, Status: models.BatchCompleted},
		{ID: 3, Status: models.BatchActive},
	}}
	c := New(gw, SizeMedium, nil)
	load(c, c.StartInitial())

	c.SetFilter(models.BatchCompleted)
	vis := c.Visible()
	require.Len(t, vis, 1)
	assert.Equal(t, int64(2), vis[0].ID)

	c.SetFilter("")
	assert.Len(t, c.Visible(), 3)
}

func TestNearBottom(t *testing.T) {
	c := New(&pagingGateway{}, SizeMedium, nil)
	assert.False(t, c.NearBottom(0, 20))
	assert.True(t, c.NearBottom(16, 20))
	assert.True(t, c.NearBottom(20, 20))
}
