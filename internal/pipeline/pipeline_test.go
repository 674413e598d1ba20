package pipeline

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

// fakeGateway implements api.Gateway with canned responses so the state
// machine can be driven without a server.
type fakeGateway struct {
	api.Gateway

	uploadRes  *api.DraftUpload
	uploadErr  error
	parseRes   *api.ParseResult
	parseErr   error
	confirmRes *models.Batch
	confirmErr error
	toggleRes  *models.Image
	toggleErr  error

	confirmed struct {
		items    []models.DraftItem
		cls      *models.Classification
		deadline *time.Time
	}
	deletedDrafts []int64
	deletedImages []int64
	toggleCalls   int
}

func (f *fakeGateway) CreateDraft(ctx context.Context, files []api.File) (*api.DraftUpload, error) {
	return f.uploadRes, f.uploadErr
}

func (f *fakeGateway) CreateDraftRecognized(ctx context.Context, files []api.File) (*api.DraftUpload, error) {
	return f.uploadRes, f.uploadErr
}

func (f *fakeGateway) ParseDraft(ctx context.Context, batchID int64) (*api.ParseResult, error) {
	return f.parseRes, f.parseErr
}

func (f *fakeGateway) ConfirmBatch(ctx context.Context, batchID int64, items []models.DraftItem, cls *models.Classification, deadline *time.Time) (*models.Batch, error) {
	f.confirmed.items = items
	f.confirmed.cls = cls
	f.confirmed.deadline = deadline
	return f.confirmRes, f.confirmErr
}

func (f *fakeGateway) UpdateImageType(ctx context.Context, batchID, imageID int64, typ models.ImageType) (*models.Image, error) {
	f.toggleCalls++
	return f.toggleRes, f.toggleErr
}

func (f *fakeGateway) DeleteImage(ctx context.Context, batchID, imageID int64) error {
	f.deletedImages = append(f.deletedImages, imageID)
	return nil
}

func (f *fakeGateway) DeleteDraftBatch(ctx context.Context, batchID int64) error {
	f.deletedDrafts = append(f.deletedDrafts, batchID)
	return nil
}

func someFiles() []api.File {
	return []api.File{
		{Name: "page1.jpg", Data: []byte("a")},
		{Name: "page2.png", Data: []byte("b")},
	}
}

func uploadResult() *api.DraftUpload {
	return &api.DraftUpload{
		Batch: models.Batch{ID: 7, Status: models.BatchDraft},
		Images: []models.Image{
			{ID: 10, BatchID: 7, ImageType: models.ImageHomework, SortOrder: 0},
			{ID: 11, BatchID: 7, ImageType: models.ImageHomework, SortOrder: 1},
		},
		Parsed: &api.ParseResult{
			Success: true,
			Items: []models.DraftItem{
				{SubjectID: 1, Text: "math worksheet p.12"},
				{SubjectID: 2, Text: "read chapter 4"},
			},
			Classification: &models.Classification{HomeworkImages: []int{0, 1}},
		},
	}
}

// drive runs a pipeline through selection and upload with the given fake.
func drive(t *testing.T, gw *fakeGateway) *Pipeline {
	t.Helper()
	p := New(gw, ModeCombined, nil)
	started, err := p.SelectFiles(someFiles())
	require.NoError(t, err)
	require.True(t, started)
	run, err := p.StartUpload()
	require.NoError(t, err)
	p.ApplyUpload(run(context.Background()))
	return p
}

func TestSelectFiles(t *testing.T) {
	t.Run("filters non-images and stays idle when nothing remains", func(t *testing.T) {
		p := New(&fakeGateway{}, ModeCombined, nil)
		started, err := p.SelectFiles([]api.File{{Name: "notes.pdf"}, {Name: "report.docx"}})
		require.NoError(t, err)
		assert.False(t, started)
		assert.Equal(t, Idle, p.State())
	})

	t.Run("empty selection is a no-op", func(t *testing.T) {
		p := New(&fakeGateway{}, ModeCombined, nil)
		started, err := p.SelectFiles(nil)
		require.NoError(t, err)
		assert.False(t, started)
		assert.Equal(t, Idle, p.State())
	})

	t.Run("second selection while busy is rejected", func(t *testing.T) {
		p := New(&fakeGateway{uploadRes: uploadResult()}, ModeCombined, nil)
		_, err := p.SelectFiles(someFiles())
		require.NoError(t, err)
		_, err = p.SelectFiles(someFiles())
		assert.ErrorIs(t, err, ErrBusy)
	})
}

func TestUploadCombined(t *testing.T) {
	gw := &fakeGateway{uploadRes: uploadResult()}
	p := drive(t, gw)

	assert.Equal(t, Previewing, p.State())
	require.Len(t, p.Items(), 2)
	// every recognized item gets a correlation id for later edits
	assert.NotEmpty(t, p.Items()[0].ClientID)
	assert.NotEmpty(t, p.Items()[1].ClientID)
	assert.NotEqual(t, p.Items()[0].ClientID, p.Items()[1].ClientID)
}

func TestUploadFailure(t *testing.T) {
	gw := &fakeGateway{uploadErr: &api.Error{Kind: api.KindRemote, Message: "something went wrong, please try again"}}
	p := drive(t, gw)

	assert.Equal(t, Failed, p.State())
	assert.Equal(t, "something went wrong, please try again", p.Err())

	p.Reset()
	assert.Equal(t, Idle, p.State())
	assert.Nil(t, p.Items())
	assert.Nil(t, p.Batch())
}

func TestUploadEmptyParse(t *testing.T) {
	res := uploadResult()
	res.Parsed = &api.ParseResult{Success: false, Error: "no text found"}
	gw := &fakeGateway{uploadRes: res}
	p := drive(t, gw)

	// recognition coming back empty still lands in the editor for
	// manual entry
	assert.Equal(t, Previewing, p.State())
	assert.Empty(t, p.Items())
}

func TestStaleUploadDropped(t *testing.T) {
	gw := &fakeGateway{uploadRes: uploadResult()}
	p := New(gw, ModeCombined, nil)
	_, err := p.SelectFiles(someFiles())
	require.NoError(t, err)
	run, err := p.StartUpload()
	require.NoError(t, err)
	ev := run(context.Background())

	// the user gave up and restarted before the response landed
	p.Reset()
	started, err := p.SelectFiles(someFiles())
	require.NoError(t, err)
	require.True(t, started)

	p.ApplyUpload(ev)
	assert.Equal(t, FilesSelected, p.State(), "late event from the old session must not apply")
	assert.Nil(t, p.Batch())
}

func TestLegacyMode(t *testing.T) {
	res := uploadResult()
	parsed := res.Parsed
	res.Parsed = nil
	gw := &fakeGateway{uploadRes: res, parseRes: parsed}

	p := New(gw, ModeLegacy, nil)
	_, err := p.SelectFiles(someFiles())
	require.NoError(t, err)
	run, err := p.StartUpload()
	require.NoError(t, err)
	p.ApplyUpload(run(context.Background()))

	require.Equal(t, Recognizing, p.State())

	parse, err := p.StartParse()
	require.NoError(t, err)
	p.ApplyParse(parse(context.Background()))

	assert.Equal(t, Previewing, p.State())
	assert.Len(t, p.Items(), 2)
}

func TestEditItems(t *testing.T) {
	gw := &fakeGateway{uploadRes: uploadResult()}
	p := drive(t, gw)

	id := p.AddItem(3)
	require.NotEmpty(t, id)
	assert.Equal(t, Editing, p.State())
	assert.Len(t, p.Items(), 3)

	p.UpdateItem(id, 3, "science quiz prep", "photosynthesis")
	found := false
	for _, it := range p.Items() {
		if it.ClientID == id {
			found = true
			assert.Equal(t, "science quiz prep", it.Text)
			assert.Equal(t, "photosynthesis", it.KeyConcept)
		}
	}
	require.True(t, found)

	p.RemoveItem(id)
	assert.Len(t, p.Items(), 2)
	for _, it := range p.Items() {
		assert.NotEqual(t, id, it.ClientID)
	}
}

func TestConfirm(t *testing.T) {
	t.Run("blank items are discarded before sending", func(t *testing.T) {
		gw := &fakeGateway{uploadRes: uploadResult(), confirmRes: &models.Batch{ID: 7, Status: models.BatchActive}}
		p := drive(t, gw)
		blank := p.AddItem(1)
		p.UpdateItem(blank, 1, "   \n\t", "")

		run, err := p.StartConfirm()
		require.NoError(t, err)
		p.ApplyConfirm(run(context.Background()))

		assert.Equal(t, Committed, p.State())
		assert.Len(t, gw.confirmed.items, 2)
	})

	t.Run("nothing but blanks is a validation error, no network call", func(t *testing.T) {
		gw := &fakeGateway{uploadRes: uploadResult()}
		p := drive(t, gw)
		for _, it := range p.Items() {
			p.RemoveItem(it.ClientID)
		}
		p.AddItem(1)

		_, err := p.StartConfirm()
		assert.ErrorIs(t, err, ErrNoItems)
		assert.Equal(t, Editing, p.State(), "pipeline stays editable after validation failure")
		assert.Nil(t, gw.confirmed.items)
	})

	t.Run("deadline travels with the confirmation", func(t *testing.T) {
		gw := &fakeGateway{uploadRes: uploadResult(), confirmRes: &models.Batch{ID: 7, Status: models.BatchActive}}
		p := drive(t, gw)
		due := time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC)
		p.SetDeadline(&due)

		run, err := p.StartConfirm()
		require.NoError(t, err)
		p.ApplyConfirm(run(context.Background()))

		require.NotNil(t, gw.confirmed.deadline)
		assert.True(t, gw.confirmed.deadline.Equal(due))
	})

	t.Run("confirm failure parks in Failed", func(t *testing.T) {
		gw := &fakeGateway{uploadRes: uploadResult(), confirmErr: errors.New("boom")}
		p := drive(t, gw)

		run, err := p.StartConfirm()
		require.NoError(t, err)
		p.ApplyConfirm(run(context.Background()))
		assert.Equal(t, Failed, p.State())
	})
}

// Confirming an untouched recognition result sends exactly what came
// back: every item with its subject preserved, and the classification
// object unmodified.
func TestConfirmPassesRecognitionThrough(t *testing.T) {
	res := uploadResult()
	res.Parsed.Items = append(res.Parsed.Items, models.DraftItem{SubjectID: 99, Text: "new subject worksheet"})
	res.Parsed.NewSubjects = []models.Subject{{ID: 99, Name: "Science", Color: "#A78BFA"}}
	gw := &fakeGateway{uploadRes: res, confirmRes: &models.Batch{ID: 7, Status: models.BatchActive}}
	p := drive(t, gw)

	require.Equal(t, "Science", p.NewSubjects()[0].Name)

	run, err := p.StartConfirm()
	require.NoError(t, err)
	p.ApplyConfirm(run(context.Background()))

	assert.Equal(t, Committed, p.State())
	require.Len(t, gw.confirmed.items, 3)
	assert.Equal(t, int64(1), gw.confirmed.items[0].SubjectID)
	assert.Equal(t, int64(2), gw.confirmed.items[1].SubjectID)
	assert.Equal(t, int64(99), gw.confirmed.items[2].SubjectID)
	require.NotNil(t, gw.confirmed.cls)
	assert.Equal(t, []int{0, 1}, gw.confirmed.cls.HomeworkImages)
	assert.Empty(t, gw.confirmed.cls.ReferenceImages)
}

func TestToggleImage(t *testing.T) {
	t.Run("local state updates only after the server confirms", func(t *testing.T) {
		gw := &fakeGateway{
			uploadRes: uploadResult(),
			toggleRes: &models.Image{ID: 10, BatchID: 7, ImageType: models.ImageReference},
		}
		p := drive(t, gw)

		run, err := p.StartToggle(0)
		require.NoError(t, err)
		assert.Equal(t, models.ImageHomework, p.Images()[0].ImageType, "no eager flip")

		require.NoError(t, p.ApplyToggle(run(context.Background())))
		assert.Equal(t, models.ImageReference, p.Images()[0].ImageType)
		assert.Equal(t, []int{1}, p.Classification().HomeworkImages)
		assert.Equal(t, []int{0}, p.Classification().ReferenceImages)
	})

	t.Run("second toggle while one is in flight is dropped", func(t *testing.T) {
		gw := &fakeGateway{
			uploadRes: uploadResult(),
			toggleRes: &models.Image{ID: 10, BatchID: 7, ImageType: models.ImageReference},
		}
		p := drive(t, gw)

		run, err := p.StartToggle(0)
		require.NoError(t, err)
		_, err = p.StartToggle(1)
		assert.ErrorIs(t, err, ErrToggleInFlight)
		assert.Equal(t, 0, gw.toggleCalls, "dropped toggle never reaches the gateway")

		require.NoError(t, p.ApplyToggle(run(context.Background())))
		_, err = p.StartToggle(1)
		assert.NoError(t, err, "toggles allowed again once the first settles")
	})

	t.Run("toggle failure keeps prior state", func(t *testing.T) {
		gw := &fakeGateway{uploadRes: uploadResult(), toggleErr: errors.New("boom")}
		p := drive(t, gw)

		run, err := p.StartToggle(0)
		require.NoError(t, err)
		assert.Error(t, p.ApplyToggle(run(context.Background())))
		assert.Equal(t, models.ImageHomework, p.Images()[0].ImageType)
	})
}

func TestDeleteImage(t *testing.T) {
	gw := &fakeGateway{uploadRes: uploadResult()}
	p := drive(t, gw)

	run, err := p.StartDeleteImage(0)
	require.NoError(t, err)
	require.NoError(t, p.ApplyDeleteImage(run(context.Background())))
	require.Len(t, p.Images(), 1)
	assert.Equal(t, int64(11), p.Images()[0].ID)
	assert.Equal(t, []int64{10}, gw.deletedImages)
}

func TestAbandon(t *testing.T) {
	gw := &fakeGateway{uploadRes: uploadResult()}
	p := drive(t, gw)

	p.Abandon(context.Background())
	assert.Equal(t, Idle, p.State())
	assert.Equal(t, []int64{7}, gw.deletedDrafts)
}
