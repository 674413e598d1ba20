package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwbook/internal/models"
)

func TestClientAttachesToken(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Access-Token")
		json.NewEncoder(w).Encode([]models.Subject{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123", nil)
	_, err := c.ListSubjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", gotToken)
}

func TestClientAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"raw server secret"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", nil)
	_, err := c.ListBatches(context.Background(), 5, 0)
	require.Error(t, err)
	assert.True(t, IsAuth(err))
	// fixed message, never the raw server text
	assert.Equal(t, AuthMessage, UserMessage(err))
}

func TestClientServerMessagePreferred(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "invalid status"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	_, err := c.UpdateItemStatus(context.Background(), 9, models.ItemDoing)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "invalid status", UserMessage(err))
}

func TestClientNetworkErrorIsGeneric(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", "t", nil)
	_, err := c.CurrentBatch(context.Background())
	require.Error(t, err)
	assert.False(t, IsAuth(err))
	assert.Equal(t, genericMessage, UserMessage(err))
}

func TestListBatchesPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("limit"))
		assert.Equal(t, "14", r.URL.Query().Get("offset"))
		json.NewEncoder(w).Encode([]models.Batch{{ID: 15, Status: models.BatchActive}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	batches, err := c.ListBatches(context.Background(), 7, 14)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, int64(15), batches[0].ID)
}

func TestCreateDraftRecognized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["files"]
		require.Len(t, files, 2)
		assert.Equal(t, "a.jpg", files[0].Filename)

		json.NewEncoder(w).Encode(DraftUpload{
			Batch:  models.Batch{ID: 7, Status: models.BatchDraft},
			Images: []models.Image{{ID: 1, ImageType: models.ImageHomework}},
			Parsed: &ParseResult{
				Success:        true,
				Items:          []models.DraftItem{{SubjectID: 2, Text: "page 10"}},
				Classification: &models.Classification{HomeworkImages: []int{0}, ReferenceImages: []int{}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	res, err := c.CreateDraftRecognized(context.Background(), []File{
		{Name: "a.jpg", Data: []byte("jpeg-bytes")},
		{Name: "b.jpg", Data: []byte("jpeg-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.Batch.ID)
	require.NotNil(t, res.Parsed)
	assert.True(t, res.Parsed.Success)
	assert.Equal(t, []int{0}, res.Parsed.Classification.HomeworkImages)
}

func TestConfirmBatchPayload(t *testing.T) {
	var got map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/upload/7/confirm", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(models.Batch{ID: 7, Status: models.BatchActive})
	}))
	defer srv.Close()

	deadline := time.Date(2026, 1, 6, 18, 0, 0, 0, time.UTC)
	c := NewClient(srv.URL, "t", nil)
	b, err := c.ConfirmBatch(context.Background(), 7,
		[]models.DraftItem{{SubjectID: 1, Text: "read ch. 3"}},
		&models.Classification{HomeworkImages: []int{0, 1}, ReferenceImages: []int{}},
		&deadline)
	require.NoError(t, err)
	assert.Equal(t, models.BatchActive, b.Status)

	var items []models.DraftItem
	require.NoError(t, json.Unmarshal(got["items"], &items))
	require.Len(t, items, 1)
	assert.Equal(t, "read ch. 3", items[0].Text)

	var cls models.Classification
	require.NoError(t, json.Unmarshal(got["image_classification"], &cls))
	assert.Equal(t, []int{0, 1}, cls.HomeworkImages)
}

func TestUpdateImageTypeForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/upload/3/images/9/type", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "reference", r.FormValue("image_type"))
		json.NewEncoder(w).Encode(models.Image{ID: 9, ImageType: models.ImageReference})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "t", nil)
	img, err := c.UpdateImageType(context.Background(), 3, 9, models.ImageReference)
	require.NoError(t, err)
	assert.Equal(t, models.ImageReference, img.ImageType)
}
