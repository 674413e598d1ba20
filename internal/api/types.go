package api

import (
	"context"
	"time"

	"hwbook/internal/models"
)

// File is one image selected for upload.
type File struct {
	Name string
	Data []byte
}

// ParseResult is what the recognition collaborator extracted from a draft
// batch's images. A non-success result is not an error: the user starts
// from an empty item list instead.
type ParseResult struct {
	Success        bool                   `json:"success"`
	Items          []models.DraftItem     `json:"items"`
	NewSubjects    []models.Subject       `json:"new_subjects"`
	Classification *models.Classification `json:"classification"`
	Error          string                 `json:"error,omitempty"`
}

// DraftUpload is the combined result of creating a draft batch from files.
// Parsed is nil in the legacy upload-only shape.
type DraftUpload struct {
	Batch  models.Batch   `json:"batch"`
	Images []models.Image `json:"images"`
	Parsed *ParseResult   `json:"parsed,omitempty"`
}

// ItemStatusResult carries the updated item plus the server's signal that
// every item in the batch is now done.
type ItemStatusResult struct {
	Item            models.Item `json:"item"`
	ReadyToComplete bool        `json:"batch_ready_to_complete"`
}

// Gateway is the remote batch store as consumed by the controllers.
// *Client implements it; tests substitute fakes.
type Gateway interface {
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	CurrentBatch(ctx context.Context) (*models.Batch, error)
	GetBatch(ctx context.Context, batchID int64) (*models.Batch, error)
	ListBatches(ctx context.Context, limit, offset int) ([]models.Batch, error)
	ListBatchItems(ctx context.Context, batchID int64) ([]models.Item, error)
	ListBatchImages(ctx context.Context, batchID int64) ([]models.Image, error)

	CreateDraft(ctx context.Context, files []File) (*DraftUpload, error)
	CreateDraftRecognized(ctx context.Context, files []File) (*DraftUpload, error)
	ParseDraft(ctx context.Context, batchID int64) (*ParseResult, error)
	ConfirmBatch(ctx context.Context, batchID int64, items []models.DraftItem, cls *models.Classification, deadline *time.Time) (*models.Batch, error)
	DeleteDraftBatch(ctx context.Context, batchID int64) error

	UpdateItemStatus(ctx context.Context, itemID int64, status models.ItemStatus) (*ItemStatusResult, error)
	DeleteItem(ctx context.Context, itemID int64) error
	UpdateImageType(ctx context.Context, batchID, imageID int64, typ models.ImageType) (*models.Image, error)
	DeleteImage(ctx context.Context, batchID, imageID int64) error
	UpdateBatch(ctx context.Context, batchID int64, items []models.DraftItem, deadline *time.Time) (*models.Batch, error)
	MarkBatchComplete(ctx context.Context, batchID int64) error
}
