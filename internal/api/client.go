// Package api is the HTTP client for the remote homework batch service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"hwbook/internal/models"
)

// Client talks JSON over HTTP to the batch service. Every request carries
// the access token; the server decides what the token may see.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

var _ Gateway = (*Client)(nil)

// NewClient creates a gateway client for the given server.
func NewClient(baseURL, token string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("X-Access-Token", c.token)
	}
	return req, nil
}

// do executes the request and decodes the response into out (when out is
// non-nil). Failures come back as *Error per the taxonomy.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("gateway request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return &Error{Kind: KindRemote, Message: genericMessage}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindRemote, Message: genericMessage}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.asError(req, resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.log.Warn("gateway response malformed",
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return &Error{Kind: KindRemote, Status: resp.StatusCode, Message: genericMessage}
	}
	return nil
}

func (c *Client) asError(req *http.Request, status int, body []byte) error {
	if status == http.StatusUnauthorized {
		return &Error{Kind: KindAuth, Status: status, Message: AuthMessage}
	}

	// Best available human message: server "message", else "detail",
	// else the generic fallback.
	var payload struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	msg := genericMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			msg = payload.Message
		} else if payload.Detail != "" {
			msg = payload.Detail
		}
	}

	kind := KindRemote
	if status >= 400 && status < 500 {
		kind = KindValidation
	}
	c.log.Warn("gateway call rejected",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", status),
		zap.String("message", msg))
	return &Error{Kind: kind, Status: status, Message: msg}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(body), "application/json")
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) uploadFiles(ctx context.Context, path string, files []File, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return fmt.Errorf("build upload: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return fmt.Errorf("build upload: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("build upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &buf, w.FormDataContentType())
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// ListSubjects returns the shared subject reference data.
func (c *Client) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var subjects []models.Subject
	if err := c.getJSON(ctx, "/api/subjects", &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// CurrentBatch returns the most recent active batch with items and images.
func (c *Client) CurrentBatch(ctx context.Context) (*models.Batch, error) {
	var b models.Batch
	if err := c.getJSON(ctx, "/api/batches/current", &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBatch returns one batch with its items and images.
func (c *Client) GetBatch(ctx context.Context, batchID int64) (*models.Batch, error) {
	var b models.Batch
	if err := c.getJSON(ctx, "/api/batches/"+strconv.FormatInt(batchID, 10), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBatches returns one page of non-draft batches in server order.
func (c *Client) ListBatches(ctx context.Context, limit, offset int) ([]models.Batch, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var batches []models.Batch
	if err := c.getJSON(ctx, "/api/batches?"+q.Encode(), &batches); err != nil {
		return nil, err
	}
	return batches, nil
}

// ListBatchItems returns a batch's items in server order.
func (c *Client) ListBatchItems(ctx context.Context, batchID int64) ([]models.Item, error) {
	var items []models.Item
	path := fmt.Sprintf("/api/batches/%d/items", batchID)
	if err := c.getJSON(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListBatchImages returns a batch's images.
func (c *Client) ListBatchImages(ctx context.Context, batchID int64) ([]models.Image, error) {
	var images []models.Image
	path := fmt.Sprintf("/api/v1/upload/%d/images", batchID)
	if err := c.getJSON(ctx, path, &images); err != nil {
		return nil, err
	}
	return images, nil
}

// CreateDraft uploads files into a new draft batch without recognition.
// Legacy shape: recognition runs as a separate ParseDraft call.
func (c *Client) CreateDraft(ctx context.Context, files []File) (*DraftUpload, error) {
	var res DraftUpload
	if err := c.uploadFiles(ctx, "/api/upload/draft", files, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateDraftRecognized uploads files and runs recognition in one call:
// the created draft batch, its image records, and the parse result arrive
// together.
func (c *Client) CreateDraftRecognized(ctx context.Context, files []File) (*DraftUpload, error) {
	var res DraftUpload
	if err := c.uploadFiles(ctx, "/api/v1/upload/draft", files, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ParseDraft runs recognition on an already-uploaded draft batch.
func (c *Client) ParseDraft(ctx context.Context, batchID int64) (*ParseResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("batch_id", strconv.FormatInt(batchID, 10)); err != nil {
		return nil, fmt.Errorf("build parse request: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build parse request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload/parse", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var res ParseResult
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ConfirmBatch finalizes a draft: the reviewed item list, the image
// classification, and the deadline land in one atomic call and the batch
// becomes active.
func (c *Client) ConfirmBatch(ctx context.Context, batchID int64, items []models.DraftItem, cls *models.Classification, deadline *time.Time) (*models.Batch, error) {
	payload := struct {
		Items               []models.DraftItem     `json:"items"`
		ImageClassification *models.Classification `json:"image_classification"`
		DeadlineAt          *time.Time             `json:"deadline_at"`
	}{items, cls, deadline}

	var b models.Batch
	path := fmt.Sprintf("/api/v1/upload/%d/confirm", batchID)
	if err := c.sendJSON(ctx, http.MethodPost, path, payload, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteDraftBatch discards a draft batch and everything under it.
func (c *Client) DeleteDraftBatch(ctx context.Context, batchID int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/batches/"+strconv.FormatInt(batchID, 10), nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// UpdateItemStatus advances one item and reports whether the whole batch
// is now ready to complete.
func (c *Client) UpdateItemStatus(ctx context.Context, itemID int64, status models.ItemStatus) (*ItemStatusResult, error) {
	payload := struct {
		Status models.ItemStatus `json:"status"`
	}{status}

	var res ItemStatusResult
	path := fmt.Sprintf("/api/items/%d/status", itemID)
	if err := c.sendJSON(ctx, http.MethodPatch, path, payload, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteItem removes one item.
func (c *Client) DeleteItem(ctx context.Context, itemID int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/items/"+strconv.FormatInt(itemID, 10), nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// UpdateImageType reclassifies one image.
func (c *Client) UpdateImageType(ctx context.Context, batchID, imageID int64, typ models.ImageType) (*models.Image, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("image_type", string(typ)); err != nil {
		return nil, fmt.Errorf("build type update: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("build type update: %w", err)
	}

	path := fmt.Sprintf("/api/v1/upload/%d/images/%d/type", batchID, imageID)
	req, err := c.newRequest(ctx, http.MethodPatch, path, &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var img models.Image
	if err := c.do(req, &img); err != nil {
		return nil, err
	}
	return &img, nil
}

// DeleteImage removes one image from a batch.
func (c *Client) DeleteImage(ctx context.Context, batchID, imageID int64) error {
	path := fmt.Sprintf("/api/v1/upload/%d/images/%d", batchID, imageID)
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil, "")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// UpdateBatch replaces a batch's item list and deadline. The server
// reconciles adds, updates, and deletes by the presence or absence of ids.
func (c *Client) UpdateBatch(ctx context.Context, batchID int64, items []models.DraftItem, deadline *time.Time) (*models.Batch, error) {
	payload := struct {
		Items      []models.DraftItem `json:"items"`
		DeadlineAt *time.Time         `json:"deadline_at"`
	}{items, deadline}

	var b models.Batch
	path := "/api/batches/" + strconv.FormatInt(batchID, 10)
	if err := c.sendJSON(ctx, http.MethodPut, path, payload, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// MarkBatchComplete closes out an active batch. One-way.
func (c *Client) MarkBatchComplete(ctx context.Context, batchID int64) error {
	path := fmt.Sprintf("/api/batches/%d/complete", batchID)
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader([]byte("{}")), "application/json")
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
