package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/flowerview/flowerview/internal/models"
	"github.com/flowerview/flowerview/internal/render"
)

const (
	predictFilePath = "/predict_image_file/"
	predictURLPath  = "/predict_url/"
	classInfoPath   = "/flower_info/"

	maxErrorBody = 512
)

// Client talks to the flower classification backend
type Client struct {
	BaseURL    string
	httpClient *http.Client
}

// APIError represents a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Body       string // first 512 bytes
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures Client behavior
type Option func(*Client)

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new backend client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type predictionResponse struct {
	Top5Predictions []models.Prediction `json:"top5_predictions"`
}

// PredictFile uploads the image as multipart form data under the "file" field
func (c *Client) PredictFile(ctx context.Context, upload models.Upload) ([]models.Prediction, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreatePart(filePartHeader(upload))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	slog.Debug("Submitting image file", "filename", upload.Filename, "size", upload.Size())

	var resp predictionResponse
	if err := c.post(ctx, predictFilePath, writer.FormDataContentType(), body, &resp); err != nil {
		return nil, fmt.Errorf("predict file: %w", err)
	}
	return normalize(resp.Top5Predictions), nil
}

// PredictURL asks the backend to fetch and classify the image at imageURL
func (c *Client) PredictURL(ctx context.Context, imageURL string) ([]models.Prediction, error) {
	var resp predictionResponse
	if err := c.postJSON(ctx, predictURLPath, map[string]string{"image_url": imageURL}, &resp); err != nil {
		return nil, fmt.Errorf("predict url: %w", err)
	}
	return normalize(resp.Top5Predictions), nil
}

// ClassInfo fetches the descriptive record for a class
func (c *Client) ClassInfo(ctx context.Context, classID string) (render.Value, error) {
	var record render.Value
	if err := c.postJSON(ctx, classInfoPath, map[string]string{"flower_class": classID}, &record); err != nil {
		return render.Value{}, fmt.Errorf("class info: %w", err)
	}
	return record, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, dest any) error {
	requestBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.post(ctx, path, "application/json", bytes.NewReader(requestBody), dest)
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func filePartHeader(upload models.Upload) textproto.MIMEHeader {
	filename := upload.Filename
	if filename == "" {
		filename = "image"
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	return h
}

func normalize(preds []models.Prediction) []models.Prediction {
	if preds == nil {
		return []models.Prediction{}
	}
	return preds
}
