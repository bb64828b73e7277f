// ABOUTME: Uploader posting recorded waveforms to the voice endpoint
// ABOUTME: Sends one multipart POST and returns the reply audio bytes
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/google/uuid"
	"github.com/quicksupport/quicksupport-go/internal/version"
	"github.com/quicksupport/quicksupport-go/pkg/audio/wav"
)

const (
	// DefaultEndpoint is used when no endpoint is configured
	DefaultEndpoint = "http://localhost:8000/audio"
	// DefaultTimeout bounds a single upload
	DefaultTimeout = 60 * time.Second
	// FieldName is the multipart field carrying the recording
	FieldName = "audio"
)

// ErrUpload matches every *UploadError
var ErrUpload = errors.New("upload failed")

// UploadError reports a failed upload. StatusCode is zero when the
// request never got a response.
type UploadError struct {
	StatusCode int
	Err        error
}

func (e *UploadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upload failed: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUpload) true for any UploadError
func (e *UploadError) Is(target error) bool {
	return target == ErrUpload
}

// Config holds uploader settings
type Config struct {
	Endpoint string
	// Timeout bounds each upload; zero disables the bound
	Timeout time.Duration
}

// Client uploads recordings
type Client struct {
	endpoint string
	client   *http.Client
	now      func() time.Time
}

// NewClient creates an uploader
func NewClient(config Config) *Client {
	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: config.Timeout},
		now:      time.Now,
	}
}

// Endpoint returns the configured URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Upload posts the waveform and returns the reply body. Only HTTP 200 is
// treated as success; there are no retries.
func (c *Client) Upload(ctx context.Context, data []byte) ([]byte, error) {
	body, contentType, err := c.buildBody(data)
	if err != nil {
		return nil, &UploadError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, &UploadError{Err: fmt.Errorf("failed to create request: %w", err)}
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", version.UserAgent())

	log.Printf("Uploading %d bytes to %s (request %s)", len(data), c.endpoint, requestID)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &UploadError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UploadError{Err: fmt.Errorf("failed to read reply: %w", err)}
	}

	log.Printf("Upload complete (request %s): %d reply bytes", requestID, len(reply))
	return reply, nil
}

// buildBody writes the multipart form with one audio/wav file part
func (c *Client) buildBody(data []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	filename := fmt.Sprintf("recording-%d.wav", c.now().UnixMilli())
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, FieldName, filename))
	header.Set("Content-Type", wav.ContentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write form part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close form: %w", err)
	}

	return &buf, mw.FormDataContentType(), nil
}
