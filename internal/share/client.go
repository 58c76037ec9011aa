package share

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	userAgent = "Courtside/1.0 (Basketball Scorekeeper)"
	timeout   = 30 * time.Second

	xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Client hands exported workbooks off to a share endpoint over HTTP. It is
// the device-share collaborator of the export flow: the file is uploaded
// as multipart form data and the caller deletes it afterwards.
type Client struct {
	shareURL   string
	httpClient *http.Client
}

// NewClient creates a share client posting to shareURL.
func NewClient(shareURL string) *Client {
	return &Client{
		shareURL: shareURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Share uploads the file at path. Any transport or non-2xx response is an
// error; export surfaces it to the user.
func (c *Client) Share(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read export file: %w", err)
	}
	if err := form.WriteField("mimeType", xlsxMimeType); err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.shareURL, &body)
	if err != nil {
		return fmt.Errorf("build share request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("share upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("share endpoint returned %d: %s", resp.StatusCode, string(payload))
	}

	return nil
}
