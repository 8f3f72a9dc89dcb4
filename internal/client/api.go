package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/JonMunkholm/tidyflow/internal/selection"
)

// Analyze uploads the selection as multipart field "file" and returns the
// remote quality profile.
func (c *Client) Analyze(ctx context.Context, sel selection.Selection) (core.AnalysisResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", sel.Name)
	if err != nil {
		return core.AnalysisResult{}, fmt.Errorf("analyze: build form: %w", err)
	}
	if _, err := part.Write(sel.Content); err != nil {
		return core.AnalysisResult{}, fmt.Errorf("analyze: build form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return core.AnalysisResult{}, fmt.Errorf("analyze: build form: %w", err)
	}

	body, err := c.do(ctx, request{
		op:          "analyze",
		method:      http.MethodPost,
		path:        "/analyze",
		contentType: mw.FormDataContentType(),
		body:        buf.Bytes(),
	})
	if err != nil {
		return core.AnalysisResult{}, err
	}

	var res core.AnalysisResult
	if err := json.Unmarshal(body, &res); err != nil {
		return core.AnalysisResult{}, fmt.Errorf("analyze: decode response: %w", err)
	}
	if strings.TrimSpace(res.Filename) == "" {
		return core.AnalysisResult{}, fmt.Errorf("analyze: response has no filename handle")
	}
	return res, nil
}

type processRequest struct {
	Filename string                 `json:"filename"`
	Options  core.ProcessingOptions `json:"options"`
}

// Process asks the service to clean the analyzed upload with opts.
func (c *Client) Process(ctx context.Context, filename string, opts core.ProcessingOptions) (core.ProcessingResult, error) {
	payload, err := json.Marshal(processRequest{Filename: filename, Options: opts})
	if err != nil {
		return core.ProcessingResult{}, fmt.Errorf("process: encode request: %w", err)
	}

	body, err := c.do(ctx, request{
		op:          "process",
		method:      http.MethodPost,
		path:        "/process",
		contentType: "application/json",
		body:        payload,
	})
	if err != nil {
		return core.ProcessingResult{}, err
	}

	var res core.ProcessingResult
	if err := json.Unmarshal(body, &res); err != nil {
		return core.ProcessingResult{}, fmt.Errorf("process: decode response: %w", err)
	}
	if strings.TrimSpace(res.ProcessedFile) == "" {
		return core.ProcessingResult{}, fmt.Errorf("process: response has no processed_file handle")
	}
	return res, nil
}

// Download fetches the raw bytes behind a file handle.
func (c *Client) Download(ctx context.Context, handle string) ([]byte, error) {
	if strings.TrimSpace(handle) == "" {
		return nil, fmt.Errorf("download: empty file handle")
	}
	return c.do(ctx, request{
		op:     "download",
		method: http.MethodGet,
		path:   "/download/" + url.PathEscape(handle),
	})
}

// Status reports service health and supported formats. It sends no
// credential.
func (c *Client) Status(ctx context.Context) (core.ServiceStatus, error) {
	body, err := c.do(ctx, request{
		op:        "status",
		method:    http.MethodGet,
		path:      "/status",
		anonymous: true,
	})
	if err != nil {
		return core.ServiceStatus{}, err
	}

	var st core.ServiceStatus
	if err := json.Unmarshal(body, &st); err != nil {
		return core.ServiceStatus{}, fmt.Errorf("status: decode response: %w", err)
	}
	return st, nil
}
