package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JonMunkholm/tidyflow/internal/core"
	"github.com/JonMunkholm/tidyflow/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, creds TokenSource) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{
		BaseURL:     srv.URL + "/api/",
		Timeout:     5 * time.Second,
		MaxRetries:  2,
		RateLimit:   1000,
		RateBurst:   10,
		Credentials: creds,
	})
}

func TestAnalyze(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/analyze", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "people.csv", header.Filename)
		assert.Equal(t, "a,b\n1,2\n", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"filename":"people_42.csv","total_rows":1,"total_columns":2,"missing_values":{"a":0,"b":3},"duplicates":0}`))
	})
	c := newTestClient(t, h, StaticToken("secret"))

	res, err := c.Analyze(context.Background(), selection.Selection{Name: "people.csv", Content: []byte("a,b\n1,2\n")})
	require.NoError(t, err)
	assert.Equal(t, "people_42.csv", res.Filename)
	assert.Equal(t, 2, res.TotalColumns)
	assert.Equal(t, 3, res.MissingValues["b"])
}

func TestAnalyze_NotRetried(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	c := newTestClient(t, h, nil)

	_, err := c.Analyze(context.Background(), selection.Selection{Name: "x.csv", Content: []byte("a")})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAnalyze_MissingHandle(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_rows":3}`))
	})
	c := newTestClient(t, h, nil)

	_, err := c.Analyze(context.Background(), selection.Selection{Name: "x.csv"})
	assert.ErrorContains(t, err, "no filename handle")
}

func TestProcess(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/process", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Filename string                 `json:"filename"`
			Options  core.ProcessingOptions `json:"options"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "people_42.csv", req.Filename)
		assert.Equal(t, core.MissingMedian, req.Options.MissingStrategy)

		_, _ = w.Write([]byte(`{"stats":{"initial_rows":10,"final_rows":9,"rows_removed":1,"final_columns":2,
			"missing_values":{},"outliers":{"b":2},"duplicates_found":1,"duplicates_removed":1,
			"normalization_method":"minmax"},"processed_file":"processed_people_42.csv"}`))
	})
	c := newTestClient(t, h, nil)

	opts := core.DefaultOptions().With("missing_strategy", "median")
	res, err := c.Process(context.Background(), "people_42.csv", opts)
	require.NoError(t, err)
	assert.Equal(t, "processed_people_42.csv", res.ProcessedFile)
	assert.Equal(t, 9, res.Stats.FinalRows)
	assert.Equal(t, core.NormalizationMinMax, res.Stats.NormalizationMethod)
	assert.Equal(t, 2, res.Stats.Outliers["b"])
}

func TestProcess_APIError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Unsupported file type"}`))
	})
	c := newTestClient(t, h, nil)

	_, err := c.Process(context.Background(), "x.csv", core.DefaultOptions())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Unsupported file type", apiErr.Reason())
	assert.Equal(t, "Unsupported file type", core.UserText(err))
}

func TestDownload_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/download/processed%20file.csv", r.URL.EscapedPath())
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	})
	c := newTestClient(t, h, nil)

	data, err := c.Download(context.Background(), "processed file.csv")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
	assert.Equal(t, int32(3), calls.Load())
}

func TestDownload_NotFoundNotRetried(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	c := newTestClient(t, h, nil)

	_, err := c.Download(context.Background(), "gone.csv")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Empty(t, apiErr.Reason())
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownload_EmptyHandle(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Download(context.Background(), " ")
	assert.Error(t, err)
}

func TestStatus_Anonymous(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/status", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"status":"API active","supported_formats":["csv","xlsx","json"]}`))
	})
	c := newTestClient(t, h, StaticToken("secret"))

	st, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "API active", st.Status)
	assert.Equal(t, []string{"csv", "xlsx", "json"}, st.SupportedFormats)
}

func TestNoToken_NoAuthorization(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Header["Authorization"]
		assert.False(t, ok)
		_, _ = w.Write([]byte("ok"))
	})
	c := newTestClient(t, h, StaticToken("  "))

	_, err := c.Download(context.Background(), "x.csv")
	require.NoError(t, err)
}

func TestFileToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session")
	src := FileToken{Path: path}

	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, os.WriteFile(path, []byte("abc123\n"), 0o600))
	tok, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)

	require.NoError(t, os.WriteFile(path, []byte("rotated"), 0o600))
	tok, err = src.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rotated", tok)
}

type failingToken struct{}

func (failingToken) Token(context.Context) (string, error) { return "", errors.New("keyring locked") }

func TestCredentialError(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	c := newTestClient(t, h, failingToken{})

	_, err := c.Process(context.Background(), "x.csv", core.DefaultOptions())
	assert.ErrorContains(t, err, "keyring locked")
}

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"File too large"}`, "File too large"},
		{"message field", `{"message":"Token expired"}`, "Token expired"},
		{"nested", `{"error":{"message":"bad options"}}`, "bad options"},
		{"plain text", `Internal Server Error`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError("op", 500, []byte(tt.body))
			assert.Equal(t, tt.want, err.Reason())
			assert.Contains(t, err.Error(), "status 500")
		})
	}
}

func TestContextCanceled(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	c := newTestClient(t, h, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Download(ctx, "slow.csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
