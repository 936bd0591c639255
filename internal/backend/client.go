// Package backend is a client for the MoodTunes inference service: genre
// classification, mood chat and music generation.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/olivier-w/moodtunes/internal/media"
)

const (
	DefaultBaseURL = "http://localhost:5000"
	DefaultTimeout = 60 * time.Second

	userAgent = "moodtunes/1.0"

	// Largest generated payload we will buffer.
	maxPayloadSize = 64 << 20
)

// Sentinel errors for input rejected before any request is made.
var (
	ErrNoFile           = errors.New("no file selected")
	ErrEmptyText        = errors.New("no input provided")
	ErrInvalidNumInputs = errors.New("number of inputs must be at least 1")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the inference service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ClassifyGenre uploads the audio file at path and returns its genre.
func (c *Client) ClassifyGenre(ctx context.Context, path string) (*GenreResult, error) {
	if path == "" {
		return nil, ErrNoFile
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	resp, err := c.post(ctx, "/genre-classify", mw.FormDataContentType(), &body)
	if err != nil {
		return nil, fmt.Errorf("classifying genre: %w", err)
	}
	defer resp.Body.Close()

	var result GenreResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parsing genre response: %w", err)
	}
	return &result, nil
}

// Chat sends the user's message and returns the detected mood with
// recommended songs.
func (c *Client) Chat(ctx context.Context, text string) (*ChatResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	payload, err := json.Marshal(chatRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encoding chat request: %w", err)
	}

	resp, err := c.post(ctx, "/chat", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("chatting: %w", err)
	}
	defer resp.Body.Close()

	var raw chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing chat response: %w", err)
	}

	result := &ChatResult{
		Mood:            raw.Mood,
		Recommendations: make([]Recommendation, 0, len(raw.Recommendations)),
	}
	for _, s := range raw.Recommendations {
		result.Recommendations = append(result.Recommendations, ParseRecommendation(s))
	}
	return result, nil
}

// GenerateMusic asks the service to compose a track from numInputs source
// tracks and returns the raw payload.
func (c *Client) GenerateMusic(ctx context.Context, numInputs int) (*Generated, error) {
	if numInputs < 1 {
		return nil, ErrInvalidNumInputs
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("num_inputs", strconv.Itoa(numInputs)); err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.post(ctx, "/generate-music", mw.FormDataContentType(), &body)
	if err != nil {
		return nil, fmt.Errorf("generating music: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, fmt.Errorf("reading generated music: %w", err)
	}
	ct := resp.Header.Get("Content-Type")
	return &Generated{
		ID:          resp.Header.Get("X-Generation-ID"),
		ContentType: ct,
		Kind:        media.SniffKind(ct, data),
		Data:        data,
	}, nil
}

// post sends a request and returns the response when the status is 2xx.
// Other statuses are converted to *APIError and the body is closed.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed", "path", path, "err", err)
		return nil, fmt.Errorf("executing request: %w", err)
	}
	c.logger.Debug("request", "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var er errorResponse
	if json.Unmarshal(raw, &er) == nil && er.Error != "" {
		apiErr.Message = er.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return nil, apiErr
}
