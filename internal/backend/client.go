// Package backend talks to the video analysis service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/p-n-ai/pai-tube/internal/model"
	"github.com/p-n-ai/pai-tube/internal/normalize"
)

// DefaultBaseURL is where the analysis service listens by default.
const DefaultBaseURL = "http://127.0.0.1:8000"

const (
	analyzePath = "/analyzer"
	quizPath    = "/generate_quiz"
)

// maxErrorBody caps how much of an error response is kept for logging.
const maxErrorBody = 1024

// Gateway is the set of backend calls the controller depends on.
type Gateway interface {
	Analyze(ctx context.Context, url string) (model.AnalysisResult, error)
	GenerateQuiz(ctx context.Context, url string) (model.QuizSet, error)
}

// Client implements Gateway over HTTP. Each call is a single attempt.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the service base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a backend client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		client:  http.DefaultClient,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type urlRequest struct {
	URL string `json:"url"`
}

// Analyze requests a content analysis of the video at url.
func (c *Client) Analyze(ctx context.Context, url string) (model.AnalysisResult, error) {
	body, err := c.post(ctx, "analyze", analyzePath, url)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	c.diagnose(normalize.KindAnalysis, body)
	return normalize.Analysis(body)
}

// GenerateQuiz requests a multiple-choice quiz for the video at url.
func (c *Client) GenerateQuiz(ctx context.Context, url string) (model.QuizSet, error) {
	body, err := c.post(ctx, "generate quiz", quizPath, url)
	if err != nil {
		return model.QuizSet{}, err
	}
	c.diagnose(normalize.KindQuiz, body)
	return normalize.Quiz(body)
}

func (c *Client) post(ctx context.Context, op, path, url string) ([]byte, error) {
	payload, err := json.Marshal(urlRequest{URL: url})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("backend request", "op", op, "path", path, "url", url)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := respBody
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		c.logger.Warn("backend returned error status",
			"op", op,
			"status", resp.StatusCode,
			"body", string(snippet),
		)
		return nil, &ServerError{Op: op, Status: resp.StatusCode, Body: string(snippet)}
	}

	c.logger.Debug("backend response", "op", op, "status", resp.StatusCode, "bytes", len(respBody))
	return respBody, nil
}

// diagnose logs schema drift. It never fails the call.
func (c *Client) diagnose(kind normalize.Kind, body []byte) {
	violations, err := normalize.Check(kind, body)
	if err != nil {
		c.logger.Debug("response schema check skipped", "kind", kind, "error", err)
		return
	}
	if len(violations) > 0 {
		c.logger.Warn("backend response deviates from expected shape",
			"kind", kind,
			"violations", violations,
		)
	}
}
