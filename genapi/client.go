// ABOUTME: HTTP client for the hosted generation edge functions: package and README generation.
// ABOUTME: Bearer-token auth, JSON bodies, context-aware requests, retry on 429/5xx/network errors.
package genapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2389-research/lodestone/content"
)

// APIError is a non-2xx response from the generation backend.
type APIError struct {
	StatusCode int
	Message    string
	retryAfter time.Duration
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("generation api: status %d: %s", e.StatusCode, e.Message)
}

// IsRetryable reports whether the request can be safely retried:
// rate limits and server-side failures, never client errors.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// RetryAfter returns the server's Retry-After hint, or zero.
func (e *APIError) RetryAfter() time.Duration {
	return e.retryAfter
}

// transportError wraps a network-level failure so the retry policy treats it
// as retryable.
type transportError struct {
	err error
}

func (e *transportError) Error() string     { return "generation api: " + e.err.Error() }
func (e *transportError) Unwrap() error     { return e.err }
func (e *transportError) IsRetryable() bool { return true }

// Client talks to the hosted edge functions that generate installable
// packages and README documents for directory entries.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	retry      RetryPolicy
}

// NewClient creates a Client for the edge-function host at baseURL,
// authenticating with the given bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		retry:      DefaultRetryPolicy(),
	}
}

// SetRetryPolicy overrides the default retry policy.
func (c *Client) SetRetryPolicy(p RetryPolicy) {
	c.retry = p
}

// PackageResult is the response of the package generation function.
type PackageResult struct {
	FileName string `json:"fileName"`
	Content  []byte `json:"content"`
	Format   string `json:"format"`
}

// packageRequest is the wire request for both generation functions.
type packageRequest struct {
	Category      string         `json:"category"`
	Slug          string         `json:"slug"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Configuration map[string]any `json:"configuration,omitempty"`
	Content       string         `json:"content,omitempty"`
}

// GeneratePackage asks the backend to build an installable package for the
// item.
func (c *Client) GeneratePackage(ctx context.Context, item *content.Item) (*PackageResult, error) {
	var result PackageResult
	if err := c.post(ctx, "/functions/v1/generate-package", requestFor(item), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// readmeResponse is the wire response of the README generation function.
type readmeResponse struct {
	Readme string `json:"readme"`
}

// GenerateReadme asks the backend to write a README document for the item.
func (c *Client) GenerateReadme(ctx context.Context, item *content.Item) (string, error) {
	var result readmeResponse
	if err := c.post(ctx, "/functions/v1/generate-readme", requestFor(item), &result); err != nil {
		return "", err
	}
	if result.Readme == "" {
		return "", errors.New("generation api: empty readme in response")
	}
	return result.Readme, nil
}

// requestFor builds the shared request payload from an item.
func requestFor(item *content.Item) packageRequest {
	return packageRequest{
		Category:      item.Category,
		Slug:          item.Slug,
		Title:         item.DisplayTitle(),
		Description:   item.Description,
		Configuration: item.Configuration,
		Content:       item.Content,
	}
}

// post sends one JSON POST under the retry policy and decodes the response
// into out.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	if c.baseURL == "" {
		return errors.New("generation api: no base URL configured")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	return Retry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &transportError{err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return apiErrorFrom(resp)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

// apiErrorFrom builds an APIError from a non-2xx response, capturing a
// truncated body as the message and any Retry-After header.
func apiErrorFrom(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}

	apiErr := &APIError{StatusCode: resp.StatusCode, Message: msg}
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
			apiErr.retryAfter = time.Duration(secs) * time.Second
		}
	}
	return apiErr
}
