// Package pollinations is a client for the Pollinations free text API,
// used as the fallback when the primary text provider is unavailable.
package pollinations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://text.pollinations.ai"
	callTimeout    = 30 * time.Second
)

// Client is a Pollinations text API client. The API is unauthenticated:
// the prompt is URL-encoded into the path of a GET request.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Client with the default base URL.
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a new Client with a custom base URL (for testing).
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: callTimeout},
		baseURL:    baseURL,
	}
}

// GenerateText fetches a completion for prompt.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	reqURL := c.baseURL + "/" + url.PathEscape(prompt)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("pollinations: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("pollinations: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("pollinations: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pollinations: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return "", fmt.Errorf("pollinations: empty response")
	}
	return text, nil
}
