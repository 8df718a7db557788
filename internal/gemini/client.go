// Package gemini is a minimal client for the Gemini generateContent API,
// covering the text and image modalities this service uses.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash-exp"
	callTimeout    = 30 * time.Second
)

// TextOptions tune a text generation call.
type TextOptions struct {
	Temperature     float64
	MaxOutputTokens int
}

// Client is a Gemini API client.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
}

// NewClient creates a new Client with the default base URL and model.
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL creates a new Client with a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: callTimeout},
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      defaultModel,
	}
}

// GenerateText sends a single-prompt generation request and returns the
// concatenated text parts of the first candidate.
func (c *Client) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("gemini: no API key configured")
	}
	req := GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
		GenerationConfig: &GenerationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxOutputTokens,
		},
	}
	resp, err := c.generate(ctx, req)
	if err != nil {
		return "", err
	}
	text := firstText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

// GenerateImage requests an image-modality generation and returns the raw
// decoded bytes plus their mime type.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	if c.apiKey == "" {
		return nil, "", fmt.Errorf("gemini: no API key configured")
	}
	req := GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"IMAGE"},
		},
	}
	resp, err := c.generate(ctx, req)
	if err != nil {
		return nil, "", err
	}
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("gemini: decoding image data: %w", err)
			}
			return data, part.InlineData.MimeType, nil
		}
	}
	return nil, "", fmt.Errorf("gemini: no image in response")
}

func (c *Client) generate(ctx context.Context, genReq GenerateRequest) (*GenerateResponse, error) {
	body, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &genResp, nil
}

func firstText(resp *GenerateResponse) string {
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}
