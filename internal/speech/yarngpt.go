// Package speech turns debate utterances into hosted audio clips via the
// YarnGPT TTS API. Audio is an optional enhancement: every failure path
// degrades to "no audio" rather than failing the turn.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://yarngpt.ai"
	callTimeout    = 15 * time.Second
	maxAttempts    = 2 // one retry on transient failure
)

// Voices used by the debate flow.
const (
	VoiceDefault = "Idera"
	VoiceAI      = "Osagie"
)

// TTSRequest is the body of a synthesis call.
type TTSRequest struct {
	Text           string `json:"text"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// YarnGPTClient is a YarnGPT TTS API client.
type YarnGPTClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewYarnGPTClient creates a client with the default base URL.
func NewYarnGPTClient(apiKey string) *YarnGPTClient {
	return NewYarnGPTClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewYarnGPTClientWithBaseURL creates a client with a custom base URL (for testing).
func NewYarnGPTClientWithBaseURL(apiKey, baseURL string) *YarnGPTClient {
	return &YarnGPTClient{
		httpClient: &http.Client{Timeout: callTimeout},
		apiKey:     apiKey,
		baseURL:    baseURL,
	}
}

// Synthesize converts text to MP3 bytes. Transient failures (network error,
// 429, 5xx) are retried once; anything else fails immediately.
func (c *YarnGPTClient) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	body, err := json.Marshal(TTSRequest{Text: text, Voice: voice, ResponseFormat: "mp3"})
	if err != nil {
		return nil, fmt.Errorf("yarngpt: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("yarngpt: %w", err)
		}

		audio, retryable, err := c.doSynthesize(ctx, body)
		if err == nil {
			return audio, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, lastErr
}

func (c *YarnGPTClient) doSynthesize(ctx context.Context, body []byte) (audio []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/tts", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("yarngpt: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("yarngpt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("yarngpt: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	audio, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("yarngpt: %w", err)
	}
	return audio, false, nil
}
