// Package content produces debate dialogue through a provider fallback
// chain. Generate never fails: the game must keep moving even when every
// upstream provider is down.
package content

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goat-debate/backend/internal/gemini"
	"github.com/goat-debate/backend/internal/textclean"
)

// FallbackLine is returned in character when every provider fails.
const FallbackLine = "Abeg, network no good. I no fit talk now."

// Sampling temperatures per call purpose.
const (
	TempDialogue = 0.8 // creative, in-character replies
	TempJudging  = 0.2 // structured judge and scoring output
)

// Primary generates text from the main LLM provider.
type Primary interface {
	GenerateText(ctx context.Context, prompt string, opts gemini.TextOptions) (string, error)
}

// Secondary generates text from the free fallback provider.
type Secondary interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Provider chains a primary and secondary text generator with a static
// last-resort line.
type Provider struct {
	primary   Primary
	secondary Secondary
	logger    *zap.Logger
}

// NewProvider creates a Provider. secondary may be nil, in which case a
// primary failure goes straight to the static fallback.
func NewProvider(primary Primary, secondary Secondary, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{primary: primary, secondary: secondary, logger: logger}
}

// Generate returns cleaned text for prompt. It attempts the primary
// provider, then the secondary, and finally returns FallbackLine. It never
// returns an error or an empty string.
func (p *Provider) Generate(ctx context.Context, prompt string, opts gemini.TextOptions) string {
	text, err := p.primary.GenerateText(ctx, prompt, opts)
	if err == nil {
		if cleaned := textclean.Clean(text); cleaned != "" {
			return cleaned
		}
		err = errEmptyOutput
	}
	p.logger.Warn("primary text provider failed", zap.Error(err))

	if p.secondary != nil {
		text, err = p.secondary.GenerateText(ctx, prompt)
		if err == nil {
			if cleaned := textclean.Clean(text); cleaned != "" {
				return cleaned
			}
			err = errEmptyOutput
		}
		p.logger.Warn("secondary text provider failed", zap.Error(err))
	}

	return FallbackLine
}

var errEmptyOutput = errors.New("content: provider returned empty output")
