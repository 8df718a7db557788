// Package imagegen builds persona portrait images for the debate UI.
package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
)

// ImageClient generates raw image bytes for a prompt.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (data []byte, mimeType string, err error)
}

// Generator produces persona portraits as data URLs.
type Generator struct {
	client ImageClient
}

// NewGenerator creates a Generator.
func NewGenerator(client ImageClient) *Generator {
	return &Generator{client: client}
}

// Portrait generates a studio portrait of the named persona and returns it
// as a base64 data URL. Unlike the debate flow, failures here surface to
// the caller: portraits are a standalone endpoint, not part of a turn.
func (g *Generator) Portrait(ctx context.Context, personaName string) (string, error) {
	data, mimeType, err := g.client.GenerateImage(ctx, buildPortraitPrompt(personaName))
	if err != nil {
		return "", fmt.Errorf("imagegen: %w", err)
	}
	if mimeType == "" {
		mimeType = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}

func buildPortraitPrompt(personaName string) string {
	return fmt.Sprintf("Create a professional portrait photo of %s, photorealistic, high quality, studio lighting, neutral background, facing camera, serious expression, head and shoulders shot", personaName)
}
