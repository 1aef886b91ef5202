package llm

import (
	"context"
)

// LLMClient is the plain text-in/text-out capability every provider has.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VisionClient analyzes a base64-encoded image alongside a prompt. Not every
// provider supports it; the factory returns nil when unsupported.
type VisionClient interface {
	GenerateVision(ctx context.Context, prompt, imageB64, mimeType string) (string, error)
}

// ImageClient synthesizes an image and returns a URL or data URL.
// referenceB64 may be empty; providers without reference support ignore it.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt, referenceB64 string) (string, error)
}
