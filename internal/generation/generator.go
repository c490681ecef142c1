package generation

import "context"

// TextGenerator defines the interface for producing brochure copy from a
// cleaned text prompt. This interface serves as a boundary between the
// application core and external AI services, following the hexagonal
// architecture pattern.
type TextGenerator interface {
	// GenerateText creates marketing copy from the given prompt.
	// Returns the generated text, or an error if the backend fails or
	// returns an empty result.
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator defines the interface for producing images from visual
// prompts.
type ImageGenerator interface {
	// GenerateImages creates one image per prompt, best-effort: a failure
	// on an individual prompt is skipped, not surfaced. Returns the
	// references (file paths or URLs) of the images that were produced;
	// the slice may be shorter than prompts. An error is returned only for
	// failures that prevent any attempt from being made.
	GenerateImages(ctx context.Context, prompts []string) ([]string, error)
}
