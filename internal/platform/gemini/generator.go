// Package gemini implements the generation.TextGenerator interface using
// Google's Gemini API. It is the hosted alternative to the local T5 backend,
// selected through the generation configuration.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/aibrochure/brochure-api/internal/config"
	"github.com/aibrochure/brochure-api/internal/generation"
)

// Generator produces brochure copy through the Gemini API.
type Generator struct {
	logger     *slog.Logger
	client     *genai.Client
	model      string
	maxRetries int
	retryDelay time.Duration
}

// NewGenerator creates a Generator with the provided dependencies. Returns
// generation.ErrInvalidConfig when the API key or model name is missing.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.GenerationConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.GeminiModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:     logger,
		client:     client,
		model:      cfg.GeminiModelName,
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

// GenerateText calls the Gemini API with exponential backoff retry for
// transient errors. Empty or malformed responses are returned immediately
// without retrying.
func (g *Generator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: empty prompt", generation.ErrGenerationFailed)
	}

	maxRetries := g.maxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelay := g.retryDelay
	if baseDelay < time.Second {
		baseDelay = time.Second
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * baseDelay
			jitter := time.Duration(rng.Int63n(int64(baseDelay)))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff + jitter):
			}
		}

		g.logger.InfoContext(ctx, "Making Gemini API call",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"model", g.model)

		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			lastErr = fmt.Errorf("gemini API call failed: %w", err)
			g.logger.WarnContext(ctx, "Gemini call failed, retrying",
				"error", err,
				"attempt", attempt+1)
			continue
		}

		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", fmt.Errorf("%w: no content generated", generation.ErrEmptyResult)
		}
		return text, nil
	}

	return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, lastErr)
}
