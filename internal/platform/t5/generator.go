// Package t5 implements the generation.TextGenerator interface against a
// local T5 inference server speaking a small JSON protocol over HTTP.
package t5

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/aibrochure/brochure-api/internal/config"
	"github.com/aibrochure/brochure-api/internal/generation"
)

// maxLength is the token budget requested from the inference server.
const maxLength = 100

// generateRequest is the wire format of the T5 server's /generate endpoint.
type generateRequest struct {
	Prompt    string `json:"prompt"`
	MaxLength int    `json:"max_length"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Generator calls a T5 inference server to produce brochure copy.
type Generator struct {
	logger     *slog.Logger
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewGenerator creates a Generator from the generation configuration.
// Returns generation.ErrInvalidConfig when the server URL is missing.
func NewGenerator(logger *slog.Logger, cfg config.GenerationConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.T5URL == "" {
		return nil, fmt.Errorf("%w: T5 server URL cannot be empty", generation.ErrInvalidConfig)
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Generator{
		logger:     logger,
		baseURL:    strings.TrimRight(cfg.T5URL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
		retryDelay: time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

// GenerateText sends the prompt to the inference server, retrying transient
// failures with exponential backoff and jitter. Non-2xx responses below 500
// are treated as permanent.
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

		g.logger.InfoContext(ctx, "Calling T5 inference server",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1)

		text, retryable, err := g.call(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !retryable {
			return "", err
		}
		g.logger.WarnContext(ctx, "T5 call failed, retrying",
			"error", err,
			"attempt", attempt+1)
	}

	return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, lastErr)
}

// call performs a single request. The second return reports whether the
// failure is worth retrying.
func (g *Generator) call(ctx context.Context, prompt string) (string, bool, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt, MaxLength: maxLength})
	if err != nil {
		return "", false, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 500 {
		return "", true, fmt.Errorf("%w: server returned status %d", generation.ErrTransientFailure, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("%w: server returned status %d", generation.ErrGenerationFailed, resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", false, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	if strings.TrimSpace(decoded.GeneratedText) == "" {
		return "", false, generation.ErrEmptyResult
	}

	return decoded.GeneratedText, false, nil
}
