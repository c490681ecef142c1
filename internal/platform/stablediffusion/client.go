// Package stablediffusion implements the generation.ImageGenerator interface
// against the Stable Diffusion WebUI txt2img API. Generated images arrive as
// base64-encoded PNGs and are persisted to the configured output directory.
package stablediffusion

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aibrochure/brochure-api/internal/config"
	"github.com/aibrochure/brochure-api/internal/generation"
)

// Fixed txt2img parameters for brochure imagery.
const (
	negativePrompt = "low quality, blurry, distorted"
	steps          = 20
	imageWidth     = 768
	imageHeight    = 512
)

// txt2imgRequest is the wire format of the /sdapi/v1/txt2img endpoint.
type txt2imgRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt"`
	Steps          int    `json:"steps"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type txt2imgResponse struct {
	Images []string `json:"images"`
}

// Client generates brochure images through a Stable Diffusion server.
type Client struct {
	logger     *slog.Logger
	baseURL    string
	outputDir  string
	httpClient *http.Client
}

// NewClient creates a Client from the generation configuration. Returns
// generation.ErrInvalidConfig when the server URL or output directory is
// missing.
func NewClient(logger *slog.Logger, cfg config.GenerationConfig) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.StableDiffusionURL == "" {
		return nil, fmt.Errorf("%w: Stable Diffusion URL cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ImageOutputDir == "" {
		return nil, fmt.Errorf("%w: image output directory cannot be empty", generation.ErrInvalidConfig)
	}

	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		logger:     logger,
		baseURL:    strings.TrimRight(cfg.StableDiffusionURL, "/"),
		outputDir:  cfg.ImageOutputDir,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GenerateImages produces one image per prompt, best-effort: a prompt whose
// generation or save fails is logged and skipped, and the remaining prompts
// still run. The returned paths are in prompt order and may be fewer than
// the prompts. Stops early only when the context is canceled.
func (c *Client) GenerateImages(ctx context.Context, prompts []string) ([]string, error) {
	paths := make([]string, 0, len(prompts))

	for _, prompt := range prompts {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		path, err := c.generateOne(ctx, prompt)
		if err != nil {
			c.logger.WarnContext(ctx, "Image generation failed for prompt, skipping",
				"error", err,
				"prompt", prompt)
			continue
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func (c *Client) generateOne(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(txt2imgRequest{
		Prompt:         prompt,
		NegativePrompt: negativePrompt,
		Steps:          steps,
		Width:          imageWidth,
		Height:         imageHeight,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sdapi/v1/txt2img", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: server returned status %d", generation.ErrGenerationFailed, resp.StatusCode)
	}

	var decoded txt2imgResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	if len(decoded.Images) == 0 {
		return "", generation.ErrEmptyResult
	}

	return c.saveImage(decoded.Images[0])
}

// saveImage decodes a base64 PNG and writes it under the output directory
// with a random filename.
func (c *Client) saveImage(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: image payload is not valid base64: %v", generation.ErrInvalidResponse, err)
	}

	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(c.outputDir, uuid.New().String()+".png")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	return path, nil
}
