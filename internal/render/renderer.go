// Package render produces the final brochure thumbnail by invoking the
// external layout renderer as a subprocess.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aibrochure/brochure-api/internal/config"
	"github.com/aibrochure/brochure-api/internal/domain"
	"github.com/aibrochure/brochure-api/internal/exec"
)

// ErrRenderFailed is returned when the renderer subprocess exits non-zero.
var ErrRenderFailed = errors.New("brochure renderer failed")

var whitespaceRe = regexp.MustCompile(`\s+`)

// Renderer shells out to the python layout module to compose the brochure
// image from its generated parts.
type Renderer struct {
	logger       *slog.Logger
	runner       exec.CommandRunner
	pythonBinary string
	module       string
	outputDir    string
}

// NewRenderer creates a Renderer from the generation configuration.
func NewRenderer(logger *slog.Logger, runner exec.CommandRunner, cfg config.GenerationConfig) (*Renderer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if runner == nil {
		return nil, errors.New("command runner cannot be nil")
	}
	if cfg.PythonBinary == "" || cfg.RendererModule == "" {
		return nil, errors.New("python binary and renderer module must be configured")
	}
	if cfg.BrochureOutputDir == "" {
		return nil, errors.New("brochure output directory must be configured")
	}

	return &Renderer{
		logger:       logger,
		runner:       runner,
		pythonBinary: cfg.PythonBinary,
		module:       cfg.RendererModule,
		outputDir:    cfg.BrochureOutputDir,
	}, nil
}

// RenderThumbnail runs the renderer for the given hotel and location and
// returns the path the renderer writes its output to. An empty layout falls
// back to the default. A non-zero exit wraps ErrRenderFailed with the
// subprocess output.
func (r *Renderer) RenderThumbnail(ctx context.Context, hotelName, location, layout string) (string, error) {
	if hotelName == "" {
		return "", fmt.Errorf("%w: hotel name is empty", ErrRenderFailed)
	}
	if layout == "" {
		layout = domain.DefaultLayout
	}

	args := []string{
		"-m", r.module,
		"--hotel_name", hotelName,
		"--location", location,
		"--layout", layout,
	}

	r.logger.InfoContext(ctx, "Rendering brochure thumbnail",
		"hotel_name", hotelName,
		"layout", layout)

	output, err := r.runner.Run(ctx, "", r.pythonBinary, args...)
	if err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrRenderFailed, err, strings.TrimSpace(string(output)))
	}

	return r.OutputPath(hotelName, layout), nil
}

// OutputPath is the file path the renderer writes for a hotel and layout:
// the hotel name with whitespace runs collapsed to underscores, suffixed
// with the layout and "_brochure.png", under the output directory.
func (r *Renderer) OutputPath(hotelName, layout string) string {
	safeName := whitespaceRe.ReplaceAllString(strings.TrimSpace(hotelName), "_")
	return filepath.Join(r.outputDir, fmt.Sprintf("%s_%s_brochure.png", safeName, layout))
}
