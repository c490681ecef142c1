package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aibrochure/brochure-api/internal/domain"
	"github.com/aibrochure/brochure-api/internal/generation"
)

// Stage failure messages recorded in the registry. Pollers see them prefixed
// with "Error: ".
const (
	msgUserNotFound     = "user not found"
	msgTextFailed       = "Failed to generate text content"
	msgImagesFailed     = "Failed to generate images"
	msgSaveFailed       = "Failed to save brochure"
	msgThumbnailFailed  = "Failed to generate brochure image"
	msgCompleted        = "Brochure generated successfully"
	msgAnalyzingPrompt  = "Processing prompt..."
	msgGeneratingText   = "Generating text content..."
	msgGeneratingImages = "Generating images..."
	msgSavingBrochure   = "Saving brochure..."
	msgRenderingPreview = "Rendering brochure thumbnail..."
)

// UserResolver resolves the acting principal for a task.
type UserResolver interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// BrochureSaver persists the generated artifact.
type BrochureSaver interface {
	CreateBrochure(ctx context.Context, brochure *domain.Brochure) error
	UpdateBrochure(ctx context.Context, brochure *domain.Brochure) error
}

// ThumbnailRenderer composes the final brochure image, returning the path of
// the rendered file.
type ThumbnailRenderer interface {
	RenderThumbnail(ctx context.Context, hotelName, location, layout string) (string, error)
}

// brochureTaskPayload is the serialized form of the task's input, exposed
// through Payload for logging and diagnostics.
type brochureTaskPayload struct {
	UserID  uuid.UUID                `json:"user_id"`
	Request domain.GenerationRequest `json:"request"`
}

// BrochureGenerationTask runs the full generation pipeline for one submitted
// request: principal resolution, prompt analysis, text generation, image
// generation, persistence, and thumbnail rendering. Every stage boundary is
// written to the registry before the stage's work begins, so a poller always
// observes what is currently happening. On any stage failure the registry
// records the failed state first, then Execute returns the error to the
// runner.
type BrochureGenerationTask struct {
	id      uuid.UUID
	userID  uuid.UUID
	request domain.GenerationRequest

	registry  *Registry
	users     UserResolver
	brochures BrochureSaver
	textGen   generation.TextGenerator
	imageGen  generation.ImageGenerator
	renderer  ThumbnailRenderer
	logger    *slog.Logger

	mu     sync.Mutex
	status TaskStatus
}

// NewBrochureGenerationTask creates a pipeline task for the given request.
// The task ID must be the one seeded in the registry at submission.
func NewBrochureGenerationTask(
	taskID uuid.UUID,
	userID uuid.UUID,
	request domain.GenerationRequest,
	registry *Registry,
	users UserResolver,
	brochures BrochureSaver,
	textGen generation.TextGenerator,
	imageGen generation.ImageGenerator,
	renderer ThumbnailRenderer,
	logger *slog.Logger,
) (*BrochureGenerationTask, error) {
	if taskID == uuid.Nil {
		return nil, errors.New("task ID cannot be nil")
	}
	if userID == uuid.Nil {
		return nil, errors.New("user ID cannot be nil")
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	if registry == nil {
		return nil, errors.New("registry cannot be nil")
	}
	if users == nil {
		return nil, errors.New("user resolver cannot be nil")
	}
	if brochures == nil {
		return nil, errors.New("brochure saver cannot be nil")
	}
	if textGen == nil {
		return nil, errors.New("text generator cannot be nil")
	}
	if imageGen == nil {
		return nil, errors.New("image generator cannot be nil")
	}
	if renderer == nil {
		return nil, errors.New("thumbnail renderer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &BrochureGenerationTask{
		id:        taskID,
		userID:    userID,
		request:   request,
		registry:  registry,
		users:     users,
		brochures: brochures,
		textGen:   textGen,
		imageGen:  imageGen,
		renderer:  renderer,
		logger:    logger.With("task_id", taskID, "task_type", TaskTypeBrochureGeneration),
		status:    TaskStatusProcessing,
	}, nil
}

// ID returns the task's unique identifier.
func (t *BrochureGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier.
func (t *BrochureGenerationTask) Type() string {
	return TaskTypeBrochureGeneration
}

// Payload returns the serialized task input.
func (t *BrochureGenerationTask) Payload() []byte {
	data, err := json.Marshal(brochureTaskPayload{UserID: t.userID, Request: t.request})
	if err != nil {
		return nil
	}
	return data
}

// Status returns the current task status.
func (t *BrochureGenerationTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func (t *BrochureGenerationTask) setStatus(status TaskStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

// Execute runs the pipeline to a terminal state. The registry write is the
// authoritative record of the outcome; the returned error only feeds the
// runner's logging and error hook.
func (t *BrochureGenerationTask) Execute(ctx context.Context) error {
	t.logger.InfoContext(ctx, "Starting brochure generation")

	// Stage 1: resolve the acting principal.
	user, err := t.users.GetUserByID(ctx, t.userID)
	if err != nil || user == nil {
		return t.fail(ctx, msgUserNotFound, err)
	}

	// Stage 2: prompt analysis. Pure given the validated request.
	t.progress(ctx, msgAnalyzingPrompt)
	processed := generation.Analyze(t.request.Prompt)

	if err := ctx.Err(); err != nil {
		return t.fail(ctx, err.Error(), err)
	}

	// Stage 3: text generation.
	t.progress(ctx, msgGeneratingText)
	content, err := t.textGen.GenerateText(ctx, processed.TextPrompt)
	if err != nil || strings.TrimSpace(content) == "" {
		return t.fail(ctx, msgTextFailed, err)
	}

	if err := ctx.Err(); err != nil {
		return t.fail(ctx, err.Error(), err)
	}

	// Stage 4: image generation. Per-prompt failures are skipped inside the
	// client; only an empty aggregate fails the task.
	t.progress(ctx, msgGeneratingImages)
	images, err := t.imageGen.GenerateImages(ctx, processed.ImagePrompts)
	if err != nil || len(images) == 0 {
		return t.fail(ctx, msgImagesFailed, err)
	}

	// Stage 5: persist the artifact.
	t.progress(ctx, msgSavingBrochure)
	brochure, err := domain.NewBrochure(t.userID, t.request.Name, domain.BrochureStatusCompleted)
	if err != nil {
		return t.fail(ctx, msgSaveFailed, err)
	}
	brochure.HotelName = generation.ExtractHotelName(t.request.Prompt)
	brochure.Location = generation.ExtractLocation(t.request.Prompt)
	brochure.Theme = generation.ExtractTheme(t.request.Prompt)
	brochure.Content = content
	brochure.Images = images

	if err := t.brochures.CreateBrochure(ctx, brochure); err != nil {
		return t.fail(ctx, msgSaveFailed, err)
	}

	// Stage 6: render and attach the thumbnail.
	t.progress(ctx, msgRenderingPreview)
	thumbnail, err := t.renderer.RenderThumbnail(ctx, brochure.HotelName, brochure.Location, t.request.EffectiveLayout())
	if err != nil {
		return t.fail(ctx, msgThumbnailFailed, err)
	}
	brochure.SetThumbnail(thumbnail)
	if err := t.brochures.UpdateBrochure(ctx, brochure); err != nil {
		return t.fail(ctx, msgSaveFailed, err)
	}

	t.setStatus(TaskStatusCompleted)
	t.registry.Update(t.id, TaskStatusCompleted, msgCompleted, map[string]any{
		"id":      brochure.ID,
		"title":   brochure.Title,
		"content": brochure.Content,
		"images":  brochure.Images,
		"status":  string(brochure.Status),
	})
	t.logger.InfoContext(ctx, "Brochure generation completed", "brochure_id", brochure.ID)
	return nil
}

// progress records the upcoming stage in the registry before its work runs.
func (t *BrochureGenerationTask) progress(ctx context.Context, message string) {
	t.logger.InfoContext(ctx, "Pipeline stage", "stage", message)
	t.registry.Update(t.id, TaskStatusProcessing, message, nil)
}

// fail freezes the task in the failed state. The registry write happens
// before the error is returned so a poller never observes a silently stuck
// processing task.
func (t *BrochureGenerationTask) fail(ctx context.Context, message string, cause error) error {
	t.setStatus(TaskStatusFailed)
	t.registry.Update(t.id, TaskStatusFailed, "Error: "+message, nil)

	err := errors.New(message)
	if cause != nil {
		err = fmt.Errorf("%s: %w", message, cause)
	}
	t.logger.ErrorContext(ctx, "Brochure generation failed", "error", err)
	return err
}
