package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aibrochure/brochure-api/internal/domain"
	"github.com/aibrochure/brochure-api/internal/store"
	"github.com/aibrochure/brochure-api/internal/task"
)

// TaskRunner defines the interface for submitting background tasks.
type TaskRunner interface {
	// Submit adds a task to the processing queue
	Submit(ctx context.Context, t task.Task) error
}

// GenerationTaskFactory creates pipeline tasks for submitted requests. The
// factory owns the pipeline's collaborator wiring so the service stays
// decoupled from generation backends.
type GenerationTaskFactory interface {
	CreateTask(taskID, userID uuid.UUID, request domain.GenerationRequest) (task.Task, error)
}

// GenerationStarted is the synchronous result of a successful submission.
type GenerationStarted struct {
	TaskID  uuid.UUID       `json:"task_id"`
	Status  task.TaskStatus `json:"status"`
	Message string          `json:"message"`
}

// BrochureService is the facade the HTTP layer talks to: asynchronous
// generation submission, status polling, and brochure management.
type BrochureService interface {
	// StartGeneration validates the request, seeds the registry, and
	// schedules the pipeline. The only synchronous failure modes are request
	// validation and a full queue; all pipeline failures surface through the
	// task status.
	StartGeneration(ctx context.Context, userID uuid.UUID, request domain.GenerationRequest) (*GenerationStarted, error)

	// GetTaskStatus reads a task's current status from the registry. Unknown
	// IDs yield the stable not_found status, never an error.
	GetTaskStatus(ctx context.Context, taskID uuid.UUID) task.Status

	// GetBrochure fetches one brochure, enforcing ownership.
	GetBrochure(ctx context.Context, userID, brochureID uuid.UUID) (*domain.Brochure, error)

	// ListBrochures returns one page of the user's brochures plus the total
	// count.
	ListBrochures(ctx context.Context, userID uuid.UUID, params store.BrochureListParams) ([]*domain.Brochure, int, error)

	// UpdateBrochure changes a brochure's title and content, enforcing
	// ownership.
	UpdateBrochure(ctx context.Context, userID, brochureID uuid.UUID, title, content string) (*domain.Brochure, error)

	// DeleteBrochure removes a brochure, enforcing ownership.
	DeleteBrochure(ctx context.Context, userID, brochureID uuid.UUID) error
}

// brochureService is the default BrochureService implementation.
type brochureService struct {
	registry    *task.Registry
	runner      TaskRunner
	taskFactory GenerationTaskFactory
	brochures   store.BrochureStore
	logger      *slog.Logger
}

// NewBrochureService creates the brochure service facade.
func NewBrochureService(
	registry *task.Registry,
	runner TaskRunner,
	taskFactory GenerationTaskFactory,
	brochures store.BrochureStore,
	logger *slog.Logger,
) (BrochureService, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if runner == nil {
		return nil, fmt.Errorf("task runner cannot be nil")
	}
	if taskFactory == nil {
		return nil, fmt.Errorf("task factory cannot be nil")
	}
	if brochures == nil {
		return nil, fmt.Errorf("brochure store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &brochureService{
		registry:    registry,
		runner:      runner,
		taskFactory: taskFactory,
		brochures:   brochures,
		logger:      logger.With(slog.String("component", "brochure_service")),
	}, nil
}

// StartGeneration implements BrochureService.StartGeneration.
func (s *brochureService) StartGeneration(
	ctx context.Context,
	userID uuid.UUID,
	request domain.GenerationRequest,
) (*GenerationStarted, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	taskID := uuid.New()
	s.registry.Create(taskID)

	pipeline, err := s.taskFactory.CreateTask(taskID, userID, request)
	if err != nil {
		s.registry.Update(taskID, task.TaskStatusFailed, "Error: "+err.Error(), nil)
		return nil, NewBrochureServiceError("start_generation", "failed to create generation task", err)
	}

	if err := s.runner.Submit(ctx, pipeline); err != nil {
		// record the terminal state so the seeded entry is never stuck in
		// processing
		s.registry.Update(taskID, task.TaskStatusFailed, "Error: "+err.Error(), nil)
		s.logger.WarnContext(ctx, "generation task rejected",
			slog.String("task_id", taskID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrQueueFull, err)
	}

	s.logger.InfoContext(ctx, "generation task submitted",
		slog.String("task_id", taskID.String()),
		slog.String("user_id", userID.String()))

	return &GenerationStarted{
		TaskID:  taskID,
		Status:  task.TaskStatusProcessing,
		Message: "Brochure generation started",
	}, nil
}

// GetTaskStatus implements BrochureService.GetTaskStatus.
func (s *brochureService) GetTaskStatus(_ context.Context, taskID uuid.UUID) task.Status {
	return s.registry.Get(taskID)
}

// GetBrochure implements BrochureService.GetBrochure.
func (s *brochureService) GetBrochure(ctx context.Context, userID, brochureID uuid.UUID) (*domain.Brochure, error) {
	brochure, err := s.brochures.GetByID(ctx, brochureID)
	if err != nil {
		return nil, err
	}
	if brochure.UserID != userID {
		return nil, ErrNotOwned
	}
	return brochure, nil
}

// ListBrochures implements BrochureService.ListBrochures.
func (s *brochureService) ListBrochures(
	ctx context.Context,
	userID uuid.UUID,
	params store.BrochureListParams,
) ([]*domain.Brochure, int, error) {
	return s.brochures.ListByUser(ctx, userID, params)
}

// UpdateBrochure implements BrochureService.UpdateBrochure.
func (s *brochureService) UpdateBrochure(
	ctx context.Context,
	userID, brochureID uuid.UUID,
	title, content string,
) (*domain.Brochure, error) {
	brochure, err := s.GetBrochure(ctx, userID, brochureID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		brochure.Title = title
	}
	if content != "" {
		brochure.Content = content
	}

	if err := s.brochures.Update(ctx, brochure); err != nil {
		return nil, NewBrochureServiceError("update_brochure", "failed to update brochure", err)
	}
	return brochure, nil
}

// DeleteBrochure implements BrochureService.DeleteBrochure.
func (s *brochureService) DeleteBrochure(ctx context.Context, userID, brochureID uuid.UUID) error {
	if _, err := s.GetBrochure(ctx, userID, brochureID); err != nil {
		return err
	}
	return s.brochures.Delete(ctx, brochureID)
}
