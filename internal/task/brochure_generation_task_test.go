package task_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aibrochure/brochure-api/internal/domain"
	"github.com/aibrochure/brochure-api/internal/task"
)

// Mock collaborators with swappable function fields.

type mockUserResolver struct {
	GetUserByIDFn func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *mockUserResolver) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetUserByIDFn != nil {
		return m.GetUserByIDFn(ctx, id)
	}
	return &domain.User{ID: id, Email: "traveler@example.com"}, nil
}

type mockBrochureSaver struct {
	CreateBrochureFn func(ctx context.Context, brochure *domain.Brochure) error
	UpdateBrochureFn func(ctx context.Context, brochure *domain.Brochure) error

	created *domain.Brochure
	updated *domain.Brochure
}

func (m *mockBrochureSaver) CreateBrochure(ctx context.Context, brochure *domain.Brochure) error {
	m.created = brochure
	if m.CreateBrochureFn != nil {
		return m.CreateBrochureFn(ctx, brochure)
	}
	return nil
}

func (m *mockBrochureSaver) UpdateBrochure(ctx context.Context, brochure *domain.Brochure) error {
	m.updated = brochure
	if m.UpdateBrochureFn != nil {
		return m.UpdateBrochureFn(ctx, brochure)
	}
	return nil
}

type mockTextGenerator struct {
	GenerateTextFn func(ctx context.Context, prompt string) (string, error)
}

func (m *mockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if m.GenerateTextFn != nil {
		return m.GenerateTextFn(ctx, prompt)
	}
	return "Welcome to paradise.", nil
}

type mockImageGenerator struct {
	GenerateImagesFn func(ctx context.Context, prompts []string) ([]string, error)
}

func (m *mockImageGenerator) GenerateImages(ctx context.Context, prompts []string) ([]string, error) {
	if m.GenerateImagesFn != nil {
		return m.GenerateImagesFn(ctx, prompts)
	}
	return []string{"generated_images/one.png"}, nil
}

type mockRenderer struct {
	RenderThumbnailFn func(ctx context.Context, hotelName, location, layout string) (string, error)
}

func (m *mockRenderer) RenderThumbnail(ctx context.Context, hotelName, location, layout string) (string, error) {
	if m.RenderThumbnailFn != nil {
		return m.RenderThumbnailFn(ctx, hotelName, location, layout)
	}
	return "generated_brochures/thumb.png", nil
}

type taskFixture struct {
	registry *task.Registry
	users    *mockUserResolver
	saver    *mockBrochureSaver
	textGen  *mockTextGenerator
	imageGen *mockImageGenerator
	renderer *mockRenderer
	taskID   uuid.UUID
	userID   uuid.UUID
	request  domain.GenerationRequest
}

func newTaskFixture() *taskFixture {
	return &taskFixture{
		registry: task.NewRegistry(),
		users:    &mockUserResolver{},
		saver:    &mockBrochureSaver{},
		textGen:  &mockTextGenerator{},
		imageGen: &mockImageGenerator{},
		renderer: &mockRenderer{},
		taskID:   uuid.New(),
		userID:   uuid.New(),
		request: domain.GenerationRequest{
			Name:   "Summer Escape",
			Prompt: `A brochure for "Ocean Breeze Villas" in Bali featuring infinity pools`,
		},
	}
}

func (f *taskFixture) build(t *testing.T) *task.BrochureGenerationTask {
	t.Helper()
	f.registry.Create(f.taskID)
	pipeline, err := task.NewBrochureGenerationTask(
		f.taskID, f.userID, f.request,
		f.registry, f.users, f.saver, f.textGen, f.imageGen, f.renderer,
		slog.Default(),
	)
	require.NoError(t, err)
	return pipeline
}

func TestBrochureGenerationTask_Success(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	pipeline := f.build(t)

	require.NoError(t, pipeline.Execute(context.Background()))

	status := f.registry.Get(f.taskID)
	assert.Equal(t, task.TaskStatusCompleted, status.State)
	assert.Equal(t, "Brochure generated successfully", status.Message)
	assert.Equal(t, "Summer Escape", status.Data["title"])
	assert.Equal(t, "Welcome to paradise.", status.Data["content"])
	assert.Equal(t, []string{"generated_images/one.png"}, status.Data["images"])
	assert.Equal(t, "COMPLETED", status.Data["status"])

	require.NotNil(t, f.saver.created)
	assert.Equal(t, "Ocean Breeze Villas", f.saver.created.HotelName)
	assert.Equal(t, "Bali", f.saver.created.Location)
	assert.Equal(t, f.userID, f.saver.created.UserID)

	require.NotNil(t, f.saver.updated)
	assert.Equal(t, "generated_brochures/thumb.png", f.saver.updated.Thumbnail)

	assert.Equal(t, task.TaskStatusCompleted, pipeline.Status())
}

func TestBrochureGenerationTask_UserNotFound(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	f.users.GetUserByIDFn = func(_ context.Context, _ uuid.UUID) (*domain.User, error) {
		return nil, errors.New("no such user")
	}
	pipeline := f.build(t)

	err := pipeline.Execute(context.Background())
	require.Error(t, err)

	status := f.registry.Get(f.taskID)
	assert.Equal(t, task.TaskStatusFailed, status.State)
	assert.Equal(t, "Error: user not found", status.Message)
	assert.Nil(t, f.saver.created)
}

func TestBrochureGenerationTask_TextGenerationFails(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		fn   func(ctx context.Context, prompt string) (string, error)
	}{
		{
			name: "backend error",
			fn: func(_ context.Context, _ string) (string, error) {
				return "", errors.New("backend down")
			},
		},
		{
			name: "empty result",
			fn: func(_ context.Context, _ string) (string, error) {
				return "   ", nil
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newTaskFixture()
			f.textGen.GenerateTextFn = tc.fn
			pipeline := f.build(t)

			require.Error(t, pipeline.Execute(context.Background()))

			status := f.registry.Get(f.taskID)
			assert.Equal(t, task.TaskStatusFailed, status.State)
			assert.Equal(t, "Error: Failed to generate text content", status.Message)
		})
	}
}

func TestBrochureGenerationTask_AllImagesFail(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	f.imageGen.GenerateImagesFn = func(_ context.Context, _ []string) ([]string, error) {
		return nil, nil
	}
	pipeline := f.build(t)

	require.Error(t, pipeline.Execute(context.Background()))

	status := f.registry.Get(f.taskID)
	assert.Equal(t, task.TaskStatusFailed, status.State)
	assert.Equal(t, "Error: Failed to generate images", status.Message)
	assert.Nil(t, f.saver.created)
}

func TestBrochureGenerationTask_PartialImagesProceed(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	f.imageGen.GenerateImagesFn = func(_ context.Context, prompts []string) ([]string, error) {
		// only one of the prompts produced an image
		return []string{"generated_images/only.png"}, nil
	}
	pipeline := f.build(t)

	require.NoError(t, pipeline.Execute(context.Background()))
	assert.Equal(t, task.TaskStatusCompleted, f.registry.Get(f.taskID).State)
}

func TestBrochureGenerationTask_PersistenceFails(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	f.saver.CreateBrochureFn = func(_ context.Context, _ *domain.Brochure) error {
		return errors.New("connection refused")
	}
	pipeline := f.build(t)

	require.Error(t, pipeline.Execute(context.Background()))

	status := f.registry.Get(f.taskID)
	assert.Equal(t, task.TaskStatusFailed, status.State)
	assert.Equal(t, "Error: Failed to save brochure", status.Message)
}

func TestBrochureGenerationTask_RenderFails(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	f.renderer.RenderThumbnailFn = func(_ context.Context, _, _, _ string) (string, error) {
		return "", errors.New("exit status 1")
	}
	pipeline := f.build(t)

	require.Error(t, pipeline.Execute(context.Background()))

	status := f.registry.Get(f.taskID)
	assert.Equal(t, task.TaskStatusFailed, status.State)
	assert.Equal(t, "Error: Failed to generate brochure image", status.Message)

	// the artifact was persisted before the render failure
	assert.NotNil(t, f.saver.created)
}

func TestBrochureGenerationTask_TerminalStatusIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	pipeline := f.build(t)
	require.NoError(t, pipeline.Execute(context.Background()))

	first := f.registry.Get(f.taskID)
	second := f.registry.Get(f.taskID)
	assert.Equal(t, first, second)
}

func TestBrochureGenerationTask_CanceledContext(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	pipeline := f.build(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, pipeline.Execute(ctx))
	assert.Equal(t, task.TaskStatusFailed, f.registry.Get(f.taskID).State)
}

func TestBrochureGenerationTask_DefaultLayoutPassedToRenderer(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()
	var gotLayout string
	f.renderer.RenderThumbnailFn = func(_ context.Context, _, _, layout string) (string, error) {
		gotLayout = layout
		return "generated_brochures/thumb.png", nil
	}
	pipeline := f.build(t)

	require.NoError(t, pipeline.Execute(context.Background()))
	assert.Equal(t, domain.DefaultLayout, gotLayout)
}

func TestNewBrochureGenerationTask_Validation(t *testing.T) {
	t.Parallel()

	f := newTaskFixture()

	t.Run("nil task ID", func(t *testing.T) {
		t.Parallel()
		_, err := task.NewBrochureGenerationTask(
			uuid.Nil, f.userID, f.request,
			f.registry, f.users, f.saver, f.textGen, f.imageGen, f.renderer,
			slog.Default(),
		)
		assert.Error(t, err)
	})

	t.Run("blank prompt", func(t *testing.T) {
		t.Parallel()
		req := domain.GenerationRequest{Name: "x", Prompt: "  "}
		_, err := task.NewBrochureGenerationTask(
			uuid.New(), f.userID, req,
			f.registry, f.users, f.saver, f.textGen, f.imageGen, f.renderer,
			slog.Default(),
		)
		assert.ErrorIs(t, err, domain.ErrBlankRequestPrompt)
	})

	t.Run("nil registry", func(t *testing.T) {
		t.Parallel()
		_, err := task.NewBrochureGenerationTask(
			uuid.New(), f.userID, f.request,
			nil, f.users, f.saver, f.textGen, f.imageGen, f.renderer,
			slog.Default(),
		)
		assert.Error(t, err)
	})
}
