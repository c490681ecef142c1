package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/aibrochure/brochure-api/internal/config"
	"github.com/aibrochure/brochure-api/internal/domain"
	"github.com/aibrochure/brochure-api/internal/exec"
	"github.com/aibrochure/brochure-api/internal/generation"
	"github.com/aibrochure/brochure-api/internal/platform/gemini"
	"github.com/aibrochure/brochure-api/internal/platform/postgres"
	"github.com/aibrochure/brochure-api/internal/platform/stablediffusion"
	"github.com/aibrochure/brochure-api/internal/platform/t5"
	"github.com/aibrochure/brochure-api/internal/render"
	"github.com/aibrochure/brochure-api/internal/service"
	"github.com/aibrochure/brochure-api/internal/service/auth"
	"github.com/aibrochure/brochure-api/internal/store"
	"github.com/aibrochure/brochure-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore     store.UserStore
	brochureStore store.BrochureStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	brochureService  service.BrochureService

	// Task handling
	taskRegistry *task.Registry
	taskRunner   *task.Runner
}

// brochureTaskFactory builds pipeline tasks with the generation backends
// selected by configuration. It implements service.GenerationTaskFactory.
type brochureTaskFactory struct {
	registry *task.Registry
	users    task.UserResolver
	saver    task.BrochureSaver
	textGen  generation.TextGenerator
	imageGen generation.ImageGenerator
	renderer task.ThumbnailRenderer
	logger   *slog.Logger
}

func (f *brochureTaskFactory) CreateTask(
	taskID, userID uuid.UUID,
	request domain.GenerationRequest,
) (task.Task, error) {
	return task.NewBrochureGenerationTask(
		taskID,
		userID,
		request,
		f.registry,
		f.users,
		f.saver,
		f.textGen,
		f.imageGen,
		f.renderer,
		f.logger,
	)
}

// userResolverAdapter exposes store.UserStore under the pipeline's
// UserResolver interface.
type userResolverAdapter struct {
	users store.UserStore
}

func (a *userResolverAdapter) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return a.users.GetByID(ctx, id)
}

// brochureSaverAdapter exposes store.BrochureStore under the pipeline's
// BrochureSaver interface, running each write in its own transaction.
type brochureSaverAdapter struct {
	db        *sql.DB
	brochures store.BrochureStore
}

func (a *brochureSaverAdapter) CreateBrochure(ctx context.Context, brochure *domain.Brochure) error {
	return store.RunInTransaction(ctx, a.db, func(ctx context.Context, tx *sql.Tx) error {
		return a.brochures.WithTx(tx).Create(ctx, brochure)
	})
}

func (a *brochureSaverAdapter) UpdateBrochure(ctx context.Context, brochure *domain.Brochure) error {
	return store.RunInTransaction(ctx, a.db, func(ctx context.Context, tx *sql.Tx) error {
		return a.brochures.WithTx(tx).Update(ctx, brochure)
	})
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	bcryptCost := cfg.Auth.BcryptCost
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	app.userStore = postgres.NewPostgresUserStore(db, logger, bcryptCost)
	app.brochureStore = postgres.NewPostgresBrochureStore(db, logger)

	textGen, err := setupTextGenerator(ctx, cfg.Generation, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text generator: %w", err)
	}

	imageGen, err := stablediffusion.NewClient(logger.With("component", "image_generator"), cfg.Generation)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image generator: %w", err)
	}

	renderer, err := render.NewRenderer(
		logger.With("component", "thumbnail_renderer"),
		exec.NewRunner(),
		cfg.Generation,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize thumbnail renderer: %w", err)
	}

	app.taskRegistry = task.NewRegistry()
	app.taskRunner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger.With("component", "task_runner"))
	app.taskRunner.Start()

	taskFactory := &brochureTaskFactory{
		registry: app.taskRegistry,
		users:    &userResolverAdapter{users: app.userStore},
		saver:    &brochureSaverAdapter{db: db, brochures: app.brochureStore},
		textGen:  textGen,
		imageGen: imageGen,
		renderer: renderer,
		logger:   logger.With("component", "generation_pipeline"),
	}

	app.brochureService, err = service.NewBrochureService(
		app.taskRegistry,
		app.taskRunner,
		taskFactory,
		app.brochureStore,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create brochure service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupTextGenerator selects the text generation backend from configuration.
func setupTextGenerator(
	ctx context.Context,
	cfg config.GenerationConfig,
	logger *slog.Logger,
) (generation.TextGenerator, error) {
	switch cfg.TextBackend {
	case "gemini":
		return gemini.NewGenerator(ctx, logger.With("component", "text_generator"), cfg)
	case "t5":
		return t5.NewGenerator(logger.With("component", "text_generator"), cfg)
	default:
		return nil, fmt.Errorf("unknown text backend %q", cfg.TextBackend)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
