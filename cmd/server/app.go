package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/xelami/kouza-api/internal/config"
	"github.com/xelami/kouza-api/internal/domain/srs"
	"github.com/xelami/kouza-api/internal/events"
	"github.com/xelami/kouza-api/internal/platform/gemini"
	"github.com/xelami/kouza-api/internal/platform/postgres"
	"github.com/xelami/kouza-api/internal/service"
	"github.com/xelami/kouza-api/internal/service/auth"
	"github.com/xelami/kouza-api/internal/service/review"
	"github.com/xelami/kouza-api/internal/store"
	"github.com/xelami/kouza-api/internal/task"
)

// application holds the assembled dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	cardStore     store.FlashcardStore
	sessionStore  store.SessionStore
	progressStore store.ProgressRecordStore
	goalStore     store.GoalStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	progressService *service.ProgressService
	goalService     *service.GoalService
	reviewService   review.ReviewService

	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication wires up stores, services, the generation pipeline, and the
// background task runner.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
) (*application, error) {
	userStore := postgres.NewPostgresUserStore(db, logger, bcrypt.DefaultCost)
	cardStore := postgres.NewPostgresFlashcardStore(db, logger)
	sessionStore := postgres.NewPostgresSessionStore(db, logger)
	progressStore := postgres.NewPostgresProgressStore(db, logger)
	goalStore := postgres.NewPostgresGoalStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	scheduler := srs.NewDefaultService()
	progressService := service.NewProgressService(progressStore, logger)
	goalService := service.NewGoalService(goalStore, sessionStore, progressStore, logger)
	reviewService := review.NewReviewService(
		db, cardStore, userStore, sessionStore, scheduler,
		progressService, goalService, logger,
	)

	generator, err := gemini.NewGeminiGenerator(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create card generator: %w", err)
	}

	taskFactory := task.NewFlashcardGenerationTaskFactory(generator, cardStore, logger)

	// Tasks recovered from the database carry only their serialized payload;
	// the executor rebuilds a runnable task from it.
	taskStore.RegisterExecutor(task.TaskTypeFlashcardGeneration,
		func(ctx context.Context, payload []byte) error {
			var p task.FlashcardGenerationPayload
			if err := json.Unmarshal(payload, &p); err != nil {
				return fmt.Errorf("failed to unmarshal recovered task payload: %w", err)
			}
			t, err := taskFactory.CreateTask(p)
			if err != nil {
				return err
			}
			return t.Execute(ctx)
		})

	taskRunner := task.NewTaskRunner(taskStore, task.NewTaskRunnerConfig(cfg.Task), logger)

	eventEmitter := events.NewInMemoryEventEmitter(logger)
	eventEmitter.RegisterHandler(task.NewTaskFactoryEventHandler(taskFactory, taskRunner, logger))

	return &application{
		config:           cfg,
		logger:           logger,
		db:               db,
		userStore:        userStore,
		cardStore:        cardStore,
		sessionStore:     sessionStore,
		progressStore:    progressStore,
		goalStore:        goalStore,
		jwtService:       jwtService,
		passwordVerifier: auth.NewBcryptVerifier(),
		progressService:  progressService,
		goalService:      goalService,
		reviewService:    reviewService,
		eventEmitter:     eventEmitter,
		taskRunner:       taskRunner,
	}, nil
}

// cleanup stops background components. The database handle is closed by the
// caller that opened it.
func (app *application) cleanup() {
	app.taskRunner.Stop()
}
