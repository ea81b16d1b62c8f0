package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"AutoPublisher/internal/api"
	"AutoPublisher/internal/article"
	"AutoPublisher/internal/config"
	"AutoPublisher/internal/domain"
	"AutoPublisher/internal/infrastructure/llm"
	"AutoPublisher/internal/infrastructure/schedule"
	"AutoPublisher/internal/infrastructure/scheduler"
	"AutoPublisher/internal/infrastructure/wordpress"
	"AutoPublisher/internal/logging"
	"AutoPublisher/internal/ports"
	"AutoPublisher/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	server    *api.Server
}

// New validates cfg and builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := scheduler.ValidateSpec(cfg.Scheduler.CronExpression); err != nil {
		return nil, err
	}

	source, err := newScheduleSource(cfg.Schedule, baseLogger.With("component", "schedule"))
	if err != nil {
		return nil, err
	}
	mode, err := article.ParseModeFromString(cfg.Generator.ParseMode)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParsePostStatus(cfg.WordPress.Status)
	if err != nil {
		return nil, err
	}

	generator := newTextGenerator(cfg.Generator)
	backend := wordpress.NewClient(cfg.WordPress)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Topics:    usecase.NewTopicResolver(source, cfg.Scheduler.Location()),
		Generator: usecase.NewArticleGenerator(generator, cfg.Generator.PromptTemplate, mode),
		Upsert: usecase.NewUpsertResolver(backend, backend, usecase.UpsertOptions{
			Mode:        usecase.LookupMode(cfg.WordPress.Mode),
			FixedPostID: cfg.WordPress.FixedPostID,
			Status:      status,
			ImagePath:   cfg.WordPress.ImagePath,
		}, baseLogger.With("component", "upsert")),
		Logger: baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCronScheduler(
		cfg.Scheduler.CronExpression,
		cfg.Scheduler.Location(),
		baseLogger.With("component", "cron"),
	)

	application := &Application{
		cfg:       cfg,
		logger:    baseLogger,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(driver, pipeline, cfg.Scheduler.RunOnStart, baseLogger.With("component", "scheduler")),
	}
	if cfg.Server.Enabled {
		router := api.NewRouter(generator, baseLogger.With("component", "api"))
		application.server = api.NewServer(cfg.Server.Addr, router, baseLogger.With("component", "http"))
	}
	return application, nil
}

// DisableServer drops the HTTP endpoint before Run.
func (a *Application) DisableServer() {
	a.server = nil
}

// RunOnce performs a single pipeline execution and reports its error.
func (a *Application) RunOnce(ctx context.Context) error {
	now := time.Now().In(a.cfg.Scheduler.Location())
	return a.pipeline.Run(ctx, now).Err
}

// Run starts the scheduler and the HTTP endpoint and blocks until ctx is done
// or the server fails.
func (a *Application) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.logger.Info("post scheduler started, waiting for the next run",
		"cadence", a.cfg.Scheduler.CronExpression,
		"mode", a.cfg.WordPress.Mode)

	serverErr := make(chan error, 1)
	if a.server != nil {
		go func() { serverErr <- a.server.ListenAndServe() }()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	return errors.Join(runErr, a.shutdown())
}

func (a *Application) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var errs []error
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if err := a.scheduler.Stop(ctx); err != nil {
		errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
	}
	a.logger.Info("application stopped")
	return errors.Join(errs...)
}

func newScheduleSource(cfg config.ScheduleConfig, logger *slog.Logger) (ports.ScheduleSource, error) {
	if len(cfg.Entries) > 0 {
		return schedule.FromConfig(cfg.Entries)
	}
	return schedule.NewCSVSource(cfg.Path, cfg.DayColumn, cfg.TopicColumn, logger), nil
}

func newTextGenerator(cfg config.GeneratorConfig) ports.TextGenerator {
	if cfg.Provider == config.ProviderOpenAI {
		return llm.NewChatGPTClient(cfg.OpenAI, cfg.Timeout)
	}
	return llm.NewGeminiClient(cfg.Gemini, cfg.Timeout)
}
