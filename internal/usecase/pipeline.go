package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"AutoPublisher/internal/domain"
	"AutoPublisher/internal/metrics"
)

// PipelineDeps wires the three stages into the orchestration pipeline.
type PipelineDeps struct {
	Topics    *TopicResolver
	Generator *ArticleGenerator
	Upsert    *UpsertResolver
	Logger    *slog.Logger
}

// Pipeline implements one publication run: topic, article, reconcile, write.
type Pipeline struct {
	topics    *TopicResolver
	generator *ArticleGenerator
	upsert    *UpsertResolver
	logger    *slog.Logger
	clock     func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		topics:    deps.Topics,
		generator: deps.Generator,
		upsert:    deps.Upsert,
		logger:    logger,
		clock:     time.Now,
	}
}

// Run executes the stages sequentially. Errors are logged and stored in the
// outcome; they are never returned to the caller.
func (p *Pipeline) Run(ctx context.Context, now time.Time) domain.RunOutcome {
	outcome := domain.RunOutcome{RunID: uuid.NewString(), Started: p.clock()}
	log := p.logger.With("run_id", outcome.RunID)
	log.Info("pipeline run started", "trigger", now.Format(time.RFC3339))

	outcome.Err = p.run(ctx, now, log, &outcome)
	outcome.Finished = p.clock()
	duration := outcome.Finished.Sub(outcome.Started)
	metrics.RecordRun(outcome.Result(), domain.ErrorKind(outcome.Err), duration)

	switch {
	case outcome.Err != nil:
		log.Error("pipeline run failed",
			"kind", domain.ErrorKind(outcome.Err),
			"error", outcome.Err,
			"duration", duration)
	case outcome.Decision.Action == domain.ActionSkip:
		log.Warn("pipeline run skipped publication",
			"reason", outcome.Decision.Reason,
			"topic", outcome.Topic,
			"duration", duration)
	default:
		log.Info("pipeline run finished",
			"decision", outcome.Decision.String(),
			"topic", outcome.Topic,
			"post_id", outcome.Record.ID,
			"duration", duration)
	}

	return outcome
}

func (p *Pipeline) run(ctx context.Context, now time.Time, log *slog.Logger, outcome *domain.RunOutcome) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	if p.topics == nil || p.generator == nil || p.upsert == nil {
		return errors.New("pipeline is not fully configured")
	}

	topic, err := p.topics.ResolveTopic(ctx, now)
	if err != nil {
		return fmt.Errorf("resolve topic: %w", err)
	}
	outcome.Topic = topic
	log.Debug("topic resolved", "topic", topic)

	art, err := p.generator.GenerateArticle(ctx, topic)
	if err != nil {
		return fmt.Errorf("generate article: %w", err)
	}
	log.Debug("article generated", "title", art.Title, "body_len", len(art.Body))

	decision, err := p.upsert.Reconcile(ctx, art)
	if err != nil {
		return fmt.Errorf("reconcile %q: %w", art.Title, err)
	}
	outcome.Decision = decision
	log.Info("publish decision", "decision", decision.String(), "title", art.Title)

	record, err := p.upsert.Execute(ctx, decision)
	if err != nil {
		return fmt.Errorf("execute %s: %w", decision, err)
	}
	outcome.Record = record

	if configuredID, fixed := p.upsert.FixedID(); fixed && decision.Action == domain.ActionCreate && record != nil {
		log.Warn("post created in fixed-id mode; set FIXED_POST_ID to keep updating it",
			"post_id", record.ID,
			"configured_id", configuredID)
	}
	return nil
}
