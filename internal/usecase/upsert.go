package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"AutoPublisher/internal/domain"
	"AutoPublisher/internal/metrics"
	"AutoPublisher/internal/ports"
)

// LookupMode decides how an existing post is identified.
type LookupMode string

const (
	LookupByTitle   LookupMode = "search"
	LookupByFixedID LookupMode = "fixed-id"
)

const reasonUnchanged = "content unchanged"

// UpsertOptions configures the resolver for one deployment.
type UpsertOptions struct {
	Mode        LookupMode
	FixedPostID int64
	Status      domain.PostStatus
	ImagePath   string
}

// UpsertResolver reconciles a generated article with the content backend.
type UpsertResolver struct {
	backend  ports.ContentBackend
	media    ports.MediaUploader
	opts     UpsertOptions
	logger   *slog.Logger
	readFile func(string) ([]byte, error)
}

// NewUpsertResolver wires the backend; media may be nil when no image is ever attached.
func NewUpsertResolver(backend ports.ContentBackend, media ports.MediaUploader, opts UpsertOptions, logger *slog.Logger) *UpsertResolver {
	if opts.Status == "" {
		opts.Status = domain.StatusPublish
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UpsertResolver{
		backend:  backend,
		media:    media,
		opts:     opts,
		logger:   logger,
		readFile: os.ReadFile,
	}
}

// FixedID reports the configured post id and whether the resolver runs in fixed-id mode.
func (r *UpsertResolver) FixedID() (int64, bool) {
	return r.opts.FixedPostID, r.opts.Mode == LookupByFixedID
}

// Reconcile decides between create, update and skip without writing anything.
func (r *UpsertResolver) Reconcile(ctx context.Context, art domain.GeneratedArticle) (domain.PublishDecision, error) {
	switch r.opts.Mode {
	case LookupByFixedID:
		return r.reconcileFixed(ctx, art)
	case LookupByTitle, "":
		return r.reconcileByTitle(ctx, art)
	default:
		return domain.PublishDecision{}, fmt.Errorf("unknown lookup mode %q", r.opts.Mode)
	}
}

func (r *UpsertResolver) reconcileByTitle(ctx context.Context, art domain.GeneratedArticle) (domain.PublishDecision, error) {
	records, err := r.backend.SearchPosts(ctx, art.Title)
	if err != nil {
		return domain.PublishDecision{}, fmt.Errorf("%w: %w", domain.ErrBackendLookupFailed, err)
	}

	want := strings.TrimSpace(art.Title)
	for _, rec := range records {
		if strings.EqualFold(strings.TrimSpace(rec.Title), want) {
			return domain.UpdateDecision(rec.ID, art), nil
		}
	}

	if len(records) > 0 {
		r.logger.Debug("search returned only partial matches", "title", art.Title, "results", len(records))
	}
	return domain.CreateDecision(art), nil
}

func (r *UpsertResolver) reconcileFixed(ctx context.Context, art domain.GeneratedArticle) (domain.PublishDecision, error) {
	rec, err := r.backend.GetPost(ctx, r.opts.FixedPostID)
	if errors.Is(err, domain.ErrPostNotFound) {
		return domain.CreateDecision(art), nil
	}
	if err != nil {
		return domain.PublishDecision{}, fmt.Errorf("%w: %w", domain.ErrBackendLookupFailed, err)
	}

	if strings.TrimSpace(rec.RenderedBody) == strings.TrimSpace(art.Body) {
		return domain.SkipDecision(reasonUnchanged), nil
	}
	return domain.UpdateDecision(r.opts.FixedPostID, art), nil
}

// Execute applies the decision. Skip makes no network call and returns a nil record.
func (r *UpsertResolver) Execute(ctx context.Context, decision domain.PublishDecision) (*domain.RemoteRecord, error) {
	switch decision.Action {
	case domain.ActionSkip:
		return nil, nil
	case domain.ActionUpdate:
		rec, err := r.backend.UpdatePost(ctx, decision.PostID, domain.PostInput{
			Title:   decision.Article.Title,
			Content: decision.Article.Body,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrBackendWriteFailed, err)
		}
		return &rec, nil
	case domain.ActionCreate:
		input := domain.PostInput{
			Title:   decision.Article.Title,
			Content: decision.Article.Body,
			Status:  r.opts.Status,
		}
		if mediaID, err := r.uploadFeaturedImage(ctx); err != nil {
			metrics.MediaUploadFailuresTotal.Inc()
			r.logger.Warn("featured image skipped", "path", r.opts.ImagePath, "error", err)
		} else {
			input.FeaturedMedia = mediaID
		}

		rec, err := r.backend.CreatePost(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrBackendWriteFailed, err)
		}
		return &rec, nil
	default:
		return nil, fmt.Errorf("unknown action %q", decision.Action)
	}
}

// uploadFeaturedImage returns 0 without error when no image is configured.
func (r *UpsertResolver) uploadFeaturedImage(ctx context.Context) (int64, error) {
	path := strings.TrimSpace(r.opts.ImagePath)
	if path == "" {
		return 0, nil
	}
	if r.media == nil {
		return 0, fmt.Errorf("%w: no media uploader", domain.ErrMediaUploadFailed)
	}

	data, err := r.readFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrMediaUploadFailed, err)
	}
	id, err := r.media.UploadMedia(ctx, path, data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrMediaUploadFailed, err)
	}
	return id, nil
}
