package ports

import (
	"context"
	"time"

	"AutoPublisher/internal/domain"
)

// ScheduleSource maps a weekday to the topic planned for it.
// Lookup returns domain.ErrScheduleNotFound when the day has no entry.
type ScheduleSource interface {
	Lookup(ctx context.Context, day time.Weekday) (string, error)
}

// TextGenerator sends a prompt to a generative-text service and returns its raw text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ContentBackend is the remote system of record for published posts.
// GetPost returns domain.ErrPostNotFound when the identifier does not exist.
type ContentBackend interface {
	SearchPosts(ctx context.Context, title string) ([]domain.RemoteRecord, error)
	GetPost(ctx context.Context, id int64) (domain.RemoteRecord, error)
	CreatePost(ctx context.Context, input domain.PostInput) (domain.RemoteRecord, error)
	UpdatePost(ctx context.Context, id int64, input domain.PostInput) (domain.RemoteRecord, error)
}

// MediaUploader stores a binary attachment and returns its media identifier.
type MediaUploader interface {
	UploadMedia(ctx context.Context, filename string, data []byte) (int64, error)
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
