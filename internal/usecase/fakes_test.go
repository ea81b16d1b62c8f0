package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AutoPublisher/internal/domain"
	"AutoPublisher/internal/logging"
)

var testLogger = logging.Discard()

type fakeSchedule struct {
	entries []domain.ScheduleEntry
	err     error
	calls   int
}

func (f *fakeSchedule) Lookup(_ context.Context, day time.Weekday) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	topic, ok := domain.FindTopic(f.entries, day)
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrScheduleNotFound, day)
	}
	return topic, nil
}

type fakeGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

// fakeBackend keeps posts in memory and renders content verbatim.
type fakeBackend struct {
	mu sync.Mutex

	posts        map[int64]domain.RemoteRecord
	searchResult []domain.RemoteRecord
	nextID       int64

	searchErr error
	getErr    error
	createErr error
	updateErr error

	searches []string
	gets     []int64
	creates  []domain.PostInput
	updates  map[int64][]domain.PostInput
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		posts:   map[int64]domain.RemoteRecord{},
		updates: map[int64][]domain.PostInput{},
		nextID:  100,
	}
}

func (f *fakeBackend) SearchPosts(_ context.Context, title string) ([]domain.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, title)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResult, nil
}

func (f *fakeBackend) GetPost(_ context.Context, id int64) (domain.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, id)
	if f.getErr != nil {
		return domain.RemoteRecord{}, f.getErr
	}
	rec, ok := f.posts[id]
	if !ok {
		return domain.RemoteRecord{}, fmt.Errorf("get post %d: %w", id, domain.ErrPostNotFound)
	}
	return rec, nil
}

func (f *fakeBackend) CreatePost(_ context.Context, input domain.PostInput) (domain.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, input)
	if f.createErr != nil {
		return domain.RemoteRecord{}, f.createErr
	}
	f.nextID++
	rec := domain.RemoteRecord{
		ID:            f.nextID,
		Title:         input.Title,
		RenderedBody:  input.Content,
		Status:        input.Status,
		FeaturedMedia: input.FeaturedMedia,
	}
	f.posts[rec.ID] = rec
	return rec, nil
}

func (f *fakeBackend) UpdatePost(_ context.Context, id int64, input domain.PostInput) (domain.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates[id] = append(f.updates[id], input)
	if f.updateErr != nil {
		return domain.RemoteRecord{}, f.updateErr
	}
	rec := f.posts[id]
	rec.ID = id
	rec.Title = input.Title
	rec.RenderedBody = input.Content
	f.posts[id] = rec
	return rec, nil
}

func (f *fakeBackend) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.creates)
	for _, u := range f.updates {
		n += len(u)
	}
	return n
}

func (f *fakeBackend) networkCalls() int {
	f.mu.Lock()
	n := len(f.searches) + len(f.gets)
	f.mu.Unlock()
	return n + f.writeCount()
}

type fakeMedia struct {
	id    int64
	err   error
	files []string
}

func (f *fakeMedia) UploadMedia(_ context.Context, filename string, _ []byte) (int64, error) {
	f.files = append(f.files, filename)
	return f.id, f.err
}

// monday is 2025-11-10, a Monday.
var monday = time.Date(2025, time.November, 10, 9, 0, 0, 0, time.UTC)
