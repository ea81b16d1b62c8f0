package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AutoPublisher/internal/domain"
)

var gardenArticle = domain.GeneratedArticle{
	Title: "Garden Tips",
	Body:  "# Garden Tips\nBody line 1\nBody line 2",
}

func TestReconcileByTitle(t *testing.T) {
	tests := []struct {
		name       string
		results    []domain.RemoteRecord
		wantAction domain.Action
		wantID     int64
	}{
		{name: "no results", wantAction: domain.ActionCreate},
		{
			name:       "case-only difference",
			results:    []domain.RemoteRecord{{ID: 7, Title: "GARDEN tips"}},
			wantAction: domain.ActionUpdate,
			wantID:     7,
		},
		{
			name:       "strict substring",
			results:    []domain.RemoteRecord{{ID: 8, Title: "Garden Tips for Winter"}},
			wantAction: domain.ActionCreate,
		},
		{
			name: "exact match behind a fuzzy hit",
			results: []domain.RemoteRecord{
				{ID: 8, Title: "Garden Tips for Winter"},
				{ID: 9, Title: " garden tips "},
			},
			wantAction: domain.ActionUpdate,
			wantID:     9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			backend.searchResult = tt.results
			resolver := NewUpsertResolver(backend, nil, UpsertOptions{Mode: LookupByTitle}, testLogger)

			decision, err := resolver.Reconcile(context.Background(), gardenArticle)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAction, decision.Action)
			assert.Equal(t, tt.wantID, decision.PostID)
			assert.Equal(t, []string{"Garden Tips"}, backend.searches)
			assert.Empty(t, backend.gets, "search mode never calls get")
		})
	}
}

func TestReconcileByTitleLookupFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.searchErr = errors.New("502 bad gateway")
	resolver := NewUpsertResolver(backend, nil, UpsertOptions{Mode: LookupByTitle}, testLogger)

	_, err := resolver.Reconcile(context.Background(), gardenArticle)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendLookupFailed)
}

func TestReconcileFixedID(t *testing.T) {
	tests := []struct {
		name       string
		existing   *domain.RemoteRecord
		wantAction domain.Action
	}{
		{name: "not found", wantAction: domain.ActionCreate},
		{
			name:       "same body modulo whitespace",
			existing:   &domain.RemoteRecord{ID: 1, RenderedBody: "\n" + gardenArticle.Body + "  \n"},
			wantAction: domain.ActionSkip,
		},
		{
			name:       "different body",
			existing:   &domain.RemoteRecord{ID: 1, RenderedBody: "<p>yesterday</p>"},
			wantAction: domain.ActionUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			if tt.existing != nil {
				backend.posts[1] = *tt.existing
			}
			resolver := NewUpsertResolver(backend, nil, UpsertOptions{Mode: LookupByFixedID, FixedPostID: 1}, testLogger)

			decision, err := resolver.Reconcile(context.Background(), gardenArticle)
			require.NoError(t, err)

			assert.Equal(t, tt.wantAction, decision.Action)
			assert.Equal(t, []int64{1}, backend.gets)
			assert.Empty(t, backend.searches, "fixed-id mode never searches")
			if tt.wantAction == domain.ActionUpdate {
				assert.Equal(t, int64(1), decision.PostID)
			}
			if tt.wantAction == domain.ActionSkip {
				assert.Equal(t, "content unchanged", decision.Reason)
			}
		})
	}
}

func TestReconcileFixedIDLookupFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.getErr = errors.New("401 unauthorized")
	resolver := NewUpsertResolver(backend, nil, UpsertOptions{Mode: LookupByFixedID, FixedPostID: 1}, testLogger)

	_, err := resolver.Reconcile(context.Background(), gardenArticle)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBackendLookupFailed)
}

func TestReconcileUnknownMode(t *testing.T) {
	resolver := NewUpsertResolver(newFakeBackend(), nil, UpsertOptions{Mode: "both"}, testLogger)
	_, err := resolver.Reconcile(context.Background(), gardenArticle)
	assert.Error(t, err)
}

func TestFixedID(t *testing.T) {
	id, fixed := NewUpsertResolver(newFakeBackend(), nil, UpsertOptions{Mode: LookupByFixedID, FixedPostID: 42}, testLogger).FixedID()
	assert.True(t, fixed)
	assert.Equal(t, int64(42), id)

	_, fixed = NewUpsertResolver(newFakeBackend(), nil, UpsertOptions{Mode: LookupByTitle}, testLogger).FixedID()
	assert.False(t, fixed)
}

func TestExecuteCreateDefaultsToPublish(t *testing.T) {
	backend := newFakeBackend()
	resolver := NewUpsertResolver(backend, nil, UpsertOptions{Mode: LookupByTitle}, testLogger)

	rec, err := resolver.Execute(context.Background(), domain.CreateDecision(gardenArticle))
	require.NoError(t, err)
	require.NotNil(t, rec)

	require.Len(t, backend.creates, 1)
	assert.Equal(t, domain.StatusPublish, backend.creates[0].Status)
	assert.Equal(t, "Garden Tips", backend.creates[0].Title)
	assert.Zero(t, backend.creates[0].FeaturedMedia)
}

func TestExecuteCreateStatusOverride(t *testing.T) {
	backend := newFakeBackend()
	resolver := NewUpsertResolver(backend, nil, UpsertOptions{Status: domain.StatusDraft}, testLogger)

	_, err := resolver.Execute(context.Background(), domain.CreateDecision(gardenArticle))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, backend.creates[0].Status)
}

func TestExecuteCreateWithFeaturedImage(t *testing.T) {
	backend := newFakeBackend()
	media := &fakeMedia{id: 55}
	resolver := NewUpsertResolver(backend, media, UpsertOptions{ImagePath: "cover.png"}, testLogger)
	resolver.readFile = func(string) ([]byte, error) { return []byte("img"), nil }

	rec, err := resolver.Execute(context.Background(), domain.CreateDecision(gardenArticle))
	require.NoError(t, err)

	assert.Equal(t, []string{"cover.png"}, media.files)
	assert.Equal(t, int64(55), backend.creates[0].FeaturedMedia)
	assert.Equal(t, int64(55), rec.FeaturedMedia)
}

func TestExecuteCreateMediaFailureIsNotFatal(t *testing.T) {
	tests := []struct {
		name     string
		media    *fakeMedia
		readFile func(string) ([]byte, error)
	}{
		{
			name:     "upload fails",
			media:    &fakeMedia{err: errors.New("413 too large")},
			readFile: func(string) ([]byte, error) { return []byte("img"), nil },
		},
		{
			name:     "file missing",
			media:    &fakeMedia{id: 1},
			readFile: func(string) ([]byte, error) { return nil, errors.New("no such file") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newFakeBackend()
			resolver := NewUpsertResolver(backend, tt.media, UpsertOptions{ImagePath: "cover.png"}, testLogger)
			resolver.readFile = tt.readFile

			rec, err := resolver.Execute(context.Background(), domain.CreateDecision(gardenArticle))
			require.NoError(t, err)
			require.NotNil(t, rec)

			require.Len(t, backend.creates, 1)
			assert.Zero(t, backend.creates[0].FeaturedMedia)
		})
	}
}

func TestUploadFeaturedImageWithoutUploader(t *testing.T) {
	resolver := NewUpsertResolver(newFakeBackend(), nil, UpsertOptions{ImagePath: "cover.png"}, testLogger)
	_, err := resolver.uploadFeaturedImage(context.Background())
	assert.ErrorIs(t, err, domain.ErrMediaUploadFailed)
}

func TestExecuteUpdate(t *testing.T) {
	backend := newFakeBackend()
	resolver := NewUpsertResolver(backend, nil, UpsertOptions{Status: domain.StatusDraft}, testLogger)

	rec, err := resolver.Execute(context.Background(), domain.UpdateDecision(7, gardenArticle))
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)

	require.Len(t, backend.updates[7], 1)
	assert.Equal(t, domain.PostInput{Title: gardenArticle.Title, Content: gardenArticle.Body}, backend.updates[7][0])
	assert.Empty(t, backend.creates)
}

func TestExecuteSkipMakesNoCalls(t *testing.T) {
	backend := newFakeBackend()
	resolver := NewUpsertResolver(backend, &fakeMedia{}, UpsertOptions{ImagePath: "cover.png"}, testLogger)

	rec, err := resolver.Execute(context.Background(), domain.SkipDecision("content unchanged"))
	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.Zero(t, backend.networkCalls())
}

func TestExecuteWriteFailures(t *testing.T) {
	backend := newFakeBackend()
	backend.createErr = errors.New("500")
	backend.updateErr = errors.New("500")
	resolver := NewUpsertResolver(backend, nil, UpsertOptions{}, testLogger)

	_, err := resolver.Execute(context.Background(), domain.CreateDecision(gardenArticle))
	assert.ErrorIs(t, err, domain.ErrBackendWriteFailed)

	_, err = resolver.Execute(context.Background(), domain.UpdateDecision(3, gardenArticle))
	assert.ErrorIs(t, err, domain.ErrBackendWriteFailed)
}
