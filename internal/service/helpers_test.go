package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pawfeed/internal/models"
	"pawfeed/internal/repository"
	"pawfeed/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestStore(t *testing.T) (repository.Storage, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return repository.NewStorage(db), db
}

func mustCreatePost(t *testing.T, store repository.Storage, post *models.Post) *models.Post {
	t.Helper()
	require.NoError(t, store.Posts().Create(context.Background(), post))
	return post
}

func reloadPost(t *testing.T, store repository.Storage, id string) *models.Post {
	t.Helper()
	post, err := store.Posts().GetByID(context.Background(), id)
	require.NoError(t, err)
	return post
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR
// naming field.
func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	if field != "" {
		assert.Equal(t, field, appErr.Field)
	}
}

// recordingInvalidator records every variant invalidated.
type recordingInvalidator struct {
	mu       sync.Mutex
	variants []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, variant string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.variants = append(r.variants, variant)
}

func (r *recordingInvalidator) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.variants...)
}

// flakyStorage fails the first n transactions with a conflict.
type flakyStorage struct {
	repository.Storage
	mu       sync.Mutex
	failures int
	attempts int
}

func (f *flakyStorage) Transaction(ctx context.Context, fn func(tx repository.Repositories) error) error {
	f.mu.Lock()
	f.attempts++
	fail := f.failures > 0
	if fail {
		f.failures--
	}
	f.mu.Unlock()
	if fail {
		return models.NewConflictError("concurrent modification", errors.New("duplicate key"))
	}
	return f.Storage.Transaction(ctx, fn)
}

// postRepoStub overrides List on top of an otherwise unimplemented PostRepository.
type postRepoStub struct {
	repository.PostRepository
	listFn func(context.Context, repository.PostQuery) ([]*models.Post, error)
}

func (s *postRepoStub) List(ctx context.Context, q repository.PostQuery) ([]*models.Post, error) {
	return s.listFn(ctx, q)
}
