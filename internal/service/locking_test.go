package service

import (
	"context"
	"regexp"
	"testing"

	"pawfeed/internal/models"
	"pawfeed/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockStore runs services against postgres SQL so the row locks show up.
func newMockStore(t *testing.T) (repository.Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return repository.NewStorage(gormDB), mock
}

const lockPostSQL = `SELECT \* FROM "posts" WHERE id = \$1 .*FOR UPDATE`

func lockedPostRows(id string, variant models.Variant) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"seq", "id", "variant", "author_id", "description"}).
		AddRow(1, id, string(variant), "author-1", "original")
}

func TestAddComment_LocksPostBeforeInsert(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewCommentService(store, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockPostSQL).WillReturnRows(lockedPostRows("post-1", models.VariantCommunity))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET "comments"=`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := svc.AddComment(context.Background(), AddCommentInput{
		PostID:   "post-1",
		AuthorID: "user-2",
		Content:  "Count us in",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddComment_DeletedWhileWaitingOnLock(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewCommentService(store, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockPostSQL).WillReturnRows(sqlmock.NewRows([]string{"seq", "id"}))
	mock.ExpectRollback()

	_, err := svc.AddComment(context.Background(), AddCommentInput{
		PostID:   "post-1",
		AuthorID: "user-2",
		Content:  "too late",
	})
	assert.True(t, models.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePost_LocksPostBeforeCascade(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewPostService(store, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockPostSQL).WillReturnRows(lockedPostRows("post-1", models.VariantPlaydate))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "comments"`)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "posts"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.DeletePost(context.Background(), "post-1")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEditPost_ReadsHistoryUnderLock(t *testing.T) {
	store, mock := newMockStore(t)
	svc := NewPostService(store, nil)

	mock.ExpectBegin()
	mock.ExpectQuery(lockPostSQL).WillReturnRows(lockedPostRows("post-1", models.VariantCommunity))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	res, err := svc.EditPost(context.Background(), "post-1", "revised")
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, models.EditHistory{"original"}, res.Post.Edits)
	assert.NoError(t, mock.ExpectationsWereMet())
}
