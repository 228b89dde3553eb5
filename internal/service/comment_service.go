package service

import (
	"context"
	"strings"
	"time"

	"pawfeed/internal/models"
	"pawfeed/internal/observability"
	"pawfeed/internal/repository"
	"pawfeed/internal/validation"

	"github.com/google/uuid"
)

// CommentService manages comment threads and keeps post.comments in step.
type CommentService struct {
	store repository.Storage
	feed  FeedInvalidator
	now   func() time.Time
}

type AddCommentInput struct {
	PostID   string
	AuthorID string
	Username string
	Content  string
}

// NewCommentService creates a CommentService. feed may be nil.
func NewCommentService(store repository.Storage, feed FeedInvalidator) *CommentService {
	return &CommentService{
		store: store,
		feed:  feed,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// AddComment inserts a comment and increments the post's comment count atomically.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if validation.IsBlank(in.Content) {
		return nil, models.NewValidationError("content", "Comment content cannot be empty")
	}
	if err := validation.MaxLength("content", in.Content, validation.MaxCommentLength); err != nil {
		return nil, models.NewValidationError("content", err.Error())
	}
	if validation.IsBlank(in.AuthorID) {
		return nil, models.NewValidationError("authorId", "authorId is required")
	}
	if validation.IsBlank(in.PostID) {
		return nil, models.NewValidationError("postId", "Post ID is required")
	}

	now := s.now()
	comment := &models.Comment{
		ID:        uuid.NewString(),
		PostID:    in.PostID,
		AuthorID:  strings.TrimSpace(in.AuthorID),
		Username:  strings.TrimSpace(in.Username),
		Content:   in.Content,
		Edits:     models.EditHistory{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	var variant models.Variant
	err := s.store.Transaction(ctx, func(tx repository.Repositories) error {
		// Locks the post so the insert cannot land behind a cascade delete.
		post, err := tx.Posts().GetByIDForUpdate(ctx, in.PostID)
		if err != nil {
			return err
		}
		variant = post.Variant
		if err := tx.Comments().Create(ctx, comment); err != nil {
			return err
		}
		return tx.Posts().AdjustCounter(ctx, in.PostID, models.CounterComments, 1)
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.feed, variant)
	return comment, nil
}

// GetComment returns a single comment.
func (s *CommentService) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	if validation.IsBlank(id) {
		return nil, models.NewValidationError("commentId", "Comment ID is required")
	}
	return s.store.Comments().GetByID(ctx, id)
}

// ListComments returns the post's thread. Storage failures are logged and
// surface as an empty thread.
func (s *CommentService) ListComments(ctx context.Context, postID string, order models.CommentOrder) []*models.Comment {
	if validation.IsBlank(postID) {
		return []*models.Comment{}
	}
	comments, err := s.store.Comments().ListByPost(ctx, postID, order)
	if err != nil {
		observability.CommentListMaskedErrors.Inc()
		observability.LogServiceError(ctx, "CommentService", "ListComments", err, map[string]interface{}{"post_id": postID})
		return []*models.Comment{}
	}
	if comments == nil {
		return []*models.Comment{}
	}
	return comments
}

// EditComment replaces the content, keeping the previous text in the edit
// history. A missing comment is reported as an unsuccessful result.
func (s *CommentService) EditComment(ctx context.Context, id, content string) (models.CommentEdit, error) {
	if validation.IsBlank(content) {
		return models.CommentEdit{}, models.NewValidationError("content", "Comment content cannot be empty")
	}
	if err := validation.MaxLength("content", content, validation.MaxCommentLength); err != nil {
		return models.CommentEdit{}, models.NewValidationError("content", err.Error())
	}

	var updated *models.Comment
	err := s.store.Transaction(ctx, func(tx repository.Repositories) error {
		comment, err := tx.Comments().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		edits := comment.Edits.Append(comment.Content)
		if err := tx.Comments().UpdateContent(ctx, id, content, edits); err != nil {
			return err
		}
		comment.Content = content
		comment.Edits = edits
		updated = comment
		return nil
	})
	if models.IsNotFound(err) {
		return models.CommentEdit{Success: false}, nil
	}
	if err != nil {
		return models.CommentEdit{}, err
	}
	return models.CommentEdit{Success: true, Comment: updated}, nil
}

// DeleteComment removes the comment and decrements the post's comment count
// atomically. postID, when given, must match the comment's post. Callers
// check authorship first. A comment that is already gone yields an
// unsuccessful result and leaves the counter alone.
func (s *CommentService) DeleteComment(ctx context.Context, id, postID string) (models.Result, error) {
	if validation.IsBlank(id) {
		return models.Result{}, models.NewValidationError("commentId", "Comment ID is required")
	}

	var variant models.Variant
	err := s.store.Transaction(ctx, func(tx repository.Repositories) error {
		comment, err := tx.Comments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if postID != "" && comment.PostID != postID {
			return models.NewNotFoundError("Comment", id)
		}
		// Post before comment, the same order DeletePost locks in.
		post, err := tx.Posts().GetByIDForUpdate(ctx, comment.PostID)
		orphaned := models.IsNotFound(err)
		if err != nil && !orphaned {
			return err
		}
		removed, err := tx.Comments().Delete(ctx, id)
		if err != nil {
			return err
		}
		if !removed {
			return models.NewNotFoundError("Comment", id)
		}
		if orphaned {
			return nil
		}
		variant = post.Variant
		return tx.Posts().AdjustCounter(ctx, comment.PostID, models.CounterComments, -1)
	})
	if models.IsNotFound(err) {
		return models.Result{Success: false}, nil
	}
	if err != nil {
		return models.Result{}, err
	}
	invalidate(ctx, s.feed, variant)
	return models.Result{Success: true}, nil
}
