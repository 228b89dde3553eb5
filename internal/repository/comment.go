package repository

import (
	"context"

	"pawfeed/internal/models"
	"pawfeed/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string, order models.CommentOrder) ([]*models.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	UpdateContent(ctx context.Context, id, content string, edits models.EditHistory) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

type commentRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, log: observability.NewRepoLogger("comments")}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return classify(err, "Comment", comment.ID)
	}
	r.log.LogMutation(ctx, "create", map[string]interface{}{"comment_id": comment.ID, "post_id": comment.PostID})
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, classify(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&comment).Error
	if err != nil {
		return nil, classify(err, "Comment", id)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(
	ctx context.Context,
	postID string,
	order models.CommentOrder,
) ([]*models.Comment, error) {
	query := r.db.WithContext(ctx).Where("post_id = ?", postID)
	if order == models.CommentOrderOldest {
		query = query.Order("created_at ASC").Order("seq ASC")
	} else {
		query = query.Order("created_at DESC").Order("seq DESC")
	}
	var comments []*models.Comment
	if err := query.Find(&comments).Error; err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, classify(err, "Comment", postID)
	}
	return comments, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, classify(err, "Comment", postID)
	}
	return count, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id, content string, edits models.EditHistory) error {
	result := r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content": content,
			"edits":   edits,
		})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "update")
		return classify(result.Error, "Comment", id)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return false, classify(result.Error, "Comment", id)
	}
	return result.RowsAffected > 0, nil
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete_by_post")
		return 0, classify(result.Error, "Comment", postID)
	}
	r.log.LogMutation(ctx, "delete_by_post", map[string]interface{}{"post_id": postID, "rows": result.RowsAffected})
	return result.RowsAffected, nil
}
