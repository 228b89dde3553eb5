package repository

import (
	"context"
	"time"

	"pawfeed/internal/models"
	"pawfeed/internal/observability"

	"gorm.io/gorm"
)

// EngagementRepository manages like and join membership rows.
type EngagementRepository interface {
	Exists(ctx context.Context, kind models.EngagementKind, postID, userID string) (bool, error)
	// Insert fails with a Conflict error when the (post, user) row already exists.
	Insert(ctx context.Context, kind models.EngagementKind, postID, userID string) error
	Delete(ctx context.Context, kind models.EngagementKind, postID, userID string) (bool, error)
	DeleteByPost(ctx context.Context, kind models.EngagementKind, postID string) (int64, error)
	CountByPost(ctx context.Context, kind models.EngagementKind, postID string) (int64, error)
	ListByPost(ctx context.Context, kind models.EngagementKind, postID string) ([]models.Engagement, error)
}

type engagementRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewEngagementRepository creates a new EngagementRepository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db, log: observability.NewRepoLogger("engagements")}
}

func (r *engagementRepository) table(ctx context.Context, kind models.EngagementKind) *gorm.DB {
	return r.db.WithContext(ctx).Table(kind.Table())
}

func (r *engagementRepository) Exists(ctx context.Context, kind models.EngagementKind, postID, userID string) (bool, error) {
	var count int64
	if err := r.table(ctx, kind).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, classify(err, kind.Table(), postID)
	}
	return count > 0, nil
}

func (r *engagementRepository) Insert(ctx context.Context, kind models.EngagementKind, postID, userID string) error {
	row := models.Engagement{PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}
	if err := r.table(ctx, kind).Create(&row).Error; err != nil {
		r.log.LogError(ctx, err, "insert_"+string(kind))
		return classify(err, string(kind), postID+"/"+userID)
	}
	r.log.LogMutation(ctx, "insert_"+string(kind), map[string]interface{}{"post_id": postID, "user_id": userID})
	return nil
}

func (r *engagementRepository) Delete(ctx context.Context, kind models.EngagementKind, postID, userID string) (bool, error) {
	result := r.table(ctx, kind).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Engagement{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete_"+string(kind))
		return false, classify(result.Error, string(kind), postID+"/"+userID)
	}
	return result.RowsAffected > 0, nil
}

func (r *engagementRepository) DeleteByPost(ctx context.Context, kind models.EngagementKind, postID string) (int64, error) {
	result := r.table(ctx, kind).Where("post_id = ?", postID).Delete(&models.Engagement{})
	if result.Error != nil {
		return 0, classify(result.Error, kind.Table(), postID)
	}
	return result.RowsAffected, nil
}

func (r *engagementRepository) CountByPost(ctx context.Context, kind models.EngagementKind, postID string) (int64, error) {
	var count int64
	if err := r.table(ctx, kind).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, classify(err, kind.Table(), postID)
	}
	return count, nil
}

// ListByPost returns rows in insertion order.
func (r *engagementRepository) ListByPost(ctx context.Context, kind models.EngagementKind, postID string) ([]models.Engagement, error) {
	var rows []models.Engagement
	if err := r.table(ctx, kind).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("seq ASC").
		Find(&rows).Error; err != nil {
		return nil, classify(err, kind.Table(), postID)
	}
	return rows, nil
}
