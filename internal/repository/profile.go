package repository

import (
	"context"

	"pawfeed/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository reads user profiles owned by the auth service.
type ProfileRepository interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]models.User, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, classify(err, "User", ids)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
