// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"pawfeed/internal/models"

	"gorm.io/gorm"
)

// Repositories groups the per-collection repositories bound to one
// connection or one open transaction.
type Repositories interface {
	Posts() PostRepository
	Comments() CommentRepository
	Engagements() EngagementRepository
	Profiles() ProfileRepository
}

// Storage is the durable store for posts and their relations. Work passed to
// Transaction commits or rolls back as a unit; counter changes and the row
// changes that cause them must always go through it together.
type Storage interface {
	Repositories
	Transaction(ctx context.Context, fn func(tx Repositories) error) error
	Ping(ctx context.Context) error
}

type gormStore struct {
	db          *gorm.DB
	posts       PostRepository
	comments    CommentRepository
	engagements EngagementRepository
	profiles    ProfileRepository
}

// NewStorage creates a Storage backed by db.
func NewStorage(db *gorm.DB) Storage {
	return newGormStore(db)
}

func newGormStore(db *gorm.DB) *gormStore {
	return &gormStore{
		db:          db,
		posts:       NewPostRepository(db),
		comments:    NewCommentRepository(db),
		engagements: NewEngagementRepository(db),
		profiles:    NewProfileRepository(db),
	}
}

func (s *gormStore) Posts() PostRepository             { return s.posts }
func (s *gormStore) Comments() CommentRepository       { return s.comments }
func (s *gormStore) Engagements() EngagementRepository { return s.engagements }
func (s *gormStore) Profiles() ProfileRepository       { return s.profiles }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Repositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGormStore(tx))
	})
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if isUniqueConstraintError(err) {
		return models.NewConflictError("concurrent modification", err)
	}
	return models.NewInfrastructureError(err)
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return models.NewInfrastructureError(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return models.NewInfrastructureError(err)
	}
	return nil
}
