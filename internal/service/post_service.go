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

// PostService manages the post lifecycle: create, read, edit, cascade delete.
type PostService struct {
	store repository.Storage
	feed  FeedInvalidator
	now   func() time.Time
}

type CreatePostInput struct {
	Variant     models.Variant
	AuthorID    string
	Description string
	ImageURL    string

	PetType  string
	Category string

	Title    string
	DogBreed string
	Address  string
	City     string
	State    string
	Zip      string
	WhenAt   *time.Time
	Place    string
	Location *models.GeoLocation
}

// NewPostService creates a PostService. feed may be nil.
func NewPostService(store repository.Storage, feed FeedInvalidator) *PostService {
	return &PostService{
		store: store,
		feed:  feed,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (in CreatePostInput) validate() error {
	if !in.Variant.Valid() {
		return models.NewValidationError("variant", "Variant must be community or playdate")
	}
	if validation.IsBlank(in.AuthorID) {
		return models.NewValidationError("authorId", "authorId is required")
	}

	fields := []validation.Field{{Name: "description", Value: in.Description}}
	if in.Variant == models.VariantPlaydate {
		var when string
		if in.WhenAt != nil && !in.WhenAt.IsZero() {
			when = in.WhenAt.String()
		}
		fields = []validation.Field{
			{Name: "title", Value: in.Title},
			{Name: "description", Value: in.Description},
			{Name: "dogBreed", Value: in.DogBreed},
			{Name: "address", Value: in.Address},
			{Name: "city", Value: in.City},
			{Name: "state", Value: in.State},
			{Name: "zip", Value: in.Zip},
			{Name: "whenAt", Value: when},
			{Name: "place", Value: in.Place},
		}
	}
	if name, missing := validation.FirstBlank(fields...); missing {
		return models.NewValidationError(name, name+" is required")
	}

	if err := validation.MaxLength("description", in.Description, validation.MaxDescriptionLength); err != nil {
		return models.NewValidationError("description", err.Error())
	}
	if err := validation.MaxLength("title", in.Title, validation.MaxTitleLength); err != nil {
		return models.NewValidationError("title", err.Error())
	}
	return nil
}

// CreatePost validates the variant's required fields and persists a new
// post with zeroed counters.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.now()
	post := &models.Post{
		ID:          uuid.NewString(),
		Variant:     in.Variant,
		AuthorID:    strings.TrimSpace(in.AuthorID),
		Description: in.Description,
		Edits:       models.EditHistory{},
		ImageURL:    strings.TrimSpace(in.ImageURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	switch in.Variant {
	case models.VariantCommunity:
		post.PetType = strings.TrimSpace(in.PetType)
		post.Category = strings.TrimSpace(in.Category)
	case models.VariantPlaydate:
		when := in.WhenAt.UTC()
		post.Title = strings.TrimSpace(in.Title)
		post.DogBreed = strings.TrimSpace(in.DogBreed)
		post.Address = strings.TrimSpace(in.Address)
		post.City = strings.TrimSpace(in.City)
		post.State = strings.TrimSpace(in.State)
		post.Zip = strings.TrimSpace(in.Zip)
		post.WhenAt = &when
		post.Place = strings.TrimSpace(in.Place)
		post.Location = in.Location
	}

	if err := s.store.Posts().Create(ctx, post); err != nil {
		return nil, err
	}
	invalidate(ctx, s.feed, post.Variant)
	observability.LogServiceCall(ctx, "PostService", "CreatePost", map[string]interface{}{
		"post_id": post.ID,
		"variant": post.Variant,
	})
	return post, nil
}

// GetPost returns one post. When viewerID is set the viewer's like state,
// and join state for playdates, are filled in.
func (s *PostService) GetPost(ctx context.Context, id, viewerID string) (*models.Post, error) {
	if validation.IsBlank(id) {
		return nil, models.NewValidationError("postId", "Post ID is required")
	}
	post, err := s.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewerID == "" {
		return post, nil
	}

	liked, err := s.store.Engagements().Exists(ctx, models.EngagementLike, id, viewerID)
	if err != nil {
		return nil, err
	}
	post.LikedByMe = &liked
	if post.IsPlaydate() {
		joined, err := s.store.Engagements().Exists(ctx, models.EngagementJoin, id, viewerID)
		if err != nil {
			return nil, err
		}
		post.JoinedByMe = &joined
	}
	return post, nil
}

// EditPost replaces the description, keeping the previous one in the edit
// history. A missing post is reported as an unsuccessful result, not an error.
func (s *PostService) EditPost(ctx context.Context, id, description string) (models.PostEdit, error) {
	if validation.IsBlank(description) {
		return models.PostEdit{}, models.NewValidationError("description", "description is required")
	}
	if err := validation.MaxLength("description", description, validation.MaxDescriptionLength); err != nil {
		return models.PostEdit{}, models.NewValidationError("description", err.Error())
	}

	var updated *models.Post
	err := s.store.Transaction(ctx, func(tx repository.Repositories) error {
		post, err := tx.Posts().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		edits := post.Edits.Append(post.Description)
		if err := tx.Posts().UpdateDescription(ctx, id, description, edits); err != nil {
			return err
		}
		post.Description = description
		post.Edits = edits
		updated = post
		return nil
	})
	if models.IsNotFound(err) {
		return models.PostEdit{Success: false}, nil
	}
	if err != nil {
		return models.PostEdit{}, err
	}
	invalidate(ctx, s.feed, updated.Variant)
	return models.PostEdit{Success: true, Post: updated}, nil
}

// DeletePost removes the post with its comments, likes and joins in one
// transaction. An empty id fails with ErrMissingPostID before touching storage.
func (s *PostService) DeletePost(ctx context.Context, id string) (models.Result, error) {
	if validation.IsBlank(id) {
		return models.Result{}, models.ErrMissingPostID
	}

	var variant models.Variant
	err := s.store.Transaction(ctx, func(tx repository.Repositories) error {
		post, err := tx.Posts().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		variant = post.Variant
		if _, err := tx.Comments().DeleteByPost(ctx, id); err != nil {
			return err
		}
		if _, err := tx.Engagements().DeleteByPost(ctx, models.EngagementLike, id); err != nil {
			return err
		}
		if _, err := tx.Engagements().DeleteByPost(ctx, models.EngagementJoin, id); err != nil {
			return err
		}
		_, err = tx.Posts().Delete(ctx, id)
		return err
	})
	if err != nil {
		return models.Result{}, err
	}
	invalidate(ctx, s.feed, variant)
	observability.LogServiceCall(ctx, "PostService", "DeletePost", map[string]interface{}{"post_id": id})
	return models.Result{Success: true}, nil
}
