package service

import (
	"context"

	"pawfeed/internal/models"
	"pawfeed/internal/observability"
	"pawfeed/internal/repository"
	"pawfeed/internal/validation"
)

// maxToggleAttempts bounds retries when two toggles for the same pair race
// on the unique (post_id, user_id) index.
const maxToggleAttempts = 3

// EngagementService flips like and join membership together with the
// post's denormalized counter.
type EngagementService struct {
	store repository.Storage
	feed  FeedInvalidator
}

// NewEngagementService creates an EngagementService. feed may be nil.
func NewEngagementService(store repository.Storage, feed FeedInvalidator) *EngagementService {
	return &EngagementService{store: store, feed: feed}
}

// ToggleLike likes or unlikes postID for userID and returns the new state.
func (s *EngagementService) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	return s.toggle(ctx, models.EngagementLike, postID, userID)
}

// ToggleJoin joins or leaves a playdate and returns the new state.
// The playdate's author cannot join it.
func (s *EngagementService) ToggleJoin(ctx context.Context, postID, userID string) (bool, error) {
	return s.toggle(ctx, models.EngagementJoin, postID, userID)
}

// LikeStatus reports whether userID likes postID.
func (s *EngagementService) LikeStatus(ctx context.Context, postID, userID string) (bool, error) {
	return s.status(ctx, models.EngagementLike, postID, userID)
}

// JoinStatus reports whether userID has joined the playdate postID.
func (s *EngagementService) JoinStatus(ctx context.Context, postID, userID string) (bool, error) {
	return s.status(ctx, models.EngagementJoin, postID, userID)
}

func (s *EngagementService) status(ctx context.Context, kind models.EngagementKind, postID, userID string) (bool, error) {
	if err := requireIDs(postID, userID); err != nil {
		return false, err
	}
	return s.store.Engagements().Exists(ctx, kind, postID, userID)
}

func (s *EngagementService) toggle(ctx context.Context, kind models.EngagementKind, postID, userID string) (active bool, err error) {
	if err := requireIDs(postID, userID); err != nil {
		return false, err
	}
	ctx, span := observability.StartServiceSpan(ctx, "EngagementService", "toggle_"+string(kind), postID)
	defer func() {
		observability.RecordToggle(string(kind), active, err)
		observability.EndSpan(span, err)
	}()

	var variant models.Variant
	for attempt := 1; ; attempt++ {
		err = s.store.Transaction(ctx, func(tx repository.Repositories) error {
			post, err := tx.Posts().GetByIDForUpdate(ctx, postID)
			if err != nil {
				return err
			}
			if kind == models.EngagementJoin {
				if !post.IsPlaydate() {
					return models.NewNotFoundError("Playdate post", postID)
				}
				if post.AuthorID == userID {
					return models.NewForbiddenError("Authors cannot join their own playdate")
				}
			}
			variant = post.Variant

			// Delete first: whichever toggle removes the row owns the decrement.
			removed, err := tx.Engagements().Delete(ctx, kind, postID, userID)
			if err != nil {
				return err
			}
			if removed {
				active = false
				return tx.Posts().AdjustCounter(ctx, postID, kind.Counter(), -1)
			}
			if err := tx.Engagements().Insert(ctx, kind, postID, userID); err != nil {
				return err
			}
			active = true
			return tx.Posts().AdjustCounter(ctx, postID, kind.Counter(), 1)
		})
		if err == nil {
			break
		}
		if !models.IsConflict(err) || attempt >= maxToggleAttempts {
			return false, err
		}
	}

	invalidate(ctx, s.feed, variant)
	observability.LogServiceCall(ctx, "EngagementService", "toggle_"+string(kind), map[string]interface{}{
		"post_id": postID,
		"user_id": userID,
		"active":  active,
	})
	return active, nil
}

// ListParticipants returns the profiles of users who joined a playdate,
// in join order.
func (s *EngagementService) ListParticipants(ctx context.Context, postID string) ([]models.User, error) {
	if validation.IsBlank(postID) {
		return nil, models.NewValidationError("postId", "Post ID is required")
	}
	post, err := s.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.IsPlaydate() {
		return nil, models.NewNotFoundError("Playdate post", postID)
	}

	rows, err := s.store.Engagements().ListByPost(ctx, models.EngagementJoin, postID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	profiles, err := s.store.Profiles().GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.User, 0, len(rows))
	for _, id := range ids {
		if p, ok := profiles[id]; ok {
			out = append(out, p)
			continue
		}
		out = append(out, models.User{ID: id})
	}
	return out, nil
}

func requireIDs(postID, userID string) error {
	if validation.IsBlank(postID) {
		return models.NewValidationError("postId", "Post ID is required")
	}
	if validation.IsBlank(userID) {
		return models.NewValidationError("userId", "User ID is required")
	}
	return nil
}
