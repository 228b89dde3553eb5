package service

import (
	"context"

	"pawfeed/internal/models"
	"pawfeed/internal/observability"
	"pawfeed/internal/repository"
)

// Drift describes a post whose stored counters disagreed with its rows.
type Drift struct {
	PostID string                   `json:"postId"`
	Stored repository.CounterValues `json:"stored"`
	Actual repository.CounterValues `json:"actual"`
}

// Changed reports whether any counter was out of sync.
func (d Drift) Changed() bool {
	return d.Stored != d.Actual
}

// Reconciler recomputes denormalized post counters from relation rows.
type Reconciler struct {
	store repository.Storage
	feed  FeedInvalidator
}

// NewReconciler creates a Reconciler. feed may be nil.
func NewReconciler(store repository.Storage, feed FeedInvalidator) *Reconciler {
	return &Reconciler{store: store, feed: feed}
}

// Reconcile repairs one post's counters and reports what it found.
func (r *Reconciler) Reconcile(ctx context.Context, postID string) (Drift, error) {
	drift := Drift{PostID: postID}
	var variant models.Variant
	err := r.store.Transaction(ctx, func(tx repository.Repositories) error {
		post, err := tx.Posts().GetByID(ctx, postID)
		if err != nil {
			return err
		}
		variant = post.Variant
		drift.Stored = repository.CounterValues{
			Likes:        post.Likes,
			Comments:     post.Comments,
			Participants: post.Participants,
		}

		if drift.Actual.Likes, err = tx.Engagements().CountByPost(ctx, models.EngagementLike, postID); err != nil {
			return err
		}
		if drift.Actual.Comments, err = tx.Comments().CountByPost(ctx, postID); err != nil {
			return err
		}
		if post.IsPlaydate() {
			if drift.Actual.Participants, err = tx.Engagements().CountByPost(ctx, models.EngagementJoin, postID); err != nil {
				return err
			}
		}
		if !drift.Changed() {
			return nil
		}
		return tx.Posts().SetCounters(ctx, postID, drift.Actual)
	})
	if err != nil {
		return Drift{}, err
	}

	if drift.Changed() {
		recordDrift(drift)
		invalidate(ctx, r.feed, variant)
		observability.LogServiceCall(ctx, "Reconciler", "Reconcile", map[string]interface{}{
			"post_id": postID,
			"stored":  drift.Stored,
			"actual":  drift.Actual,
		})
	}
	return drift, nil
}

// ReconcileAll walks every post and returns only those that drifted.
func (r *Reconciler) ReconcileAll(ctx context.Context) ([]Drift, error) {
	ids, err := r.store.Posts().ListIDs(ctx)
	if err != nil {
		return nil, err
	}
	var drifted []Drift
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return drifted, err
		}
		d, err := r.Reconcile(ctx, id)
		if models.IsNotFound(err) {
			continue
		}
		if err != nil {
			return drifted, err
		}
		if d.Changed() {
			drifted = append(drifted, d)
		}
	}
	return drifted, nil
}

func recordDrift(d Drift) {
	if d.Stored.Likes != d.Actual.Likes {
		observability.CounterDrift.WithLabelValues(string(models.CounterLikes)).Inc()
	}
	if d.Stored.Comments != d.Actual.Comments {
		observability.CounterDrift.WithLabelValues(string(models.CounterComments)).Inc()
	}
	if d.Stored.Participants != d.Actual.Participants {
		observability.CounterDrift.WithLabelValues(string(models.CounterParticipants)).Inc()
	}
}
