package repository

import (
	"context"
	"fmt"
	"strings"

	"pawfeed/internal/models"
	"pawfeed/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostQuery selects a filtered, newest-first window of one variant's posts.
// Empty string fields are not applied.
type PostQuery struct {
	Variant  models.Variant
	PetType  string
	Category string
	City     string
	// Search is matched as a case-insensitive substring against SearchColumns.
	Search        string
	SearchColumns []string
	Limit         int
	Offset        int
}

// CounterValues holds the three denormalized post counters.
type CounterValues struct {
	Likes        int64
	Comments     int64
	Participants int64
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context, q PostQuery) ([]*models.Post, error)
	ListIDs(ctx context.Context) ([]string, error)
	UpdateDescription(ctx context.Context, id, description string, edits models.EditHistory) error
	Delete(ctx context.Context, id string) (bool, error)
	AdjustCounter(ctx context.Context, id string, counter models.Counter, delta int) error
	SetCounters(ctx context.Context, id string, values CounterValues) error
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return classify(err, "Post", post.ID)
	}
	r.log.LogMutation(ctx, "create", map[string]interface{}{"post_id": post.ID, "variant": post.Variant})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, classify(err, "Post", id)
	}
	return &post, nil
}

// GetByIDForUpdate reads the post holding a row lock until the surrounding
// transaction ends. Writers touching the post or its children take this lock first.
func (r *postRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, classify(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, q PostQuery) ([]*models.Post, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "List", "posts")
	defer span.End()
	defer observability.TrackQuery("list", "posts")()

	query := r.db.WithContext(ctx).Model(&models.Post{}).Where("variant = ?", q.Variant)
	if q.PetType != "" {
		query = query.Where("LOWER(pet_type) = ?", strings.ToLower(q.PetType))
	}
	if q.Category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(q.Category))
	}
	if q.City != "" {
		query = query.Where("LOWER(city) = ?", strings.ToLower(q.City))
	}
	if q.Search != "" && len(q.SearchColumns) > 0 {
		query = applySearch(query, q.Search, q.SearchColumns)
	}

	var posts []*models.Post
	err := query.
		Order("created_at DESC").
		Order("seq DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error
	if err != nil {
		span.RecordError(err)
		r.log.LogError(ctx, err, "list")
		return nil, classify(err, "Post", q.Variant)
	}
	return posts, nil
}

// searchableColumns bounds which columns may be interpolated into a search clause.
var searchableColumns = map[string]bool{
	"description": true,
	"title":       true,
	"dog_breed":   true,
}

// applySearch ORs a case-insensitive substring match across columns.
// LIKE wildcards in the term are matched literally.
func applySearch(db *gorm.DB, term string, columns []string) *gorm.DB {
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		if !searchableColumns[col] {
			continue
		}
		clauses = append(clauses, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col))
		args = append(args, pattern)
	}
	if len(clauses) == 0 {
		return db
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *postRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Order("seq").Pluck("id", &ids).Error; err != nil {
		return nil, classify(err, "Post", "*")
	}
	return ids, nil
}

func (r *postRepository) UpdateDescription(ctx context.Context, id, description string, edits models.EditHistory) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"description": description,
			"edits":       edits,
		})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "update")
		return classify(result.Error, "Post", id)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.log.LogMutation(ctx, "update", map[string]interface{}{"post_id": id, "edits": len(edits)})
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if result.Error != nil {
		r.log.LogError(ctx, result.Error, "delete")
		return false, classify(result.Error, "Post", id)
	}
	r.log.LogMutation(ctx, "delete", map[string]interface{}{"post_id": id, "rows": result.RowsAffected})
	return result.RowsAffected > 0, nil
}

// AdjustCounter adds delta to one counter in a single UPDATE, clamping at zero.
func (r *postRepository) AdjustCounter(ctx context.Context, id string, counter models.Counter, delta int) error {
	col := counter.Column()
	if col == "" {
		return fmt.Errorf("unknown post counter %q", counter)
	}
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "AdjustCounter", "posts")
	defer span.End()

	expr := gorm.Expr(fmt.Sprintf("CASE WHEN %s + ? < 0 THEN 0 ELSE %s + ? END", col, col), delta, delta)
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn(col, expr)
	if result.Error != nil {
		span.RecordError(result.Error)
		r.log.LogError(ctx, result.Error, "adjust_counter")
		return classify(result.Error, "Post", id)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) SetCounters(ctx context.Context, id string, values CounterValues) error {
	result := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"likes":        values.Likes,
			"comments":     values.Comments,
			"participants": values.Participants,
		})
	if result.Error != nil {
		return classify(result.Error, "Post", id)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	r.log.LogMutation(ctx, "set_counters", map[string]interface{}{"post_id": id})
	return nil
}
