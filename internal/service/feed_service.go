package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"pawfeed/internal/models"
	"pawfeed/internal/observability"
	"pawfeed/internal/repository"
)

// FeedInvalidator drops cached listings for a variant after a write.
type FeedInvalidator interface {
	Invalidate(ctx context.Context, variant string)
}

// FeedReader serves listing pages, optionally from a cache.
type FeedReader interface {
	Aside(ctx context.Context, variant, fingerprint string, dest interface{}, fetch func() error) error
}

func invalidate(ctx context.Context, feed FeedInvalidator, variant models.Variant) {
	if feed == nil || variant == "" {
		return
	}
	feed.Invalidate(ctx, string(variant))
}

// FeedLimits bounds page sizes for listings.
type FeedLimits struct {
	Default int
	Max     int
}

// DefaultFeedLimits are used when no limits are configured.
var DefaultFeedLimits = FeedLimits{Default: 20, Max: 50}

// FeedFilter narrows a listing. Empty fields are ignored. City applies to
// playdates only; PetType and Category to community posts only.
type FeedFilter struct {
	PetType  string
	Category string
	City     string
	Query    string
	Page     int
	Limit    int
}

// FeedPage is one window of a listing.
type FeedPage struct {
	Items []*models.Post `json:"items"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

var (
	communitySearchColumns = []string{"description"}
	playdateSearchColumns  = []string{"description", "dog_breed", "title"}
)

// FeedService lists community and playdate posts newest first.
type FeedService struct {
	posts  repository.PostRepository
	cache  FeedReader
	limits FeedLimits
}

// NewFeedService creates a FeedService. cache may be nil.
func NewFeedService(posts repository.PostRepository, cache FeedReader, limits FeedLimits) *FeedService {
	if limits.Max <= 0 {
		limits.Max = DefaultFeedLimits.Max
	}
	if limits.Default <= 0 || limits.Default > limits.Max {
		limits.Default = min(DefaultFeedLimits.Default, limits.Max)
	}
	return &FeedService{posts: posts, cache: cache, limits: limits}
}

// Normalize clamps page and limit into range.
func (s *FeedService) Normalize(f FeedFilter) FeedFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = s.limits.Default
	}
	if f.Limit > s.limits.Max {
		f.Limit = s.limits.Max
	}
	// Offsets past MaxInt32 are empty anyway; capping keeps (Page-1)*Limit from wrapping.
	if maxPage := math.MaxInt32/f.Limit + 1; f.Page > maxPage {
		f.Page = maxPage
	}
	f.PetType = strings.TrimSpace(f.PetType)
	f.Category = strings.TrimSpace(f.Category)
	f.City = strings.TrimSpace(f.City)
	f.Query = strings.TrimSpace(f.Query)
	return f
}

// ListCommunityPosts filters by pet type, category and a description search.
func (s *FeedService) ListCommunityPosts(ctx context.Context, f FeedFilter) (*FeedPage, error) {
	f = s.Normalize(f)
	return s.list(ctx, f, repository.PostQuery{
		Variant:       models.VariantCommunity,
		PetType:       f.PetType,
		Category:      f.Category,
		Search:        f.Query,
		SearchColumns: communitySearchColumns,
	})
}

// ListPlaydatePosts filters by city and a search over description, breed and title.
func (s *FeedService) ListPlaydatePosts(ctx context.Context, f FeedFilter) (*FeedPage, error) {
	f = s.Normalize(f)
	return s.list(ctx, f, repository.PostQuery{
		Variant:       models.VariantPlaydate,
		City:          f.City,
		Search:        f.Query,
		SearchColumns: playdateSearchColumns,
	})
}

func (s *FeedService) list(ctx context.Context, f FeedFilter, q repository.PostQuery) (*FeedPage, error) {
	defer observability.TrackFeed(string(q.Variant))()

	q.Limit = f.Limit
	q.Offset = (f.Page - 1) * f.Limit
	page := &FeedPage{Page: f.Page, Limit: f.Limit}

	fetch := func() error {
		posts, err := s.posts.List(ctx, q)
		if err != nil {
			return err
		}
		page.Items = posts
		return nil
	}

	var err error
	if s.cache != nil {
		err = s.cache.Aside(ctx, string(q.Variant), fingerprint(q), page, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, err
	}
	if page.Items == nil {
		page.Items = []*models.Post{}
	}
	return page, nil
}

func fingerprint(q repository.PostQuery) string {
	return fmt.Sprintf("pet=%s|cat=%s|city=%s|q=%s|l=%d|o=%d",
		strings.ToLower(q.PetType), strings.ToLower(q.Category), strings.ToLower(q.City),
		strings.ToLower(q.Search), q.Limit, q.Offset)
}
