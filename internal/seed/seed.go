package seed

import (
	"context"
	"fmt"
	"log"

	"pawfeed/internal/models"
	"pawfeed/internal/repository"
	"pawfeed/internal/service"

	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	Preset Preset
	// Seed fixes the random generator; zero picks a random seed.
	Seed        int64
	ShouldClean bool
}

// Summary counts what a run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
	Joins    int
}

// Seed populates the database through the services so every counter matches
// its relation rows.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (Summary, error) {
	var sum Summary
	p := opts.Preset
	if err := p.Validate(); err != nil {
		return sum, err
	}
	p.applyDefaults()

	log.Printf("🌱 Seeding preset %q: %d users, %d community posts, %d playdates",
		p.Name, p.Users, p.CommunityPosts, p.PlaydatePosts)

	if opts.ShouldClean {
		if err := clearData(ctx, db); err != nil {
			return sum, fmt.Errorf("failed to clear data: %w", err)
		}
	}

	store := repository.NewStorage(db)
	posts := service.NewPostService(store, nil)
	comments := service.NewCommentService(store, nil)
	engagements := service.NewEngagementService(store, nil)
	f := NewFactory(p, opts.Seed)

	users := make([]*models.User, 0, p.Users)
	for i := 0; i < p.Users; i++ {
		u := f.BuildUser()
		if err := db.WithContext(ctx).Create(u).Error; err != nil {
			return sum, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, u)
	}
	sum.Users = len(users)
	log.Printf("✓ %d users created", sum.Users)

	created := make([]*models.Post, 0, p.CommunityPosts+p.PlaydatePosts)
	for i := 0; i < p.CommunityPosts+p.PlaydatePosts; i++ {
		author := users[f.Intn(len(users)-1)]
		in := f.BuildCommunityPost(author.ID)
		if i >= p.CommunityPosts {
			in = f.BuildPlaydatePost(author.ID)
		}
		post, err := posts.CreatePost(ctx, in)
		if err != nil {
			return sum, fmt.Errorf("failed to create post: %w", err)
		}
		if err := db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).
			Update("created_at", f.CreatedAt()).Error; err != nil {
			return sum, fmt.Errorf("failed to backdate post: %w", err)
		}
		created = append(created, post)
	}
	sum.Posts = len(created)
	log.Printf("✓ %d posts created", sum.Posts)

	for _, post := range created {
		for n := f.Intn(p.MaxCommentsPerPost); n > 0; n-- {
			author := users[f.Intn(len(users)-1)]
			if _, err := comments.AddComment(ctx, f.BuildComment(post.ID, author)); err != nil {
				return sum, fmt.Errorf("failed to create comment: %w", err)
			}
			sum.Comments++
		}

		for _, u := range users {
			if f.Chance(p.LikeRatio) {
				if _, err := engagements.ToggleLike(ctx, post.ID, u.ID); err != nil {
					return sum, fmt.Errorf("failed to like post: %w", err)
				}
				sum.Likes++
			}
			if post.IsPlaydate() && u.ID != post.AuthorID && f.Chance(p.JoinRatio) {
				if _, err := engagements.ToggleJoin(ctx, post.ID, u.ID); err != nil {
					return sum, fmt.Errorf("failed to join playdate: %w", err)
				}
				sum.Joins++
			}
		}
	}
	log.Printf("✓ %d comments, %d likes, %d joins", sum.Comments, sum.Likes, sum.Joins)

	log.Println("🎉 Database seeding completed successfully!")
	return sum, nil
}

func clearData(ctx context.Context, db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"joins", "likes", "comments", "posts", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
