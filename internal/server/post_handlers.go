package server

import (
	"time"

	"pawfeed/internal/models"
	"pawfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

type communityPostRequest struct {
	AuthorID    string `json:"authorId"`
	Description string `json:"description"`
	PetType     string `json:"petType"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
}

type playdatePostRequest struct {
	AuthorID    string              `json:"authorId"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	DogBreed    string              `json:"dogBreed"`
	Address     string              `json:"address"`
	City        string              `json:"city"`
	State       string              `json:"state"`
	Zip         string              `json:"zip"`
	WhenAt      *time.Time          `json:"whenAt"`
	Place       string              `json:"place"`
	Location    *models.GeoLocation `json:"location"`
	ImageURL    string              `json:"imageUrl"`
}

type editPostRequest struct {
	Description string `json:"description"`
}

// resolveAuthor defaults the author to the caller and rejects posting on
// someone else's behalf.
func resolveAuthor(c *fiber.Ctx, requested string) (string, error) {
	caller := callerID(c)
	if requested == "" {
		return caller, nil
	}
	if err := requireAuthor(c, requested); err != nil {
		return "", err
	}
	return caller, nil
}

// ListCommunityPosts handles GET /api/community
// @Summary List community posts
// @Tags community
// @Param petType query string false "pet type filter"
// @Param category query string false "category filter"
// @Param q query string false "description search"
// @Param page query int false "page, 1-based"
// @Param limit query int false "page size"
// @Success 200 {object} service.FeedPage
// @Router /community [get]
func (s *Server) ListCommunityPosts(c *fiber.Ctx) error {
	p := parsePagination(c)
	page, err := s.feedService.ListCommunityPosts(c.UserContext(), service.FeedFilter{
		PetType:  c.Query("petType"),
		Category: c.Query("category"),
		Query:    c.Query("q"),
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// ListPlaydatePosts handles GET /api/playdates
// @Summary List playdate posts
// @Tags playdates
// @Param city query string false "city filter"
// @Param q query string false "search over description, breed and title"
// @Param page query int false "page, 1-based"
// @Param limit query int false "page size"
// @Success 200 {object} service.FeedPage
// @Router /playdates [get]
func (s *Server) ListPlaydatePosts(c *fiber.Ctx) error {
	p := parsePagination(c)
	page, err := s.feedService.ListPlaydatePosts(c.UserContext(), service.FeedFilter{
		City:  c.Query("city"),
		Query: c.Query("q"),
		Page:  p.Page,
		Limit: p.Limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(page)
}

// CreateCommunityPost handles POST /api/community
// @Summary Create a community post
// @Tags community
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /community [post]
func (s *Server) CreateCommunityPost(c *fiber.Ctx) error {
	var req communityPostRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}
	author, err := resolveAuthor(c, req.AuthorID)
	if err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Variant:     models.VariantCommunity,
		AuthorID:    author,
		Description: req.Description,
		PetType:     req.PetType,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// CreatePlaydatePost handles POST /api/playdates
// @Summary Create a playdate post
// @Tags playdates
// @Security BearerAuth
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /playdates [post]
func (s *Server) CreatePlaydatePost(c *fiber.Ctx) error {
	var req playdatePostRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}
	author, err := resolveAuthor(c, req.AuthorID)
	if err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Variant:     models.VariantPlaydate,
		AuthorID:    author,
		Title:       req.Title,
		Description: req.Description,
		DogBreed:    req.DogBreed,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		Zip:         req.Zip,
		WhenAt:      req.WhenAt,
		Place:       req.Place,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// loadPost fetches a post and checks it belongs to the route's variant.
// A post of the other variant is reported as not found.
func (s *Server) loadPost(c *fiber.Ctx, variant models.Variant, viewerID string) (*models.Post, error) {
	id, err := parseID(c, "id", "post")
	if err != nil {
		return nil, err
	}
	post, err := s.postService.GetPost(c.UserContext(), id, viewerID)
	if err == nil && post.Variant != variant {
		err = models.NewNotFoundError(variantLabel(variant), id)
	}
	if err != nil {
		_ = respondError(c, err)
		return nil, errResponseWritten
	}
	return post, nil
}

// matchVariant guards the /:id child routes. A post of the other variant is
// not found; a missing post is left to the handler.
func (s *Server) matchVariant(variant models.Variant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, "id", "post")
		if err != nil {
			return nil
		}
		post, err := s.store.Posts().GetByID(c.UserContext(), id)
		if models.IsNotFound(err) {
			return c.Next()
		}
		if err != nil {
			return respondError(c, err)
		}
		if post.Variant != variant {
			return respondError(c, models.NewNotFoundError(variantLabel(variant), id))
		}
		return c.Next()
	}
}

func variantLabel(v models.Variant) string {
	if v == models.VariantPlaydate {
		return "Playdate post"
	}
	return "Community post"
}

// GetPost handles GET /api/{community,playdates}/:id
func (s *Server) GetPost(variant models.Variant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		post, err := s.loadPost(c, variant, callerID(c))
		if err != nil {
			return nil
		}
		return c.JSON(post)
	}
}

// EditPost handles PATCH /api/{community,playdates}/:id
// Only the author may edit; the previous description is kept in edits.
func (s *Server) EditPost(variant models.Variant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req editPostRequest
		if err := bindJSON(c, &req); err != nil {
			return nil
		}
		post, err := s.loadPost(c, variant, "")
		if err != nil {
			return nil
		}
		if err := requireAuthor(c, post.AuthorID); err != nil {
			return nil
		}

		res, err := s.postService.EditPost(c.UserContext(), post.ID, req.Description)
		if err != nil {
			return respondError(c, err)
		}
		if !res.Success {
			// deleted between the lookup and the edit
			return respondError(c, models.NewNotFoundError(variantLabel(variant), post.ID))
		}
		return c.JSON(res.Post)
	}
}

// DeletePost handles DELETE /api/{community,playdates}/:id
// The post's comments, likes and joins are removed with it.
func (s *Server) DeletePost(variant models.Variant) fiber.Handler {
	return func(c *fiber.Ctx) error {
		post, err := s.loadPost(c, variant, "")
		if err != nil {
			return nil
		}
		if err := requireAuthor(c, post.AuthorID); err != nil {
			return nil
		}

		if _, err := s.postService.DeletePost(c.UserContext(), post.ID); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
