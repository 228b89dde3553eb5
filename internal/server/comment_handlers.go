package server

import (
	"pawfeed/internal/models"
	"pawfeed/internal/service"

	"github.com/gofiber/fiber/v2"
)

type addCommentRequest struct {
	AuthorID string `json:"authorId"`
	Username string `json:"username"`
	Content  string `json:"content"`
}

type editCommentRequest struct {
	Content string `json:"content"`
}

// ListComments handles GET /api/{community,playdates}/:id/comments?order=newest|oldest
// @Summary List a post's comments
// @Tags comments
// @Param id path string true "post id"
// @Param order query string false "newest (default) or oldest"
// @Success 200 {object} map[string][]models.Comment
// @Router /community/{id}/comments [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return nil
	}
	comments := s.commentService.ListComments(c.UserContext(), postID, models.ParseCommentOrder(c.Query("order")))
	return c.JSON(fiber.Map{"items": comments})
}

// AddComment handles POST /api/{community,playdates}/:id/comments
// @Summary Comment on a post
// @Tags comments
// @Security BearerAuth
// @Param id path string true "post id"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /community/{id}/comments [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return nil
	}
	var req addCommentRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}
	author, err := resolveAuthor(c, req.AuthorID)
	if err != nil {
		return nil
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		PostID:   postID,
		AuthorID: author,
		Username: req.Username,
		Content:  req.Content,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ownedComment loads a comment for modification. ok is false when the
// response was already written; comment is nil when it no longer exists.
func (s *Server) ownedComment(c *fiber.Ctx) (comment *models.Comment, ok bool) {
	id, err := parseID(c, "id", "comment")
	if err != nil {
		return nil, false
	}
	comment, err = s.commentService.GetComment(c.UserContext(), id)
	if models.IsNotFound(err) {
		return nil, true
	}
	if err != nil {
		_ = respondError(c, err)
		return nil, false
	}
	if err := requireAuthor(c, comment.AuthorID); err != nil {
		return nil, false
	}
	return comment, true
}

// EditComment handles PATCH /api/comments/:id
// @Summary Edit a comment
// @Tags comments
// @Security BearerAuth
// @Param id path string true "comment id"
// @Success 200 {object} models.CommentEdit
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/{id} [patch]
func (s *Server) EditComment(c *fiber.Ctx) error {
	var req editCommentRequest
	if err := bindJSON(c, &req); err != nil {
		return nil
	}
	comment, ok := s.ownedComment(c)
	if !ok {
		return nil
	}
	if comment == nil {
		return c.JSON(models.CommentEdit{Success: false})
	}

	res, err := s.commentService.EditComment(c.UserContext(), comment.ID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// DeleteComment handles DELETE /api/comments/:id?postId=
// @Summary Delete a comment
// @Tags comments
// @Security BearerAuth
// @Param id path string true "comment id"
// @Param postId query string false "post the comment must belong to"
// @Success 200 {object} models.Result
// @Failure 403 {object} models.ErrorResponse
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	comment, ok := s.ownedComment(c)
	if !ok {
		return nil
	}
	if comment == nil {
		return c.JSON(models.Result{Success: false})
	}

	res, err := s.commentService.DeleteComment(c.UserContext(), comment.ID, c.Query("postId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}
