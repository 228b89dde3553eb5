package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleLike handles POST /api/{community,playdates}/:id/like
// @Summary Like or unlike a post
// @Tags engagement
// @Security BearerAuth
// @Param id path string true "post id"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /community/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return nil
	}
	liked, err := s.engagement.ToggleLike(c.UserContext(), postID, callerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// ToggleJoin handles POST /api/playdates/:id/join
// @Summary Join or leave a playdate
// @Tags engagement
// @Security BearerAuth
// @Param id path string true "playdate id"
// @Success 200 {object} map[string]bool
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /playdates/{id}/join [post]
func (s *Server) ToggleJoin(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return nil
	}
	joined, err := s.engagement.ToggleJoin(c.UserContext(), postID, callerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"joined": joined})
}

// GetLikeStatus handles GET /api/{community,playdates}/:id/like
func (s *Server) GetLikeStatus(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return nil
	}
	liked, err := s.engagement.LikeStatus(c.UserContext(), postID, callerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"liked": liked})
}

// GetJoinStatus handles GET /api/playdates/:id/join
func (s *Server) GetJoinStatus(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return nil
	}
	joined, err := s.engagement.JoinStatus(c.UserContext(), postID, callerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"joined": joined})
}

// ListParticipants handles GET /api/playdates/:id/participants
// @Summary List users who joined a playdate
// @Tags engagement
// @Param id path string true "playdate id"
// @Success 200 {object} map[string][]models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /playdates/{id}/participants [get]
func (s *Server) ListParticipants(c *fiber.Ctx) error {
	postID, err := parseID(c, "id", "post")
	if err != nil {
		return nil
	}
	users, err := s.engagement.ListParticipants(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": users})
}
