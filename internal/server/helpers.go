package server

import (
	"errors"
	"strings"

	"pawfeed/internal/middleware"
	"pawfeed/internal/models"
	"pawfeed/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed page/limit query parameters. Clamping to the
// configured bounds happens in the feed service.
type Pagination struct {
	Page  int
	Limit int
}

func parsePagination(c *fiber.Ctx) Pagination {
	return Pagination{
		Page:  c.QueryInt("page", 1),
		Limit: c.QueryInt("limit", 0),
	}
}

// parseID extracts a route parameter holding a post or comment id.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseID(c *fiber.Ctx, param, label string) (string, error) {
	raw := strings.TrimSpace(c.Params(param))
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(param, "Invalid "+label+" ID"))
		return "", errResponseWritten
	}
	return id.String(), nil
}

// statusFor maps an AppError code to its HTTP status.
func statusFor(err error) int {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		if errors.Is(err, models.ErrMissingPostID) {
			return fiber.StatusBadRequest
		}
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case models.CodeValidation:
		return fiber.StatusBadRequest
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeConflict:
		return fiber.StatusConflict
	case models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeInfrastructure:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "request failed",
			"path", c.Path(), "error", err.Error())
		observability.RecordErrorInContext(c.UserContext(), err)
	}
	if status == fiber.StatusInternalServerError {
		err = models.NewInfrastructureError(err)
	}
	return models.RespondWithError(c, status, err)
}

// callerID returns the authenticated user. Routes using it sit behind
// middleware.AuthRequired.
func callerID(c *fiber.Ctx) string {
	id, _ := middleware.UserID(c)
	return id
}

// requireAuthor rejects callers who do not own the resource.
func requireAuthor(c *fiber.Ctx, authorID string) error {
	if callerID(c) != authorID {
		_ = models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Only the author can modify this resource"))
		return errResponseWritten
	}
	return nil
}

func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("body", "Invalid request body"))
		return errResponseWritten
	}
	return nil
}
