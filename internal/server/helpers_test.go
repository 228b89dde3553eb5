package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawfeed/internal/middleware"
	"pawfeed/internal/models"
	"pawfeed/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", models.NewValidationError("title", "title is required"), http.StatusBadRequest},
		{"not found", models.NewNotFoundError("Post", "p1"), http.StatusNotFound},
		{"forbidden", models.NewForbiddenError("nope"), http.StatusForbidden},
		{"conflict", models.NewConflictError("dup", nil), http.StatusConflict},
		{"unauthorized", models.NewUnauthorizedError("who"), http.StatusUnauthorized},
		{"infrastructure", models.NewInfrastructureError(errors.New("down")), http.StatusServiceUnavailable},
		{"wrapped not found", fmt.Errorf("load: %w", models.NewNotFoundError("Comment", "c1")), http.StatusNotFound},
		{"missing post id", models.ErrMissingPostID, http.StatusBadRequest},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFor(tt.err))
		})
	}
}

func TestParseID(t *testing.T) {
	app := fiber.New()
	app.Get("/posts/:id", func(c *fiber.Ctx) error {
		id, err := parseID(c, "id", "post")
		if err != nil {
			return nil
		}
		return c.SendString(id)
	})

	t.Run("valid uuid", func(t *testing.T) {
		id := "6f1c2b1e-7d0a-4b7e-9d2a-1f0c3e5a7b9d"
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/"+id, nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("garbage", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/not-a-uuid", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Invalid post ID", body.Error)
		assert.Equal(t, models.CodeValidation, body.Code)
		assert.Equal(t, "id", body.Field)
	})
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePagination(c)
		return c.JSON(fiber.Map{"page": p.Page, "limit": p.Limit})
	})

	tests := []struct {
		query         string
		expectedPage  float64
		expectedLimit float64
	}{
		{"", 1, 0},
		{"?page=3&limit=10", 3, 10},
		{"?page=abc&limit=xyz", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items"+tt.query, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			var body map[string]float64
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedPage, body["page"])
			assert.Equal(t, tt.expectedLimit, body["limit"])
		})
	}
}

func TestRespondError_RecordsCauseOnRequestSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := observability.Tracer
	observability.Tracer = provider.Tracer("test")
	t.Cleanup(func() { observability.Tracer = prev })

	app := fiber.New()
	app.Use(middleware.TracingMiddleware())
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, errors.New("connection reset by peer"))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return respondError(c, models.NewNotFoundError("Post", "p-1"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	failed := spans[0]
	assert.Equal(t, codes.Error, failed.Status().Code)
	require.NotEmpty(t, failed.Events())
	assert.Equal(t, "exception", failed.Events()[0].Name)
	assert.Contains(t, fmt.Sprint(failed.Events()[0].Attributes), "connection reset by peer")

	assert.Empty(t, spans[1].Events())
}
