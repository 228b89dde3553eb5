// Package middleware provides request identity, logging, tracing, metrics
// and rate limiting for the HTTP surface.
package middleware

import (
	"context"
	"errors"
	"strings"

	"pawfeed/internal/config"
	"pawfeed/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

var (
	errMissingToken   = errors.New("authorization required")
	errInvalidHeader  = errors.New("invalid authorization header format")
	errMissingSubject = errors.New("token has no subject")
)

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get("Authorization")
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errInvalidHeader
	}
	return parts[1], nil
}

// ParseSubject validates an HMAC-signed token and returns its subject, the
// opaque user id issued by the auth collaborator.
func ParseSubject(tokenString string) (string, error) {
	if cfg == nil {
		return "", errors.New("auth middleware not initialized")
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return "", errMissingSubject
	}
	return sub, nil
}

func setUser(c *fiber.Ctx, userID string) {
	c.Locals("userID", userID)
	c.SetUserContext(context.WithValue(c.UserContext(), UserIDKey, userID))
}

// AuthRequired rejects requests without a valid bearer token and stores the
// caller's id in c.Locals("userID").
func AuthRequired(c *fiber.Ctx) error {
	token, err := bearerToken(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(err.Error()))
	}
	userID, err := ParseSubject(token)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError("Invalid or expired token"))
	}
	setUser(c, userID)
	return c.Next()
}

// OptionalAuth resolves the caller when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(c *fiber.Ctx) error {
	if token, err := bearerToken(c); err == nil {
		if userID, err := ParseSubject(token); err == nil {
			setUser(c, userID)
		}
	}
	return c.Next()
}

// UserID returns the authenticated caller, if any.
func UserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals("userID").(string)
	return id, ok && id != ""
}
