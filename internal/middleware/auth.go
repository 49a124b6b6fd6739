// Package middleware provides authentication, logging, metrics, and tracing
// middleware for the application.
package middleware

import (
	"strings"

	"nichehub/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// revokedCheck reports whether a token id (jti) has been revoked. Nil means
// no revocation store is available and tokens stay valid until expiry.
var revokedCheck func(jti string) bool

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// SetRevocationCheck installs the token revocation lookup used during auth.
// Pass nil to disable revocation checks.
func SetRevocationCheck(fn func(jti string) bool) {
	revokedCheck = fn
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	userID, err := viewerFromHeader(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	c.Locals("userID", userID)
	return c.Next()
}

// OptionalAuth resolves the viewer identity when a bearer token is present
// but lets anonymous requests through. Feed reads use it: liked-by-viewer
// enrichment is simply false without a viewer.
func OptionalAuth(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	userID, err := viewerFromHeader(c)
	if err != nil {
		// A present but invalid token is rejected rather than silently
		// treated as anonymous.
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	c.Locals("userID", userID)
	return c.Next()
}

// viewerFromHeader parses and validates the Authorization header and returns
// the user id from the token's subject claim.
func viewerFromHeader(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Authorization header required")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
	}

	// User ID lives in the "sub" claim (subject claim per RFC 7519)
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Invalid token structure - missing subject")
	}

	if revokedCheck != nil {
		if jti, ok := claims["jti"].(string); ok && jti != "" && revokedCheck(jti) {
			return "", fiber.NewError(fiber.StatusUnauthorized, "Token has been revoked")
		}
	}
	return sub, nil
}

// ViewerID returns the authenticated viewer id from Fiber locals, or "" when
// the request is anonymous.
func ViewerID(c *fiber.Ctx) string {
	if uid, ok := c.Locals("userID").(string); ok {
		return uid
	}
	return ""
}
