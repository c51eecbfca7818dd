package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/presenter"
	"github.com/cvfolio/cvfolio/pkg/security/jwt"
)

// RequireAPIAuth accepts either a signed-in session or a bearer token.
// Token callers get a SessionUser built from the claims.
func RequireAPIAuth(verifier *jwt.Verifier) fiber.Handler {
	return jwt.NewAuthMiddleware(verifier, jwt.MiddlewareConfig{
		Next: func(c *fiber.Ctx) bool {
			_, ok := User(c)
			return ok
		},
		SuccessHandler: func(c *fiber.Ctx, claims *jwt.Claims) error {
			id, _ := strconv.Atoi(claims.Subject)
			c.Locals(LocalUser, SessionUser{ID: id, Email: claims.Email, Name: claims.Email})
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, _ error) error {
			return presenter.Error(c, fiber.StatusUnauthorized, "Authentification requise")
		},
	})
}
