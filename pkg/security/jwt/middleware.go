package jwt

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing Authorization header")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Verifier validates HS256 bearer tokens issued by Generator.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret, expectedIssuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: expectedIssuer}
}

// Parse validates a raw token string and returns its claims.
func (v *Verifier) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromRequest extracts and validates the token of the Authorization header.
func (v *Verifier) FromRequest(c *fiber.Ctx) (*Claims, error) {
	tokenStr := BearerToken(c.Get(fiber.HeaderAuthorization))
	if tokenStr == "" {
		return nil, ErrMissingToken
	}
	return v.Parse(tokenStr)
}

// BearerToken supports both "Bearer <token>" and "<token>" (no prefix).
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}

// MiddlewareConfig customises NewAuthMiddleware. Zero fields take defaults.
type MiddlewareConfig struct {
	// Next skips the token check when it returns true.
	Next func(c *fiber.Ctx) bool
	// SuccessHandler runs once the claims are stored. Defaults to c.Next.
	SuccessHandler func(c *fiber.Ctx, claims *Claims) error
	// ErrorHandler replies to a missing or invalid token. Defaults to a
	// 401 JSON body carrying the error text.
	ErrorHandler func(c *fiber.Ctx, err error) error
}

// NewAuthMiddleware returns a Fiber middleware that requires a valid token.
// On success it stores the user id (subject) and email in c.Locals.
func NewAuthMiddleware(v *Verifier, config ...MiddlewareConfig) fiber.Handler {
	var cfg MiddlewareConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx, _ *Claims) error { return c.Next() }
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": err.Error()})
		}
	}
	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}
		claims, err := v.FromRequest(c)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}
		c.Locals("userId", claims.Subject)
		c.Locals("userEmail", claims.Email)
		return cfg.SuccessHandler(c, claims)
	}
}
