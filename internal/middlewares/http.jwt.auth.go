package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	sharedjwt "github.com/joshuarp/idgen-api/internal/shared/jwt"
)

const (
	ClientIDKey  = "client_id"
	JWTClaimsKey = "jwt_claims"
)

func NewHTTPJWTMiddleware(tokenManager sharedjwt.TokenManager) fiber.Handler {
	return func(c fiber.Ctx) error {
		if isPublicRoute(c) {
			return c.Next()
		}

		authorizationHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		parts := strings.SplitN(authorizationHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid authorization header",
			})
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing bearer token",
			})
		}

		claims, err := tokenManager.Verify(c.Context(), tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		c.Locals(ClientIDKey, claims.Subject)
		c.Locals(JWTClaimsKey, claims)
		return c.Next()
	}
}

// NewHTTPScopeMiddleware rejects callers whose token lacks scope. It must run
// after the JWT middleware.
func NewHTTPScopeMiddleware(scope string) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, _ := c.Locals(JWTClaimsKey).(*sharedjwt.Claims)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authenticated client",
			})
		}
		if !claims.HasScope(scope) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient scope",
				"scope": scope,
			})
		}
		return c.Next()
	}
}

func ClientIDFromContext(c fiber.Ctx) string {
	clientID, _ := c.Locals(ClientIDKey).(string)
	return clientID
}

func isPublicRoute(c fiber.Ctx) bool {
	path := c.Path()
	return path == "/healthz" || (c.Method() == fiber.MethodPost && strings.HasSuffix(path, "/auth/token"))
}
