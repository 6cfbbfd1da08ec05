package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/kayleschmoyer/DVIC/domain"
	"github.com/kayleschmoyer/DVIC/internal/api/presenters"
	"github.com/kayleschmoyer/DVIC/pkg/jwt"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	})
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return presenters.ErrorResponse(
				c, fiber.StatusUnauthorized,
				domain.MessageFailedGetToken, domain.ErrTokenNotFound,
			)
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return presenters.ErrorResponse(
				c, fiber.StatusUnauthorized,
				domain.MessageFailedTokenInvalid, domain.ErrTokenInvalid,
			)
		}

		token, err := jwtService.ValidateTokenMechanic(tokenString)
		if err != nil || !token.Valid {
			return presenters.ErrorResponse(
				c, fiber.StatusUnauthorized,
				domain.MessageFailedTokenInvalid, domain.ErrTokenInvalid,
			)
		}

		mechanicID, role, err := jwtService.GetMechanicByToken(tokenString)
		if err != nil {
			return presenters.ErrorResponse(
				c, fiber.StatusUnauthorized,
				domain.MessageFailedTokenInvalid, err,
			)
		}

		c.Locals("mechanic_id", mechanicID)
		c.Locals("role", role)
		return c.Next()
	}
}
