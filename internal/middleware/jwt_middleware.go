package middleware

import (
	"errors"
	"log"
	"strings"

	"userapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SubjectKey is the fiber Locals key holding the authenticated token subject.
const SubjectKey = "subject"

var (
	errMissingHeader = errors.New("authorization header is required")
	errHeaderFormat  = errors.New("authorization header format must be 'Bearer <token>'")
)

// AuthRequired rejects requests without a valid bearer token issued by tokenService.
func AuthRequired(tokenService *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": err.Error(),
			})
		}

		claims, err := tokenService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("Rejected token on %s %s: %v", c.Method(), c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(SubjectKey, claims.Subject)
		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" {
		return "", errHeaderFormat
	}
	return token, nil
}
