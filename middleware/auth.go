// middleware/auth.go
package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JWTSecret returns the signing secret for tokens.
func JWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "arise-secret-change-in-production"
	}
	return []byte(secret)
}

func AuthMiddleware(c *fiber.Ctx) error {
	var tokenString string

	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization header format"})
		}
		tokenString = parts[1]
	}

	// Fall back to cookie (websocket clients cannot set headers)
	if tokenString == "" {
		tokenString = c.Cookies("token")
	}
	if tokenString == "" {
		return c.Status(401).JSON(fiber.Map{"error": "Missing authorization header"})
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return JWTSecret(), nil
	})

	if err != nil || !token.Valid {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return c.Status(401).JSON(fiber.Map{"error": "Token expired"})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("username", claims["username"])
	c.Locals("isGuest", claims["is_guest"])

	return c.Next()
}

func GetUserID(c *fiber.Ctx) (uint, error) {
	userID := c.Locals("userId")
	if userID == nil {
		return 0, fiber.NewError(401, "User not authenticated")
	}

	if id, ok := userID.(float64); ok {
		return uint(id), nil
	}

	if id, ok := userID.(uint); ok {
		return id, nil
	}

	return 0, fiber.NewError(401, "Invalid user ID format")
}

func GetUsername(c *fiber.Ctx) (string, error) {
	username := c.Locals("username")
	if username == nil {
		return "", fiber.NewError(401, "User not authenticated")
	}

	if name, ok := username.(string); ok {
		return name, nil
	}

	return "", fiber.NewError(401, "Invalid username format")
}

func IsGuest(c *fiber.Ctx) bool {
	isGuest := c.Locals("isGuest")
	if isGuest == nil {
		return false
	}

	if guest, ok := isGuest.(bool); ok {
		return guest
	}

	return false
}
