// handlers/auth.go
package handlers

import (
	"fmt"
	"time"

	"arise/database"
	"arise/middleware"
	"arise/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GuestLoginRequest struct {
	GuestName string `json:"guest_name,omitempty"`
}

type UserInfo struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	IsGuest     bool      `json:"is_guest"`
	Level       int       `json:"level"`
	XP          int       `json:"xp"`
	Gold        int       `json:"gold"`
	StreakCount int       `json:"streak_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func userInfo(user *models.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		IsGuest:     user.IsGuest,
		Level:       user.Level,
		XP:          user.XP,
		Gold:        user.Gold,
		StreakCount: user.StreakCount,
		CreatedAt:   user.CreatedAt,
	}
}

// Register creates a full account with the starting gold grant.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Username and password are required"})
	}

	db := database.GetDB()

	var existing int64
	db.Model(&models.User{}).Where("username = ?", req.Username).Count(&existing)
	if existing > 0 {
		return c.Status(409).JSON(fiber.Map{"error": "Username already taken"})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	user := models.User{
		Username: req.Username,
		Password: string(hashed),
		Level:    1,
		Gold:     rewardConfig.StartingGold,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}

	if err := db.Create(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create user"})
	}

	token, err := generateToken(&user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    userInfo(&user),
	})
}

// Login authenticates a user by username/password.
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()

	var user models.User
	if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := generateToken(&user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    userInfo(&user),
	})
}

// GuestLogin creates a throwaway guest account.
func GuestLogin(c *fiber.Ctx) error {
	var req GuestLoginRequest
	_ = c.BodyParser(&req)

	db := database.GetDB()

	guestName := req.GuestName
	if guestName == "" {
		guestName = fmt.Sprintf("Hunter_%s", uuid.New().String()[:8])
	}

	randomPassword := uuid.New().String()
	hashed, err := bcrypt.GenerateFromPassword([]byte(randomPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create guest"})
	}

	user := models.User{
		Username: guestName,
		Password: string(hashed),
		IsGuest:  true,
		Level:    1,
		Gold:     rewardConfig.StartingGold,
	}

	if err := db.Create(&user).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create guest"})
	}

	token, err := generateToken(&user)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    userInfo(&user),
	})
}

func generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_guest": user.IsGuest,
		"exp":      time.Now().Add(7 * 24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.JWTSecret())
}
