// handlers/badges.go
package handlers

import (
	"arise/database"
	"arise/middleware"
	"arise/models"

	"github.com/gofiber/fiber/v2"
)

// GetBadges returns the catalog with the caller's held badges marked.
func GetBadges(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var held []models.UserBadge
	if err := db.Where("user_id = ?", userID).Order("earned_at DESC").Find(&held).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch badges"})
	}

	var catalog []models.Badge
	if err := db.Find(&catalog).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch badge catalog"})
	}

	heldMap := make(map[uint]models.UserBadge, len(held))
	for _, ub := range held {
		heldMap[ub.BadgeID] = ub
	}

	badges := make([]fiber.Map, 0, len(catalog))
	for _, badge := range catalog {
		entry := fiber.Map{
			"id":          badge.ID,
			"name":        badge.Name,
			"description": badge.Description,
			"tier":        badge.Tier,
			"icon":        badge.Icon,
			"earned":      false,
		}
		if ub, ok := heldMap[badge.ID]; ok {
			entry["earned"] = true
			entry["earned_at"] = ub.EarnedAt
		}
		badges = append(badges, entry)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"badges":  badges,
		"total":   len(catalog),
		"earned":  len(held),
	})
}
