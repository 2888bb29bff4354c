// handlers/stats.go
package handlers

import (
	"arise/database"
	"arise/middleware"
	"arise/models"

	"github.com/gofiber/fiber/v2"
)

// GetStats summarizes the caller's progression.
func GetStats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var completedTasks int64
	db.Model(&models.Task{}).
		Where("user_id = ? AND status = ?", userID, models.TaskStatusDone).
		Count(&completedTasks)

	var clearedGates int64
	db.Model(&models.Gate{}).
		Where("user_id = ? AND status = ?", userID, models.GateStatusCleared).
		Count(&clearedGates)

	var badgeCount int64
	db.Model(&models.UserBadge{}).Where("user_id = ?", userID).Count(&badgeCount)

	currentFloor := rewardConfig.XPForLevel(user.Level)
	nextFloor := rewardConfig.XPForLevel(user.Level + 1)
	progress := 0.0
	if nextFloor > currentFloor {
		progress = float64(user.XP-currentFloor) / float64(nextFloor-currentFloor) * 100
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"level":            user.Level,
		"xp":               user.XP,
		"xp_to_next_level": nextFloor,
		"progress_percent": progress,
		"gold":             user.Gold,
		"streak_count":     user.StreakCount,
		"last_active_date": user.LastActiveDate,
		"completed_tasks":  completedTasks,
		"cleared_gates":    clearedGates,
		"badges":           badgeCount,
	})
}
