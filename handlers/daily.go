// handlers/daily.go
package handlers

import (
	"time"

	"arise/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateQuestRequest struct {
	Title       string `json:"title"`
	Unit        string `json:"unit"`
	TargetCount int    `json:"target_count"`
	Difficulty  int    `json:"difficulty"`
}

type LogProgressRequest struct {
	Count int `json:"count"`
}

// CreateDailyQuest registers a recurring daily quest.
func CreateDailyQuest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateQuestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}

	quest, err := dailySvc.CreateQuest(userID, req.Title, req.Unit, req.TargetCount, req.Difficulty)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "quest": quest})
}

// GetDailyQuests lists active quests, lazily initializing today first.
func GetDailyQuests(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	if _, err := dailySvc.CheckReset(userID, time.Now()); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to run daily reset"})
	}

	quests, err := dailySvc.Quests(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch quests"})
	}

	return c.JSON(fiber.Map{"success": true, "quests": quests})
}

// CheckDailyReset explicitly triggers the lazy reset sweep.
func CheckDailyReset(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	reset, err := dailySvc.CheckReset(userID, time.Now())
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to run daily reset"})
	}

	return c.JSON(fiber.Map{"success": true, "reset_occurred": reset})
}

// LogDailyProgress records today's absolute count for a quest.
func LogDailyProgress(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	questID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid quest id"})
	}

	var req LogProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	entry, err := dailySvc.LogProgress(userID, uint(questID), req.Count, time.Now())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "log": entry})
}

// GetDailyStatus reports today's totals, initializing the day if needed.
func GetDailyStatus(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	now := time.Now()
	if _, err := dailySvc.CheckReset(userID, now); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to run daily reset"})
	}

	status, err := dailySvc.Status(userID, now)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch status"})
	}

	return c.JSON(fiber.Map{"success": true, "status": status})
}
