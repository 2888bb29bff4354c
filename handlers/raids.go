// handlers/raids.go
package handlers

import (
	"time"

	"arise/middleware"
	"arise/models"

	"github.com/gofiber/fiber/v2"
)

type StartRaidRequest struct {
	Title    string `json:"title"`
	BossName string `json:"boss_name"`
	TotalHP  int    `json:"total_hp"`
}

type AssignRaidTaskRequest struct {
	TargetUserID uint       `json:"target_user_id"`
	Title        string     `json:"title"`
	Difficulty   string     `json:"difficulty"`
	DueDate      *time.Time `json:"due_date"`
}

// StartRaid opens a raid for the guild. Fails while one is active.
func StartRaid(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	guildID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid guild id"})
	}

	var req StartRaidRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" || req.BossName == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title and boss name are required"})
	}

	raid, err := raidSvc.Start(uint(guildID), userID, req.Title, req.BossName, req.TotalHP)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "raid": raid})
}

// ActiveRaid returns the guild's running raid.
func ActiveRaid(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	guildID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid guild id"})
	}

	if err := guildMemberCheck(uint(guildID), userID); err != nil {
		return fail(c, err)
	}

	raid, err := raidSvc.ActiveRaid(uint(guildID))
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "raid": raid})
}

// AssignRaidTask creates a raid-linked task for a guild member.
func AssignRaidTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	raidID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid raid id"})
	}

	var req AssignRaidTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}

	task, err := raidSvc.AssignTask(uint(raidID), userID, req.TargetUserID,
		req.Title, models.TaskDifficulty(req.Difficulty), req.DueDate)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "task": task})
}

func guildMemberCheck(guildID, userID uint) error {
	_, err := guildSvc.Get(guildID, userID)
	return err
}
