// handlers/gates.go
package handlers

import (
	"time"

	"arise/middleware"
	"arise/models"

	"github.com/gofiber/fiber/v2"
)

type CreateGateRequest struct {
	Title string `json:"title"`
	Rank  string `json:"rank"`
}

type AddGateTaskRequest struct {
	TaskID uint `json:"task_id"`
}

// CreateGate opens a new gate at the requested rank.
func CreateGate(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateGateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}

	gate, err := gateSvc.Create(userID, req.Title, models.GateRank(req.Rank))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "gate": gate})
}

// GetGates lists the caller's gates with tasks.
func GetGates(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	gates, err := gateSvc.List(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch gates"})
	}

	return c.JSON(fiber.Map{"success": true, "gates": gates})
}

// AddGateTask links an existing task into a gate.
func AddGateTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	gateID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid gate id"})
	}

	var req AddGateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	task, err := gateSvc.AddTask(uint(gateID), req.TaskID, userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

// ClaimGate grants the gate reward once all member tasks are done.
func ClaimGate(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	gateID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid gate id"})
	}

	reward, err := gateSvc.Claim(uint(gateID), userID, time.Now())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "reward": reward})
}
