// handlers/tasks.go
package handlers

import (
	"time"

	"arise/database"
	"arise/middleware"
	"arise/models"

	"github.com/gofiber/fiber/v2"
)

type TaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty"`
	DueDate     *time.Time `json:"due_date"`
}

// GetTasks lists the caller's tasks, optionally filtered by status.
func GetTasks(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", userID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}

	return c.JSON(fiber.Map{"success": true, "tasks": tasks})
}

// CreateTask creates a task and stamps its XP reward from the
// difficulty table.
func CreateTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Title is required"})
	}

	difficulty := models.TaskDifficulty(req.Difficulty)
	if req.Difficulty == "" {
		difficulty = models.TaskDifficultyEasy
	}
	if !difficulty.Valid() {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid difficulty"})
	}

	task := models.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Difficulty:  difficulty,
		XPReward:    rewardConfig.TaskXP(difficulty),
		Status:      models.TaskStatusTodo,
		DueDate:     req.DueDate,
	}

	if err := database.GetDB().Create(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create task"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "task": task})
}

// UpdateTask edits a pending task. Editing re-stamps the XP reward when
// the difficulty changes; completed tasks are immutable.
func UpdateTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task id"})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}
	if task.Status == models.TaskStatusDone {
		return c.Status(409).JSON(fiber.Map{"error": "Completed tasks cannot be edited"})
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Difficulty != "" {
		difficulty := models.TaskDifficulty(req.Difficulty)
		if !difficulty.Valid() {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid difficulty"})
		}
		task.Difficulty = difficulty
		task.XPReward = rewardConfig.TaskXP(difficulty)
	}

	if err := db.Save(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update task"})
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

// DeleteTask removes a pending task.
func DeleteTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task id"})
	}

	db := database.GetDB()
	res := db.Where("id = ? AND user_id = ?", taskID, userID).Delete(&models.Task{})
	if res.Error != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete task"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	return c.JSON(fiber.Map{"success": true})
}

// CompleteTask runs the full progression pipeline for one completion.
func CompleteTask(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	taskID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task id"})
	}

	result, err := progression.CompleteTask(userID, uint(taskID), time.Now())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "result": result})
}
