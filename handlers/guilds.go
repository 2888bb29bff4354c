// handlers/guilds.go
package handlers

import (
	"arise/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateGuildRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type JoinGuildRequest struct {
	GuildCode string `json:"guild_code"`
}

// CreateGuild makes a guild with the caller as owner.
func CreateGuild(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req CreateGuildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	guild, err := guildSvc.Create(req.Name, req.Description, userID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "guild": guild})
}

// JoinGuild joins the guild behind a code.
func JoinGuild(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req JoinGuildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	guild, err := guildSvc.Join(userID, req.GuildCode)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "guild": guild})
}

// MyGuilds lists the caller's guilds.
func MyGuilds(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	guilds, err := guildSvc.Mine(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch guilds"})
	}

	return c.JSON(fiber.Map{"success": true, "guilds": guilds})
}

// GetGuild returns one guild with members.
func GetGuild(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	guildID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid guild id"})
	}

	guild, err := guildSvc.Get(uint(guildID), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "guild": guild})
}
