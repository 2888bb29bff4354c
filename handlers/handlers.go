// handlers/handlers.go - Handler wiring
package handlers

import (
	"errors"

	"arise/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	rewardConfig *services.RewardConfig
	progression  *services.ProgressionService
	dailySvc     *services.DailyService
	gateSvc      *services.GateService
	raidSvc      *services.RaidService
	guildSvc     *services.GuildService
	hub          *Hub
)

// Init wires the services behind the handler package. Called once from
// main after the database is up.
func Init(db *gorm.DB) {
	hub = NewHub()
	rewardConfig = services.DefaultRewardConfig()
	progression = services.NewProgressionService(db, rewardConfig, hub)
	dailySvc = services.NewDailyService(db, rewardConfig, progression, hub)
	gateSvc = services.NewGateService(db, rewardConfig, progression, hub)
	raidSvc = services.NewRaidService(db, rewardConfig, hub)
	guildSvc = services.NewGuildService(db)
}

// Daily exposes the daily service to main for the background sweep.
func Daily() *services.DailyService {
	return dailySvc
}

// errStatus maps domain errors to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrNotClaimable),
		errors.Is(err, services.ErrRaidAlreadyActive),
		errors.Is(err, services.ErrRaidNotActive):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrPreconditionFailed):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(errStatus(err)).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
