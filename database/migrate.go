// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"arise/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Badge{},
		&models.UserBadge{},
		&models.DailyQuest{},
		&models.DailyQuestLog{},
		&models.Gate{},
		&models.Guild{},
		&models.GuildMember{},
		&models.GuildRaid{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	createIndexes()
	seedBadges()

	log.Println("All migrations completed successfully")
}

// createIndexes creates indexes AutoMigrate cannot express
func createIndexes() {
	db := GetDB()

	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_daily_logs_user_day ON daily_quest_logs(user_id, day)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_gates_user_status ON gates(user_id, status)")

	// At most one active raid per guild
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_guild_active_raid ON guild_raids(guild_id) WHERE status = 'active'")
}

// seedBadges inserts the default badge catalog on first boot. Existing
// catalogs are left untouched.
func seedBadges() {
	db := GetDB()

	var count int64
	if err := db.Model(&models.Badge{}).Count(&count).Error; err != nil {
		log.Printf("Badge seed skipped: %v", err)
		return
	}
	if count > 0 {
		return
	}

	badges := []models.Badge{
		{Name: "First Blood", Description: "Complete your first task", Tier: "Beginner", Icon: "sword", Criteria: `{"type":"task_count","threshold":1}`},
		{Name: "Taskmaster", Description: "Complete 50 tasks", Tier: "Intermediate", Icon: "scroll", Criteria: `{"type":"task_count","threshold":50}`},
		{Name: "Relentless", Description: "Complete 200 tasks", Tier: "Advanced", Icon: "flame", Criteria: `{"type":"task_count","threshold":200}`},
		{Name: "Week Warrior", Description: "Keep a 7-day streak", Tier: "Beginner", Icon: "calendar", Criteria: `{"type":"streak","threshold":7}`},
		{Name: "Unbroken", Description: "Keep a 30-day streak", Tier: "Advanced", Icon: "chain", Criteria: `{"type":"streak","threshold":30}`},
		{Name: "Awakened", Description: "Reach level 10", Tier: "Intermediate", Icon: "star", Criteria: `{"type":"level","threshold":10}`},
		{Name: "Monarch", Description: "Reach level 50", Tier: "Elite", Icon: "crown", Criteria: `{"type":"level","threshold":50}`},
		{Name: "Night Owl", Description: "Complete a task after 10pm", Tier: "Beginner", Icon: "moon", Criteria: `{"type":"time_based","time":"22:00"}`},
		{Name: "Ahead of Schedule", Description: "Complete 5 tasks before their due date", Tier: "Intermediate", Icon: "clock", Criteria: `{"type":"early_completion","threshold":5}`},
	}

	if err := db.Create(&badges).Error; err != nil {
		log.Printf("Badge seed failed: %v", err)
		return
	}
	log.Printf("Seeded %d badges", len(badges))
}
