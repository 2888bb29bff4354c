package services

import (
	"testing"
	"time"

	"arise/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database limited to a single
// connection so concurrent service calls serialize the way row locks
// would on Postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

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
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

type testEnv struct {
	db          *gorm.DB
	cfg         *RewardConfig
	progression *ProgressionService
	daily       *DailyService
	gates       *GateService
	raids       *RaidService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	cfg := DefaultRewardConfig()
	notifier := NoopNotifier{}
	progression := NewProgressionService(db, cfg, notifier)

	return &testEnv{
		db:          db,
		cfg:         cfg,
		progression: progression,
		daily:       NewDailyService(db, cfg, progression, notifier),
		gates:       NewGateService(db, cfg, progression, notifier),
		raids:       NewRaidService(db, cfg, notifier),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x", Level: 1, Gold: 100}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) task(t *testing.T, userID uint, difficulty models.TaskDifficulty, due *time.Time) *models.Task {
	t.Helper()
	task := &models.Task{
		UserID:     userID,
		Title:      "test task",
		Difficulty: difficulty,
		XPReward:   e.cfg.TaskXP(difficulty),
		Status:     models.TaskStatusTodo,
		DueDate:    due,
	}
	if err := e.db.Create(task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return task
}

func (e *testEnv) guildWith(t *testing.T, memberIDs ...uint) *models.Guild {
	t.Helper()
	guild := &models.Guild{Name: "Hunters", GuildCode: "abc123", OwnerID: memberIDs[0]}
	if err := e.db.Create(guild).Error; err != nil {
		t.Fatalf("failed to create guild: %v", err)
	}
	for i, id := range memberIDs {
		role := models.GuildRoleMember
		if i == 0 {
			role = models.GuildRoleOwner
		}
		member := &models.GuildMember{GuildID: guild.ID, UserID: id, Role: role, JoinedAt: time.Now()}
		if err := e.db.Create(member).Error; err != nil {
			t.Fatalf("failed to add guild member: %v", err)
		}
	}
	return guild
}

func (e *testEnv) reloadUser(t *testing.T, id uint) *models.User {
	t.Helper()
	var user models.User
	if err := e.db.First(&user, id).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	return &user
}

func day(year int, month time.Month, d, hour, min int) time.Time {
	return time.Date(year, month, d, hour, min, 0, 0, time.UTC)
}
