// services/raids.go - Guild raid lifecycle
package services

import (
	"errors"
	"time"

	"arise/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RaidService manages guild-scoped shared bosses. Damage accumulates
// from many members' task completions; clearance is automatic at 0 HP.
type RaidService struct {
	db       *gorm.DB
	cfg      *RewardConfig
	notifier Notifier
}

func NewRaidService(db *gorm.DB, cfg *RewardConfig, notifier Notifier) *RaidService {
	return &RaidService{db: db, cfg: cfg, notifier: notifier}
}

// DamageResult reports the raid state after a damage application.
type DamageResult struct {
	RaidID      uint `json:"raid_id"`
	RemainingHP int  `json:"remaining_hp"`
	Cleared     bool `json:"cleared"`
}

// Start opens a raid for a guild. Fails while another raid is active.
// The caller must be a member of the guild.
func (s *RaidService) Start(guildID, userID uint, title, bossName string, totalHP int) (*models.GuildRaid, error) {
	if totalHP <= 0 {
		return nil, ErrPreconditionFailed
	}

	var raid models.GuildRaid
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := requireGuildMember(tx, guildID, userID); err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&models.GuildRaid{}).
			Where("guild_id = ? AND status = ?", guildID, models.RaidStatusActive).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrRaidAlreadyActive
		}

		raid = models.GuildRaid{
			GuildID:   guildID,
			Title:     title,
			BossName:  bossName,
			BattleKey: uuid.New().String(),
			TotalHP:   totalHP,
			CurrentHP: totalHP,
			Status:    models.RaidStatusActive,
		}
		// The partial unique index on (guild_id) WHERE status='active'
		// backstops concurrent starts.
		return tx.Create(&raid).Error
	})
	if err != nil {
		return nil, err
	}
	return &raid, nil
}

// AssignTask creates a raid-linked task for a guild member. The task's
// XP (and therefore its damage) comes from the difficulty table.
func (s *RaidService) AssignTask(raidID, actorID, targetID uint, title string, difficulty models.TaskDifficulty, dueDate *time.Time) (*models.Task, error) {
	if !difficulty.Valid() {
		return nil, ErrPreconditionFailed
	}

	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var raid models.GuildRaid
		if err := tx.First(&raid, raidID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if raid.Status != models.RaidStatusActive {
			return ErrRaidNotActive
		}

		if err := requireGuildMember(tx, raid.GuildID, actorID); err != nil {
			return err
		}
		if err := requireGuildMember(tx, raid.GuildID, targetID); err != nil {
			return ErrPreconditionFailed
		}

		task = models.Task{
			UserID:     targetID,
			Title:      title,
			Difficulty: difficulty,
			XPReward:   s.cfg.TaskXP(difficulty),
			Status:     models.TaskStatusTodo,
			DueDate:    dueDate,
			RaidID:     &raid.ID,
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Damage applies a standalone damage amount to a raid. Task completions
// route through the progression service, which calls raidDamage inside
// its own transaction instead.
func (s *RaidService) Damage(raidID uint, amount int, now time.Time) (*DamageResult, error) {
	var result *DamageResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = raidDamage(tx, raidID, amount, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ActiveRaid returns the guild's currently active raid, if any.
func (s *RaidService) ActiveRaid(guildID uint) (*models.GuildRaid, error) {
	var raid models.GuildRaid
	err := s.db.Where("guild_id = ? AND status = ?", guildID, models.RaidStatusActive).
		Preload("Tasks").First(&raid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &raid, nil
}

// raidDamage decrements a raid's HP, clamped at zero, and flips the raid
// to cleared exactly once when HP hits zero. The decrement and the
// cleared transition are both guarded single-statement updates, so
// concurrent completions crossing zero serialize on the row and only one
// of them observes the transition.
func raidDamage(tx *gorm.DB, raidID uint, amount int, now time.Time) (*DamageResult, error) {
	if amount < 0 {
		return nil, ErrPreconditionFailed
	}

	res := tx.Model(&models.GuildRaid{}).
		Where("id = ? AND status = ?", raidID, models.RaidStatusActive).
		UpdateColumn("current_hp", gorm.Expr(
			"CASE WHEN current_hp > ? THEN current_hp - ? ELSE 0 END", amount, amount))
	if res.Error != nil {
		return nil, res.Error
	}

	var raid models.GuildRaid
	if err := tx.First(&raid, raidID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Damage against an already-cleared raid is a no-op.
	if res.RowsAffected == 0 {
		return &DamageResult{RaidID: raid.ID, RemainingHP: raid.CurrentHP}, nil
	}

	result := &DamageResult{RaidID: raid.ID, RemainingHP: raid.CurrentHP}
	if raid.CurrentHP == 0 {
		clear := tx.Model(&models.GuildRaid{}).
			Where("id = ? AND status = ?", raidID, models.RaidStatusActive).
			Updates(map[string]interface{}{
				"status":     models.RaidStatusCleared,
				"cleared_at": now,
			})
		if clear.Error != nil {
			return nil, clear.Error
		}
		result.Cleared = clear.RowsAffected == 1
	}
	return result, nil
}

// requireGuildMember fails with ErrNotFound when the user is not an
// active member of the guild.
func requireGuildMember(tx *gorm.DB, guildID, userID uint) error {
	var n int64
	if err := tx.Model(&models.GuildMember{}).
		Where("guild_id = ? AND user_id = ?", guildID, userID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
