// services/progression.go - Task completion orchestration
package services

import (
	"errors"
	"time"

	"arise/models"

	"gorm.io/gorm"
)

// ProgressionResult is the outcome of a single task completion.
type ProgressionResult struct {
	TaskID          uint           `json:"task_id"`
	XPGained        int            `json:"xp_gained"`
	TotalXP         int            `json:"total_xp"`
	NewLevel        int            `json:"new_level"`
	LeveledUp       bool           `json:"leveled_up"`
	StreakCount     int            `json:"streak_count"`
	StreakIncreased bool           `json:"streak_increased"`
	EarlyCompletion bool           `json:"early_completion"`
	NewBadges       []models.Badge `json:"new_badges"`
	RaidDamage      int            `json:"raid_damage,omitempty"`
	RaidCleared     bool           `json:"raid_cleared,omitempty"`
}

// ProgressionService turns a completion event into durable state: streak,
// XP, level, task status, badge grants, and raid damage, all inside one
// transaction.
type ProgressionService struct {
	db       *gorm.DB
	cfg      *RewardConfig
	badges   *BadgeService
	notifier Notifier
}

func NewProgressionService(db *gorm.DB, cfg *RewardConfig, notifier Notifier) *ProgressionService {
	return &ProgressionService{
		db:       db,
		cfg:      cfg,
		badges:   NewBadgeService(),
		notifier: notifier,
	}
}

// CompleteTask marks a task done and applies every progression effect.
// Completing an already-done task is an error, not a no-op.
func (s *ProgressionService) CompleteTask(userID, taskID uint, now time.Time) (*ProgressionResult, error) {
	var result ProgressionResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if task.Status == models.TaskStatusDone {
			return ErrAlreadyCompleted
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		streak := ApplyStreak(&user, now)
		early := task.DueDate != nil && now.Before(*task.DueDate)
		xpGained := s.cfg.CompletionXP(task.XPReward, user.StreakCount, early)

		oldLevel := user.Level
		user.XP += xpGained
		user.Level = s.cfg.LevelForXP(user.XP)

		task.Status = models.TaskStatusDone
		task.CompletedAt = &now

		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		newBadges, err := s.badges.Evaluate(tx, &user, now)
		if err != nil {
			return err
		}

		result = ProgressionResult{
			TaskID:          task.ID,
			XPGained:        xpGained,
			TotalXP:         user.XP,
			NewLevel:        user.Level,
			LeveledUp:       user.Level > oldLevel,
			StreakCount:     user.StreakCount,
			StreakIncreased: streak.Increased,
			EarlyCompletion: early,
			NewBadges:       newBadges,
		}

		// Gates are checked lazily at claim time; raids take damage now.
		if task.RaidID != nil {
			damage, err := raidDamage(tx, *task.RaidID, task.XPReward, now)
			if err != nil {
				return err
			}
			result.RaidDamage = task.XPReward
			result.RaidCleared = damage.Cleared
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(userID, &result)
	return &result, nil
}

// AddXP applies an XP delta (positive or negative) to a user inside the
// given transaction, flooring cumulative XP at zero and recomputing the
// level from scratch. Shared by the daily-quest and gate reward paths.
func (s *ProgressionService) AddXP(tx *gorm.DB, userID uint, amount int) (*models.User, bool, error) {
	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	oldLevel := user.Level
	user.XP += amount
	if user.XP < 0 {
		user.XP = 0
	}
	user.Level = s.cfg.LevelForXP(user.XP)

	if err := tx.Save(&user).Error; err != nil {
		return nil, false, err
	}
	return &user, user.Level > oldLevel, nil
}

// Config exposes the reward schedule to collaborators (task creation
// stamps XP from it).
func (s *ProgressionService) Config() *RewardConfig {
	return s.cfg
}

func (s *ProgressionService) publish(userID uint, r *ProgressionResult) {
	s.notifier.Publish(userID, Event{Type: EventXPGained, Payload: r})
	if r.LeveledUp {
		s.notifier.Publish(userID, Event{Type: EventLevelUp, Payload: map[string]interface{}{
			"level": r.NewLevel,
		}})
	}
	for _, badge := range r.NewBadges {
		s.notifier.Publish(userID, Event{Type: EventBadgeEarned, Payload: badge})
	}
	if r.RaidDamage > 0 {
		kind := EventRaidDamage
		if r.RaidCleared {
			kind = EventRaidCleared
		}
		s.notifier.Publish(userID, Event{Type: kind, Payload: map[string]interface{}{
			"damage":  r.RaidDamage,
			"cleared": r.RaidCleared,
		}})
	}
}
