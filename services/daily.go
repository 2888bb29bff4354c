// services/daily.go - Daily quest lifecycle
package services

import (
	"errors"
	"time"

	"arise/models"

	"gorm.io/gorm"
)

// DailyService manages per-day quest logs: the lazy reset sweep, progress
// logging, and completion rewards. The reset is pull-triggered; there is
// no wall-clock scheduler requirement, though SweepService can push it.
type DailyService struct {
	db          *gorm.DB
	cfg         *RewardConfig
	progression *ProgressionService
	notifier    Notifier
}

func NewDailyService(db *gorm.DB, cfg *RewardConfig, progression *ProgressionService, notifier Notifier) *DailyService {
	return &DailyService{db: db, cfg: cfg, progression: progression, notifier: notifier}
}

// DailyStatus summarizes today's quests for a user.
type DailyStatus struct {
	Day          time.Time              `json:"day"`
	TotalQuests  int                    `json:"total_quests"`
	Completed    int                    `json:"completed"`
	AllCompleted bool                   `json:"all_completed"`
	Logs         []models.DailyQuestLog `json:"logs"`
}

// CreateQuest registers a recurring daily quest for a user.
func (s *DailyService) CreateQuest(userID uint, title, unit string, targetCount, difficulty int) (*models.DailyQuest, error) {
	if targetCount <= 0 || difficulty < 1 || difficulty > 5 {
		return nil, ErrPreconditionFailed
	}
	quest := models.DailyQuest{
		UserID:      userID,
		Title:       title,
		Unit:        unit,
		TargetCount: targetCount,
		Difficulty:  difficulty,
		IsActive:    true,
	}
	if err := s.db.Create(&quest).Error; err != nil {
		return nil, err
	}
	return &quest, nil
}

// Quests lists a user's active daily quests.
func (s *DailyService) Quests(userID uint) ([]models.DailyQuest, error) {
	var quests []models.DailyQuest
	err := s.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&quests).Error
	return quests, err
}

// CheckReset initializes today's logs for the user if that has not
// happened yet, applying the penalty for any quest missed yesterday.
// It reports whether a reset actually ran. Safe to call on every read:
// once today's logs exist it is a no-op, and the unique (quest, day)
// index makes concurrent first calls collapse to one winner.
func (s *DailyService) CheckReset(userID uint, now time.Time) (bool, error) {
	today := dateOf(now)
	reset := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var quests []models.DailyQuest
		if err := tx.Where("user_id = ? AND is_active = ?", userID, true).Find(&quests).Error; err != nil {
			return err
		}
		if len(quests) == 0 {
			return nil
		}

		var existing int64
		if err := tx.Model(&models.DailyQuestLog{}).
			Where("user_id = ? AND day = ?", userID, today).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return nil
		}

		yesterday := today.AddDate(0, 0, -1)
		var missed int64
		if err := tx.Model(&models.DailyQuestLog{}).
			Where("user_id = ? AND day = ? AND is_completed = ?", userID, yesterday, false).
			Count(&missed).Error; err != nil {
			return err
		}
		if missed > 0 {
			// XP floors at zero inside AddXP.
			if _, _, err := s.progression.AddXP(tx, userID, -s.cfg.DailyPenaltyXP); err != nil {
				return err
			}
		}

		for _, quest := range quests {
			entry := models.DailyQuestLog{
				QuestID: quest.ID,
				UserID:  userID,
				Day:     today,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		reset = true
		return nil
	})
	return reset, err
}

// LogProgress sets today's absolute count for a quest, creating a
// fallback log if the sweep has not run yet. Crossing the target latches
// completion and grants the difficulty-scaled reward exactly once.
func (s *DailyService) LogProgress(userID, questID uint, count int, now time.Time) (*models.DailyQuestLog, error) {
	if count < 0 {
		return nil, ErrPreconditionFailed
	}
	today := dateOf(now)

	var entry models.DailyQuestLog
	var completedNow bool

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var quest models.DailyQuest
		if err := tx.Where("id = ? AND user_id = ? AND is_active = ?", questID, userID, true).
			First(&quest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		err := tx.Where("quest_id = ? AND day = ?", quest.ID, today).First(&entry).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			entry = models.DailyQuestLog{
				QuestID: quest.ID,
				UserID:  userID,
				Day:     today,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		// Absolute set, not an increment; a lower count moves it down.
		entry.CurrentCount = count

		if !entry.IsCompleted && count >= quest.TargetCount {
			entry.IsCompleted = true
			entry.CompletedAt = &now
			completedNow = true

			reward := s.cfg.DailyQuestReward(quest.Difficulty)
			if _, _, err := s.progression.AddXP(tx, userID, reward); err != nil {
				return err
			}
		}

		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	if completedNow {
		s.notifier.Publish(userID, Event{Type: EventDailyCompleted, Payload: entry})
	}
	return &entry, nil
}

// Status reports today's totals. An uninitialized day yields zeroes.
func (s *DailyService) Status(userID uint, now time.Time) (*DailyStatus, error) {
	today := dateOf(now)

	var logs []models.DailyQuestLog
	if err := s.db.Where("user_id = ? AND day = ?", userID, today).
		Preload("Quest").Find(&logs).Error; err != nil {
		return nil, err
	}

	status := &DailyStatus{Day: today, TotalQuests: len(logs), Logs: logs}
	for _, entry := range logs {
		if entry.IsCompleted {
			status.Completed++
		}
	}
	status.AllCompleted = status.TotalQuests > 0 && status.Completed == status.TotalQuests
	return status, nil
}
