// services/gates.go - Gate (solo dungeon) lifecycle
package services

import (
	"errors"
	"time"

	"arise/models"

	"gorm.io/gorm"
)

// GateService manages user-scoped dungeons: task-set membership,
// completion detection, and the one-time reward claim.
type GateService struct {
	db          *gorm.DB
	cfg         *RewardConfig
	progression *ProgressionService
	notifier    Notifier
}

func NewGateService(db *gorm.DB, cfg *RewardConfig, progression *ProgressionService, notifier Notifier) *GateService {
	return &GateService{db: db, cfg: cfg, progression: progression, notifier: notifier}
}

// GateReward is the outcome of a successful claim.
type GateReward struct {
	GateID    uint `json:"gate_id"`
	XP        int  `json:"xp"`
	Gold      int  `json:"gold"`
	NewLevel  int  `json:"new_level"`
	LeveledUp bool `json:"leveled_up"`
}

// Create opens a gate for a user. The rewards are stamped from the rank
// table now; later table changes do not touch existing gates.
func (s *GateService) Create(userID uint, title string, rank models.GateRank) (*models.Gate, error) {
	if !rank.Valid() {
		return nil, ErrPreconditionFailed
	}

	xp, gold := s.cfg.RankReward(rank)
	gate := models.Gate{
		UserID:     userID,
		Title:      title,
		Rank:       rank,
		Status:     models.GateStatusActive,
		XPReward:   xp,
		GoldReward: gold,
	}
	if err := s.db.Create(&gate).Error; err != nil {
		return nil, err
	}
	return &gate, nil
}

// List returns the user's gates with their tasks.
func (s *GateService) List(userID uint) ([]models.Gate, error) {
	var gates []models.Gate
	err := s.db.Where("user_id = ?", userID).
		Preload("Tasks").
		Order("created_at DESC").
		Find(&gates).Error
	return gates, err
}

// AddTask links one of the user's tasks into one of the user's gates.
// There is no upper bound on the task-set size.
func (s *GateService) AddTask(gateID, taskID, userID uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var gate models.Gate
		if err := tx.Where("id = ? AND user_id = ?", gateID, userID).First(&gate).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if gate.Status != models.GateStatusActive {
			return ErrPreconditionFailed
		}

		if err := tx.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		task.GateID = &gate.ID
		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Claim grants the gate reward once every member task is done. The
// active -> cleared transition is a conditional update, so a concurrent
// duplicate claim loses and returns ErrNotClaimable with no side effect.
func (s *GateService) Claim(gateID, userID uint, now time.Time) (*GateReward, error) {
	var reward GateReward

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var gate models.Gate
		if err := tx.Where("id = ? AND user_id = ?", gateID, userID).First(&gate).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if gate.Status != models.GateStatusActive {
			return ErrNotClaimable
		}

		var total, done int64
		if err := tx.Model(&models.Task{}).Where("gate_id = ?", gate.ID).Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			return ErrNotClaimable
		}
		if err := tx.Model(&models.Task{}).
			Where("gate_id = ? AND status = ?", gate.ID, models.TaskStatusDone).
			Count(&done).Error; err != nil {
			return err
		}
		if done < total {
			return ErrNotClaimable
		}

		res := tx.Model(&models.Gate{}).
			Where("id = ? AND status = ?", gate.ID, models.GateStatusActive).
			Updates(map[string]interface{}{
				"status":     models.GateStatusCleared,
				"cleared_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotClaimable
		}

		user, leveledUp, err := s.progression.AddXP(tx, userID, gate.XPReward)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("gold", gorm.Expr("gold + ?", gate.GoldReward)).Error; err != nil {
			return err
		}

		reward = GateReward{
			GateID:    gate.ID,
			XP:        gate.XPReward,
			Gold:      gate.GoldReward,
			NewLevel:  user.Level,
			LeveledUp: leveledUp,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(userID, Event{Type: EventGateCleared, Payload: reward})
	return &reward, nil
}
