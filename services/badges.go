// services/badges.go - Badge rule evaluation
package services

import (
	"log"
	"time"

	"arise/models"

	"gorm.io/gorm"
)

// BadgeService evaluates the badge catalog against a user's state. It
// always runs inside the caller's transaction so that badge grants
// commit (or roll back) together with the completion that earned them.
type BadgeService struct{}

func NewBadgeService() *BadgeService {
	return &BadgeService{}
}

// Evaluate checks every catalog badge the user does not yet hold and
// awards the ones whose criteria are now satisfied. Badges with
// malformed or unknown criteria are skipped.
func (s *BadgeService) Evaluate(tx *gorm.DB, user *models.User, now time.Time) ([]models.Badge, error) {
	var catalog []models.Badge
	if err := tx.Find(&catalog).Error; err != nil {
		return nil, err
	}

	var heldIDs []uint
	if err := tx.Model(&models.UserBadge{}).Where("user_id = ?", user.ID).
		Pluck("badge_id", &heldIDs).Error; err != nil {
		return nil, err
	}
	held := make(map[uint]bool, len(heldIDs))
	for _, id := range heldIDs {
		held[id] = true
	}

	earned := []models.Badge{}
	for _, badge := range catalog {
		if held[badge.ID] {
			continue
		}

		criteria := badge.DecodeCriteria()
		if criteria.Kind == models.CriteriaUnknown {
			log.Printf("Skipping badge %q: unparsable criteria %q", badge.Name, badge.Criteria)
			continue
		}

		satisfied, err := s.satisfied(tx, user, criteria)
		if err != nil {
			return nil, err
		}
		if !satisfied {
			continue
		}

		grant := models.UserBadge{
			UserID:   user.ID,
			BadgeID:  badge.ID,
			EarnedAt: now,
		}
		if err := tx.Create(&grant).Error; err != nil {
			return nil, err
		}
		earned = append(earned, badge)
	}

	return earned, nil
}

func (s *BadgeService) satisfied(tx *gorm.DB, user *models.User, c models.BadgeCriteria) (bool, error) {
	switch c.Kind {
	case models.CriteriaTaskCount:
		var n int64
		err := tx.Model(&models.Task{}).
			Where("user_id = ? AND status = ?", user.ID, models.TaskStatusDone).
			Count(&n).Error
		return n >= int64(c.Threshold), err

	case models.CriteriaStreak:
		return user.StreakCount >= c.Threshold, nil

	case models.CriteriaLevel:
		return user.Level >= c.Threshold, nil

	case models.CriteriaTimeBased:
		// Wall-clock time-of-day comparison, not a full timestamp.
		var stamps []time.Time
		err := tx.Model(&models.Task{}).
			Where("user_id = ? AND status = ? AND completed_at IS NOT NULL", user.ID, models.TaskStatusDone).
			Pluck("completed_at", &stamps).Error
		if err != nil {
			return false, err
		}
		for _, ts := range stamps {
			if ts.Hour()*60+ts.Minute() >= c.ClockMinutes {
				return true, nil
			}
		}
		return false, nil

	case models.CriteriaEarlyCompletion:
		var n int64
		err := tx.Model(&models.Task{}).
			Where("user_id = ? AND status = ? AND due_date IS NOT NULL AND completed_at < due_date",
				user.ID, models.TaskStatusDone).
			Count(&n).Error
		return n >= int64(c.Threshold), err
	}

	return false, nil
}
