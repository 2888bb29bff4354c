// services/sweep.go - Background daily reset sweep
package services

import (
	"log"
	"time"

	"arise/models"

	"gorm.io/gorm"
)

// SweepService periodically runs the daily reset for every user with
// active quests. The reset itself stays idempotent, so this worker and
// the lazy request-time checks can coexist; the sweep just makes sure
// penalties land even for users who never open the app.
type SweepService struct {
	db       *gorm.DB
	daily    *DailyService
	interval time.Duration
	stop     chan struct{}
}

func NewSweepService(db *gorm.DB, daily *DailyService, interval time.Duration) *SweepService {
	return &SweepService{
		db:       db,
		daily:    daily,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *SweepService) Start() {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep loop.
func (s *SweepService) Stop() {
	close(s.stop)
}

func (s *SweepService) sweep() {
	var userIDs []uint
	if err := s.db.Model(&models.DailyQuest{}).
		Where("is_active = ?", true).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error; err != nil {
		log.Printf("Daily sweep query failed: %v", err)
		return
	}

	now := time.Now()
	swept := 0
	for _, userID := range userIDs {
		reset, err := s.daily.CheckReset(userID, now)
		if err != nil {
			log.Printf("Daily sweep failed for user %d: %v", userID, err)
			continue
		}
		if reset {
			swept++
		}
	}
	if swept > 0 {
		log.Printf("Daily sweep reset %d users", swept)
	}
}
