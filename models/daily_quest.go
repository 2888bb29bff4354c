// models/daily_quest.go
package models

import "time"

// DailyQuest is a recurring per-day target ("30 pushups", "20 pages").
// Difficulty runs 1..5 and scales the completion reward.
type DailyQuest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"-"`
	Title       string    `gorm:"not null;size:200" json:"title"`
	TargetCount int       `gorm:"not null" json:"target_count"`
	Unit        string    `gorm:"size:50" json:"unit"`
	Difficulty  int       `gorm:"not null;default:1" json:"difficulty"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (DailyQuest) TableName() string {
	return "daily_quests"
}

// DailyQuestLog is one day's progress against a quest. The unique
// (quest_id, day) index is the backstop that keeps the reset sweep from
// initializing the same day twice.
type DailyQuestLog struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	QuestID      uint        `gorm:"not null;index;uniqueIndex:idx_quest_day" json:"quest_id"`
	Quest        *DailyQuest `gorm:"foreignKey:QuestID" json:"quest,omitempty"`
	UserID       uint        `gorm:"not null;index" json:"user_id"`
	Day          time.Time   `gorm:"not null;uniqueIndex:idx_quest_day" json:"day"`
	CurrentCount int         `gorm:"default:0" json:"current_count"`
	IsCompleted  bool        `gorm:"default:false" json:"is_completed"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (DailyQuestLog) TableName() string {
	return "daily_quest_logs"
}
