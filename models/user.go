// models/user.go
package models

import (
	"time"
)

type User struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Password string  `gorm:"not null" json:"-"`
	IsGuest  bool    `gorm:"default:false" json:"is_guest"`

	// Progression
	Level          int        `gorm:"default:1" json:"level"`
	XP             int        `gorm:"default:0" json:"xp"`
	Gold           int        `gorm:"default:0" json:"gold"`
	StreakCount    int        `gorm:"default:0" json:"streak_count"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Badges []UserBadge `gorm:"foreignKey:UserID" json:"badges,omitempty"`
	Tasks  []Task      `gorm:"foreignKey:UserID" json:"tasks,omitempty"`
}

func (User) TableName() string {
	return "users"
}
