// models/badge.go
package models

import (
	"encoding/json"
	"time"
)

// Badge is an immutable catalog entry. Criteria holds a JSON descriptor,
// e.g. {"type":"task_count","threshold":10} or {"type":"time_based","time":"22:00"}.
type Badge struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;uniqueIndex" json:"name"`
	Description string `gorm:"not null" json:"description"`
	Tier        string `gorm:"size:20" json:"tier"` // Beginner, Intermediate, Advanced, Elite
	Icon        string `json:"icon"`
	Criteria    string `gorm:"not null;type:text" json:"criteria"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Badge) TableName() string {
	return "badges"
}

// UserBadge records badge ownership. A (user, badge) pair is unique and
// never revoked.
type UserBadge struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	UserID   uint      `gorm:"not null;index;uniqueIndex:idx_user_badge" json:"user_id"`
	BadgeID  uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`

	User  *User `gorm:"foreignKey:UserID" json:"-"`
	Badge Badge `gorm:"foreignKey:BadgeID" json:"badge,omitempty"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

type CriteriaKind string

const (
	CriteriaTaskCount       CriteriaKind = "task_count"
	CriteriaStreak          CriteriaKind = "streak"
	CriteriaLevel           CriteriaKind = "level"
	CriteriaTimeBased       CriteriaKind = "time_based"
	CriteriaEarlyCompletion CriteriaKind = "early_completion"
	CriteriaUnknown         CriteriaKind = "unknown"
)

// BadgeCriteria is the decoded form of the Criteria descriptor. Kind is
// CriteriaUnknown for anything unparsable, which no evaluator ever
// satisfies.
type BadgeCriteria struct {
	Kind      CriteriaKind
	Threshold int
	// ClockMinutes is minutes since midnight for time_based criteria.
	ClockMinutes int
}

type criteriaDescriptor struct {
	Type      string `json:"type"`
	Threshold int    `json:"threshold"`
	Time      string `json:"time"`
}

// DecodeCriteria parses the JSON descriptor into a tagged BadgeCriteria.
// A malformed descriptor or unknown kind decodes to CriteriaUnknown rather
// than failing, so one bad catalog row cannot block evaluation.
func (b *Badge) DecodeCriteria() BadgeCriteria {
	var desc criteriaDescriptor
	if err := json.Unmarshal([]byte(b.Criteria), &desc); err != nil {
		return BadgeCriteria{Kind: CriteriaUnknown}
	}

	switch CriteriaKind(desc.Type) {
	case CriteriaTaskCount, CriteriaStreak, CriteriaLevel, CriteriaEarlyCompletion:
		if desc.Threshold <= 0 {
			return BadgeCriteria{Kind: CriteriaUnknown}
		}
		return BadgeCriteria{Kind: CriteriaKind(desc.Type), Threshold: desc.Threshold}
	case CriteriaTimeBased:
		t, err := time.Parse("15:04", desc.Time)
		if err != nil {
			return BadgeCriteria{Kind: CriteriaUnknown}
		}
		return BadgeCriteria{Kind: CriteriaTimeBased, ClockMinutes: t.Hour()*60 + t.Minute()}
	}

	return BadgeCriteria{Kind: CriteriaUnknown}
}
