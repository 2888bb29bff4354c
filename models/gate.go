// models/gate.go
package models

import "time"

type GateRank string

const (
	GateRankE GateRank = "E"
	GateRankD GateRank = "D"
	GateRankC GateRank = "C"
	GateRankB GateRank = "B"
	GateRankA GateRank = "A"
	GateRankS GateRank = "S"
)

func (r GateRank) Valid() bool {
	switch r {
	case GateRankE, GateRankD, GateRankC, GateRankB, GateRankA, GateRankS:
		return true
	}
	return false
}

type GateStatus string

const (
	GateStatusActive  GateStatus = "active"
	GateStatusCleared GateStatus = "cleared"
	GateStatusFailed  GateStatus = "failed"
)

// Gate is a user-scoped dungeon: a set of tasks with a one-time reward.
// XPReward/GoldReward are stamped from the rank table at creation and do
// not change if the table changes later.
type Gate struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;index" json:"user_id"`
	User       *User      `gorm:"foreignKey:UserID" json:"-"`
	Title      string     `gorm:"not null;size:200" json:"title"`
	Rank       GateRank   `gorm:"not null;size:2" json:"rank"`
	Status     GateStatus `gorm:"not null;default:'active';size:20;index" json:"status"`
	XPReward   int        `gorm:"not null" json:"xp_reward"`
	GoldReward int        `gorm:"not null" json:"gold_reward"`
	ClearedAt  *time.Time `json:"cleared_at,omitempty"`

	Tasks []Task `gorm:"foreignKey:GateID" json:"tasks,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Gate) TableName() string {
	return "gates"
}
