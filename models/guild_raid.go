// models/guild_raid.go
package models

import "time"

type RaidStatus string

const (
	RaidStatusActive  RaidStatus = "active"
	RaidStatusCleared RaidStatus = "cleared"
)

// GuildRaid is a shared boss. CurrentHP only ever decreases, clamped at
// zero; the raid clears automatically the moment it reaches zero. A guild
// has at most one active raid (partial unique index, see migrations).
type GuildRaid struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	GuildID   uint       `gorm:"not null;index" json:"guild_id"`
	Guild     *Guild     `gorm:"foreignKey:GuildID" json:"-"`
	Title     string     `gorm:"not null;size:200" json:"title"`
	BossName  string     `gorm:"not null;size:100" json:"boss_name"`
	BattleKey string     `gorm:"size:36;uniqueIndex" json:"battle_key"`
	TotalHP   int        `gorm:"not null" json:"total_hp"`
	CurrentHP int        `gorm:"not null" json:"current_hp"`
	Status    RaidStatus `gorm:"not null;default:'active';size:20;index" json:"status"`
	ClearedAt *time.Time `json:"cleared_at,omitempty"`

	Tasks []Task `gorm:"foreignKey:RaidID" json:"tasks,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (GuildRaid) TableName() string {
	return "guild_raids"
}
