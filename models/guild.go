// models/guild.go
package models

import "time"

type Guild struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"not null;size:100"`
	Description string        `json:"description" gorm:"type:text"`
	GuildCode   string        `json:"guild_code" gorm:"unique;size:10"`
	OwnerID     uint          `json:"owner_id" gorm:"not null"`
	Owner       *User         `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Members     []GuildMember `json:"members,omitempty" gorm:"foreignKey:GuildID"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (Guild) TableName() string {
	return "guilds"
}

type GuildRole string

const (
	GuildRoleOwner  GuildRole = "owner"
	GuildRoleMember GuildRole = "member"
)

type GuildMember struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	GuildID  uint      `json:"guild_id" gorm:"not null;index;uniqueIndex:idx_guild_member"`
	Guild    *Guild    `json:"guild,omitempty" gorm:"foreignKey:GuildID"`
	UserID   uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_guild_member"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Role     GuildRole `json:"role" gorm:"not null;default:'member'"`
	JoinedAt time.Time `json:"joined_at" gorm:"not null"`
}

func (GuildMember) TableName() string {
	return "guild_members"
}
