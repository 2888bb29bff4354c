// services/guilds.go - Guild membership
package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"arise/models"

	"gorm.io/gorm"
)

// GuildService manages guilds and membership. Raids hang off guilds; the
// progression core only needs membership checks, which live here and in
// requireGuildMember.
type GuildService struct {
	db *gorm.DB
}

func NewGuildService(db *gorm.DB) *GuildService {
	return &GuildService{db: db}
}

// Create makes a guild with the creator as owner.
func (s *GuildService) Create(name, description string, ownerID uint) (*models.Guild, error) {
	if name == "" {
		return nil, ErrPreconditionFailed
	}

	guild := &models.Guild{
		Name:        name,
		Description: description,
		GuildCode:   s.generateUniqueGuildCode(),
		OwnerID:     ownerID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(guild).Error; err != nil {
			return err
		}
		member := &models.GuildMember{
			GuildID:  guild.ID,
			UserID:   ownerID,
			Role:     models.GuildRoleOwner,
			JoinedAt: time.Now(),
		}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}
	return guild, nil
}

// Join adds a user to the guild behind a join code.
func (s *GuildService) Join(userID uint, guildCode string) (*models.Guild, error) {
	var guild models.Guild
	if err := s.db.Where("guild_code = ?", guildCode).First(&guild).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var existing int64
	s.db.Model(&models.GuildMember{}).
		Where("guild_id = ? AND user_id = ?", guild.ID, userID).
		Count(&existing)
	if existing > 0 {
		return nil, ErrPreconditionFailed
	}

	member := &models.GuildMember{
		GuildID:  guild.ID,
		UserID:   userID,
		Role:     models.GuildRoleMember,
		JoinedAt: time.Now(),
	}
	if err := s.db.Create(member).Error; err != nil {
		return nil, err
	}
	return &guild, nil
}

// Mine lists the guilds a user belongs to.
func (s *GuildService) Mine(userID uint) ([]models.Guild, error) {
	var guilds []models.Guild
	err := s.db.
		Joins("JOIN guild_members ON guild_members.guild_id = guilds.id").
		Where("guild_members.user_id = ?", userID).
		Preload("Members").
		Find(&guilds).Error
	return guilds, err
}

// Get returns a guild the user is a member of.
func (s *GuildService) Get(guildID, userID uint) (*models.Guild, error) {
	if err := requireGuildMember(s.db, guildID, userID); err != nil {
		return nil, err
	}
	var guild models.Guild
	if err := s.db.Preload("Members").Preload("Members.User").
		First(&guild, guildID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &guild, nil
}

// generateUniqueGuildCode generates a unique 6-character code
func (s *GuildService) generateUniqueGuildCode() string {
	for {
		bytes := make([]byte, 3)
		rand.Read(bytes)
		code := hex.EncodeToString(bytes)[:6]

		var count int64
		s.db.Model(&models.Guild{}).Where("guild_code = ?", code).Count(&count)

		if count == 0 {
			return code
		}
	}
}
