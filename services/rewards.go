// services/rewards.go - Reward tables and level curve
package services

import (
	"math"

	"arise/models"
)

// RewardConfig holds every reward policy constant. It is built once at
// startup and passed into the services; nothing mutates it afterwards.
type RewardConfig struct {
	// DifficultyXP is the base XP stamped on a task per difficulty.
	DifficultyXP map[models.TaskDifficulty]int

	// RankXP / RankGold are the one-time gate rewards per rank.
	RankXP   map[models.GateRank]int
	RankGold map[models.GateRank]int

	// LevelBase scales the level curve: the total XP required to reach
	// level n is LevelBase * (n-1)^1.5.
	LevelBase int

	// StreakBonusPerDay is added per consecutive day beyond the first,
	// capped at StreakBonusCap days so the bonus stays bounded.
	StreakBonusPerDay int
	StreakBonusCap    int

	// EarlyBonusPercent of the base XP is added when a task is finished
	// strictly before its due date.
	EarlyBonusPercent int

	// DailyRewardBase * difficulty (1..5) is the XP for completing a
	// daily quest; DailyPenaltyXP is deducted once per missed day.
	DailyRewardBase int
	DailyPenaltyXP  int

	// StartingGold is granted at registration.
	StartingGold int
}

// DefaultRewardConfig returns the stock reward schedule.
func DefaultRewardConfig() *RewardConfig {
	return &RewardConfig{
		DifficultyXP: map[models.TaskDifficulty]int{
			models.TaskDifficultyEasy:   20,
			models.TaskDifficultyMedium: 40,
			models.TaskDifficultyHard:   80,
		},
		RankXP: map[models.GateRank]int{
			models.GateRankE: 50,
			models.GateRankD: 100,
			models.GateRankC: 200,
			models.GateRankB: 400,
			models.GateRankA: 800,
			models.GateRankS: 1600,
		},
		RankGold: map[models.GateRank]int{
			models.GateRankE: 100,
			models.GateRankD: 200,
			models.GateRankC: 400,
			models.GateRankB: 800,
			models.GateRankA: 1600,
			models.GateRankS: 3200,
		},
		LevelBase:         100,
		StreakBonusPerDay: 2,
		StreakBonusCap:    10,
		EarlyBonusPercent: 25,
		DailyRewardBase:   10,
		DailyPenaltyXP:    30,
		StartingGold:      100,
	}
}

// TaskXP returns the base XP for a task difficulty.
func (c *RewardConfig) TaskXP(d models.TaskDifficulty) int {
	if xp, ok := c.DifficultyXP[d]; ok {
		return xp
	}
	return c.DifficultyXP[models.TaskDifficultyEasy]
}

// RankReward returns the one-time (XP, gold) reward for a gate rank.
func (c *RewardConfig) RankReward(r models.GateRank) (int, int) {
	return c.RankXP[r], c.RankGold[r]
}

// XPForLevel returns the cumulative XP required to reach a level.
// Level 1 starts at 0 XP; level 2 starts at LevelBase.
func (c *RewardConfig) XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(float64(c.LevelBase) * math.Pow(float64(level-1), 1.5))
}

// LevelForXP recomputes a level from cumulative XP. Recomputing from
// scratch (rather than incrementing) keeps the level correct under
// retroactive XP adjustments such as daily penalties.
func (c *RewardConfig) LevelForXP(xp int) int {
	level := 1
	for xp >= c.XPForLevel(level+1) {
		level++
	}
	return level
}

// StreakBonus is the additive XP bonus for the current streak. The first
// day contributes nothing; beyond StreakBonusCap days the bonus is flat.
func (c *RewardConfig) StreakBonus(streak int) int {
	days := streak - 1
	if days < 0 {
		days = 0
	}
	if days > c.StreakBonusCap {
		days = c.StreakBonusCap
	}
	return days * c.StreakBonusPerDay
}

// CompletionXP is the total XP for completing a task: base, plus the
// streak bonus, plus the early-completion bonus when applicable. It is
// deterministic in (base, streak, early) alone.
func (c *RewardConfig) CompletionXP(base, streak int, early bool) int {
	xp := base + c.StreakBonus(streak)
	if early {
		xp += base * c.EarlyBonusPercent / 100
	}
	return xp
}

// DailyQuestReward is the XP for completing a daily quest of the given
// difficulty (clamped to 1..5).
func (c *RewardConfig) DailyQuestReward(difficulty int) int {
	if difficulty < 1 {
		difficulty = 1
	}
	if difficulty > 5 {
		difficulty = 5
	}
	return c.DailyRewardBase * difficulty
}
