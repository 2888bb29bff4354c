// models/task.go
package models

import "time"

type TaskDifficulty string

const (
	TaskDifficultyEasy   TaskDifficulty = "easy"
	TaskDifficultyMedium TaskDifficulty = "medium"
	TaskDifficultyHard   TaskDifficulty = "hard"
)

func (d TaskDifficulty) Valid() bool {
	switch d {
	case TaskDifficultyEasy, TaskDifficultyMedium, TaskDifficultyHard:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusTodo TaskStatus = "todo"
	TaskStatusDone TaskStatus = "done"
)

// Task is a single real-world todo item. XPReward is stamped from the
// difficulty table when the task is created or edited; completion awards
// it exactly once, at the todo -> done transition.
type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	User        *User          `gorm:"foreignKey:UserID" json:"-"`
	Title       string         `gorm:"not null;size:200" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Difficulty  TaskDifficulty `gorm:"not null;default:'easy';size:20" json:"difficulty"`
	XPReward    int            `gorm:"not null;default:0" json:"xp_reward"`
	Status      TaskStatus     `gorm:"not null;default:'todo';size:20;index" json:"status"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`

	// Optional links into a gate or a guild raid
	GateID *uint `gorm:"index" json:"gate_id,omitempty"`
	RaidID *uint `gorm:"index" json:"raid_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Task) TableName() string {
	return "tasks"
}
