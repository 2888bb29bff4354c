package services

import (
	"errors"
	"testing"
	"time"

	"arise/models"
)

func TestCompleteTaskLevelUpAtBoundary(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")
	env.db.Model(user).Update("xp", 95)

	task := env.task(t, user.ID, models.TaskDifficultyEasy, nil)
	now := day(2026, time.April, 1, 10, 0)

	res, err := env.progression.CompleteTask(user.ID, task.ID, now)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	if res.XPGained != 20 {
		t.Errorf("XPGained = %d, want 20 (no streak bonus on a fresh streak)", res.XPGained)
	}
	if res.TotalXP != 115 {
		t.Errorf("TotalXP = %d, want 115", res.TotalXP)
	}
	if res.NewLevel != 2 || !res.LeveledUp {
		t.Errorf("level = %d (leveledUp=%v), want 2 (true)", res.NewLevel, res.LeveledUp)
	}
	if res.StreakCount != 1 || !res.StreakIncreased {
		t.Errorf("streak = %d (increased=%v), want 1 (true)", res.StreakCount, res.StreakIncreased)
	}

	reloaded := env.reloadUser(t, user.ID)
	if reloaded.XP != 115 || reloaded.Level != 2 {
		t.Errorf("persisted user = xp %d level %d, want 115 / 2", reloaded.XP, reloaded.Level)
	}

	var saved models.Task
	env.db.First(&saved, task.ID)
	if saved.Status != models.TaskStatusDone || saved.CompletedAt == nil {
		t.Errorf("task not marked done: status=%s completedAt=%v", saved.Status, saved.CompletedAt)
	}
}

func TestCompleteTaskTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")
	task := env.task(t, user.ID, models.TaskDifficultyMedium, nil)
	now := time.Now()

	if _, err := env.progression.CompleteTask(user.ID, task.ID, now); err != nil {
		t.Fatalf("first completion: %v", err)
	}

	_, err := env.progression.CompleteTask(user.ID, task.ID, now)
	if !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second completion err = %v, want ErrAlreadyCompleted", err)
	}

	// The failed attempt must not have granted anything.
	reloaded := env.reloadUser(t, user.ID)
	if reloaded.XP != 40 {
		t.Errorf("xp = %d after duplicate completion, want 40", reloaded.XP)
	}
}

func TestCompleteTaskWrongOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "sung")
	intruder := env.user(t, "jinho")
	task := env.task(t, owner.ID, models.TaskDifficultyEasy, nil)

	_, err := env.progression.CompleteTask(intruder.ID, task.ID, time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCompleteTaskEarlyBonus(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")

	due := day(2026, time.April, 2, 18, 0)
	task := env.task(t, user.ID, models.TaskDifficultyHard, &due)

	res, err := env.progression.CompleteTask(user.ID, task.ID, day(2026, time.April, 1, 9, 0))
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.EarlyCompletion {
		t.Fatal("completion before due date not flagged early")
	}
	// 80 base + 25% early bonus, no streak bonus on day one.
	if res.XPGained != 100 {
		t.Errorf("XPGained = %d, want 100", res.XPGained)
	}
}

func TestCompleteTaskAfterDueDateNoBonus(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")

	due := day(2026, time.April, 1, 9, 0)
	task := env.task(t, user.ID, models.TaskDifficultyHard, &due)

	res, err := env.progression.CompleteTask(user.ID, task.ID, day(2026, time.April, 1, 9, 0))
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	// Completion exactly at the due instant is not early.
	if res.EarlyCompletion || res.XPGained != 80 {
		t.Errorf("got early=%v xp=%d, want late completion worth 80", res.EarlyCompletion, res.XPGained)
	}
}

func TestCompleteTaskSameDayKeepsStreak(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")
	first := env.task(t, user.ID, models.TaskDifficultyEasy, nil)
	second := env.task(t, user.ID, models.TaskDifficultyEasy, nil)

	morning := day(2026, time.April, 1, 8, 0)
	evening := day(2026, time.April, 1, 20, 0)

	if _, err := env.progression.CompleteTask(user.ID, first.ID, morning); err != nil {
		t.Fatalf("first completion: %v", err)
	}
	res, err := env.progression.CompleteTask(user.ID, second.ID, evening)
	if err != nil {
		t.Fatalf("second completion: %v", err)
	}
	if res.StreakCount != 1 || res.StreakIncreased {
		t.Errorf("second same-day completion: streak %d (increased=%v), want 1 (false)",
			res.StreakCount, res.StreakIncreased)
	}
}

func TestCompleteTaskStreakBonusNextDay(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")
	first := env.task(t, user.ID, models.TaskDifficultyEasy, nil)
	second := env.task(t, user.ID, models.TaskDifficultyEasy, nil)

	if _, err := env.progression.CompleteTask(user.ID, first.ID, day(2026, time.April, 1, 8, 0)); err != nil {
		t.Fatalf("day one: %v", err)
	}
	res, err := env.progression.CompleteTask(user.ID, second.ID, day(2026, time.April, 2, 8, 0))
	if err != nil {
		t.Fatalf("day two: %v", err)
	}
	if res.StreakCount != 2 {
		t.Fatalf("streak = %d, want 2", res.StreakCount)
	}
	// 20 base + one bonus day.
	if res.XPGained != 22 {
		t.Errorf("XPGained = %d, want 22", res.XPGained)
	}
}

func TestCompleteTaskAwardsEarlyBadgeInSameCall(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")
	env.badge(t, "Ahead of Schedule", `{"type":"early_completion","threshold":5}`)

	now := day(2026, time.April, 1, 10, 0)
	due := day(2026, time.April, 30, 0, 0)

	// Four prior early completions on record.
	for i := 0; i < 4; i++ {
		task := env.task(t, user.ID, models.TaskDifficultyEasy, &due)
		env.db.Model(task).Updates(map[string]interface{}{
			"status":       models.TaskStatusDone,
			"completed_at": now.Add(time.Duration(i) * time.Minute),
		})
	}

	fifth := env.task(t, user.ID, models.TaskDifficultyEasy, &due)
	res, err := env.progression.CompleteTask(user.ID, fifth.ID, now)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if len(res.NewBadges) != 1 || res.NewBadges[0].Name != "Ahead of Schedule" {
		t.Fatalf("NewBadges = %v, want the fifth early completion to earn the badge",
			badgeNames(res.NewBadges))
	}
}

func TestAddXPFloorsAtZero(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")
	env.db.Model(user).Updates(map[string]interface{}{"xp": 150, "level": 2})

	updated, leveledUp, err := env.progression.AddXP(env.db, user.ID, -500)
	if err != nil {
		t.Fatalf("AddXP: %v", err)
	}
	if updated.XP != 0 || updated.Level != 1 {
		t.Errorf("after penalty: xp %d level %d, want 0 / 1", updated.XP, updated.Level)
	}
	if leveledUp {
		t.Error("losing XP reported as a level up")
	}
}
