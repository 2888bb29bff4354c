package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"arise/models"
)

func TestStartRaid(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "sung")
	outsider := env.user(t, "jinho")
	guild := env.guildWith(t, owner.ID)

	raid, err := env.raids.Start(guild.ID, owner.ID, "Demon Castle", "Baran", 500)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if raid.CurrentHP != 500 || raid.Status != models.RaidStatusActive {
		t.Errorf("raid = hp %d status %s, want 500 / active", raid.CurrentHP, raid.Status)
	}
	if raid.BattleKey == "" {
		t.Error("raid started without a battle key")
	}

	// A second active raid per guild is rejected.
	if _, err := env.raids.Start(guild.ID, owner.ID, "Again", "Baran", 100); !errors.Is(err, ErrRaidAlreadyActive) {
		t.Fatalf("second start err = %v, want ErrRaidAlreadyActive", err)
	}

	// Non-members cannot start raids, zero HP is invalid.
	if _, err := env.raids.Start(guild.ID, outsider.ID, "Sneak", "Baran", 100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("outsider start err = %v, want ErrNotFound", err)
	}
	if _, err := env.raids.Start(guild.ID, owner.ID, "Empty", "Baran", 0); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("zero HP err = %v, want ErrPreconditionFailed", err)
	}
}

func TestDamageClampsAndClearsOnce(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "sung")
	guild := env.guildWith(t, owner.ID)
	raid, _ := env.raids.Start(guild.ID, owner.ID, "Demon Castle", "Baran", 100)
	now := time.Now()

	res, err := env.raids.Damage(raid.ID, 30, now)
	if err != nil {
		t.Fatalf("Damage: %v", err)
	}
	if res.RemainingHP != 70 || res.Cleared {
		t.Errorf("after 30: hp %d cleared %v, want 70 / false", res.RemainingHP, res.Cleared)
	}

	res, err = env.raids.Damage(raid.ID, 50, now)
	if err != nil {
		t.Fatalf("Damage: %v", err)
	}
	if res.RemainingHP != 20 || res.Cleared {
		t.Errorf("after 50: hp %d cleared %v, want 20 / false", res.RemainingHP, res.Cleared)
	}

	// Overkill clamps at zero and clears.
	res, err = env.raids.Damage(raid.ID, 999, now)
	if err != nil {
		t.Fatalf("Damage: %v", err)
	}
	if res.RemainingHP != 0 || !res.Cleared {
		t.Errorf("overkill: hp %d cleared %v, want 0 / true", res.RemainingHP, res.Cleared)
	}

	// Damage after clearance is a no-op and never reports cleared again.
	res, err = env.raids.Damage(raid.ID, 10, now)
	if err != nil {
		t.Fatalf("Damage: %v", err)
	}
	if res.RemainingHP != 0 || res.Cleared {
		t.Errorf("post-clear: hp %d cleared %v, want 0 / false", res.RemainingHP, res.Cleared)
	}

	var final models.GuildRaid
	env.db.First(&final, raid.ID)
	if final.Status != models.RaidStatusCleared || final.ClearedAt == nil {
		t.Errorf("raid = status %s clearedAt %v, want cleared with a timestamp", final.Status, final.ClearedAt)
	}
}

func TestDamageExactKill(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "sung")
	guild := env.guildWith(t, owner.ID)
	raid, _ := env.raids.Start(guild.ID, owner.ID, "Demon Castle", "Baran", 60)

	res, err := env.raids.Damage(raid.ID, 60, time.Now())
	if err != nil {
		t.Fatalf("Damage: %v", err)
	}
	if res.RemainingHP != 0 || !res.Cleared {
		t.Errorf("exact kill: hp %d cleared %v, want 0 / true", res.RemainingHP, res.Cleared)
	}
}

func TestConcurrentDamageClearsExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "sung")
	guild := env.guildWith(t, owner.ID)
	raid, _ := env.raids.Start(guild.ID, owner.ID, "Demon Castle", "Baran", 50)
	now := time.Now()

	const workers = 10
	results := make([]*DamageResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.raids.Damage(raid.ID, 10, now)
		}(i)
	}
	wg.Wait()

	clearedCount := 0
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if results[i].Cleared {
			clearedCount++
		}
	}
	if clearedCount != 1 {
		t.Fatalf("cleared reported %d times across %d workers, want exactly 1", clearedCount, workers)
	}

	var final models.GuildRaid
	env.db.First(&final, raid.ID)
	if final.CurrentHP != 0 || final.Status != models.RaidStatusCleared {
		t.Errorf("final raid = hp %d status %s, want 0 / cleared", final.CurrentHP, final.Status)
	}
}

func TestAssignRaidTask(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "sung")
	member := env.user(t, "jinho")
	outsider := env.user(t, "cha")
	guild := env.guildWith(t, owner.ID, member.ID)
	raid, _ := env.raids.Start(guild.ID, owner.ID, "Demon Castle", "Baran", 200)

	task, err := env.raids.AssignTask(raid.ID, owner.ID, member.ID, "scout the entrance", models.TaskDifficultyMedium, nil)
	if err != nil {
		t.Fatalf("AssignTask: %v", err)
	}
	if task.RaidID == nil || *task.RaidID != raid.ID {
		t.Errorf("task not linked to raid: %v", task.RaidID)
	}
	if task.XPReward != 40 {
		t.Errorf("XPReward = %d, want 40 for medium", task.XPReward)
	}

	// Assigning to a non-member fails.
	if _, err := env.raids.AssignTask(raid.ID, owner.ID, outsider.ID, "x", models.TaskDifficultyEasy, nil); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("non-member target err = %v, want ErrPreconditionFailed", err)
	}

	// Assignments stop once the raid clears.
	env.raids.Damage(raid.ID, 200, time.Now())
	if _, err := env.raids.AssignTask(raid.ID, owner.ID, member.ID, "x", models.TaskDifficultyEasy, nil); !errors.Is(err, ErrRaidNotActive) {
		t.Fatalf("cleared raid err = %v, want ErrRaidNotActive", err)
	}
}

func TestCompleteRaidTaskAppliesDamage(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "sung")
	guild := env.guildWith(t, owner.ID)
	raid, _ := env.raids.Start(guild.ID, owner.ID, "Demon Castle", "Baran", 100)

	task, err := env.raids.AssignTask(raid.ID, owner.ID, owner.ID, "slay a sentry", models.TaskDifficultyHard, nil)
	if err != nil {
		t.Fatalf("AssignTask: %v", err)
	}

	res, err := env.progression.CompleteTask(owner.ID, task.ID, time.Now())
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.RaidDamage != 80 {
		t.Errorf("RaidDamage = %d, want the task's base 80 (bonuses do not hit the boss)", res.RaidDamage)
	}
	if res.RaidCleared {
		t.Error("raid reported cleared at 20 HP")
	}

	var reloaded models.GuildRaid
	env.db.First(&reloaded, raid.ID)
	if reloaded.CurrentHP != 20 {
		t.Errorf("raid hp = %d, want 20", reloaded.CurrentHP)
	}

	// The finishing blow clears through the completion path too.
	finisher, _ := env.raids.AssignTask(raid.ID, owner.ID, owner.ID, "finish the boss", models.TaskDifficultyHard, nil)
	res, err = env.progression.CompleteTask(owner.ID, finisher.ID, time.Now())
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if !res.RaidCleared {
		t.Error("finishing completion did not report the raid cleared")
	}
}

func TestActiveRaid(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "sung")
	guild := env.guildWith(t, owner.ID)

	if _, err := env.raids.ActiveRaid(guild.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no raid err = %v, want ErrNotFound", err)
	}

	started, _ := env.raids.Start(guild.ID, owner.ID, "Demon Castle", "Baran", 100)
	active, err := env.raids.ActiveRaid(guild.ID)
	if err != nil {
		t.Fatalf("ActiveRaid: %v", err)
	}
	if active.ID != started.ID {
		t.Errorf("active raid id = %d, want %d", active.ID, started.ID)
	}
}
