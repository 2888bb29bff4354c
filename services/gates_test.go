package services

import (
	"errors"
	"testing"
	"time"

	"arise/models"
)

func TestCreateGateStampsRewards(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")

	gate, err := env.gates.Create(user.ID, "Red Gate", models.GateRankB)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if gate.XPReward != 400 || gate.GoldReward != 800 {
		t.Errorf("rewards = (%d, %d), want (400, 800) for rank B", gate.XPReward, gate.GoldReward)
	}
	if gate.Status != models.GateStatusActive {
		t.Errorf("status = %s, want active", gate.Status)
	}

	if _, err := env.gates.Create(user.ID, "Bad", models.GateRank("Z")); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("invalid rank err = %v, want ErrPreconditionFailed", err)
	}
}

func TestClaimGatePaysOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")
	gate, _ := env.gates.Create(user.ID, "Red Gate", models.GateRankE)

	t1 := env.task(t, user.ID, models.TaskDifficultyEasy, nil)
	t2 := env.task(t, user.ID, models.TaskDifficultyEasy, nil)
	env.gates.AddTask(gate.ID, t1.ID, user.ID)
	env.gates.AddTask(gate.ID, t2.ID, user.ID)

	now := day(2026, time.June, 1, 12, 0)

	// Claiming with an unfinished member task fails and changes nothing.
	env.progression.CompleteTask(user.ID, t1.ID, now)
	goldBefore := env.reloadUser(t, user.ID).Gold
	if _, err := env.gates.Claim(gate.ID, user.ID, now); !errors.Is(err, ErrNotClaimable) {
		t.Fatalf("partial claim err = %v, want ErrNotClaimable", err)
	}
	if got := env.reloadUser(t, user.ID).Gold; got != goldBefore {
		t.Errorf("failed claim changed gold: %d -> %d", goldBefore, got)
	}

	env.progression.CompleteTask(user.ID, t2.ID, now)
	xpBefore := env.reloadUser(t, user.ID).XP

	reward, err := env.gates.Claim(gate.ID, user.ID, now)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if reward.XP != 50 || reward.Gold != 100 {
		t.Errorf("reward = (%d, %d), want (50, 100) for rank E", reward.XP, reward.Gold)
	}

	reloaded := env.reloadUser(t, user.ID)
	if reloaded.XP != xpBefore+50 {
		t.Errorf("xp = %d, want %d", reloaded.XP, xpBefore+50)
	}
	if reloaded.Gold != goldBefore+100 {
		t.Errorf("gold = %d, want %d", reloaded.Gold, goldBefore+100)
	}

	var cleared models.Gate
	env.db.First(&cleared, gate.ID)
	if cleared.Status != models.GateStatusCleared || cleared.ClearedAt == nil {
		t.Errorf("gate not cleared: status=%s clearedAt=%v", cleared.Status, cleared.ClearedAt)
	}

	// Second claim pays nothing.
	if _, err := env.gates.Claim(gate.ID, user.ID, now); !errors.Is(err, ErrNotClaimable) {
		t.Fatalf("second claim err = %v, want ErrNotClaimable", err)
	}
	if got := env.reloadUser(t, user.ID).XP; got != xpBefore+50 {
		t.Errorf("xp = %d after duplicate claim, want %d", got, xpBefore+50)
	}
}

func TestClaimEmptyGate(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")
	gate, _ := env.gates.Create(user.ID, "Hollow Gate", models.GateRankE)

	if _, err := env.gates.Claim(gate.ID, user.ID, time.Now()); !errors.Is(err, ErrNotClaimable) {
		t.Fatalf("empty gate claim err = %v, want ErrNotClaimable", err)
	}
}

func TestClaimGateWrongOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "sung")
	intruder := env.user(t, "jinho")
	gate, _ := env.gates.Create(owner.ID, "Red Gate", models.GateRankE)

	if _, err := env.gates.Claim(gate.ID, intruder.ID, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddTaskToGate(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "sung")
	other := env.user(t, "jinho")
	gate, _ := env.gates.Create(user.ID, "Red Gate", models.GateRankE)

	task := env.task(t, user.ID, models.TaskDifficultyEasy, nil)
	linked, err := env.gates.AddTask(gate.ID, task.ID, user.ID)
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if linked.GateID == nil || *linked.GateID != gate.ID {
		t.Errorf("task not linked to gate: %v", linked.GateID)
	}

	// Someone else's task cannot be linked.
	foreign := env.task(t, other.ID, models.TaskDifficultyEasy, nil)
	if _, err := env.gates.AddTask(gate.ID, foreign.ID, user.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign task err = %v, want ErrNotFound", err)
	}

	// A cleared gate no longer accepts tasks.
	env.db.Model(&models.Gate{}).Where("id = ?", gate.ID).
		Update("status", models.GateStatusCleared)
	late := env.task(t, user.ID, models.TaskDifficultyEasy, nil)
	if _, err := env.gates.AddTask(gate.ID, late.ID, user.ID); !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("cleared gate err = %v, want ErrPreconditionFailed", err)
	}
}
