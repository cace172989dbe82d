package engine

import (
	"testing"
	"time"
)

func TestRollChaosSabotageTaxesGold(t *testing.T) {
	st := NewState()
	st.Gold = 100
	tr := NewTurn(st, testNoon, fixedDice{f: 0.5, n: 4})
	tr.RollChaos()
	if st.DailyModifier.Name != "Rival Sabotage" || st.Gold != 90 {
		t.Fatalf("modifier=%q gold=%d", st.DailyModifier.Name, st.Gold)
	}
	st.Gold = 10
	NewTurn(st, testNoon, fixedDice{f: 0.5, n: 4}).RollChaos()
	if st.Gold != 10 {
		t.Fatalf("gold at the floor must not be taxed: %d", st.Gold)
	}
}

func TestRollChaosNeutralBelowThreshold(t *testing.T) {
	st := NewState()
	st.DailyModifier = ChaosTable[3]
	NewTurn(st, testNoon, fixedDice{f: 0.39, n: 2}).RollChaos()
	if st.DailyModifier.Name != "Clear Skies" {
		t.Fatalf("modifier: %q", st.DailyModifier.Name)
	}
	NewTurn(st, testNoon, fixedDice{f: 0.4, n: 0}).RollChaos()
	if st.DailyModifier.Name != "Flow State" {
		t.Fatalf("lowest non-neutral roll: %q", st.DailyModifier.Name)
	}
}

func TestRollsAreDeterministicPerSeed(t *testing.T) {
	pick := func() []string {
		st := NewState()
		seed, _ := NewRunSeed("same-seed")
		out := []string{}
		for i := 0; i < 5; i++ {
			NewTurn(st, testNoon, seed).RollChaos()
			out = append(out, st.DailyModifier.Name)
		}
		return out
	}
	a, b := pick(), pick()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("roll %d differs: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestMeditationShortensLockdown(t *testing.T) {
	st := NewState()
	now := testNoon
	start := now.Add(LockdownDuration)
	st.Lockdown.Set(start)
	if err := newTurn(st, now).Meditate(); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	if err := newTurn(st, now.Add(10*time.Second)).Meditate(); !IsRefusal(err, RuleCooldown) {
		t.Fatalf("expected cooldown refusal, got %v", err)
	}
	for i := 1; i < MeditationTarget; i++ {
		now = now.Add(31 * time.Second)
		if err := newTurn(st, now).Meditate(); err != nil {
			t.Fatalf("cycle %d: %v", i+1, err)
		}
	}
	if !st.Lockdown.Until.Equal(start.Add(-MeditationRelief)) {
		t.Fatalf("lockdown until %v, want %v", st.Lockdown.Until, start.Add(-MeditationRelief))
	}
	if st.MeditationClicksThisLockdown != 0 || st.MeditationCyclesCompleted != 1 {
		t.Fatalf("clicks=%d cycles=%d", st.MeditationClicksThisLockdown, st.MeditationCyclesCompleted)
	}
	ms := st.MeditationStatus(now)
	if !ms.Locked || ms.CyclesRemaining != MeditationTarget {
		t.Fatalf("status: %+v", ms)
	}
}

func TestMeditationOutsideLockdown(t *testing.T) {
	st := NewState()
	if err := newTurn(st, testNoon).Meditate(); !IsRefusal(err, RuleNotLockedDown) {
		t.Fatalf("expected refusal, got %v", err)
	}
	if st.MeditationClicksThisLockdown != 0 {
		t.Fatal("refusal mutated state")
	}
}
