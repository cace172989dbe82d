package engine

import (
	"context"
	"strings"
	"testing"
	"time"
)

func countKind(events []Event, kind EventKind) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestFirstBloodOnFirstCompletion(t *testing.T) {
	ctx := context.Background()
	e, _, _, fb, _ := newTestEngine(nil, testNoon)
	id, err := e.CreateQuest(ctx, QuestSpec{Name: "Stretch", Difficulty: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.CompleteQuest(ctx, id); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, ok := e.State().Achievements["first_blood"]; !ok {
		t.Fatalf("first_blood not unlocked: %v", e.State().Achievements)
	}
	found := false
	for _, n := range fb.notes {
		if strings.HasPrefix(n, "🏅 Achievement Unlocked: First Blood") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no unlock notice: %v", fb.notes)
	}
}

func TestAchievementsUnlockOnce(t *testing.T) {
	st := NewState()
	st.Gold = 500
	tn := newTurn(st, testNoon)
	tn.evaluateAchievements()
	tn.evaluateAchievements()
	if got := st.Achievements["rich"]; !got.Equal(testNoon) {
		t.Fatalf("rich unlocked at %v", got)
	}
	if n := countKind(tn.Events, EventAchievement); n != 1 {
		t.Fatalf("expected one unlock event, got %d", n)
	}
	if defs := st.UnlockedAchievements(); len(defs) != 1 || defs[0].Name != "Capitalist" {
		t.Fatalf("unlocked: %+v", defs)
	}
}

func TestEngineQuickCreate(t *testing.T) {
	ctx := context.Background()
	e, _, recs, _, _ := newTestEngine(nil, testNoon)
	id, err := e.QuickCreate(ctx, "call dentist /2")
	if err != nil {
		t.Fatalf("quick create: %v", err)
	}
	if id != "call_dentist" {
		t.Fatalf("id %q", id)
	}
	meta := recs.quests[id].meta
	if meta.Difficulty != "Easy" || meta.Deadline != testNoon.Add(24*time.Hour).Format(time.RFC3339) {
		t.Fatalf("meta: %+v", meta)
	}
}

func TestEngineAttemptRecovery(t *testing.T) {
	ctx := context.Background()
	st := NewState()
	st.Lockdown.Set(testNoon.Add(90 * time.Minute))
	e, _, _, fb, clock := newTestEngine(st, testNoon)
	if err := e.AttemptRecovery(ctx); err != nil {
		t.Fatalf("recovery: %v", err)
	}
	want := "⛔ Locked down. 1h30m0s remaining. Meditate to shorten it."
	if fb.notes[len(fb.notes)-1] != want {
		t.Fatalf("notice: %v", fb.notes)
	}
	clock.T = testNoon.Add(2 * time.Hour)
	if err := e.AttemptRecovery(ctx); err != nil {
		t.Fatalf("recovery: %v", err)
	}
	if fb.notes[len(fb.notes)-1] != "Not in lockdown." {
		t.Fatalf("notice: %v", fb.notes)
	}
}
