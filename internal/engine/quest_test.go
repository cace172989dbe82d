package engine

import (
	"testing"
	"time"
)

func TestQuestRewardsTable(t *testing.T) {
	cases := []struct {
		xpReq, diff int
		xp, gold    int
		label       string
	}{
		{100, 1, 5, 10, "Trivial"},
		{100, 2, 10, 20, "Easy"},
		{100, 3, 20, 40, "Medium"},
		{100, 4, 40, 80, "Hard"},
		{100, 5, 60, 150, "SUICIDE"},
		{137, 1, 6, 10, "Trivial"},
		{137, 3, 27, 40, "Medium"},
		{137, 5, 82, 150, "SUICIDE"},
	}
	for _, c := range cases {
		xp, gold, label := QuestRewards(c.xpReq, c.diff, false, false)
		if xp != c.xp || gold != c.gold || label != c.label {
			t.Fatalf("xpReq=%d diff=%d: got %d/%d/%s want %d/%d/%s", c.xpReq, c.diff, xp, gold, label, c.xp, c.gold, c.label)
		}
	}
	if _, gold, _ := QuestRewards(100, 3, true, false); gold != 60 {
		t.Fatalf("high stakes gold: got %d want 60", gold)
	}
	if xp, gold, _ := QuestRewards(100, 3, true, true); xp != 1000 || gold != 1000 {
		t.Fatalf("boss rewards: got %d/%d", xp, gold)
	}
}

func TestQuestID(t *testing.T) {
	if got := QuestID("Write Report #2!"); got != "write_report__2_" {
		t.Fatalf("unexpected id %q", got)
	}
}

func TestPlanQuestRefusals(t *testing.T) {
	st := NewState()
	st.Lockdown.Set(testNoon.Add(time.Hour))
	if _, _, err := newTurn(st, testNoon).PlanQuest(QuestSpec{Name: "x", Difficulty: 1}); !IsRefusal(err, RuleLockdown) {
		t.Fatalf("expected lockdown refusal, got %v", err)
	}
	st = NewState()
	st.RestDay.Set(testNoon.Add(time.Hour))
	if _, _, err := newTurn(st, testNoon).PlanQuest(QuestSpec{Name: "x", Difficulty: 1, HighStakes: true}); !IsRefusal(err, RuleResting) {
		t.Fatalf("expected resting refusal, got %v", err)
	}
	if _, _, err := newTurn(NewState(), testNoon).PlanQuest(QuestSpec{Name: "x", Difficulty: 7}); !IsRefusal(err, RuleInvalidInput) {
		t.Fatalf("expected invalid difficulty refusal, got %v", err)
	}
	id, meta, err := newTurn(NewState(), testNoon).PlanQuest(QuestSpec{Name: "Gym", Difficulty: 4, Deadline: "2024-05-02T10:00"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if id != "gym" || meta.Difficulty != "Hard" || meta.Deadline != "2024-05-02T10:00" || meta.Skill != NoSkill {
		t.Fatalf("unexpected plan %s %+v", id, meta)
	}
}

func TestLevelUpExactlyOnceAtBoundary(t *testing.T) {
	st := NewState()
	tr := newTurn(st, testNoon)
	tr.gainXP(99)
	if st.Level != 1 || st.XP != 99 {
		t.Fatalf("no level-up expected below threshold: level=%d xp=%d", st.Level, st.XP)
	}
	st = NewState()
	tr = newTurn(st, testNoon)
	tr.gainXP(100)
	if st.Level != 2 || st.XP != 0 || st.XPReq != 110 {
		t.Fatalf("level-up: level=%d xp=%d xpReq=%d", st.Level, st.XP, st.XPReq)
	}
	if st.MaxHP != 110 || st.HP != 110 || st.RivalDmg != 15 {
		t.Fatalf("level-up vitals: maxHp=%d hp=%d rival=%d", st.MaxHP, st.HP, st.RivalDmg)
	}
}

func TestCompleteQuestBaseline(t *testing.T) {
	st := NewState()
	tr := newTurn(st, testNoon)
	if err := tr.CompleteQuest("q", QuestMeta{Difficulty: "Medium", XPReward: 20, GoldReward: 40}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if st.XP != 20 || st.Gold != 40 || st.QuestsCompletedToday != 1 || st.ResearchStats.TotalCombat != 1 {
		t.Fatalf("unexpected state xp=%d gold=%d today=%d combat=%d", st.XP, st.Gold, st.QuestsCompletedToday, st.ResearchStats.TotalCombat)
	}
	st = NewState()
	if err := newTurn(st, testNoon).CompleteQuest("q", QuestMeta{}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if st.XP != DefaultQuestXP {
		t.Fatalf("missing xp_reward should grant %d, got %d", DefaultQuestXP, st.XP)
	}
}

func TestCompleteQuestSkillsAndAdrenaline(t *testing.T) {
	st := NewState()
	st.Skills = []Skill{
		{Name: "Code", Level: 1, XPReq: 6, Rust: 2},
		{Name: "Write", Level: 4, XPReq: 5},
	}
	st.DailyModifier = ChaosTable[6]
	tr := newTurn(st, testNoon)
	if err := tr.CompleteQuest("q", QuestMeta{XPReward: 10, Skill: "Code", SecondarySkill: "Write"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	code, write := st.Skill("Code"), st.Skill("Write")
	if code.Rust != 0 || code.XPReq != 5 || code.XP != 1 {
		t.Fatalf("primary skill: %+v", *code)
	}
	if write.XP != 0.5 {
		t.Fatalf("secondary xp: %v", write.XP)
	}
	if !contains(code.Connections, "Write") || !contains(write.Connections, "Code") {
		t.Fatalf("expected bidirectional connection: %v %v", code.Connections, write.Connections)
	}
	// 10 * 2 (adrenaline) + floor(4 * 0.5)
	if st.XP != 22 {
		t.Fatalf("xp: got %d want 22", st.XP)
	}
	if st.HP != 95 {
		t.Fatalf("adrenaline drain: hp=%d", st.HP)
	}
}

func TestCompleteQuestRefusedInLockdown(t *testing.T) {
	st := NewState()
	st.Lockdown.Set(testNoon.Add(time.Hour))
	if err := newTurn(st, testNoon).CompleteQuest("q", QuestMeta{XPReward: 10}); !IsRefusal(err, RuleLockdown) {
		t.Fatalf("expected lockdown refusal, got %v", err)
	}
	if st.XP != 0 || st.QuestsCompletedToday != 0 {
		t.Fatalf("state mutated on refusal")
	}
}

func TestFailQuestDamage(t *testing.T) {
	st := NewState()
	if !newTurn(st, testNoon).FailQuest("q", false) {
		t.Fatal("expected record to be buried")
	}
	if st.HP != 85 || st.DamageTakenToday != 15 || st.RivalDmg != 11 {
		t.Fatalf("hp=%d dmg=%d rival=%d", st.HP, st.DamageTakenToday, st.RivalDmg)
	}

	st = NewState()
	newTurn(st, testNoon).FailQuest("q", true)
	if st.HP != 85 || st.RivalDmg != 10 {
		t.Fatalf("manual abort: hp=%d rival=%d", st.HP, st.RivalDmg)
	}

	st = NewState()
	st.Gold = -101
	newTurn(st, testNoon).FailQuest("q", false)
	if st.HP != 70 {
		t.Fatalf("debt should double damage: hp=%d", st.HP)
	}
}

func TestFailQuestRestAndShield(t *testing.T) {
	st := NewState()
	st.RestDay.Set(testNoon.Add(time.Hour))
	if newTurn(st, testNoon).FailQuest("q", false) {
		t.Fatal("resting failure should keep the record")
	}
	if st.HP != 100 {
		t.Fatalf("resting failure damaged: hp=%d", st.HP)
	}

	st = NewState()
	st.Shielded.Set(testNoon.Add(time.Hour))
	if !newTurn(st, testNoon).FailQuest("q", false) || st.HP != 100 {
		t.Fatalf("shield should absorb: hp=%d", st.HP)
	}
	newTurn(st, testNoon).FailQuest("q", true)
	if st.HP != 85 {
		t.Fatalf("shield must not absorb manual aborts: hp=%d", st.HP)
	}
}

func TestFailQuestLockdownAndDeath(t *testing.T) {
	st := NewState()
	st.DamageTakenToday = 45
	tr := newTurn(st, testNoon)
	tr.FailQuest("q", false)
	if !st.IsLockedDown(testNoon) || !st.Lockdown.Until.Equal(testNoon.Add(LockdownDuration)) {
		t.Fatalf("expected 6h lockdown, got %v", st.Lockdown.Until)
	}
	if !tr.Has(EventLockdown) {
		t.Fatal("missing lockdown event")
	}

	st = NewState()
	st.HP = 10
	tr = newTurn(st, testNoon)
	tr.FailQuest("q", false)
	if tr.Death == nil || st.RunCount != 2 || st.HP != BaseHP {
		t.Fatalf("expected death and reset: death=%v run=%d hp=%d", tr.Death, st.RunCount, st.HP)
	}
}

func TestDeletionQuota(t *testing.T) {
	st := NewState()
	st.Gold = 5
	for i := 0; i < FreeDeletionsPerDay; i++ {
		if err := newTurn(st, testNoon).ChargeDeletion(); err != nil {
			t.Fatalf("free deletion %d: %v", i+1, err)
		}
	}
	if err := newTurn(st, testNoon).ChargeDeletion(); !IsRefusal(err, RuleInsufficientGold) {
		t.Fatalf("expected refusal, got %v", err)
	}
	if st.Gold != 5 || st.QuestDeletionsToday != 3 {
		t.Fatalf("refusal mutated state: gold=%d deletions=%d", st.Gold, st.QuestDeletionsToday)
	}
	st.Gold = 15
	if err := newTurn(st, testNoon).ChargeDeletion(); err != nil || st.Gold != 5 {
		t.Fatalf("paid deletion: err=%v gold=%d", err, st.Gold)
	}
	q := Quota(st, testNoon)
	if q.Free != 3 || q.Paid != 1 || q.Remaining != 0 {
		t.Fatalf("quota: %+v", q)
	}
	tomorrow := testNoon.Add(24 * time.Hour)
	if q := Quota(st, tomorrow); q.Remaining != 3 {
		t.Fatalf("quota should reset on date change: %+v", q)
	}
	st.Gold = 0
	if err := newTurn(st, tomorrow).ChargeDeletion(); err != nil {
		t.Fatalf("deletion after reset: %v", err)
	}
}

func TestParseQuickInput(t *testing.T) {
	spec := ParseQuickInput("call dentist /2", testNoon)
	if spec.Name != "call dentist" || spec.Difficulty != 2 {
		t.Fatalf("unexpected spec %+v", spec)
	}
	if spec := ParseQuickInput("stretch", testNoon); spec.Difficulty != 3 {
		t.Fatalf("default difficulty: %d", spec.Difficulty)
	}
	due, ok := QuestMeta{Deadline: spec.Deadline}.DeadlineTime()
	if !ok || !due.Equal(testNoon.Add(24*time.Hour)) {
		t.Fatalf("deadline: %v %v", due, ok)
	}
}
