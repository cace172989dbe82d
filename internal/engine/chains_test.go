package engine

import (
	"fmt"
	"testing"
)

func TestChainOrderAndCompletionBonus(t *testing.T) {
	st := NewState()
	st.XPReq = 1000
	if _, err := newTurn(st, testNoon).CreateChain("Launch", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("create chain: %v", err)
	}
	meta := QuestMeta{XPReward: 1}
	if err := newTurn(st, testNoon).CompleteQuest("b", meta); !IsRefusal(err, RuleChainOrder) {
		t.Fatalf("expected chain order refusal, got %v", err)
	}
	if st.XP != 0 {
		t.Fatalf("refused completion changed xp: %d", st.XP)
	}
	for _, id := range []string{"a", "b"} {
		if err := newTurn(st, testNoon).CompleteQuest(id, meta); err != nil {
			t.Fatalf("complete %s: %v", id, err)
		}
	}
	if p := st.ChainProgress(); p.Completed != 2 || p.Total != 3 || p.Percent != 67 {
		t.Fatalf("progress: %+v", p)
	}
	if err := newTurn(st, testNoon).CompleteQuest("c", meta); err != nil {
		t.Fatalf("complete c: %v", err)
	}
	if st.XP != 3+ChainCompletionXP {
		t.Fatalf("xp: got %d want %d", st.XP, 3+ChainCompletionXP)
	}
	if len(st.ChainHistory) != 1 || st.ChainHistory[0].XPEarned != ChainCompletionXP {
		t.Fatalf("history: %+v", st.ChainHistory)
	}
	if st.CurrentChainID != "" || len(st.ActiveChains) != 0 || st.ActiveChain() != nil {
		t.Fatalf("chain should be retired: current=%q active=%d", st.CurrentChainID, len(st.ActiveChains))
	}
	if st.ChainQuestsCompleted != 3 {
		t.Fatalf("chain quests completed: %d", st.ChainQuestsCompleted)
	}
	// the bonus is not paid twice
	if err := newTurn(st, testNoon).CompleteQuest("c", meta); err != nil {
		t.Fatalf("complete c again: %v", err)
	}
	if st.XP != 4+ChainCompletionXP {
		t.Fatalf("xp after repeat: %d", st.XP)
	}
}

func TestChainCreationRules(t *testing.T) {
	st := NewState()
	if _, err := newTurn(st, testNoon).CreateChain("Solo", []string{"a"}); !IsRefusal(err, RuleInvalidInput) {
		t.Fatalf("expected refusal for single quest chain, got %v", err)
	}
	ch, err := newTurn(st, testNoon).CreateChain("Raid", []string{"prep", "final_boss"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !ch.IsBoss {
		t.Fatal("chain ending in a boss quest should be flagged")
	}
	if _, err := newTurn(st, testNoon).CreateChain("Other", []string{"x", "y"}); !IsRefusal(err, RuleChainActive) {
		t.Fatalf("expected refusal while a chain is current, got %v", err)
	}
	if next, ok := st.NextQuestInChain(); !ok || next != "prep" {
		t.Fatalf("next quest: %q %v", next, ok)
	}
}

func TestBreakChainBanksPartialCredit(t *testing.T) {
	st := NewState()
	st.XPReq = 1000
	newTurn(st, testNoon).CreateChain("Week", []string{"a", "b", "c", "d"})
	newTurn(st, testNoon).CompleteQuest("a", QuestMeta{XPReward: 1})
	newTurn(st, testNoon).CompleteQuest("b", QuestMeta{XPReward: 1})
	rec, err := newTurn(st, testNoon).BreakChain()
	if err != nil {
		t.Fatalf("break: %v", err)
	}
	if rec.XPEarned != 2*ChainStepXP || rec.TotalQuests != 4 {
		t.Fatalf("record: %+v", rec)
	}
	if st.ActiveChain() != nil || len(st.ActiveChains) != 0 {
		t.Fatal("broken chain must be removed")
	}
	if _, err := newTurn(st, testNoon).BreakChain(); !IsRefusal(err, RuleNoChain) {
		t.Fatalf("expected no-chain refusal, got %v", err)
	}
	// quests of a broken chain are no longer gated
	if err := newTurn(st, testNoon).CompleteQuest("d", QuestMeta{XPReward: 1}); err != nil {
		t.Fatalf("complete after break: %v", err)
	}
}

func TestChainGangNeedsFinishedChain(t *testing.T) {
	st := NewState()
	st.XPReq = 100000
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("q%d", i)
	}
	if _, err := newTurn(st, testNoon).CreateChain("Long haul", ids); err != nil {
		t.Fatalf("create chain: %v", err)
	}
	for _, id := range ids[:10] {
		if err := newTurn(st, testNoon).CompleteQuest(id, QuestMeta{XPReward: 1}); err != nil {
			t.Fatalf("complete %s: %v", id, err)
		}
	}
	rec, err := newTurn(st, testNoon).BreakChain()
	if err != nil {
		t.Fatalf("break: %v", err)
	}
	if !rec.Broken {
		t.Fatalf("record: %+v", rec)
	}
	newTurn(st, testNoon).evaluateAchievements()
	if _, ok := st.Achievements["chain_gang"]; ok {
		t.Fatalf("broken chain unlocked chain_gang: %+v", st.ChainHistory)
	}

	newTurn(st, testNoon).CreateChain("Short", []string{"x", "y"})
	newTurn(st, testNoon).CompleteQuest("x", QuestMeta{XPReward: 1})
	newTurn(st, testNoon).CompleteQuest("y", QuestMeta{XPReward: 1})
	if _, ok := st.Achievements["chain_gang"]; !ok {
		t.Fatalf("finished chain should unlock chain_gang: %+v", st.ChainHistory)
	}
}
