package engine

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// CreateChain registers an ordered quest chain and makes it current.
func (t *Turn) CreateChain(name string, questIDs []string) (QuestChain, error) {
	st := t.State
	if len(questIDs) < 2 {
		return QuestChain{}, refuse(RuleInvalidInput, "A chain needs at least 2 quests.")
	}
	if st.CurrentChainID != "" {
		if cur := st.chain(st.CurrentChainID); cur != nil && !cur.Completed {
			return QuestChain{}, refuse(RuleChainActive, "Chain %q is still active. Break it first.", cur.Name)
		}
	}
	last := questIDs[len(questIDs)-1]
	ch := QuestChain{
		ID:        "chain_" + uuid.NewString(),
		Name:      name,
		Quests:    append([]string{}, questIDs...),
		StartedAt: t.Now,
		IsBoss:    strings.Contains(strings.ToLower(last), "boss"),
	}
	st.ActiveChains = append(st.ActiveChains, ch)
	st.CurrentChainID = ch.ID
	t.emit(EventChain, noticeShort, "⛓️ Chain created: %s (%d quests)", name, len(questIDs))
	return ch, nil
}

func (s *PlayerState) chain(id string) *QuestChain {
	for i := range s.ActiveChains {
		if s.ActiveChains[i].ID == id {
			return &s.ActiveChains[i]
		}
	}
	return nil
}

// ActiveChain returns the current chain, or nil.
func (s *PlayerState) ActiveChain() *QuestChain {
	if s.CurrentChainID == "" {
		return nil
	}
	ch := s.chain(s.CurrentChainID)
	if ch == nil || ch.Completed {
		return nil
	}
	return ch
}

// NextQuestInChain returns the quest the current chain is waiting on.
func (s *PlayerState) NextQuestInChain() (string, bool) {
	ch := s.ActiveChain()
	if ch == nil || ch.CurrentIndex >= len(ch.Quests) {
		return "", false
	}
	return ch.Quests[ch.CurrentIndex], true
}

// ChainProgress reports completed and total steps of the current chain.
type ChainProgress struct {
	Completed int
	Total     int
	Percent   int
}

func (s *PlayerState) ChainProgress() ChainProgress {
	ch := s.ActiveChain()
	if ch == nil {
		return ChainProgress{}
	}
	total := len(ch.Quests)
	return ChainProgress{
		Completed: ch.CurrentIndex,
		Total:     total,
		Percent:   int(math.Round(float64(ch.CurrentIndex) / float64(total) * 100)),
	}
}

func (t *Turn) questInChain(id string) bool {
	ch := t.State.ActiveChain()
	return ch != nil && contains(ch.Quests, id)
}

// canStartQuest is true for quests outside the current chain and for the chain's next quest.
func (t *Turn) canStartQuest(id string) bool {
	if !t.questInChain(id) {
		return true
	}
	next, ok := t.State.NextQuestInChain()
	return ok && next == id
}

// advanceChain moves the current chain past id, finishing it on the last step.
func (t *Turn) advanceChain(id string) {
	st := t.State
	ch := st.ActiveChain()
	if ch == nil {
		return
	}
	next, ok := st.NextQuestInChain()
	if !ok || next != id {
		return
	}
	ch.CurrentIndex++
	st.ChainQuestsCompleted++
	if ch.CurrentIndex < len(ch.Quests) {
		t.emit(EventChain, noticeShort, "⛓️ %s: %d/%d", ch.Name, ch.CurrentIndex, len(ch.Quests))
		return
	}
	ch.Completed = true
	ch.CompletedAt = t.Now
	st.ChainHistory = append(st.ChainHistory, ChainRecord{
		ChainID:     ch.ID,
		ChainName:   ch.Name,
		TotalQuests: len(ch.Quests),
		CompletedAt: t.Now,
		XPEarned:    ChainCompletionXP,
	})
	name := ch.Name
	t.removeChain(ch.ID)
	t.metrics().ChainsCompleted++
	t.emit(EventChain, noticeLong, "🏆 Chain complete: %s (+%d XP)", name, ChainCompletionXP)
	t.gainXP(ChainCompletionXP)
}

// BreakChain abandons the current chain, banking partial credit in the history.
func (t *Turn) BreakChain() (ChainRecord, error) {
	st := t.State
	ch := st.ActiveChain()
	if ch == nil {
		return ChainRecord{}, refuse(RuleNoChain, "No active chain.")
	}
	rec := ChainRecord{
		ChainID:     ch.ID,
		ChainName:   ch.Name,
		TotalQuests: len(ch.Quests),
		CompletedAt: t.Now,
		XPEarned:    ch.CurrentIndex * ChainStepXP,
		Broken:      true,
	}
	st.ChainHistory = append(st.ChainHistory, rec)
	t.removeChain(ch.ID)
	t.emit(EventChain, noticeShort, "💔 Chain broken: %s (%d XP banked)", rec.ChainName, rec.XPEarned)
	return rec, nil
}

func (t *Turn) removeChain(id string) {
	st := t.State
	out := st.ActiveChains[:0]
	for _, c := range st.ActiveChains {
		if c.ID != id {
			out = append(out, c)
		}
	}
	st.ActiveChains = out
	if st.CurrentChainID == id {
		st.CurrentChainID = ""
	}
}
