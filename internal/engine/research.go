package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ResearchRatio reports combat and research counts and their ratio.
type ResearchRatio struct {
	Combat   int
	Research int
	Ratio    float64
}

func (s *PlayerState) ResearchRatio() ResearchRatio {
	rs := s.ResearchStats
	return ResearchRatio{
		Combat:   rs.TotalCombat,
		Research: rs.TotalResearch,
		Ratio:    float64(rs.TotalCombat) / float64(max(1, rs.TotalResearch)),
	}
}

// CanCreateResearch is the 2:1 combat to research gate.
func (s *PlayerState) CanCreateResearch() bool {
	return s.ResearchRatio().Ratio >= ResearchRatioFloor
}

// CreateResearch registers a research quest.
func (t *Turn) CreateResearch(title string, kind ResearchType, linkedSkill, linkedCombat string) (ResearchQuest, error) {
	st := t.State
	if !kind.Validate() {
		return ResearchQuest{}, refuse(RuleInvalidInput, "unknown research type %q", kind)
	}
	if st.IsLockedDown(t.Now) {
		return ResearchQuest{}, refuse(RuleLockdown, "⛔ LOCKDOWN ACTIVE")
	}
	if !st.CanCreateResearch() {
		return ResearchQuest{}, refuse(RuleResearchRatio, "RESEARCH BLOCKED: Complete 2 combat quests per research quest")
	}
	id := st.LastResearchQuestID + 1
	rq := ResearchQuest{
		ID:           "research_" + strconv.Itoa(id),
		Title:        strings.TrimSpace(title),
		Type:         kind,
		LinkedSkill:  linkedSkill,
		LinkedCombat: linkedCombat,
		WordLimit:    kind.WordLimit(),
		CreatedAt:    t.Now,
	}
	st.ResearchQuests = append(st.ResearchQuests, rq)
	st.LastResearchQuestID = id
	st.ResearchStats.TotalResearch++
	t.notice("📚 Research Quest Created: %s", ternary(kind == ResearchSurvey, "Survey", "Deep Dive"))
	return rq, nil
}

func (s *PlayerState) research(id string) (int, *ResearchQuest) {
	for i := range s.ResearchQuests {
		if s.ResearchQuests[i].ID == id {
			return i, &s.ResearchQuests[i]
		}
	}
	return -1, nil
}

// ResearchPenalty is the gold tax for words beyond the free overage.
func ResearchPenalty(limit, words int) int {
	if limit <= 0 || words <= limit {
		return 0
	}
	overage := float64(words-limit) / float64(limit) * 100
	if overage <= ResearchOverageFree {
		return 0
	}
	return int(math.Floor(ResearchPenaltyGold * overage / 100))
}

// CompleteResearch submits a research quest with its final word count.
func (t *Turn) CompleteResearch(id string, words int) (xp, penalty int, err error) {
	st := t.State
	_, rq := st.research(id)
	if rq == nil {
		return 0, 0, refuse(RuleNotFound, "Research quest not found")
	}
	if rq.Completed {
		return 0, 0, refuse(RuleAlreadyDone, "Quest already completed")
	}
	minWords := int(math.Ceil(float64(rq.WordLimit) * ResearchMinFraction))
	if words < minWords {
		return 0, 0, refuse(RuleTooShort, "Too short! Need %d words.", minWords)
	}
	xp = ternary(rq.Type == ResearchDeepDive, 20, 5)
	penalty = ResearchPenalty(rq.WordLimit, words)

	rq.WordCount = words
	rq.Completed = true
	rq.CompletedAt = t.Now
	if sk := st.Skill(rq.LinkedSkill); sk != nil {
		t.skillXP(sk, float64(xp))
	}
	st.Gold -= penalty
	st.ResearchStats.ResearchCompleted++
	t.sound(SoundSuccess)
	msg := fmt.Sprintf("Research Complete! +%d XP", xp)
	if penalty > 0 {
		msg += fmt.Sprintf(" (-%dg tax)", penalty)
	}
	t.notice("%s", msg)
	t.evaluateAchievements()
	return xp, penalty, nil
}

// DeleteResearch removes a research quest and frees its slot in the research ratio.
// Completions already banked stay counted.
func (t *Turn) DeleteResearch(id string) error {
	st := t.State
	i, rq := st.research(id)
	if rq == nil {
		return refuse(RuleNotFound, "Not found")
	}
	st.ResearchStats.TotalResearch = max(0, st.ResearchStats.TotalResearch-1)
	st.ResearchQuests = append(st.ResearchQuests[:i], st.ResearchQuests[i+1:]...)
	t.notice("Research deleted")
	return nil
}

// UpdateResearchWordCount records draft progress.
func (t *Turn) UpdateResearchWordCount(id string, words int) error {
	_, rq := t.State.research(id)
	if rq == nil {
		return refuse(RuleNotFound, "Not found")
	}
	rq.WordCount = words
	return nil
}
