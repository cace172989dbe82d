package engine

import (
	"sort"
	"time"
)

// achievementRules maps achievement ids to their unlock predicate.
var achievementRules = map[string]func(*Turn) bool{
	"first_blood":   func(t *Turn) bool { return totalCompleted(t.State) >= 1 },
	"week_warrior":  func(t *Turn) bool { return t.State.Streak.Current >= 7 },
	"warm_up":       func(t *Turn) bool { return totalCompleted(t.State) >= 10 },
	"night_owl":     func(t *Turn) bool { h := t.Now.Hour(); return completedToday(t) && (h >= 22 || h == 0) },
	"early_bird":    func(t *Turn) bool { h := t.Now.Hour(); return completedToday(t) && h >= 5 && h < 7 },
	"triple_threat": func(t *Turn) bool { return t.State.QuestsCompletedToday >= 3 },
	"skill_adept":   func(t *Turn) bool { return maxSkillLevel(t.State) >= 5 },
	"chain_gang": func(t *Turn) bool {
		for _, c := range t.State.ChainHistory {
			if !c.Broken {
				return true
			}
		}
		return false
	},
	"researcher":         func(t *Turn) bool { return t.State.ResearchStats.ResearchCompleted >= 5 },
	"rich":               func(t *Turn) bool { return t.State.Gold >= 500 },
	"speed_demon":        func(t *Turn) bool { return t.State.QuestsCompletedToday >= 5 },
	"perfectionist":      func(t *Turn) bool { return cleanDays(t.State) >= 7 },
	"iron_streak":        func(t *Turn) bool { return t.State.Streak.Current >= 14 },
	"boss_slayer":        func(t *Turn) bool { return bossesDefeated(t.State) >= 1 },
	"skill_master":       func(t *Turn) bool { return maxSkillLevel(t.State) >= 10 },
	"century":            func(t *Turn) bool { return totalCompleted(t.State) >= 100 },
	"phoenix":            func(t *Turn) bool { return t.State.Legacy.DeathCount >= 1 && t.State.Level >= 10 },
	"research_professor": func(t *Turn) bool { return t.State.ResearchStats.ResearchCompleted >= 20 },
	"gold_hoarder":       func(t *Turn) bool { return t.State.Gold >= 2000 },
	"ascended":           func(t *Turn) bool { return t.State.Level >= 50 },
	"immortal":           func(t *Turn) bool { return t.State.Level >= 20 && t.State.Legacy.DeathCount == 0 },
	"marathon":           func(t *Turn) bool { return t.State.Streak.Current >= 30 },
	"grand_master": func(t *Turn) bool {
		n := 0
		for _, s := range t.State.Skills {
			if s.Level >= 10 {
				n++
			}
		}
		return n >= 5
	},
}

const completionistID = "completionist"

// evaluateAchievements unlocks every achievement whose rule now holds.
func (t *Turn) evaluateAchievements() {
	st := t.State
	for _, def := range Achievements {
		if def.ID == completionistID {
			continue
		}
		if _, ok := st.Achievements[def.ID]; ok {
			continue
		}
		if rule := achievementRules[def.ID]; rule != nil && rule(t) {
			t.unlock(def)
		}
	}
	if _, ok := st.Achievements[completionistID]; !ok && len(st.Achievements) >= len(Achievements)-1 {
		for _, def := range Achievements {
			if def.ID == completionistID {
				t.unlock(def)
			}
		}
	}
}

func (t *Turn) unlock(def AchievementDef) {
	t.State.Achievements[def.ID] = t.Now
	t.emit(EventAchievement, noticeLong, "🏅 Achievement Unlocked: %s (%s)", def.Name, def.Rarity)
}

// UnlockedAchievements lists unlocked definitions ordered by unlock time.
func (s *PlayerState) UnlockedAchievements() []AchievementDef {
	out := []AchievementDef{}
	for _, def := range Achievements {
		if _, ok := s.Achievements[def.ID]; ok {
			out = append(out, def)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.Achievements[out[i].ID].Before(s.Achievements[out[j].ID])
	})
	return out
}

func totalCompleted(s *PlayerState) int {
	n := 0
	for _, m := range s.DayMetrics {
		n += m.QuestsCompleted
	}
	return n
}

// completedToday is true only on the turn that completed a quest.
func completedToday(t *Turn) bool { return t.completed }

func maxSkillLevel(s *PlayerState) int {
	best := 0
	for _, sk := range s.Skills {
		best = max(best, sk.Level)
	}
	return best
}

func bossesDefeated(s *PlayerState) int {
	n := 0
	for _, b := range s.BossMilestones {
		if b.Defeated {
			n++
		}
	}
	return n
}

// cleanDays counts the trailing run of consecutive metric days with completions and no failures.
func cleanDays(s *PlayerState) int {
	n := 0
	prev := ""
	for i := len(s.DayMetrics) - 1; i >= 0; i-- {
		m := s.DayMetrics[i]
		if m.QuestsCompleted == 0 || m.QuestsFailed > 0 {
			break
		}
		if prev != "" && previousDay(prev, time.Local) != m.Date {
			break
		}
		prev = m.Date
		n++
	}
	return n
}
