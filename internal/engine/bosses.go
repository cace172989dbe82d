package engine

import (
	"math"
	"sort"
	"time"
)

// initBosses seeds the ladder once.
func (s *PlayerState) initBosses() {
	if len(s.BossMilestones) > 0 {
		return
	}
	s.BossMilestones = append([]BossMilestone{}, BossLadder...)
}

// CheckBossMilestones unlocks every boss at or below the current level.
func (t *Turn) CheckBossMilestones() {
	st := t.State
	st.initBosses()
	for i := range st.BossMilestones {
		b := &st.BossMilestones[i]
		if b.Unlocked || st.Level < b.Level {
			continue
		}
		b.Unlocked = true
		t.emit(EventBoss, noticeLong, "⚔️ Boss Unlocked: %s (Level %d)", b.Name, b.Level)
	}
}

// DefeatBoss claims the reward of the boss at level.
func (t *Turn) DefeatBoss(level int) error {
	st := t.State
	st.initBosses()
	var b *BossMilestone
	for i := range st.BossMilestones {
		if st.BossMilestones[i].Level == level {
			b = &st.BossMilestones[i]
		}
	}
	switch {
	case b == nil:
		return refuse(RuleNotFound, "No boss at level %d.", level)
	case !b.Unlocked:
		return refuse(RuleBossLocked, "%s unlocks at level %d.", b.Name, b.Level)
	case b.Defeated:
		return refuse(RuleAlreadyDone, "%s is already defeated.", b.Name)
	}
	b.Defeated = true
	b.DefeatedAt = t.Now
	name, reward := b.Name, b.XPReward
	t.emit(EventBoss, noticeLong, "☠️ %s defeated! +%d XP", name, reward)
	st.XP += reward
	if level == FinalBossLevel {
		st.GameWon = true
		st.EndGameDate = t.Now.Format(time.RFC3339)
		t.emit(EventBoss, noticeLong, "🏔️ One must imagine Sisyphus happy. The game is won.")
	}
	t.evaluateAchievements()
	return nil
}

// WeeklyReport aggregates the ISO week containing now.
func (s *PlayerState) WeeklyReport(now time.Time) WeeklyReport {
	year, week := now.ISOWeek()
	wd := int(now.Weekday())
	if wd == 0 {
		wd = 7
	}
	start := time.Date(now.Year(), now.Month(), now.Day()-(wd-1), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 6)
	from, to := DayKey(start), DayKey(end)

	r := WeeklyReport{Year: year, Week: week, StartDate: from, EndDate: to, TopSkills: []string{}}
	done, failed := 0, 0
	bestN, worstN := -1, -1
	for _, m := range s.DayMetrics {
		if m.Date < from || m.Date > to {
			continue
		}
		done += m.QuestsCompleted
		failed += m.QuestsFailed
		r.TotalXP += m.XPEarned
		r.TotalGold += m.GoldEarned
		if m.QuestsCompleted > bestN {
			bestN, r.BestDay = m.QuestsCompleted, m.Date
		}
		if m.QuestsFailed > worstN {
			worstN, r.WorstDay = m.QuestsFailed, m.Date
		}
	}
	r.TotalQuests = done
	if done+failed > 0 {
		r.SuccessRate = int(math.Round(float64(done) / float64(done+failed) * 100))
	}
	skills := append([]Skill{}, s.Skills...)
	sort.SliceStable(skills, func(i, j int) bool { return skills[i].Level > skills[j].Level })
	for i := 0; i < len(skills) && i < 3; i++ {
		r.TopSkills = append(r.TopSkills, skills[i].Name)
	}
	return r
}

// GenerateWeeklyReport stores the report for the current week, replacing an earlier one.
func (t *Turn) GenerateWeeklyReport() WeeklyReport {
	st := t.State
	r := st.WeeklyReport(t.Now)
	for i := range st.WeeklyReports {
		if st.WeeklyReports[i].Year == r.Year && st.WeeklyReports[i].Week == r.Week {
			st.WeeklyReports[i] = r
			return r
		}
	}
	st.WeeklyReports = append(st.WeeklyReports, r)
	return r
}

// GameStats is the aggregate career view.
type GameStats struct {
	Level          int
	CurrentStreak  int
	LongestStreak  int
	TotalQuests    int
	TotalXP        int
	GameWon        bool
	BossesDefeated int
	TotalBosses    int
}

func (s *PlayerState) GameStats() GameStats {
	gs := GameStats{
		Level:         s.Level,
		CurrentStreak: s.Streak.Current,
		LongestStreak: s.Streak.Longest,
		TotalXP:       s.XP,
		GameWon:       s.GameWon,
		TotalBosses:   len(BossLadder),
	}
	for _, m := range s.DayMetrics {
		gs.TotalQuests += m.QuestsCompleted
		gs.TotalXP += m.XPEarned
	}
	for _, b := range s.BossMilestones {
		if b.Defeated {
			gs.BossesDefeated++
		}
	}
	return gs
}
