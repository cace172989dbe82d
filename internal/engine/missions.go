package engine

import "time"

type missionEventKind int

const (
	missionComplete missionEventKind = iota
	missionDamage
)

type missionEvent struct {
	kind       missionEventKind
	difficulty int
	skill      string
	secondary  string
	highStakes bool
	created    time.Time
}

// rollDailyMissions draws the day's missions without replacement and resets day counters.
func (t *Turn) rollDailyMissions() {
	st := t.State
	d := t.roll("missions")
	idx := make([]int, len(MissionPool))
	for i := range idx {
		idx[i] = i
	}
	shuffle(d, idx)
	n := MissionsPerDay
	if n > len(idx) {
		n = len(idx)
	}
	st.DailyMissions = make([]DailyMission, 0, n)
	for _, i := range idx[:n] {
		m := MissionPool[i]
		m.Progress = 0
		m.Completed = false
		st.DailyMissions = append(st.DailyMissions, m)
	}
	st.DailyMissionDate = DayKey(t.Now)
	st.QuestsCompletedToday = 0
	st.SkillUsesToday = map[string]int{}
}

// missionEvent advances every open mission whose predicate matches ev.
func (t *Turn) missionEvent(ev missionEvent) {
	st := t.State
	if ev.kind == missionComplete && isRealSkill(ev.skill) {
		st.SkillUsesToday[ev.skill]++
	}
	for i := range st.DailyMissions {
		m := &st.DailyMissions[i]
		if m.Completed {
			continue
		}
		switch m.Check {
		case CheckMorningTrivial:
			if ev.kind == missionComplete && ev.difficulty == 1 && t.Now.Hour() < MorningCutoffHour {
				m.Progress++
			}
		case CheckQuestCount:
			if ev.kind == missionComplete {
				m.Progress = st.QuestsCompletedToday
			}
		case CheckHighStakes:
			if ev.kind == missionComplete && ev.highStakes {
				m.Progress++
			}
		case CheckFastComplete:
			if ev.kind == missionComplete && !ev.created.IsZero() && t.Now.Sub(ev.created) <= FastCompleteWindow {
				m.Progress++
			}
		case CheckSynergy:
			if ev.kind == missionComplete && isRealSkill(ev.skill) && isRealSkill(ev.secondary) && ev.skill != ev.secondary {
				m.Progress++
			}
		case CheckNoDamage:
			if ev.kind == missionDamage {
				m.Progress = 0
			}
		case CheckSkillRepeat:
			if ev.kind == missionComplete {
				best := 0
				for _, n := range st.SkillUsesToday {
					if n > best {
						best = n
					}
				}
				m.Progress = best
			}
		case CheckHardQuest:
			if ev.kind == missionComplete && ev.difficulty >= 4 {
				m.Progress++
			}
		}
		if m.Progress >= m.Target {
			m.Completed = true
			st.XP += m.Reward.XP
			st.Gold += m.Reward.Gold
			t.emit(EventMission, noticeLong, "✅ Mission Complete: %s (+%d XP, +%d G)", m.Name, m.Reward.XP, m.Reward.Gold)
		}
	}
}

// MissionProgress summarises today's missions.
func MissionProgress(st *PlayerState) (done, total int) {
	for _, m := range st.DailyMissions {
		if m.Completed {
			done++
		}
	}
	return done, len(st.DailyMissions)
}

func isRealSkill(name string) bool { return name != "" && name != NoSkill }

// NoSkill marks an unset skill slot.
const NoSkill = "None"

// settleMissions closes out the day being left: an untouched no-damage mission pays out.
func (t *Turn) settleMissions() {
	st := t.State
	if st.DamageTakenToday > 0 {
		return
	}
	for i := range st.DailyMissions {
		m := &st.DailyMissions[i]
		if m.Completed || m.Check != CheckNoDamage {
			continue
		}
		m.Progress = m.Target
		m.Completed = true
		st.XP += m.Reward.XP
		st.Gold += m.Reward.Gold
		t.emit(EventMission, noticeLong, "✅ Mission Complete: %s (+%d XP, +%d G)", m.Name, m.Reward.XP, m.Reward.Gold)
	}
}
