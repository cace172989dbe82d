package engine

import (
	"fmt"
	"math"
)

// Souls awarded for a run that ended at level with gold.
func Souls(level, gold int) int {
	return int(math.Floor(float64(level)*10 + float64(gold)/10))
}

// StartingGold is the gold a new run begins with after deaths deaths.
func StartingGold(perkGold, deaths int) int {
	return int(math.Floor(float64(perkGold) * math.Pow(DeathGoldDecay, float64(deaths))))
}

// TriggerDeath ends the run unconditionally.
func (t *Turn) TriggerDeath() { t.die() }

// die converts the run into legacy and resets the state in place.
func (t *Turn) die() {
	st := t.State
	final := st.Clone()
	souls := Souls(st.Level, st.Gold)

	legacy := st.Legacy
	legacy.Souls += souls
	legacy.DeathCount++
	scars := legacy.DeathCount

	fresh := NewState()
	fresh.Legacy = legacy
	fresh.LastLogin = st.LastLogin
	fresh.DailyModifier = st.DailyModifier
	fresh.Seed = st.Seed
	fresh.Rolls = st.Rolls
	fresh.RunCount = st.RunCount + 1
	fresh.Gold = StartingGold(legacy.Perks.StartGold, legacy.DeathCount)
	fresh.Streak = st.Streak
	fresh.Achievements = st.Achievements
	*st = *fresh

	t.Death = &DeathReport{
		Chronicle: ChronicleEntry{
			Run:   final.RunCount,
			Date:  DayKey(t.Now),
			Level: final.Level,
			Souls: souls,
			Scars: scars,
		},
		RunName: fmt.Sprintf("Run_Failed_%d", t.Now.Unix()),
		Final:   final,
	}
	t.sound(SoundDeath)
	t.emit(EventDeath, noticeLong, "💀 YOU DIED. Run #%d ends at level %d. +%d souls.", final.RunCount, final.Level, souls)
}
