package engine

import "time"

// MeditationStatus summarises lockdown recovery progress.
type MeditationStatus struct {
	CyclesDone      int
	CyclesRemaining int
	TimeReduced     time.Duration
	Locked          bool
	LockRemaining   time.Duration
}

func (s *PlayerState) MeditationStatus(now time.Time) MeditationStatus {
	done := min(s.MeditationClicksThisLockdown, MeditationTarget)
	return MeditationStatus{
		CyclesDone:      done,
		CyclesRemaining: max(0, MeditationTarget-done),
		TimeReduced:     time.Duration(done) * (MeditationRelief / MeditationTarget),
		Locked:          s.IsLockedDown(now),
		LockRemaining:   s.Lockdown.Remaining(now),
	}
}

// Meditate performs one meditation cycle during lockdown.
func (t *Turn) Meditate() error {
	st := t.State
	if !st.IsLockedDown(t.Now) {
		return refuse(RuleNotLockedDown, "Meditation is only available during lockdown.")
	}
	if st.Meditating.Active(t.Now) {
		return refuse(RuleCooldown, "Already meditating. Breathe.")
	}
	st.Meditating.Set(t.Now.Add(MeditationCooldown))
	st.MeditationClicksThisLockdown++
	t.sound(SoundMeditate)
	if st.MeditationClicksThisLockdown >= MeditationTarget {
		st.Lockdown.Shift(-MeditationRelief)
		st.MeditationClicksThisLockdown = 0
		st.MeditationCyclesCompleted++
		if st.IsLockedDown(t.Now) {
			t.notice("🧘 Lockdown reduced by %s", MeditationRelief)
		} else {
			st.Lockdown.Clear()
			t.notice("🧘 Lockdown lifted.")
		}
		return nil
	}
	t.notice("🧘 Meditation %d/%d", st.MeditationClicksThisLockdown, MeditationTarget)
	return nil
}

// AttemptRecovery reports how long lockdown still holds.
func (t *Turn) AttemptRecovery() {
	st := t.State
	if !st.IsLockedDown(t.Now) {
		t.notice("Not in lockdown.")
		return
	}
	left := st.Lockdown.Remaining(t.Now).Round(time.Minute)
	t.notice("⛔ Locked down. %s remaining. Meditate to shorten it.", left)
}
