package engine

// DailyLogin applies the day rollover. Calling it again on the same day is a no-op.
func (t *Turn) DailyLogin() {
	st := t.State
	today := DayKey(t.Now)
	if st.LastLogin == today {
		return
	}
	if st.LastLogin != "" {
		if days := DaysBetween(st.LastLogin, t.Now); days > 1 {
			rot := (days - 1) * RotPerDay
			st.HP -= rot
			st.History = append(st.History, DayLog{Date: today, Status: DayRot, XPDelta: -rot})
			t.emit(EventNotice, noticeLong, "🦠 Rot: -%d HP for %d missed day(s)", rot, days-1)
			// A fresh run continues through the rest of the rollover.
			t.checkDeath()
		}
	}

	t.settleMissions()
	t.updateStreak(today)
	st.MaxHP = BaseHP + st.Level*HPPerLevel
	st.HP = min(st.MaxHP, st.HP+LoginHeal)
	st.DamageTakenToday = 0
	st.Lockdown.Clear()
	st.MeditationClicksThisLockdown = 0

	if !st.IsResting(t.Now) {
		for i := range st.Skills {
			sk := &st.Skills[i]
			if sk.LastUsed.IsZero() {
				continue
			}
			if int(t.Now.Sub(sk.LastUsed).Hours()/24) > RustAfterDays {
				sk.Rust = min(MaxRust, sk.Rust+1)
				sk.XPReq = floorMul(sk.XPReq, 1.1)
			}
		}
	}

	if st.LastLogin != "" && !hasDay(st.History, st.LastLogin) {
		st.History = append(st.History, DayLog{Date: st.LastLogin, Status: DaySkip})
	}
	st.LastLogin = today
	st.History = append(st.History, DayLog{Date: today, Status: DaySuccess})
	if len(st.History) > HistoryDays {
		st.History = st.History[len(st.History)-HistoryDays:]
	}

	if st.DailyMissionDate != today {
		t.rollDailyMissions()
	}
	t.RollChaos()
	t.CheckBossMilestones()
	t.evaluateAchievements()
}

func hasDay(history []DayLog, day string) bool {
	for _, h := range history {
		if h.Date == day {
			return true
		}
	}
	return false
}

func (t *Turn) updateStreak(today string) {
	s := &t.State.Streak
	if s.LastDate == today {
		return
	}
	if s.LastDate != "" && s.LastDate == previousDay(today, t.Now.Location()) {
		s.Current++
	} else {
		s.Current = 1
	}
	s.Longest = max(s.Longest, s.Current)
	s.LastDate = today
}
