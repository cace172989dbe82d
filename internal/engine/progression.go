package engine

// MetricsDays bounds how many days of metrics are kept.
const MetricsDays = 90

// gainXP adds player xp and applies at most one level-up.
func (t *Turn) gainXP(xp int) {
	st := t.State
	st.XP += xp
	if st.XP >= st.XPReq {
		t.levelUp()
	}
}

func (t *Turn) levelUp() {
	st := t.State
	st.Level++
	st.RivalDmg += 5
	st.XP = 0
	st.XPReq = floorMul(st.XPReq, 1.1)
	st.MaxHP = BaseHP + st.Level*HPPerLevel
	st.HP = st.MaxHP
	t.emit(EventLevelUp, noticeLong, "⬆️ LEVEL %d", st.Level)
	t.taunt("level_up")
}

// skillXP adds xp to sk and levels it once when the threshold is reached.
func (t *Turn) skillXP(sk *Skill, xp float64) {
	sk.XP += xp
	if sk.XP >= float64(sk.XPReq) {
		sk.Level++
		sk.XP = 0
		t.emit(EventSkillUp, noticeShort, "🧠 %s Up!", sk.Name)
		m := t.metrics()
		m.SkillsLeveled = append(m.SkillsLeveled, sk.Name)
	}
}

// metrics returns today's metrics row, creating it when missing.
func (t *Turn) metrics() *DayMetrics {
	st := t.State
	today := DayKey(t.Now)
	for i := range st.DayMetrics {
		if st.DayMetrics[i].Date == today {
			return &st.DayMetrics[i]
		}
	}
	st.DayMetrics = append(st.DayMetrics, DayMetrics{Date: today, SkillsLeveled: []string{}})
	if len(st.DayMetrics) > MetricsDays {
		st.DayMetrics = st.DayMetrics[len(st.DayMetrics)-MetricsDays:]
	}
	return &st.DayMetrics[len(st.DayMetrics)-1]
}

// damage applies hp loss and its bookkeeping.
func (t *Turn) damage(amount int) {
	st := t.State
	st.HP -= amount
	st.DamageTakenToday += amount
	t.metrics().DamagesTaken += amount
	t.missionEvent(missionEvent{kind: missionDamage})
}

// checkDeath ends the run when hp is exhausted.
func (t *Turn) checkDeath() bool {
	if t.State.HP > 0 || t.Death != nil {
		return t.Death != nil
	}
	t.die()
	return true
}
