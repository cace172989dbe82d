package engine

// RollChaos picks the day's modifier: neutral with 40% chance, otherwise
// uniform over the rest of the table.
func (t *Turn) RollChaos() {
	st := t.State
	d := t.roll("chaos")
	if d.Float64() < NeutralChaosChance {
		st.DailyModifier = DefaultModifier()
	} else {
		st.DailyModifier = ChaosTable[d.Intn(len(ChaosTable)-1)+1]
		if st.DailyModifier.Name == sabotageName && st.Gold > SabotageGoldFloor {
			st.Gold = floorMul(st.Gold, SabotageGoldMult)
		}
	}
	m := st.DailyModifier
	t.emit(EventChaos, noticeLong, "%s %s: %s", m.Icon, m.Name, m.Desc)
}
