package engine

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBackfillOldSave(t *testing.T) {
	raw := `{"hp":40,"level":3,"gold":12,"skills":[{"name":"Code","level":2}]}`
	var st PlayerState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	st.Backfill(testNoon)
	if st.MaxHP != 115 || st.XPReq != BaseXPReq || st.RunCount != 1 {
		t.Fatalf("vitals not backfilled: maxHp=%d xpReq=%d run=%d", st.MaxHP, st.XPReq, st.RunCount)
	}
	if st.DailyModifier.Name != "Clear Skies" {
		t.Fatalf("modifier: %q", st.DailyModifier.Name)
	}
	sk := st.Skill("Code")
	if sk == nil || !sk.LastUsed.Equal(testNoon) || sk.XPReq != SkillBaseXPReq || sk.Connections == nil {
		t.Fatalf("skill not backfilled: %+v", sk)
	}
	if st.QuestFilters == nil || st.Achievements == nil || st.SkillUsesToday == nil {
		t.Fatal("maps must be initialised")
	}
	if st.FilterState.ActiveEnergy != EnergyAny || st.FilterState.ActiveContext != ContextAny {
		t.Fatalf("filter state: %+v", st.FilterState)
	}
	if st.HP != 40 || st.Gold != 12 {
		t.Fatal("backfill must not touch present fields")
	}
}

func TestBackfillMissingLevel(t *testing.T) {
	var st PlayerState
	if err := json.Unmarshal([]byte(`{"hp":40}`), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	st.Backfill(testNoon)
	if st.Level != 1 || st.MaxHP != BaseHP+HPPerLevel || st.RivalDmg != BaseRivalDmg {
		t.Fatalf("level=%d maxHp=%d rivalDmg=%d", st.Level, st.MaxHP, st.RivalDmg)
	}
}

func TestCloneIsDeep(t *testing.T) {
	st := NewState()
	st.Skills = []Skill{{Name: "Code", Level: 1, XPReq: 5, Connections: []string{}}}
	st.QuestFilters["q"] = ContextFilter{Energy: EnergyHigh, Context: ContextHome, Tags: []string{"a"}}
	st.Achievements["first_blood"] = testNoon
	st.DailyMissions = append(st.DailyMissions, MissionPool[0])

	c := st.Clone()
	c.Skills[0].Level = 9
	c.Skills[0].Connections = append(c.Skills[0].Connections, "Write")
	c.QuestFilters["q2"] = ContextFilter{}
	c.QuestFilters["q"].Tags[0] = "changed"
	delete(c.Achievements, "first_blood")
	c.DailyMissions[0].Progress = 1

	if st.Skills[0].Level != 1 || len(st.Skills[0].Connections) != 0 {
		t.Fatalf("skills shared: %+v", st.Skills[0])
	}
	if len(st.QuestFilters) != 1 || st.QuestFilters["q"].Tags[0] != "a" {
		t.Fatalf("filters shared: %+v", st.QuestFilters)
	}
	if _, ok := st.Achievements["first_blood"]; !ok {
		t.Fatal("achievements shared")
	}
	if st.DailyMissions[0].Progress != 0 {
		t.Fatal("missions shared")
	}
}

func TestExpiringFlagJSON(t *testing.T) {
	var f ExpiringFlag
	b, err := json.Marshal(f)
	if err != nil || string(b) != `""` {
		t.Fatalf("zero flag: %s %v", b, err)
	}
	f.Set(testNoon.Add(90 * time.Minute))
	b, _ = json.Marshal(f)
	var back ExpiringFlag
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Until.Equal(f.Until) {
		t.Fatalf("round trip: %v != %v", back.Until, f.Until)
	}
	if !back.Active(testNoon) || back.Active(testNoon.Add(2*time.Hour)) {
		t.Fatal("activity window wrong")
	}
	if back.Remaining(testNoon) != 90*time.Minute {
		t.Fatalf("remaining: %v", back.Remaining(testNoon))
	}
	var empty ExpiringFlag
	if err := json.Unmarshal([]byte(`""`), &empty); err != nil || !empty.Until.IsZero() {
		t.Fatalf("empty string should be inactive: %v %v", empty.Until, err)
	}
}

func TestDaysBetween(t *testing.T) {
	if n := DaysBetween("2024-04-28", testNoon); n != 3 {
		t.Fatalf("days: %d", n)
	}
	if n := DaysBetween("2024-05-01", testNoon); n != 0 {
		t.Fatalf("same day: %d", n)
	}
	if n := DaysBetween("garbage", testNoon); n != 0 {
		t.Fatalf("bad key: %d", n)
	}
}
