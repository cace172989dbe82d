package engine

import (
	"testing"
	"time"
)

func missionByCheck(st *PlayerState, c MissionCheck) *DailyMission {
	for i := range st.DailyMissions {
		if st.DailyMissions[i].Check == c {
			return &st.DailyMissions[i]
		}
	}
	return nil
}

func TestMorningWinBeforeCutoff(t *testing.T) {
	st := NewState()
	st.DailyMissions = []DailyMission{MissionPool[0]}
	morning := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	if err := newTurn(st, morning).CompleteQuest("q", QuestMeta{Difficulty: "Trivial", XPReward: 5, GoldReward: 10}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	m := st.DailyMissions[0]
	if !m.Completed || st.Gold != 10+m.Reward.Gold {
		t.Fatalf("mission=%+v gold=%d", m, st.Gold)
	}

	st = NewState()
	st.DailyMissions = []DailyMission{MissionPool[0]}
	late := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	newTurn(st, late).CompleteQuest("q", QuestMeta{Difficulty: "Trivial", XPReward: 5})
	if st.DailyMissions[0].Completed {
		t.Fatal("morning mission must not count at 10:00")
	}
}

func TestNoDamageMissionResets(t *testing.T) {
	st := NewState()
	st.DailyMissions = []DailyMission{{ID: "survivor", Check: CheckNoDamage, Progress: 2, Target: 3, Reward: Reward{Gold: 20}}}
	newTurn(st, testNoon).FailQuest("q", true)
	if m := st.DailyMissions[0]; m.Progress != 0 || m.Completed {
		t.Fatalf("damage should reset progress: %+v", m)
	}
}

func TestNoDamageMissionSettlesAtRollover(t *testing.T) {
	st := NewState()
	st.LastLogin = "2024-04-30"
	st.DailyMissionDate = "2024-04-30"
	st.DailyMissions = []DailyMission{MissionPool[6]}
	newTurn(st, testNoon).DailyLogin()
	if st.Gold != MissionPool[6].Reward.Gold {
		t.Fatalf("clean day should pay the survivor mission: gold=%d", st.Gold)
	}

	st = NewState()
	st.LastLogin = "2024-04-30"
	st.DamageTakenToday = 5
	st.DailyMissions = []DailyMission{MissionPool[6]}
	newTurn(st, testNoon).DailyLogin()
	if st.Gold != 0 {
		t.Fatalf("damaged day must not pay: gold=%d", st.Gold)
	}
}

func TestMissionPredicates(t *testing.T) {
	st := NewState()
	st.XPReq = 10000
	st.Skills = []Skill{{Name: "Code", Level: 1, XPReq: 100}, {Name: "Write", Level: 1, XPReq: 100}}
	st.DailyMissions = []DailyMission{MissionPool[1], MissionPool[2], MissionPool[4], MissionPool[5], MissionPool[7]}

	created := testNoon.Add(-3 * time.Hour)
	newTurn(st, testNoon).CompleteQuest("a", QuestMeta{Difficulty: "Hard", XPReward: 1, Skill: "Code", SecondarySkill: NoSkill, Created: created})
	if m := missionByCheck(st, CheckHardQuest); !m.Completed {
		t.Fatalf("risk taker: %+v", *m)
	}
	if m := missionByCheck(st, CheckFastComplete); m.Completed {
		t.Fatal("three hours old is not fast")
	}
	if m := missionByCheck(st, CheckSynergy); m.Completed {
		t.Fatal("synergy needs a secondary skill")
	}

	newTurn(st, testNoon).CompleteQuest("b", QuestMeta{Difficulty: "Easy", XPReward: 1, Skill: "Code", SecondarySkill: "Write", Created: testNoon.Add(-time.Hour)})
	if m := missionByCheck(st, CheckSynergy); !m.Completed {
		t.Fatalf("synergist: %+v", *m)
	}
	if m := missionByCheck(st, CheckFastComplete); !m.Completed {
		t.Fatalf("speed demon: %+v", *m)
	}
	newTurn(st, testNoon).CompleteQuest("c", QuestMeta{Difficulty: "Easy", XPReward: 1, Skill: NoSkill})
	if m := missionByCheck(st, CheckQuestCount); !m.Completed || m.Progress != 3 {
		t.Fatalf("momentum: %+v", *m)
	}
	if m := missionByCheck(st, CheckSkillRepeat); m.Completed || m.Progress != 2 {
		t.Fatalf("specialist must ignore unset skills: %+v", *m)
	}
	if _, ok := st.SkillUsesToday[NoSkill]; ok {
		t.Fatal("unset skill counted as a use")
	}
	if done, total := MissionProgress(st); done != 4 || total != 5 {
		t.Fatalf("progress %d/%d", done, total)
	}
}

func TestRollDailyMissionsDistinct(t *testing.T) {
	st := NewState()
	seed, _ := NewRunSeed("missions")
	tr := NewTurn(st, testNoon, seed)
	tr.rollDailyMissions()
	seen := map[string]bool{}
	for _, m := range st.DailyMissions {
		if seen[m.ID] {
			t.Fatalf("duplicate mission %s", m.ID)
		}
		seen[m.ID] = true
	}
	if len(seen) != MissionsPerDay {
		t.Fatalf("missions: %d", len(seen))
	}
}
