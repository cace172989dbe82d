package engine

import (
	"math"
	"time"
)

// Starting values for a fresh run.
const (
	BaseHP       = 100
	BaseXPReq    = 100
	BaseRivalDmg = 10
	HPPerLevel   = 5
	HistoryDays  = 14
)

// PlayerState is the single persisted game document.
type PlayerState struct {
	HP       int `json:"hp"`
	MaxHP    int `json:"maxHp"`
	XP       int `json:"xp"`
	XPReq    int `json:"xpReq"`
	Level    int `json:"level"`
	Gold     int `json:"gold"`
	RivalDmg int `json:"rivalDmg"`

	Lockdown   ExpiringFlag `json:"lockdownUntil"`
	Shielded   ExpiringFlag `json:"shieldedUntil"`
	RestDay    ExpiringFlag `json:"restDayUntil"`
	Meditating ExpiringFlag `json:"meditatingUntil"`

	LastLogin            string         `json:"lastLogin"`
	Seed                 string         `json:"seed"`
	Rolls                int            `json:"rolls"`
	DamageTakenToday     int            `json:"damageTakenToday"`
	QuestsCompletedToday int            `json:"questsCompletedToday"`
	SkillUsesToday       map[string]int `json:"skillUsesToday"`
	QuestDeletionsToday  int            `json:"questDeletionsToday"`
	LastDeletionReset    string         `json:"lastDeletionReset"`

	DailyModifier ChaosModifier `json:"dailyModifier"`
	Skills        []Skill       `json:"skills"`
	History       []DayLog      `json:"history"`
	Legacy        Legacy        `json:"legacy"`
	RunCount      int           `json:"runCount"`

	DailyMissions    []DailyMission `json:"dailyMissions"`
	DailyMissionDate string         `json:"dailyMissionDate"`

	ResearchQuests      []ResearchQuest `json:"researchQuests"`
	ResearchStats       ResearchStats   `json:"researchStats"`
	LastResearchQuestID int             `json:"lastResearchQuestId"`

	ActiveChains         []QuestChain  `json:"activeChains"`
	ChainHistory         []ChainRecord `json:"chainHistory"`
	CurrentChainID       string        `json:"currentChainId"`
	ChainQuestsCompleted int           `json:"chainQuestsCompleted"`

	QuestFilters map[string]ContextFilter `json:"questFilters"`
	FilterState  FilterState              `json:"filterState"`

	DayMetrics     []DayMetrics         `json:"dayMetrics"`
	WeeklyReports  []WeeklyReport       `json:"weeklyReports"`
	BossMilestones []BossMilestone      `json:"bossMilestones"`
	Streak         Streak               `json:"streak"`
	Achievements   map[string]time.Time `json:"achievements"`
	GameWon        bool                 `json:"gameWon"`
	EndGameDate    string               `json:"endGameDate"`

	MeditationCyclesCompleted    int `json:"meditationCyclesCompleted"`
	MeditationClicksThisLockdown int `json:"meditationClicksThisLockdown"`
}

// Skill is a player-named capability that levels independently.
type Skill struct {
	Name        string    `json:"name"`
	Level       int       `json:"level"`
	XP          float64   `json:"xp"`
	XPReq       int       `json:"xpReq"`
	LastUsed    time.Time `json:"lastUsed"`
	Rust        int       `json:"rust"`
	Connections []string  `json:"connections"`
}

type DayLog struct {
	Date    string    `json:"date"`
	Status  DayStatus `json:"status"`
	XPDelta int       `json:"xpEarned"`
}

type Relic struct {
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	Effect string `json:"effect"`
}

type Perks struct {
	StartGold        int `json:"startGold"`
	StartSkillPoints int `json:"startSkillPoints"`
	RivalDelay       int `json:"rivalDelay"`
}

// Legacy survives death.
type Legacy struct {
	Souls      int     `json:"souls"`
	Perks      Perks   `json:"perks"`
	Relics     []Relic `json:"relics"`
	DeathCount int     `json:"deathCount"`
}

// ChaosModifier is the day-wide multiplier set.
type ChaosModifier struct {
	Name      string  `json:"name"`
	Desc      string  `json:"desc"`
	XPMult    float64 `json:"xpMult"`
	GoldMult  float64 `json:"goldMult"`
	PriceMult float64 `json:"priceMult"`
	Icon      string  `json:"icon"`
	// HPDrain is subtracted from HP on every completion.
	HPDrain int `json:"hpDrain,omitempty"`
}

type Reward struct {
	XP   int `json:"xp"`
	Gold int `json:"gold"`
}

type DailyMission struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Desc      string       `json:"desc"`
	Check     MissionCheck `json:"checkFunc"`
	Progress  int          `json:"progress"`
	Target    int          `json:"target"`
	Reward    Reward       `json:"reward"`
	Completed bool         `json:"completed"`
}

type ResearchQuest struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Type         ResearchType `json:"type"`
	LinkedSkill  string       `json:"linkedSkill"`
	LinkedCombat string       `json:"linkedCombatQuest"`
	WordLimit    int          `json:"wordLimit"`
	WordCount    int          `json:"wordCount"`
	CreatedAt    time.Time    `json:"createdAt"`
	Completed    bool         `json:"completed"`
	CompletedAt  time.Time    `json:"completedAt,omitempty"`
}

type ResearchStats struct {
	TotalResearch     int `json:"totalResearch"`
	TotalCombat       int `json:"totalCombat"`
	ResearchCompleted int `json:"researchCompleted"`
	CombatCompleted   int `json:"combatCompleted"`
}

type QuestChain struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Quests       []string  `json:"quests"`
	CurrentIndex int       `json:"currentIndex"`
	Completed    bool      `json:"completed"`
	StartedAt    time.Time `json:"startedAt"`
	CompletedAt  time.Time `json:"completedAt,omitempty"`
	IsBoss       bool      `json:"isBoss"`
}

type ChainRecord struct {
	ChainID     string    `json:"chainId"`
	ChainName   string    `json:"chainName"`
	TotalQuests int       `json:"totalQuests"`
	CompletedAt time.Time `json:"completedAt"`
	XPEarned    int       `json:"xpEarned"`
	Broken      bool      `json:"broken,omitempty"`
}

type ContextFilter struct {
	Energy  EnergyLevel  `json:"energyLevel"`
	Context QuestContext `json:"context"`
	Tags    []string     `json:"tags"`
}

type FilterState struct {
	ActiveEnergy  EnergyLevel  `json:"activeEnergy"`
	ActiveContext QuestContext `json:"activeContext"`
	ActiveTags    []string     `json:"activeTags"`
}

type DayMetrics struct {
	Date            string   `json:"date"`
	QuestsCompleted int      `json:"questsCompleted"`
	QuestsFailed    int      `json:"questsFailed"`
	XPEarned        int      `json:"xpEarned"`
	GoldEarned      int      `json:"goldEarned"`
	DamagesTaken    int      `json:"damagesTaken"`
	SkillsLeveled   []string `json:"skillsLeveled"`
	ChainsCompleted int      `json:"chainsCompleted"`
}

type WeeklyReport struct {
	Year        int      `json:"year"`
	Week        int      `json:"week"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	TotalQuests int      `json:"totalQuests"`
	SuccessRate int      `json:"successRate"`
	TotalXP     int      `json:"totalXp"`
	TotalGold   int      `json:"totalGold"`
	TopSkills   []string `json:"topSkills"`
	BestDay     string   `json:"bestDay"`
	WorstDay    string   `json:"worstDay"`
}

type BossMilestone struct {
	Level      int       `json:"level"`
	Name       string    `json:"name"`
	Unlocked   bool      `json:"unlocked"`
	Defeated   bool      `json:"defeated"`
	DefeatedAt time.Time `json:"defeatedAt,omitempty"`
	XPReward   int       `json:"xpReward"`
}

type Streak struct {
	Current  int    `json:"current"`
	Longest  int    `json:"longest"`
	LastDate string `json:"lastDate"`
}

// NewState returns the defaults of a fresh save.
func NewState() *PlayerState {
	st := &PlayerState{
		HP:            BaseHP,
		MaxHP:         BaseHP,
		XPReq:         BaseXPReq,
		Level:         1,
		RivalDmg:      BaseRivalDmg,
		RunCount:      1,
		DailyModifier: DefaultModifier(),
	}
	st.Backfill(time.Time{})
	return st
}

// Backfill fills collections and sub-records that older saves lack.
// now stamps skills that were never used.
func (s *PlayerState) Backfill(now time.Time) {
	if s.Level == 0 {
		s.Level = 1
	}
	if s.MaxHP == 0 {
		s.MaxHP = BaseHP + s.Level*HPPerLevel
	}
	if s.XPReq == 0 {
		s.XPReq = BaseXPReq
	}
	if s.RivalDmg == 0 {
		s.RivalDmg = BaseRivalDmg
	}
	if s.RunCount == 0 {
		s.RunCount = 1
	}
	if s.DailyModifier.Name == "" {
		s.DailyModifier = DefaultModifier()
	}
	if s.SkillUsesToday == nil {
		s.SkillUsesToday = map[string]int{}
	}
	if s.Skills == nil {
		s.Skills = []Skill{}
	}
	for i := range s.Skills {
		sk := &s.Skills[i]
		if sk.LastUsed.IsZero() {
			sk.LastUsed = now
		}
		if sk.Connections == nil {
			sk.Connections = []string{}
		}
		if sk.XPReq == 0 {
			sk.XPReq = SkillBaseXPReq
		}
	}
	if s.History == nil {
		s.History = []DayLog{}
	}
	if s.Legacy.Relics == nil {
		s.Legacy.Relics = []Relic{}
	}
	if s.DailyMissions == nil {
		s.DailyMissions = []DailyMission{}
	}
	if s.ResearchQuests == nil {
		s.ResearchQuests = []ResearchQuest{}
	}
	if s.ActiveChains == nil {
		s.ActiveChains = []QuestChain{}
	}
	if s.ChainHistory == nil {
		s.ChainHistory = []ChainRecord{}
	}
	if s.QuestFilters == nil {
		s.QuestFilters = map[string]ContextFilter{}
	}
	if s.FilterState.ActiveEnergy == "" {
		s.FilterState.ActiveEnergy = EnergyAny
	}
	if s.FilterState.ActiveContext == "" {
		s.FilterState.ActiveContext = ContextAny
	}
	if s.FilterState.ActiveTags == nil {
		s.FilterState.ActiveTags = []string{}
	}
	if s.DayMetrics == nil {
		s.DayMetrics = []DayMetrics{}
	}
	if s.WeeklyReports == nil {
		s.WeeklyReports = []WeeklyReport{}
	}
	if s.BossMilestones == nil {
		s.BossMilestones = []BossMilestone{}
	}
	if s.Achievements == nil {
		s.Achievements = map[string]time.Time{}
	}
}

// Skill returns the named skill, or nil.
func (s *PlayerState) Skill(name string) *Skill {
	for i := range s.Skills {
		if s.Skills[i].Name == name {
			return &s.Skills[i]
		}
	}
	return nil
}

// IsLockedDown, IsShielded and IsResting read the timed flags at now.
func (s *PlayerState) IsLockedDown(now time.Time) bool { return s.Lockdown.Active(now) }
func (s *PlayerState) IsShielded(now time.Time) bool   { return s.Shielded.Active(now) }
func (s *PlayerState) IsResting(now time.Time) bool    { return s.RestDay.Active(now) }

// Clone returns a deep copy suitable for handing to readers outside the engine lock.
func (s *PlayerState) Clone() *PlayerState {
	c := *s
	c.SkillUsesToday = cloneMap(s.SkillUsesToday)
	c.Skills = make([]Skill, len(s.Skills))
	for i, sk := range s.Skills {
		sk.Connections = append([]string{}, sk.Connections...)
		c.Skills[i] = sk
	}
	c.History = append([]DayLog{}, s.History...)
	c.Legacy.Relics = append([]Relic{}, s.Legacy.Relics...)
	c.DailyMissions = append([]DailyMission{}, s.DailyMissions...)
	c.ResearchQuests = append([]ResearchQuest{}, s.ResearchQuests...)
	c.ActiveChains = make([]QuestChain, len(s.ActiveChains))
	for i, ch := range s.ActiveChains {
		ch.Quests = append([]string{}, ch.Quests...)
		c.ActiveChains[i] = ch
	}
	c.ChainHistory = append([]ChainRecord{}, s.ChainHistory...)
	c.QuestFilters = make(map[string]ContextFilter, len(s.QuestFilters))
	for k, f := range s.QuestFilters {
		f.Tags = append([]string{}, f.Tags...)
		c.QuestFilters[k] = f
	}
	c.FilterState.ActiveTags = append([]string{}, s.FilterState.ActiveTags...)
	c.DayMetrics = make([]DayMetrics, len(s.DayMetrics))
	for i, m := range s.DayMetrics {
		m.SkillsLeveled = append([]string{}, m.SkillsLeveled...)
		c.DayMetrics[i] = m
	}
	c.WeeklyReports = append([]WeeklyReport{}, s.WeeklyReports...)
	c.BossMilestones = append([]BossMilestone{}, s.BossMilestones...)
	c.Achievements = cloneMap(s.Achievements)
	return &c
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// floorMul multiplies and rounds toward negative infinity.
func floorMul(v int, f float64) int { return int(math.Floor(float64(v) * f)) }

func ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
