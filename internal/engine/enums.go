package engine

// String backed enums so persisted documents stay readable.

type DayStatus string
type MissionCheck string
type ResearchType string
type EnergyLevel string
type QuestContext string
type Sound string
type Rarity string
type QuestStatus string
type Location string

const (
	DaySuccess DayStatus = "success"
	DaySkip    DayStatus = "skip"
	DayRot     DayStatus = "rot"
)

var AllDayStatuses = []DayStatus{DaySuccess, DaySkip, DayRot}

const (
	CheckMorningTrivial MissionCheck = "morning_trivial"
	CheckQuestCount     MissionCheck = "quest_count"
	CheckHighStakes     MissionCheck = "high_stakes"
	CheckFastComplete   MissionCheck = "fast_complete"
	CheckSynergy        MissionCheck = "synergy"
	CheckNoDamage       MissionCheck = "no_damage"
	CheckSkillRepeat    MissionCheck = "skill_repeat"
	CheckHardQuest      MissionCheck = "hard_quest"
)

var AllMissionChecks = []MissionCheck{CheckMorningTrivial, CheckQuestCount, CheckHighStakes, CheckFastComplete, CheckSynergy, CheckNoDamage, CheckSkillRepeat, CheckHardQuest}

const (
	ResearchSurvey   ResearchType = "survey"
	ResearchDeepDive ResearchType = "deep_dive"
)

var AllResearchTypes = []ResearchType{ResearchSurvey, ResearchDeepDive}

const (
	EnergyAny    EnergyLevel = "any"
	EnergyHigh   EnergyLevel = "high"
	EnergyMedium EnergyLevel = "medium"
	EnergyLow    EnergyLevel = "low"
)

var AllEnergyLevels = []EnergyLevel{EnergyAny, EnergyHigh, EnergyMedium, EnergyLow}

const (
	ContextAny      QuestContext = "any"
	ContextHome     QuestContext = "home"
	ContextOffice   QuestContext = "office"
	ContextAnywhere QuestContext = "anywhere"
)

var AllQuestContexts = []QuestContext{ContextAny, ContextHome, ContextOffice, ContextAnywhere}

const (
	SoundSuccess   Sound = "success"
	SoundFail      Sound = "fail"
	SoundDeath     Sound = "death"
	SoundHeartbeat Sound = "heartbeat"
	SoundMeditate  Sound = "meditate"
)

var AllSounds = []Sound{SoundSuccess, SoundFail, SoundDeath, SoundHeartbeat, SoundMeditate}

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var AllRarities = []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

const (
	StatusActive    QuestStatus = "active"
	StatusCompleted QuestStatus = "completed"
	StatusFailed    QuestStatus = "failed"
)

var AllQuestStatuses = []QuestStatus{StatusActive, StatusCompleted, StatusFailed}

// Record locations a quest file can be moved to.
const (
	LocationActive    Location = "active"
	LocationArchive   Location = "archive"
	LocationGraveyard Location = "graveyard"
)

var AllLocations = []Location{LocationActive, LocationArchive, LocationGraveyard}

// Generic helpers
func contains[T ~string](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (d DayStatus) Validate() bool    { return contains(AllDayStatuses, d) }
func (m MissionCheck) Validate() bool { return contains(AllMissionChecks, m) }
func (r ResearchType) Validate() bool { return contains(AllResearchTypes, r) }
func (e EnergyLevel) Validate() bool  { return contains(AllEnergyLevels, e) }
func (c QuestContext) Validate() bool { return contains(AllQuestContexts, c) }
func (s Sound) Validate() bool        { return contains(AllSounds, s) }
func (r Rarity) Validate() bool       { return contains(AllRarities, r) }
func (s QuestStatus) Validate() bool  { return contains(AllQuestStatuses, s) }
func (l Location) Validate() bool     { return contains(AllLocations, l) }

// WordLimit is the target length of a research write-up.
func (r ResearchType) WordLimit() int {
	if r == ResearchDeepDive {
		return 400
	}
	return 200
}

// List helpers
func ListMissionChecks() []MissionCheck { return append([]MissionCheck{}, AllMissionChecks...) }
func ListResearchTypes() []ResearchType { return append([]ResearchType{}, AllResearchTypes...) }
func ListEnergyLevels() []EnergyLevel   { return append([]EnergyLevel{}, AllEnergyLevels...) }
func ListQuestContexts() []QuestContext { return append([]QuestContext{}, AllQuestContexts...) }
func ListRarities() []Rarity            { return append([]Rarity{}, AllRarities...) }
