package engine

import "time"

// Tuning constants.
const (
	DefaultQuestXP      = 20
	MaxDifficulty       = 5
	BossReward          = 1000
	HighStakesGoldMult  = 1.5
	FreeDeletionsPerDay = 3
	DeletionCost        = 10
	SkillBaseXPReq      = 5
	MaxRust             = 10
	RustAfterDays       = 3
	RotPerDay           = 10
	LoginHeal           = 20
	LowHPThreshold      = 30
	LockdownDamage      = 50
	LockdownDuration    = 6 * time.Hour
	MeditationCooldown  = 30 * time.Second
	MeditationTarget    = 10
	MeditationRelief    = 5 * time.Hour
	ChainCompletionXP   = 100
	ChainStepXP         = 10
	ResearchRatioFloor  = 2
	FastCompleteWindow  = 2 * time.Hour
	MorningCutoffHour   = 10
	NeutralChaosChance  = 0.4
	SabotageGoldFloor   = 10
	SabotageGoldMult    = 0.9
	DeathGoldDecay      = 0.9
	MissionsPerDay      = 3
	AdrenalineHPDrain   = 5
	DebtGoldThreshold   = -100
	ResearchMinFraction = 0.8
	ResearchOverageFree = 25
	ResearchPenaltyGold = 20
)

// Notification durations.
const (
	noticeShort = 3 * time.Second
	noticeLong  = 6 * time.Second
)

// RewardTier is one difficulty row of the reward table.
type RewardTier struct {
	Difficulty int
	Label      string
	XPFraction float64
	Gold       int
}

var rewardTiers = []RewardTier{
	{1, "Trivial", 0.05, 10},
	{2, "Easy", 0.10, 20},
	{3, "Medium", 0.20, 40},
	{4, "Hard", 0.40, 80},
	{5, "SUICIDE", 0.60, 150},
}

// BossLabel marks boss quests in metadata.
const BossLabel = "☠️ BOSS"

// TierFor returns the reward row for a difficulty 1..5.
func TierFor(difficulty int) (RewardTier, bool) {
	if difficulty < 1 || difficulty > len(rewardTiers) {
		return RewardTier{}, false
	}
	return rewardTiers[difficulty-1], true
}

// DifficultyNumber maps a stored label back to its difficulty; unknown labels map to 0.
func DifficultyNumber(label string) int {
	for _, t := range rewardTiers {
		if t.Label == label {
			return t.Difficulty
		}
	}
	return 0
}

// ChaosTable is ordered with the neutral entry first.
var ChaosTable = []ChaosModifier{
	{Name: "Clear Skies", Desc: "Normal.", XPMult: 1, GoldMult: 1, PriceMult: 1, Icon: "☀️"},
	{Name: "Flow State", Desc: "+50% XP.", XPMult: 1.5, GoldMult: 1, PriceMult: 1, Icon: "🌊"},
	{Name: "Windfall", Desc: "+50% Gold.", XPMult: 1, GoldMult: 1.5, PriceMult: 1, Icon: "💰"},
	{Name: "Inflation", Desc: "Prices 2x.", XPMult: 1, GoldMult: 1, PriceMult: 2, Icon: "📈"},
	{Name: "Brain Fog", Desc: "XP 0.5x.", XPMult: 0.5, GoldMult: 1, PriceMult: 1, Icon: "🌫️"},
	{Name: "Rival Sabotage", Desc: "Gold 0.5x.", XPMult: 1, GoldMult: 0.5, PriceMult: 1, Icon: "🕵️"},
	{Name: "Adrenaline", Desc: "2x XP, -5 HP/Q.", XPMult: 2, GoldMult: 1, PriceMult: 1, Icon: "💉", HPDrain: AdrenalineHPDrain},
}

const sabotageName = "Rival Sabotage"

// DefaultModifier is the neutral chaos entry.
func DefaultModifier() ChaosModifier { return ChaosTable[0] }

// MissionPool holds the daily mission templates.
var MissionPool = []DailyMission{
	{ID: "morning_win", Name: "☀️ Morning Win", Desc: "Complete 1 Trivial quest before 10 AM", Target: 1, Reward: Reward{Gold: 15}, Check: CheckMorningTrivial},
	{ID: "momentum", Name: "🔥 Momentum", Desc: "Complete 3 quests today", Target: 3, Reward: Reward{XP: 20}, Check: CheckQuestCount},
	{ID: "specialist", Name: "🎯 Specialist", Desc: "Use the same skill 3 times", Target: 3, Reward: Reward{XP: 15}, Check: CheckSkillRepeat},
	{ID: "high_stakes", Name: "💪 High Stakes", Desc: "Complete 1 High Stakes quest", Target: 1, Reward: Reward{Gold: 30}, Check: CheckHighStakes},
	{ID: "speed_demon", Name: "⚡ Speed Demon", Desc: "Complete quest within 2h of creation", Target: 1, Reward: Reward{XP: 25}, Check: CheckFastComplete},
	{ID: "synergist", Name: "🔗 Synergist", Desc: "Complete quest with Primary + Secondary skill", Target: 1, Reward: Reward{Gold: 10}, Check: CheckSynergy},
	{ID: "survivor", Name: "🛡️ Survivor", Desc: "Don't take any damage today", Target: 1, Reward: Reward{Gold: 20}, Check: CheckNoDamage},
	{ID: "risk_taker", Name: "🎲 Risk Taker", Desc: "Complete Difficulty 4+ quest", Target: 1, Reward: Reward{XP: 15}, Check: CheckHardQuest},
}

// BossLadder is the level-gated boss progression.
var BossLadder = []BossMilestone{
	{Level: 10, Name: "The First Trial", XPReward: 500},
	{Level: 20, Name: "The Nemesis Returns", XPReward: 1000},
	{Level: 30, Name: "The Reaper Awakens", XPReward: 1500},
	{Level: 50, Name: "The Final Ascension", XPReward: 5000},
}

// FinalBossLevel ends the game when defeated.
const FinalBossLevel = 50

// ShopItem is a purchasable effect.
type ShopItem struct {
	ID   string
	Name string
	Cost int
	Desc string
}

const (
	ItemStimpack = "stimpack"
	ItemSabotage = "sabotage"
	ItemShield   = "shield"
	ItemRestDay  = "rest_day"
)

var Shop = []ShopItem{
	{ID: ItemStimpack, Name: "💉 Stimpack", Cost: 50, Desc: "Heal 20 HP"},
	{ID: ItemSabotage, Name: "💣 Sabotage", Cost: 200, Desc: "Rival damage -5"},
	{ID: ItemShield, Name: "🛡️ Shield", Cost: 150, Desc: "24h failure protection"},
	{ID: ItemRestDay, Name: "😴 Rest Day", Cost: 100, Desc: "24h, no rust or missed deadlines"},
}

const (
	StimpackHeal     = 20
	SabotageAmount   = 5
	MinRivalDmg      = 5
	ProtectionWindow = 24 * time.Hour
)

// AchievementDef describes an unlockable badge.
type AchievementDef struct {
	ID          string
	Name        string
	Description string
	Rarity      Rarity
}

var Achievements = []AchievementDef{
	{"first_blood", "First Blood", "Complete your first quest.", RarityCommon},
	{"week_warrior", "Week Warrior", "Maintain a 7-day streak.", RarityCommon},
	{"warm_up", "Warm Up", "Complete 10 total quests.", RarityCommon},
	{"night_owl", "Night Owl", "Complete a quest after 10 PM.", RarityCommon},
	{"early_bird", "Early Bird", "Complete a quest before 7 AM.", RarityCommon},
	{"triple_threat", "Triple Threat", "Complete 3 quests in a single day.", RarityCommon},
	{"skill_adept", "Apprentice", "Reach Level 5 in any skill.", RarityRare},
	{"chain_gang", "Chain Gang", "Complete a Quest Chain.", RarityRare},
	{"researcher", "Scholar", "Complete 5 Research Quests.", RarityRare},
	{"rich", "Capitalist", "Hold 500 gold at once.", RarityRare},
	{"speed_demon", "Speed Demon", "Complete 5+ quests in one day.", RarityRare},
	{"perfectionist", "Perfectionist", "7 consecutive days with 0 failures.", RarityRare},
	{"iron_streak", "Iron Streak", "Maintain a 14-day streak.", RarityRare},
	{"boss_slayer", "Giant Slayer", "Defeat your first Boss.", RarityEpic},
	{"skill_master", "Skill Master", "Reach Level 10 in any skill.", RarityEpic},
	{"century", "Centurion", "Complete 100 total quests.", RarityEpic},
	{"phoenix", "Phoenix", "Die and reach Level 10 again.", RarityEpic},
	{"research_professor", "Professor", "Complete 20 Research Quests.", RarityEpic},
	{"gold_hoarder", "Gold Hoarder", "Hold 2000 gold at once.", RarityEpic},
	{"ascended", "Sisyphus Happy", "Reach Level 50.", RarityLegendary},
	{"immortal", "Immortal", "Reach Level 20 with 0 Deaths.", RarityLegendary},
	{"completionist", "Completionist", "Unlock all other achievements.", RarityLegendary},
	{"marathon", "Marathon", "Maintain a 30-day streak.", RarityLegendary},
	{"grand_master", "Grand Master", "Have 5 skills at Level 10+.", RarityLegendary},
}

// Taunt lines keyed by trigger. One roll in five stays silent.
var taunts = map[string][]string{
	"fail":     {"Focus.", "Again.", "Stay sharp."},
	"shield":   {"Smart move.", "Bought some time."},
	"low_hp":   {"Critical condition.", "Survive."},
	"level_up": {"Stronger.", "Scaling up."},
	"lockdown": {"Overheated. Cooling down.", "Forced rest."},
}

const tauntSilence = 0.2
