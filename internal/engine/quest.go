package engine

import (
	"regexp"
	"strings"
	"time"
)

// QuestSpec is the input for creating a quest.
type QuestSpec struct {
	Name           string
	Difficulty     int
	Skill          string
	SecondarySkill string
	Deadline       string
	HighStakes     bool
	Priority       string
	IsBoss         bool
}

var unsafeIDChars = regexp.MustCompile(`(?i)[^a-z0-9]`)

// QuestID derives the record id from a quest name.
func QuestID(name string) string {
	return strings.ToLower(unsafeIDChars.ReplaceAllString(name, "_"))
}

// QuestRewards returns xp, gold and the difficulty label for a new quest.
func QuestRewards(xpReq, difficulty int, highStakes, boss bool) (xp, gold int, label string) {
	if boss {
		return BossReward, BossReward, BossLabel
	}
	tier, _ := TierFor(difficulty)
	xp = floorMul(xpReq, tier.XPFraction)
	gold = tier.Gold
	if highStakes {
		gold = floorMul(gold, HighStakesGoldMult)
	}
	return xp, gold, tier.Label
}

// PlanQuest validates spec and builds the record metadata. Existence of the
// id is checked by the caller against the record store.
func (t *Turn) PlanQuest(spec QuestSpec) (string, QuestMeta, error) {
	st := t.State
	if st.IsLockedDown(t.Now) {
		return "", QuestMeta{}, refuse(RuleLockdown, "⛔ LOCKDOWN ACTIVE")
	}
	if spec.HighStakes && st.IsResting(t.Now) {
		return "", QuestMeta{}, refuse(RuleResting, "Cannot deploy High Stakes on Rest Day.")
	}
	if strings.TrimSpace(spec.Name) == "" {
		return "", QuestMeta{}, refuse(RuleInvalidInput, "quest name is empty")
	}
	if _, ok := TierFor(spec.Difficulty); !ok && !spec.IsBoss {
		return "", QuestMeta{}, refuse(RuleInvalidInput, "difficulty must be 1-%d", MaxDifficulty)
	}
	xp, gold, label := QuestRewards(st.XPReq, spec.Difficulty, spec.HighStakes, spec.IsBoss)
	meta := QuestMeta{
		Type:           "quest",
		Status:         StatusActive,
		Difficulty:     label,
		Priority:       ternary(spec.Priority == "", "Normal", spec.Priority),
		XPReward:       xp,
		GoldReward:     gold,
		Skill:          ternary(spec.Skill == "", NoSkill, spec.Skill),
		SecondarySkill: ternary(spec.SecondarySkill == "", NoSkill, spec.SecondarySkill),
		HighStakes:     spec.HighStakes,
		IsBoss:         spec.IsBoss,
		Created:        t.Now,
		Deadline:       spec.Deadline,
	}
	return QuestID(spec.Name), meta, nil
}

// CompleteQuest applies the rewards of quest id. meta is the record's metadata.
func (t *Turn) CompleteQuest(id string, meta QuestMeta) error {
	st := t.State
	if st.IsLockedDown(t.Now) {
		return refuse(RuleLockdown, "⛔ LOCKDOWN ACTIVE")
	}
	if t.questInChain(id) && !t.canStartQuest(id) {
		return refuse(RuleChainOrder, "Quest locked in chain. Complete the active quest first.")
	}

	base := meta.XPReward
	if base == 0 {
		base = DefaultQuestXP
	}
	xp := int(float64(base) * st.DailyModifier.XPMult)
	gold := int(float64(meta.GoldReward) * st.DailyModifier.GoldMult)
	t.sound(SoundSuccess)

	if sk := st.Skill(meta.Skill); sk != nil {
		if sk.Rust > 0 {
			sk.Rust = 0
			sk.XPReq = int(float64(sk.XPReq) / 1.2)
			t.notice("✨ %s: Rust Cleared!", sk.Name)
		}
		sk.LastUsed = t.Now
		t.skillXP(sk, 1)
		if isRealSkill(meta.SecondarySkill) && meta.SecondarySkill != sk.Name {
			if sec := st.Skill(meta.SecondarySkill); sec != nil {
				if t.connect(sk, sec) {
					t.notice("🔗 Neural Link Established")
				}
				xp += int(float64(sec.Level) * 0.5)
				t.skillXP(sec, 0.5)
			}
		}
	}

	if drain := st.DailyModifier.HPDrain; drain > 0 {
		st.HP -= drain
	}
	st.Gold += gold
	t.gainXP(xp)

	t.completed = true
	st.QuestsCompletedToday++
	st.ResearchStats.TotalCombat++
	st.ResearchStats.CombatCompleted++
	m := t.metrics()
	m.QuestsCompleted++
	m.XPEarned += xp
	m.GoldEarned += gold

	t.missionEvent(missionEvent{
		kind:       missionComplete,
		difficulty: DifficultyNumber(meta.Difficulty),
		skill:      meta.Skill,
		secondary:  meta.SecondarySkill,
		highStakes: meta.HighStakes,
		created:    meta.Created,
	})
	t.advanceChain(id)
	t.CheckBossMilestones()
	t.evaluateAchievements()
	t.checkDeath()
	return nil
}

// connect links two skills both ways. It reports whether a new link was made.
func (t *Turn) connect(a, b *Skill) bool {
	if contains(a.Connections, b.Name) {
		return false
	}
	a.Connections = append(a.Connections, b.Name)
	if !contains(b.Connections, a.Name) {
		b.Connections = append(b.Connections, a.Name)
	}
	return true
}

// FailQuest applies the penalty for a failed quest. It reports whether the
// record should be moved to the graveyard; a forgiven failure keeps it active.
func (t *Turn) FailQuest(id string, manual bool) bool {
	st := t.State
	if st.IsResting(t.Now) && !manual {
		t.notice("😴 Rest Day active. No damage.")
		return false
	}
	m := t.metrics()
	m.QuestsFailed++
	if st.IsShielded(t.Now) && !manual {
		t.notice("🛡️ SHIELDED!")
		t.taunt("shield")
		return true
	}
	dmg := 10 + st.RivalDmg/2
	if st.Gold < DebtGoldThreshold {
		dmg *= 2
	}
	t.damage(dmg)
	if !manual {
		st.RivalDmg++
	}
	t.sound(SoundFail)
	t.emit(EventNotice, noticeShort, "💀 %s failed: -%d HP", id, dmg)
	t.taunt("fail")
	if st.DamageTakenToday > LockdownDamage {
		st.Lockdown.Set(t.Now.Add(LockdownDuration))
		st.MeditationClicksThisLockdown = 0
		t.emit(EventLockdown, noticeLong, "⛔ LOCKDOWN: %s of forced rest", LockdownDuration)
		t.taunt("lockdown")
		t.sound(SoundDeath)
	}
	if st.HP <= LowHPThreshold {
		t.sound(SoundHeartbeat)
		t.taunt("low_hp")
	}
	t.checkDeath()
	return true
}

// DeletionQuota is the state of today's free deletions.
type DeletionQuota struct {
	Free      int
	Paid      int
	Remaining int
}

func (t *Turn) resetDeletions() {
	st := t.State
	today := DayKey(t.Now)
	if st.LastDeletionReset != today {
		st.LastDeletionReset = today
		st.QuestDeletionsToday = 0
	}
}

// Quota reports free and paid deletions for today without mutating state.
func Quota(st *PlayerState, now time.Time) DeletionQuota {
	used := st.QuestDeletionsToday
	if st.LastDeletionReset != DayKey(now) {
		used = 0
	}
	free := min(used, FreeDeletionsPerDay)
	return DeletionQuota{Free: free, Paid: used - free, Remaining: FreeDeletionsPerDay - free}
}

// ChargeDeletion consumes a deletion, charging gold once the free ones are used.
func (t *Turn) ChargeDeletion() error {
	st := t.State
	t.resetDeletions()
	cost := 0
	if st.QuestDeletionsToday >= FreeDeletionsPerDay {
		cost = DeletionCost
	}
	if st.Gold < cost {
		return refuse(RuleInsufficientGold, "Insufficient gold. Need %dg to delete.", cost)
	}
	st.QuestDeletionsToday++
	st.Gold -= cost
	if cost > 0 {
		t.notice("Quest deleted. (-%dg)", cost)
	} else {
		t.notice("Quest deleted. (%d free deletions left)", FreeDeletionsPerDay-st.QuestDeletionsToday)
	}
	return nil
}

// ForgetQuest drops per-quest bookkeeping held in state.
func (t *Turn) ForgetQuest(id string) {
	delete(t.State.QuestFilters, id)
}

var quickDifficulty = regexp.MustCompile(`/([1-5])`)

// ParseQuickInput turns "write report /4" into a quest spec due in 24 hours.
// Difficulty defaults to 3.
func ParseQuickInput(text string, now time.Time) QuestSpec {
	diff := 3
	clean := text
	if m := quickDifficulty.FindStringSubmatchIndex(text); m != nil {
		diff = int(text[m[2]] - '0')
		clean = strings.TrimSpace(text[:m[0]] + text[m[1]:])
	}
	return QuestSpec{
		Name:           strings.TrimSpace(clean),
		Difficulty:     diff,
		Skill:          NoSkill,
		SecondarySkill: NoSkill,
		Deadline:       now.Add(24 * time.Hour).Format(time.RFC3339),
		Priority:       "Normal",
	}
}
