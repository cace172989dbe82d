package engine

import (
	"math"
	"strings"
)

// Price applies the day's price multiplier to a base cost.
func Price(base int, mult float64) int {
	return int(math.Ceil(float64(base) * mult))
}

// Buy purchases a shop item.
func (t *Turn) Buy(itemID string) error {
	st := t.State
	var item *ShopItem
	for i := range Shop {
		if Shop[i].ID == itemID {
			item = &Shop[i]
		}
	}
	if item == nil {
		return refuse(RuleNotFound, "Unknown item %q.", itemID)
	}
	cost := Price(item.Cost, st.DailyModifier.PriceMult)
	if st.Gold < cost {
		return refuse(RuleInsufficientGold, "Insufficient gold. %s costs %dg.", item.Name, cost)
	}
	st.Gold -= cost
	switch item.ID {
	case ItemStimpack:
		st.HP = min(st.MaxHP, st.HP+StimpackHeal)
	case ItemSabotage:
		st.RivalDmg = max(MinRivalDmg, st.RivalDmg-SabotageAmount)
	case ItemShield:
		st.Shielded.Set(t.Now.Add(ProtectionWindow))
		t.taunt("shield")
	case ItemRestDay:
		st.RestDay.Set(t.Now.Add(ProtectionWindow))
	}
	t.notice("Bought %s (-%dg)", item.Name, cost)
	t.evaluateAchievements()
	return nil
}

// AddSkill creates a new skill at level 1.
func (t *Turn) AddSkill(name string) error {
	st := t.State
	name = strings.TrimSpace(name)
	if name == "" || name == NoSkill {
		return refuse(RuleInvalidInput, "skill name is empty")
	}
	if st.Skill(name) != nil {
		return refuse(RuleDuplicate, "Skill %q exists.", name)
	}
	st.Skills = append(st.Skills, Skill{
		Name:        name,
		Level:       1,
		XPReq:       SkillBaseXPReq,
		LastUsed:    t.Now,
		Connections: []string{},
	})
	t.notice("🧠 New skill: %s", name)
	return nil
}

// PolishSkill clears rust by hand.
func (t *Turn) PolishSkill(name string) error {
	sk := t.State.Skill(name)
	if sk == nil {
		return refuse(RuleNotFound, "No skill named %q.", name)
	}
	if sk.Rust == 0 {
		return refuse(RuleAlreadyDone, "%s has no rust.", name)
	}
	sk.Rust = 0
	sk.XPReq = int(float64(sk.XPReq) / 1.1)
	sk.LastUsed = t.Now
	t.notice("✨ %s polished.", name)
	return nil
}
