package engine

import (
	"sort"
	"strings"
)

// SetQuestFilter tags a quest with energy, context and free-form tags.
func (t *Turn) SetQuestFilter(id string, energy EnergyLevel, ctx QuestContext, tags []string) error {
	if energy == EnergyAny || !energy.Validate() {
		return refuse(RuleInvalidInput, "energy must be high, medium or low")
	}
	if ctx == ContextAny || !ctx.Validate() {
		return refuse(RuleInvalidInput, "context must be home, office or anywhere")
	}
	t.State.QuestFilters[id] = ContextFilter{Energy: energy, Context: ctx, Tags: normalizeTags(tags)}
	return nil
}

// SetFilterState selects the active view filter. Empty values mean "any".
func (t *Turn) SetFilterState(energy EnergyLevel, ctx QuestContext, tags []string) error {
	energy = ternary(energy == "", EnergyAny, energy)
	ctx = ternary(ctx == "", ContextAny, ctx)
	if !energy.Validate() || !ctx.Validate() {
		return refuse(RuleInvalidInput, "unknown filter %q/%q", energy, ctx)
	}
	t.State.FilterState = FilterState{ActiveEnergy: energy, ActiveContext: ctx, ActiveTags: normalizeTags(tags)}
	return nil
}

// ClearFilters resets the active view filter.
func (t *Turn) ClearFilters() {
	t.State.FilterState = FilterState{ActiveEnergy: EnergyAny, ActiveContext: ContextAny, ActiveTags: []string{}}
}

func normalizeTags(tags []string) []string {
	out := []string{}
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && !contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out
}

// FilterQuests keeps the quests matching the active filter state.
// Untagged quests only pass when no filter is active.
func (s *PlayerState) FilterQuests(quests []QuestSummary) []QuestSummary {
	fs := s.FilterState
	if fs.ActiveEnergy == EnergyAny && fs.ActiveContext == ContextAny && len(fs.ActiveTags) == 0 {
		return quests
	}
	out := []QuestSummary{}
	for _, q := range quests {
		f, ok := s.QuestFilters[q.ID]
		if !ok {
			continue
		}
		if fs.ActiveEnergy != EnergyAny && f.Energy != fs.ActiveEnergy {
			continue
		}
		if fs.ActiveContext != ContextAny && f.Context != fs.ActiveContext {
			continue
		}
		if !hasAnyTag(f.Tags, fs.ActiveTags) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func hasAnyTag(have, want []string) bool {
	if len(want) == 0 {
		return true
	}
	for _, w := range want {
		if contains(have, w) {
			return true
		}
	}
	return false
}

// QuestsByEnergy, QuestsByContext and QuestsByTags return tagged quest ids.
func (s *PlayerState) QuestsByEnergy(e EnergyLevel) []string {
	return s.questIDsWhere(func(f ContextFilter) bool { return f.Energy == e })
}

func (s *PlayerState) QuestsByContext(c QuestContext) []string {
	return s.questIDsWhere(func(f ContextFilter) bool { return f.Context == c })
}

func (s *PlayerState) QuestsByTags(tags []string) []string {
	want := normalizeTags(tags)
	return s.questIDsWhere(func(f ContextFilter) bool { return hasAnyTag(f.Tags, want) })
}

func (s *PlayerState) questIDsWhere(keep func(ContextFilter) bool) []string {
	out := []string{}
	for id, f := range s.QuestFilters {
		if keep(f) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// AvailableTags lists every tag in use, sorted.
func (s *PlayerState) AvailableTags() []string {
	out := []string{}
	for _, f := range s.QuestFilters {
		for _, tag := range f.Tags {
			if !contains(out, tag) {
				out = append(out, tag)
			}
		}
	}
	sort.Strings(out)
	return out
}
