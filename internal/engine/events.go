package engine

import (
	"fmt"
	"time"
)

// EventKind classifies what a transition produced for the player.
type EventKind string

const (
	EventNotice      EventKind = "notice"
	EventRefusal     EventKind = "refusal"
	EventSound       EventKind = "sound"
	EventTaunt       EventKind = "taunt"
	EventChaos       EventKind = "chaos"
	EventLevelUp     EventKind = "level_up"
	EventSkillUp     EventKind = "skill_up"
	EventMission     EventKind = "mission"
	EventAchievement EventKind = "achievement"
	EventBoss        EventKind = "boss"
	EventChain       EventKind = "chain"
	EventLockdown    EventKind = "lockdown"
	EventDeath       EventKind = "death"
)

// Event is one piece of feedback produced by a transition.
type Event struct {
	Kind     EventKind
	Message  string
	Sound    Sound
	Duration time.Duration
}

// DeathReport carries what the host must persist after a run ends.
type DeathReport struct {
	Chronicle ChronicleEntry
	RunName   string
	Final     *PlayerState
}

// Turn carries one operation's inputs and collects its effects.
// Transitions mutate State in place; refusals return before any mutation.
type Turn struct {
	State  *PlayerState
	Now    time.Time
	Dice   DiceSource
	Events []Event
	Death  *DeathReport

	completed bool
}

// NewTurn starts a transition on st at now.
func NewTurn(st *PlayerState, now time.Time, dice DiceSource) *Turn {
	return &Turn{State: st, Now: now, Dice: dice}
}

func (t *Turn) emit(kind EventKind, d time.Duration, format string, args ...any) {
	t.Events = append(t.Events, Event{Kind: kind, Message: fmt.Sprintf(format, args...), Duration: d})
}

func (t *Turn) notice(format string, args ...any) { t.emit(EventNotice, noticeShort, format, args...) }

func (t *Turn) sound(s Sound) { t.Events = append(t.Events, Event{Kind: EventSound, Sound: s}) }

// roll draws a fresh deterministic Dice for purpose. Each draw advances the persisted roll counter.
func (t *Turn) roll(purpose string) Dice {
	t.State.Rolls++
	return t.Dice.Roll(fmt.Sprintf("%s:%s:%d", purpose, DayKey(t.Now), t.State.Rolls))
}

// taunt emits a rival line for trigger, staying silent one time in five.
func (t *Turn) taunt(trigger string) {
	lines := taunts[trigger]
	if len(lines) == 0 {
		return
	}
	d := t.roll("taunt")
	if d.Float64() < tauntSilence {
		return
	}
	t.emit(EventTaunt, noticeLong, "SYSTEM: %q", lines[d.Intn(len(lines))])
}

// Has reports whether any event of kind was produced.
func (t *Turn) Has(kind EventKind) bool {
	for _, e := range t.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// Dispatch forwards events to fb in order.
func Dispatch(fb Feedback, events []Event) {
	if fb == nil {
		return
	}
	for _, e := range events {
		if e.Kind == EventSound {
			fb.PlaySound(e.Sound)
			continue
		}
		if e.Message != "" {
			fb.Notify(e.Message, e.Duration)
		}
	}
}
