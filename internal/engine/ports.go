package engine

import (
	"context"
	"time"
)

// StateStore persists the player document.
// LoadState returns (nil, nil) when nothing has been saved yet.
type StateStore interface {
	LoadState(ctx context.Context) (*PlayerState, error)
	SaveState(ctx context.Context, st *PlayerState) error
}

// QuestMeta is the metadata block stored on each quest record.
type QuestMeta struct {
	Type           string      `yaml:"type" json:"type"`
	Status         QuestStatus `yaml:"status" json:"status"`
	Difficulty     string      `yaml:"difficulty" json:"difficulty"`
	Priority       string      `yaml:"priority" json:"priority"`
	XPReward       int         `yaml:"xp_reward" json:"xp_reward"`
	GoldReward     int         `yaml:"gold_reward" json:"gold_reward"`
	Skill          string      `yaml:"skill" json:"skill"`
	SecondarySkill string      `yaml:"secondary_skill" json:"secondary_skill"`
	HighStakes     bool        `yaml:"high_stakes" json:"high_stakes"`
	IsBoss         bool        `yaml:"is_boss" json:"is_boss"`
	Created        time.Time   `yaml:"created" json:"created"`
	Deadline       string      `yaml:"deadline" json:"deadline"`
	CompletedAt    string      `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// DeadlineTime parses Deadline. ok is false when it is empty or malformed.
func (m QuestMeta) DeadlineTime() (time.Time, bool) {
	if m.Deadline == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02 15:04", DayLayout} {
		if t, err := time.ParseInLocation(layout, m.Deadline, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// QuestSummary is an active record as listed by the record store.
type QuestSummary struct {
	ID   string
	Meta QuestMeta
}

// ChronicleEntry is appended to the run chronicle on death.
type ChronicleEntry struct {
	Run   int
	Date  string
	Level int
	Souls int
	Scars int
}

// QuestRecords stores one record per quest.
type QuestRecords interface {
	Create(ctx context.Context, id string, meta QuestMeta) error
	Exists(ctx context.Context, id string) (bool, error)
	Metadata(ctx context.Context, id string) (QuestMeta, error)
	// Archive rewrites meta and moves the record to loc.
	Archive(ctx context.Context, id string, loc Location, meta QuestMeta) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]QuestSummary, error)
	// ArchiveRun moves every active record into a run folder named runName and returns its path.
	ArchiveRun(ctx context.Context, runName string) (string, error)
	AppendChronicle(ctx context.Context, entry ChronicleEntry) error
}

// Feedback receives user-facing notices and sound cues.
type Feedback interface {
	Notify(msg string, d time.Duration)
	PlaySound(s Sound)
}

// Snapshotter captures the final state of a run. Optional.
type Snapshotter interface {
	SnapshotRun(ctx context.Context, dir string, st *PlayerState) error
}
