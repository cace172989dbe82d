package engine

import (
	"context"
	"fmt"
	"sort"
	"time"
)

type memStore struct {
	st      *PlayerState
	saves   int
	saveErr error
}

func (m *memStore) LoadState(ctx context.Context) (*PlayerState, error) {
	if m.st == nil {
		return nil, nil
	}
	return m.st.Clone(), nil
}

func (m *memStore) SaveState(ctx context.Context, st *PlayerState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.st = st.Clone()
	m.saves++
	return nil
}

type memRecord struct {
	meta QuestMeta
	loc  Location
}

type memRecords struct {
	quests     map[string]*memRecord
	runs       []string
	chronicles []ChronicleEntry
}

func newMemRecords() *memRecords { return &memRecords{quests: map[string]*memRecord{}} }

func (m *memRecords) Create(ctx context.Context, id string, meta QuestMeta) error {
	m.quests[id] = &memRecord{meta: meta, loc: LocationActive}
	return nil
}

func (m *memRecords) Exists(ctx context.Context, id string) (bool, error) {
	r, ok := m.quests[id]
	return ok && r.loc == LocationActive, nil
}

func (m *memRecords) Metadata(ctx context.Context, id string) (QuestMeta, error) {
	r, ok := m.quests[id]
	if !ok {
		return QuestMeta{}, fmt.Errorf("no quest %s", id)
	}
	return r.meta, nil
}

func (m *memRecords) Archive(ctx context.Context, id string, loc Location, meta QuestMeta) error {
	r, ok := m.quests[id]
	if !ok {
		return fmt.Errorf("no quest %s", id)
	}
	r.meta, r.loc = meta, loc
	return nil
}

func (m *memRecords) Delete(ctx context.Context, id string) error {
	delete(m.quests, id)
	return nil
}

func (m *memRecords) ListActive(ctx context.Context) ([]QuestSummary, error) {
	out := []QuestSummary{}
	for id, r := range m.quests {
		if r.loc == LocationActive {
			out = append(out, QuestSummary{ID: id, Meta: r.meta})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRecords) ArchiveRun(ctx context.Context, runName string) (string, error) {
	for _, r := range m.quests {
		if r.loc == LocationActive {
			r.loc = LocationGraveyard
		}
	}
	m.runs = append(m.runs, runName)
	return "Graveyard/" + runName, nil
}

func (m *memRecords) AppendChronicle(ctx context.Context, entry ChronicleEntry) error {
	m.chronicles = append(m.chronicles, entry)
	return nil
}

type recFeedback struct {
	notes  []string
	sounds []Sound
}

func (r *recFeedback) Notify(msg string, d time.Duration) { r.notes = append(r.notes, msg) }
func (r *recFeedback) PlaySound(s Sound)                  { r.sounds = append(r.sounds, s) }

// fixedDice always returns the same values, so tests pick outcomes directly.
type fixedDice struct {
	f float64
	n int
}

func (d fixedDice) Float64() float64 { return d.f }
func (d fixedDice) Intn(n int) int {
	if d.n >= n {
		return n - 1
	}
	return d.n
}
func (d fixedDice) Roll(label string) Dice { return d }

// quiet keeps taunts silent and chaos neutral.
var quiet = fixedDice{f: 0.1, n: 0}

var testNoon = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTurn(st *PlayerState, now time.Time) *Turn {
	return NewTurn(st, now, quiet)
}

func newTestEngine(st *PlayerState, now time.Time) (*Engine, *memStore, *memRecords, *recFeedback, *FixedClock) {
	store := &memStore{st: st}
	recs := newMemRecords()
	fb := &recFeedback{}
	clock := &FixedClock{T: now}
	e, err := New(context.Background(), store, recs, WithClock(clock), WithDice(quiet), WithFeedback(fb))
	if err != nil {
		panic(err)
	}
	return e, store, recs, fb, clock
}
