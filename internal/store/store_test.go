package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DaanHessen/sisyphus/internal/engine"
)

func sampleState() *engine.PlayerState {
	st := engine.NewState()
	st.Level = 4
	st.Gold = 120
	st.Seed = "abcdefghijklmnopqrstuvwx"
	st.Skills = []engine.Skill{{Name: "Code", Level: 3, XPReq: 6, Connections: []string{"Write"}}}
	st.Lockdown.Set(time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC))
	st.Achievements["first_blood"] = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return st
}

func openTemp(t *testing.T, save string) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "save.db"), save)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteLoadEmpty(t *testing.T) {
	s := openTemp(t, "default")
	st, err := s.LoadState(context.Background())
	if err != nil || st != nil {
		t.Fatalf("empty save: st=%v err=%v", st, err)
	}
}

func TestSQLiteSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, "default")
	want := sampleState()
	if err := s.SaveState(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	want.Gold = 130
	if err := s.SaveState(ctx, want); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := s.LoadState(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Gold != 130 || got.Level != 4 || got.Seed != want.Seed {
		t.Fatalf("loaded: gold=%d level=%d seed=%s", got.Gold, got.Level, got.Seed)
	}
	if !got.Lockdown.Until.Equal(want.Lockdown.Until) {
		t.Fatalf("lockdown: %v", got.Lockdown.Until)
	}
	if sk := got.Skill("Code"); sk == nil || sk.Connections[0] != "Write" {
		t.Fatalf("skills: %+v", got.Skills)
	}
}

func TestSQLiteLoadPartialDocument(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, "default")
	_, err := s.db.ExecContext(ctx, `INSERT INTO player_states(save_name, doc, updated_at) VALUES (?,?,?)`,
		"default", `{"level":3,"gold":12}`, time.Now().UTC())
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	st, err := s.LoadState(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Level != 3 || st.Gold != 12 {
		t.Fatalf("present fields lost: level=%d gold=%d", st.Level, st.Gold)
	}
	if st.HP != engine.BaseHP || st.MaxHP != engine.BaseHP || st.RivalDmg != engine.BaseRivalDmg || st.XPReq != engine.BaseXPReq {
		t.Fatalf("defaults not applied: hp=%d maxHp=%d rivalDmg=%d xpReq=%d", st.HP, st.MaxHP, st.RivalDmg, st.XPReq)
	}
	if st.Achievements == nil || st.DailyModifier.Name == "" {
		t.Fatalf("collections not defaulted: %+v", st.DailyModifier)
	}
}

func TestSQLiteSavesAreIsolated(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "save.db")
	a, err := OpenSQLite(ctx, path, "a")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()
	if err := a.SaveState(ctx, sampleState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := OpenSQLite(ctx, path, "b")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer b.Close()
	if st, err := b.LoadState(ctx); err != nil || st != nil {
		t.Fatalf("other save leaked: %v %v", st, err)
	}
}

func TestSQLiteSnapshotRun(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t, "default")
	st := sampleState()
	if err := s.SnapshotRun(ctx, "Graveyard/Run_Failed_1", st); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	runs, err := s.Runs(ctx)
	if err != nil || len(runs) != 1 {
		t.Fatalf("runs: %v %v", runs, err)
	}
	r := runs[0]
	if r.Level != 4 || r.Souls != engine.Souls(4, 120) || r.Dir != "Graveyard/Run_Failed_1" {
		t.Fatalf("run record: %+v", r)
	}
	h, back, err := DecodeSnapshot(bytes.NewReader(r.Snapshot))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.Level != 4 || back.Gold != 120 {
		t.Fatalf("snapshot contents: %+v gold=%d", h, back.Gold)
	}
}

func TestSnapshotFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	st := sampleState()
	if err := (FileSnapshotter{}).SnapshotRun(context.Background(), filepath.Join(dir, "run"), st); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	path := filepath.Join(dir, "run", SnapshotFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if bytes.Contains(raw, []byte(`"gold"`)) {
		t.Fatal("snapshot should be compressed")
	}
	h, back, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if h.Version != SnapshotVersion || h.RunCount != 1 {
		t.Fatalf("header: %+v", h)
	}
	if back.Gold != 120 || back.QuestFilters == nil {
		t.Fatalf("state: gold=%d filters=%v", back.Gold, back.QuestFilters)
	}
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	if _, _, err := DecodeSnapshot(bytes.NewReader([]byte("not zstd"))); err == nil {
		t.Fatal("expected error")
	}
}

type failingSnapshotter struct{ calls *int }

func (f failingSnapshotter) SnapshotRun(ctx context.Context, dir string, st *engine.PlayerState) error {
	*f.calls++
	return os.ErrPermission
}

func TestMultiSnapshotterRunsAll(t *testing.T) {
	calls := 0
	m := MultiSnapshotter{failingSnapshotter{&calls}, nil, failingSnapshotter{&calls}}
	if err := m.SnapshotRun(context.Background(), t.TempDir(), sampleState()); err != os.ErrPermission {
		t.Fatalf("err: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls: %d", calls)
	}
}
