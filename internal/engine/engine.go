package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Engine owns the player state and serialises every operation on it.
// Each operation runs on a copy of the state and only replaces the live
// state after the store has accepted it, so a refusal or I/O failure leaves
// nothing half-applied.
type Engine struct {
	mu      sync.Mutex
	st      *PlayerState
	store   StateStore
	records QuestRecords
	fb      Feedback
	clock   Clock
	dice    DiceSource
	snap    Snapshotter
	log     *slog.Logger
}

type Option func(*Engine)

func WithClock(c Clock) Option             { return func(e *Engine) { e.clock = c } }
func WithDice(d DiceSource) Option         { return func(e *Engine) { e.dice = d } }
func WithFeedback(fb Feedback) Option      { return func(e *Engine) { e.fb = fb } }
func WithSnapshotter(s Snapshotter) Option { return func(e *Engine) { e.snap = s } }
func WithLogger(l *slog.Logger) Option     { return func(e *Engine) { e.log = l } }

// New loads (or initialises) the saved state and returns a ready engine.
func New(ctx context.Context, store StateStore, records QuestRecords, opts ...Option) (*Engine, error) {
	e := &Engine{store: store, records: records, clock: SystemClock{}, log: slog.Default()}
	for _, o := range opts {
		o(e)
	}
	st, err := store.LoadState(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load state")
	}
	if st == nil {
		st = NewState()
	}
	st.Backfill(e.clock.Now())
	if st.Seed == "" {
		if st.Seed, err = NewSeedText(); err != nil {
			return nil, errors.Wrap(err, "generate seed")
		}
	}
	st.initBosses()
	if err := store.SaveState(ctx, st); err != nil {
		return nil, errors.Wrap(err, "save state")
	}
	e.st = st
	return e, nil
}

// State returns a copy of the current state.
func (e *Engine) State() *PlayerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Clone()
}

// Now is the engine's clock reading.
func (e *Engine) Now() time.Time { return e.clock.Now() }

func (e *Engine) diceFor(st *PlayerState) DiceSource {
	if e.dice != nil {
		return e.dice
	}
	rs, err := NewRunSeed(st.Seed)
	if err != nil {
		rs, _ = NewRunSeed("sisyphus")
	}
	return rs
}

// run executes fn as one atomic operation. Callers must hold e.mu.
func (e *Engine) run(ctx context.Context, op string, fn func(t *Turn) error) (*Turn, error) {
	work := e.st.Clone()
	t := NewTurn(work, e.clock.Now(), e.diceFor(work))
	if err := fn(t); err != nil {
		if IsRefusal(err) {
			e.log.Debug("operation refused", "op", op, "reason", err.Error())
			Dispatch(e.fb, []Event{{Kind: EventRefusal, Message: err.Error(), Duration: noticeShort}})
			return t, err
		}
		e.log.Error("operation failed", "op", op, "err", err)
		return t, err
	}
	if t.Death != nil {
		e.recordDeath(ctx, t.Death)
	}
	if err := e.store.SaveState(ctx, work); err != nil {
		e.log.Error("save state", "op", op, "err", err)
		return t, errors.Wrap(err, "save state")
	}
	e.st = work
	Dispatch(e.fb, t.Events)
	return t, nil
}

// recordDeath writes the chronicle, moves the run's records away and snapshots the final state.
// Failures are logged; the run has ended regardless.
func (e *Engine) recordDeath(ctx context.Context, d *DeathReport) {
	if err := e.records.AppendChronicle(ctx, d.Chronicle); err != nil {
		e.log.Error("append chronicle", "err", err)
	}
	dir, err := e.records.ArchiveRun(ctx, d.RunName)
	if err != nil {
		e.log.Error("archive run", "run", d.RunName, "err", err)
		return
	}
	if e.snap != nil {
		if err := e.snap.SnapshotRun(ctx, dir, d.Final); err != nil {
			e.log.Error("snapshot run", "dir", dir, "err", err)
		}
	}
	e.log.Info("run ended", "run", d.Chronicle.Run, "level", d.Chronicle.Level, "souls", d.Chronicle.Souls)
}

func (e *Engine) do(ctx context.Context, op string, fn func(t *Turn) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := e.run(ctx, op, fn)
	return err
}

// DailyLogin applies the day rollover.
func (e *Engine) DailyLogin(ctx context.Context) error {
	return e.do(ctx, "daily_login", func(t *Turn) error {
		t.DailyLogin()
		return nil
	})
}

// RollChaos re-rolls today's modifier.
func (e *Engine) RollChaos(ctx context.Context) error {
	return e.do(ctx, "roll_chaos", func(t *Turn) error {
		t.RollChaos()
		return nil
	})
}

// CreateQuest validates spec and creates its record. It returns the quest id.
func (e *Engine) CreateQuest(ctx context.Context, spec QuestSpec) (string, error) {
	var id string
	err := e.do(ctx, "create_quest", func(t *Turn) error {
		qid, meta, err := t.PlanQuest(spec)
		if err != nil {
			return err
		}
		exists, err := e.records.Exists(ctx, qid)
		if err != nil {
			return errors.Wrap(err, "check quest")
		}
		if exists {
			return refuse(RuleDuplicate, "Exists!")
		}
		if err := e.records.Create(ctx, qid, meta); err != nil {
			return errors.Wrap(err, "create quest")
		}
		id = qid
		t.notice("⚔️ Deployed: %s", spec.Name)
		e.log.Info("quest created", "id", qid, "difficulty", meta.Difficulty, "xp", meta.XPReward, "gold", meta.GoldReward)
		return nil
	})
	return id, err
}

// QuickCreate parses a one-line capture such as "call dentist /2".
func (e *Engine) QuickCreate(ctx context.Context, text string) (string, error) {
	return e.CreateQuest(ctx, ParseQuickInput(text, e.clock.Now()))
}

// CompleteQuest rewards and archives quest id.
func (e *Engine) CompleteQuest(ctx context.Context, id string) error {
	return e.do(ctx, "complete_quest", func(t *Turn) error {
		meta, err := e.metadata(ctx, id)
		if err != nil {
			return err
		}
		if err := t.CompleteQuest(id, meta); err != nil {
			return err
		}
		meta.Status = StatusCompleted
		meta.CompletedAt = t.Now.Format(time.RFC3339)
		if err := e.records.Archive(ctx, id, LocationArchive, meta); err != nil {
			return errors.Wrap(err, "archive quest")
		}
		e.log.Info("quest completed", "id", id, "level", t.State.Level, "xp", t.State.XP, "gold", t.State.Gold)
		return nil
	})
}

// FailQuest penalises quest id. manual marks a player-initiated abort.
func (e *Engine) FailQuest(ctx context.Context, id string, manual bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.failLocked(ctx, id, manual)
}

func (e *Engine) failLocked(ctx context.Context, id string, manual bool) error {
	_, err := e.run(ctx, "fail_quest", func(t *Turn) error {
		meta, err := e.metadata(ctx, id)
		if err != nil {
			return err
		}
		if !t.FailQuest(id, manual) {
			return nil
		}
		meta.Status = StatusFailed
		if err := e.records.Archive(ctx, id, LocationGraveyard, meta); err != nil {
			return errors.Wrap(err, "bury quest")
		}
		e.log.Info("quest failed", "id", id, "manual", manual, "hp", t.State.HP, "rival_dmg", t.State.RivalDmg)
		return nil
	})
	return err
}

func (e *Engine) metadata(ctx context.Context, id string) (QuestMeta, error) {
	ok, err := e.records.Exists(ctx, id)
	if err != nil {
		return QuestMeta{}, errors.Wrap(err, "check quest")
	}
	if !ok {
		return QuestMeta{}, refuse(RuleNotFound, "Quest %q not found.", id)
	}
	meta, err := e.records.Metadata(ctx, id)
	if err != nil {
		return QuestMeta{}, errors.Wrap(err, "read quest metadata")
	}
	return meta, nil
}

// DeleteQuest removes a quest without cost.
func (e *Engine) DeleteQuest(ctx context.Context, id string) error {
	return e.do(ctx, "delete_quest", func(t *Turn) error {
		if err := e.records.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "delete quest")
		}
		t.ForgetQuest(id)
		return nil
	})
}

// DeleteQuestWithCost removes a quest against the daily deletion quota.
func (e *Engine) DeleteQuestWithCost(ctx context.Context, id string) error {
	return e.do(ctx, "delete_quest_cost", func(t *Turn) error {
		if _, err := e.metadata(ctx, id); err != nil {
			return err
		}
		if err := t.ChargeDeletion(); err != nil {
			return err
		}
		if err := e.records.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "delete quest")
		}
		t.ForgetQuest(id)
		return nil
	})
}

// DeletionQuota reports today's deletion usage.
func (e *Engine) DeletionQuota() DeletionQuota {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Quota(e.st, e.clock.Now())
}

// SweepDeadlines fails every active quest past its deadline and returns how many were failed.
// Nothing is swept while a rest day is active.
func (e *Engine) SweepDeadlines(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	if e.st.IsResting(now) {
		return 0, nil
	}
	active, err := e.records.ListActive(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "list active quests")
	}
	failed := 0
	runs := e.st.RunCount
	for _, q := range active {
		due, ok := q.Meta.DeadlineTime()
		if !ok || !now.After(due) {
			continue
		}
		if err := e.failLocked(ctx, q.ID, false); err != nil {
			if IsRefusal(err) {
				continue
			}
			return failed, err
		}
		failed++
		if e.st.RunCount != runs {
			break
		}
	}
	return failed, nil
}

// ActiveQuests lists active quests through the current filter.
func (e *Engine) ActiveQuests(ctx context.Context) ([]QuestSummary, error) {
	active, err := e.records.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list active quests")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.FilterQuests(active), nil
}

// CreateChain starts an ordered chain of existing quests.
func (e *Engine) CreateChain(ctx context.Context, name string, ids []string) (QuestChain, error) {
	var ch QuestChain
	err := e.do(ctx, "create_chain", func(t *Turn) error {
		var err error
		ch, err = t.CreateChain(name, ids)
		return err
	})
	return ch, err
}

// BreakChain abandons the current chain.
func (e *Engine) BreakChain(ctx context.Context) (ChainRecord, error) {
	var rec ChainRecord
	err := e.do(ctx, "break_chain", func(t *Turn) error {
		var err error
		rec, err = t.BreakChain()
		return err
	})
	return rec, err
}

func (e *Engine) CreateResearch(ctx context.Context, title string, kind ResearchType, skill, combat string) (ResearchQuest, error) {
	var rq ResearchQuest
	err := e.do(ctx, "create_research", func(t *Turn) error {
		var err error
		rq, err = t.CreateResearch(title, kind, skill, combat)
		return err
	})
	return rq, err
}

func (e *Engine) CompleteResearch(ctx context.Context, id string, words int) error {
	return e.do(ctx, "complete_research", func(t *Turn) error {
		_, _, err := t.CompleteResearch(id, words)
		return err
	})
}

func (e *Engine) DeleteResearch(ctx context.Context, id string) error {
	return e.do(ctx, "delete_research", func(t *Turn) error { return t.DeleteResearch(id) })
}

func (e *Engine) UpdateResearchWordCount(ctx context.Context, id string, words int) error {
	return e.do(ctx, "update_research", func(t *Turn) error { return t.UpdateResearchWordCount(id, words) })
}

func (e *Engine) Meditate(ctx context.Context) error {
	return e.do(ctx, "meditate", func(t *Turn) error { return t.Meditate() })
}

func (e *Engine) AttemptRecovery(ctx context.Context) error {
	return e.do(ctx, "attempt_recovery", func(t *Turn) error {
		t.AttemptRecovery()
		return nil
	})
}

func (e *Engine) DefeatBoss(ctx context.Context, level int) error {
	return e.do(ctx, "defeat_boss", func(t *Turn) error { return t.DefeatBoss(level) })
}

// GenerateWeeklyReport stores and returns this week's report.
func (e *Engine) GenerateWeeklyReport(ctx context.Context) (WeeklyReport, error) {
	var r WeeklyReport
	err := e.do(ctx, "weekly_report", func(t *Turn) error {
		r = t.GenerateWeeklyReport()
		return nil
	})
	return r, err
}

func (e *Engine) Buy(ctx context.Context, item string) error {
	return e.do(ctx, "buy", func(t *Turn) error { return t.Buy(item) })
}

func (e *Engine) AddSkill(ctx context.Context, name string) error {
	return e.do(ctx, "add_skill", func(t *Turn) error { return t.AddSkill(name) })
}

func (e *Engine) PolishSkill(ctx context.Context, name string) error {
	return e.do(ctx, "polish_skill", func(t *Turn) error { return t.PolishSkill(name) })
}

func (e *Engine) SetQuestFilter(ctx context.Context, id string, energy EnergyLevel, qc QuestContext, tags []string) error {
	return e.do(ctx, "set_quest_filter", func(t *Turn) error { return t.SetQuestFilter(id, energy, qc, tags) })
}

func (e *Engine) SetFilterState(ctx context.Context, energy EnergyLevel, qc QuestContext, tags []string) error {
	return e.do(ctx, "set_filter_state", func(t *Turn) error { return t.SetFilterState(energy, qc, tags) })
}

func (e *Engine) ClearFilters(ctx context.Context) error {
	return e.do(ctx, "clear_filters", func(t *Turn) error {
		t.ClearFilters()
		return nil
	})
}

// AcceptDeath ends the current run on request.
func (e *Engine) AcceptDeath(ctx context.Context) error {
	return e.do(ctx, "accept_death", func(t *Turn) error {
		t.TriggerDeath()
		return nil
	})
}

// StatusLine is the one-line HUD summary.
func (e *Engine) StatusLine() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return FormatStatus(e.st, e.clock.Now())
}

// FormatStatus renders icon, shield/rest markers, vitals and mission progress.
func FormatStatus(st *PlayerState, now time.Time) string {
	flags := ""
	if st.IsShielded(now) {
		flags += "S"
	}
	if st.IsResting(now) {
		flags += "D"
	}
	if st.IsLockedDown(now) {
		flags += "L"
	}
	if flags != "" {
		flags = "[" + flags + "] "
	}
	done, total := MissionProgress(st)
	return fmt.Sprintf("%s %sHP %d/%d | G %d | Lvl %d | M %d/%d",
		st.DailyModifier.Icon, flags, st.HP, st.MaxHP, st.Gold, st.Level, done, total)
}
