package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/DaanHessen/sisyphus/internal/engine"
	"github.com/DaanHessen/sisyphus/internal/feedback"
	"github.com/DaanHessen/sisyphus/internal/records"
	"github.com/DaanHessen/sisyphus/internal/store"
	"github.com/DaanHessen/sisyphus/internal/ui"
	"github.com/DaanHessen/sisyphus/internal/util"
)

const migrateTimeout = 30 * time.Second

// runStore is what the backends have in common.
type runStore interface {
	engine.StateStore
	engine.Snapshotter
	Runs(ctx context.Context) ([]store.RunRecord, error)
}

// app is one opened save: backend, vault and engine.
type app struct {
	cfg     util.Config
	log     *slog.Logger
	theme   ui.Theme
	out     io.Writer
	store   runStore
	records *records.FileStore
	eng     *engine.Engine
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close", "err", err)
		}
	}
}

func newLogger(cfg util.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func openStore(ctx context.Context, cfg util.Config, log *slog.Logger) (runStore, func() error, error) {
	switch cfg.Backend {
	case util.BackendPostgres:
		mig, err := store.NewMigrator(cfg.DSN, cfg.MigrationsDir)
		if err != nil {
			return nil, nil, err
		}
		migCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
		defer cancel()
		if err := mig.Up(migCtx); err != nil && err != store.ErrNoChange {
			return nil, nil, errors.Wrap(err, "migrations")
		}
		db, err := store.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("opened postgres save", "save", cfg.SaveName)
		return store.NewPostgresStore(db, cfg.SaveName), db.Close, nil
	default:
		s, err := store.OpenSQLite(ctx, cfg.SQLitePath, cfg.SaveName)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("opened sqlite save", "path", cfg.SQLitePath, "save", cfg.SaveName)
		return s, s.Close, nil
	}
}

// openApp opens the save and applies the day rollover. fb receives engine notices;
// nil prints them to out, or logs them when quiet.
func openApp(ctx context.Context, cfg util.Config, out io.Writer, fb engine.Feedback) (*app, error) {
	log := newLogger(cfg, os.Stderr)
	a := &app{cfg: cfg, log: log, theme: ui.NewTheme(cfg.Theme), out: out}

	st, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.store = st
	a.closers = append(a.closers, closeStore)

	recs, err := records.Open(cfg.Vault)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.records = recs

	if fb == nil {
		fb = feedback.NewTerminal(out, a.theme.Feedback(), true)
		if cfg.Quiet {
			fb = feedback.NewLog(log)
		}
	}
	opts := []engine.Option{
		engine.WithFeedback(fb),
		engine.WithLogger(log),
		engine.WithSnapshotter(store.MultiSnapshotter{store.FileSnapshotter{}, st}),
	}
	if cfg.Seed != "" {
		dice, err := engine.NewRunSeed(cfg.Seed)
		if err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, engine.WithDice(dice))
	}
	eng, err := engine.New(ctx, st, recs, opts...)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.eng = eng
	if err := eng.DailyLogin(ctx); err != nil && !engine.IsRefusal(err) {
		a.Close()
		return nil, err
	}
	return a, nil
}

// settle hides refusals; the engine has already shown them.
func settle(err error) error {
	if engine.IsRefusal(err) {
		return nil
	}
	return err
}

// withApp wraps a command body with opening and closing the save.
func withApp(fn func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cfgFrom(cmd), cmd.OutOrStdout(), nil)
		if err != nil {
			return err
		}
		defer a.Close()
		return settle(fn(cmd, a, args))
	}
}

func (a *app) printf(format string, args ...any) { fmt.Fprintf(a.out, format, args...) }

func (a *app) printStatus() {
	a.printf("%s\n", a.theme.StatusLine(a.eng.State(), a.eng.Now()))
}
