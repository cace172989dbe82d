package store

import (
	"context"
	"database/sql"
	"encoding/json"
	errs "errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/DaanHessen/sisyphus/internal/engine"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS player_states (
		save_name TEXT PRIMARY KEY,
		doc TEXT NOT NULL,
		run_count INTEGER NOT NULL DEFAULT 1,
		level INTEGER NOT NULL DEFAULT 1,
		updated_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		save_name TEXT NOT NULL,
		run_number INTEGER NOT NULL,
		level INTEGER NOT NULL,
		souls INTEGER NOT NULL,
		dir TEXT NOT NULL,
		ended_at DATETIME NOT NULL,
		snapshot BLOB NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_runs_save ON runs(save_name, ended_at);`,
}

// SQLiteStore keeps the save in a local single-file database.
type SQLiteStore struct {
	db   *sql.DB
	save string
	now  func() time.Time
}

// OpenSQLite opens (creating if missing) the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path, saveName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrap(err, "open sqlite")
	}
	// one writer; the engine serialises access anyway
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, wrap(err, "ping sqlite")
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, wrap(err, "apply sqlite schema")
		}
	}
	return &SQLiteStore{db: db, save: saveName, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap(err, "begin tx")
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrap(err, "commit tx")
	}
	committed = true
	return nil
}

// LoadState returns nil, nil when the save does not exist yet.
func (s *SQLiteStore) LoadState(ctx context.Context) (*engine.PlayerState, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT doc FROM player_states WHERE save_name = ?`, s.save).Scan(&doc)
	if errs.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(err, "load state")
	}
	st, err := decodeState([]byte(doc))
	return st, wrap(err, "decode state")
}

func (s *SQLiteStore) SaveState(ctx context.Context, st *engine.PlayerState) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return wrap(err, "encode state")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO player_states(save_name, doc, run_count, level, updated_at) VALUES (?,?,?,?,?)
		ON CONFLICT(save_name) DO UPDATE SET doc=excluded.doc, run_count=excluded.run_count, level=excluded.level, updated_at=excluded.updated_at`,
			s.save, string(doc), st.RunCount, st.Level, s.now().UTC())
		return wrap(err, "save state")
	})
}

// SnapshotRun stores the final state of a dead run.
func (s *SQLiteStore) SnapshotRun(ctx context.Context, dir string, st *engine.PlayerState) error {
	blob, err := compressState(st, s.now())
	if err != nil {
		return wrap(err, "compress run")
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO runs(id, save_name, run_number, level, souls, dir, ended_at, snapshot) VALUES (?,?,?,?,?,?,?,?)`,
			uuid.NewString(), s.save, st.RunCount, st.Level, engine.Souls(st.Level, st.Gold), dir, s.now().UTC(), blob)
		return wrap(err, "insert run")
	})
}

// Runs lists ended runs, newest first.
func (s *SQLiteStore) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, save_name, run_number, level, souls, dir, ended_at, snapshot FROM runs WHERE save_name = ? ORDER BY ended_at DESC`, s.save)
	if err != nil {
		return nil, wrap(err, "list runs")
	}
	defer rows.Close()
	out := []RunRecord{}
	for rows.Next() {
		var (
			r  RunRecord
			id string
		)
		if err := rows.Scan(&id, &r.SaveName, &r.Run, &r.Level, &r.Souls, &r.Dir, &r.EndedAt, &r.Snapshot); err != nil {
			return nil, wrap(err, "scan run")
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, wrap(err, "parse run id")
		}
		out = append(out, r)
	}
	return out, wrap(rows.Err(), "list runs")
}
