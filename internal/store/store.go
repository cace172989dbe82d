package store

import (
	"context"
	"database/sql"
	"encoding/json"
	errs "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DaanHessen/sisyphus/internal/engine"
	"github.com/DaanHessen/sisyphus/internal/util"
)

var ErrNoChange = errs.New("no change")

// DB wraps gorm.DB for repositories and exposes Close.
type DB struct {
	gorm *gorm.DB
	sql  *sql.DB
}

func (d *DB) Close() error   { return d.sql.Close() }
func (d *DB) Gorm() *gorm.DB { return d.gorm }

// Open connects to Postgres per config.
func Open(ctx context.Context, cfg util.Config) (*DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, wrap(err, "open postgres")
	}
	sdb, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sdb.SetConnMaxLifetime(30 * time.Minute)
	sdb.SetMaxOpenConns(10)
	sdb.SetMaxIdleConns(5)
	if err := sdb.PingContext(ctx); err != nil {
		return nil, wrap(err, "ping postgres")
	}
	return &DB{gorm: gdb, sql: sdb}, nil
}

// WithTx executes fn within a database transaction.
func (d *DB) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.gorm.WithContext(ctx).Transaction(fn)
}

// RunRecord is one ended run kept for the chronicle.
type RunRecord struct {
	ID       uuid.UUID
	SaveName string
	Run      int
	Level    int
	Souls    int
	Dir      string
	EndedAt  time.Time
	Snapshot []byte
}

// PostgresStore keeps one JSONB document per save name.
type PostgresStore struct {
	db   *DB
	save string
	now  func() time.Time
}

func NewPostgresStore(db *DB, saveName string) *PostgresStore {
	return &PostgresStore{db: db, save: saveName, now: time.Now}
}

// LoadState returns nil, nil when the save does not exist yet.
func (s *PostgresStore) LoadState(ctx context.Context) (*engine.PlayerState, error) {
	var doc []byte
	row := s.db.gorm.WithContext(ctx).Raw(`SELECT doc FROM player_states WHERE save_name = ?`, s.save).Row()
	if err := row.Scan(&doc); err != nil {
		if errs.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap(err, "load state")
	}
	st, err := decodeState(doc)
	return st, wrap(err, "decode state")
}

func (s *PostgresStore) SaveState(ctx context.Context, st *engine.PlayerState) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return wrap(err, "encode state")
	}
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		err := tx.Exec(`INSERT INTO player_states(id, save_name, doc, run_count, level, updated_at) VALUES (?,?,?,?,?,?)
		ON CONFLICT (save_name) DO UPDATE SET doc=EXCLUDED.doc, run_count=EXCLUDED.run_count, level=EXCLUDED.level, updated_at=EXCLUDED.updated_at`,
			uuid.New(), s.save, doc, st.RunCount, st.Level, s.now().UTC()).Error
		return wrap(err, "save state")
	})
}

// SnapshotRun stores the final state of a dead run in the runs table.
func (s *PostgresStore) SnapshotRun(ctx context.Context, dir string, st *engine.PlayerState) error {
	blob, err := compressState(st, s.now())
	if err != nil {
		return wrap(err, "compress run")
	}
	souls := engine.Souls(st.Level, st.Gold)
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		err := tx.Exec(`INSERT INTO runs(id, save_name, run_number, level, souls, dir, ended_at, snapshot) VALUES (?,?,?,?,?,?,?,?)`,
			uuid.New(), s.save, st.RunCount, st.Level, souls, dir, s.now().UTC(), blob).Error
		return wrap(err, "insert run")
	})
}

// Runs lists ended runs, newest first.
func (s *PostgresStore) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.gorm.WithContext(ctx).Raw(`SELECT id, save_name, run_number, level, souls, dir, ended_at FROM runs WHERE save_name = ? ORDER BY ended_at DESC`, s.save).Rows()
	if err != nil {
		return nil, wrap(err, "list runs")
	}
	defer rows.Close()
	out := []RunRecord{}
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.SaveName, &r.Run, &r.Level, &r.Souls, &r.Dir, &r.EndedAt); err != nil {
			return nil, wrap(err, "scan run")
		}
		out = append(out, r)
	}
	return out, wrap(rows.Err(), "list runs")
}

// Helper error wrap
// decodeState overlays a saved document on the defaults of a fresh save,
// so fields an older save lacks keep their default values.
func decodeState(doc []byte) (*engine.PlayerState, error) {
	st := engine.NewState()
	if err := json.Unmarshal(doc, st); err != nil {
		return nil, err
	}
	return st, nil
}

func wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, msg)
}
