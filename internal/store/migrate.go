package store

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrator handles DB schema migrations using golang-migrate.
type Migrator struct {
	dsn string
	dir string
}

// NewMigrator reads migrations from dir (relative paths resolve against the working directory).
func NewMigrator(dsn, dir string) (*Migrator, error) {
	if dsn == "" {
		return nil, fmt.Errorf("missing DSN")
	}
	if dir == "" {
		dir = filepath.Join("db", "migrations")
	}
	return &Migrator{dsn: dsn, dir: dir}, nil
}

func (m *Migrator) sourceURL() (string, error) {
	p, err := filepath.Abs(m.dir)
	if err != nil {
		return "", err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String(), nil
}

func (m *Migrator) Up(ctx context.Context) error {
	return m.apply(func(mig *migrate.Migrate) error { return mig.Up() })
}

// Down rolls back one step.
func (m *Migrator) Down(ctx context.Context) error {
	return m.apply(func(mig *migrate.Migrate) error { return mig.Steps(-1) })
}

// Version reports the applied schema version.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	var (
		v     uint
		dirty bool
	)
	err := m.apply(func(mig *migrate.Migrate) error {
		var err error
		v, dirty, err = mig.Version()
		if err == migrate.ErrNilVersion {
			return nil
		}
		return err
	})
	return v, dirty, err
}

func (m *Migrator) apply(fn func(*migrate.Migrate) error) error {
	src, err := m.sourceURL()
	if err != nil {
		return err
	}
	mig, err := migrate.New(src, m.dsn)
	if err != nil {
		return wrap(err, "init migrations")
	}
	defer mig.Close()
	if err := fn(mig); err != nil {
		if err == migrate.ErrNoChange {
			return ErrNoChange
		}
		return err
	}
	return nil
}
