package gearbox

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

// DefaultHistoryTable is the table applied migrations are recorded in.
const DefaultHistoryTable = "goose_db_version"

// Logger is a generic logging func.
type Logger func(...interface{})

// A Migrator is an Engine running SQL migrations with goose.
//
// Migration files are kept in the versions directory below the configured
// script location. The database is only connected on first use; the URL is
// read from the config file at that point.
type Migrator struct {
	config     Config
	table      string
	sequential bool
	verbose    bool
	logger     Logger

	db *sql.DB
}

var _ Engine = (*Migrator)(nil)

// New returns a new Migrator.
func New(config Config, options ...Option) *Migrator {
	mig := &Migrator{config: config}

	for _, option := range options {
		option(mig)
	}

	if mig.table == "" {
		mig.table = DefaultHistoryTable
	}
	if mig.logger == nil {
		mig.logger = func(...interface{}) {}
	}

	return mig
}

// Revision creates a new sql migration file in the versions directory.
//
//   cmd:     migrator.Revision(ctx, "create_user_table")
//   created: migration/versions/20190225150455_create_user_table.sql
//
// The versions directory will be automatically created if it doesn't exist.
func (m *Migrator) Revision(ctx context.Context, name string) error {
	dir := m.config.VersionsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create migrations directory %q", dir)
	}

	m.setup()
	// creating a file needs no database
	return goose.Create(nil, dir, name, "sql")
}

// Current logs the revision the database is at.
func (m *Migrator) Current(ctx context.Context) error {
	db, err := m.connect(ctx)
	if err != nil {
		return err
	}

	// goose creates the history table on a fresh database
	current, migrations, err := m.versions(ctx, db)
	if err != nil {
		return err
	}
	if last, err := migrations.Last(); err == nil && last.Version == current {
		m.logger(fmt.Sprintf("Current revision: %d (head)", current))
		return nil
	}

	m.logger(fmt.Sprintf("Current revision: %d", current))
	return nil
}

// Upgrade applies migrations up to version.
//
// version is head, a relative step like +1 or an absolute revision.
func (m *Migrator) Upgrade(ctx context.Context, version string) error {
	t, err := parseTarget(version)
	if err != nil {
		return err
	}
	if t.kind == targetBase || (t.kind == targetRelative && t.steps < 0) {
		return errors.Errorf("%q is not a valid upgrade target", version)
	}

	db, err := m.connect(ctx)
	if err != nil {
		return err
	}
	dir := m.config.VersionsDir()

	if t.kind == targetHead {
		return goose.UpContext(ctx, db, dir)
	}

	current, migrations, err := m.versions(ctx, db)
	if err != nil {
		return err
	}

	var dest int64
	switch t.kind {
	case targetRelative:
		pending := []int64{}
		for _, mig := range migrations {
			if mig.Version > current {
				pending = append(pending, mig.Version)
			}
		}
		if len(pending) < t.steps {
			return errors.Errorf("relative revision %s didn't produce %d migrations, %d pending", version, t.steps, len(pending))
		}
		dest = pending[t.steps-1]
	case targetVersion:
		if t.version < current {
			return errors.Errorf("revision %d is below current revision %d, not a valid upgrade target", t.version, current)
		}
		dest = t.version
	}
	return goose.UpToContext(ctx, db, dir, dest)
}

// Downgrade reverts migrations down to version.
//
// version is base, a relative step like -1 or an absolute revision.
func (m *Migrator) Downgrade(ctx context.Context, version string) error {
	t, err := parseTarget(version)
	if err != nil {
		return err
	}
	if t.kind == targetHead || (t.kind == targetRelative && t.steps > 0) {
		return errors.Errorf("%q is not a valid downgrade target", version)
	}

	db, err := m.connect(ctx)
	if err != nil {
		return err
	}
	dir := m.config.VersionsDir()

	if t.kind == targetBase {
		return goose.DownToContext(ctx, db, dir, 0)
	}

	current, migrations, err := m.versions(ctx, db)
	if err != nil {
		return err
	}

	var dest int64
	switch t.kind {
	case targetRelative:
		applied := []int64{0}
		for _, mig := range migrations {
			if mig.Version <= current {
				applied = append(applied, mig.Version)
			}
		}
		steps := -t.steps
		if len(applied)-1 < steps {
			return errors.Errorf("relative revision %s didn't produce %d migrations, %d applied", version, steps, len(applied)-1)
		}
		dest = applied[len(applied)-1-steps]
	case targetVersion:
		if t.version > current {
			return errors.Errorf("revision %d is above current revision %d, not a valid downgrade target", t.version, current)
		}
		dest = t.version
	}
	return goose.DownToContext(ctx, db, dir, dest)
}

// versions returns the revision the database is at and the available
// migrations in ascending order.
func (m *Migrator) versions(ctx context.Context, db *sql.DB) (int64, goose.Migrations, error) {
	current, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, nil, err
	}
	migrations, err := goose.CollectMigrations(m.config.VersionsDir(), 0, math.MaxInt64)
	if err != nil {
		return 0, nil, err
	}
	return current, migrations, nil
}

// Close closes the database connection, if one was opened.
func (m *Migrator) Close() error {
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// connect reads the database url from the config file and connects to it.
func (m *Migrator) connect(ctx context.Context) (*sql.DB, error) {
	if m.db != nil {
		return m.db, nil
	}

	settings, err := LoadSettings(m.config)
	if err != nil {
		return nil, err
	}
	src, err := parseDatabaseURL(settings.URL)
	if err != nil {
		return nil, &ConfigError{m.config.File, err}
	}

	m.setup()
	if err := goose.SetDialect(src.dialect); err != nil {
		return nil, &ConfigError{m.config.File, err}
	}

	db, err := connect(ctx, src)
	if err != nil {
		return nil, err
	}
	m.db = db
	m.logger(fmt.Sprintf("Connected to %s database.", src.driver))

	return db, nil
}

// setup points goose's package level state at this Migrator.
func (m *Migrator) setup() {
	goose.SetLogger(gooseLogger(m.logger))
	goose.SetTableName(m.table)
	goose.SetSequential(m.sequential)
	goose.SetVerbose(m.verbose)
}

// gooseLogger routes goose output to a Logger.
type gooseLogger Logger

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l(strings.TrimSuffix(fmt.Sprintf(format, v...), "\n"))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.Printf(format, v...)
	os.Exit(1)
}

// Option controls some aspects of migration behavior.
type Option func(*Migrator)

// WithHistoryTable tells New to use the provided name as the table
// keeping track of applied migrations.
func WithHistoryTable(name string) Option {
	return func(c *Migrator) {
		c.table = name
	}
}

// WithLogger tells New to use the provided logger for internal logging.
func WithLogger(logger Logger) Option {
	return func(c *Migrator) {
		c.logger = logger
	}
}

// WithSequential tells New to number new migration files sequentially
// instead of by timestamp.
func WithSequential(sequential bool) Option {
	return func(c *Migrator) {
		c.sequential = sequential
	}
}

// WithVerbose turns on goose's verbose output.
func WithVerbose(verbose bool) Option {
	return func(c *Migrator) {
		c.verbose = verbose
	}
}
