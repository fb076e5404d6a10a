// Package migrate applies the embedded schema migrations and reference seeds.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMigrationsTable = "schema_migrations"
	defaultSeedsTable      = "schema_seeds"

	upSuffix   = ".up.sql"
	downSuffix = ".down.sql"
)

// ErrNothingToRevert is returned by Down on an empty history.
var ErrNothingToRevert = errors.New("migrate: no migrations applied")

// track is one directory of SQL files plus the table recording which of
// them ran.
type track struct {
	dir    string
	suffix string
	table  string
}

// Entry describes one migration file and whether it has been applied.
type Entry struct {
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// Manager applies SQL migrations and seed files read from an fs.FS,
// usually the embedded migrations.FS.
type Manager struct {
	db         *sql.DB
	fsys       fs.FS
	migrations track
	seeds      track
	log        *zap.Logger
}

// Option configures Manager.
type Option func(*Manager)

// WithMigrationsTable overrides the default migrations bookkeeping table.
func WithMigrationsTable(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.migrations.table = name
		}
	}
}

// WithSeedsTable overrides the default seeds bookkeeping table.
func WithSeedsTable(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.seeds.table = name
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// NewManager constructs a Manager. An empty seedsDir disables seeding.
func NewManager(db *sql.DB, fsys fs.FS, migrationsDir, seedsDir string, opts ...Option) *Manager {
	m := &Manager{
		db:         db,
		fsys:       fsys,
		migrations: track{dir: migrationsDir, suffix: upSuffix, table: defaultMigrationsTable},
		seeds:      track{dir: seedsDir, suffix: ".sql", table: defaultSeedsTable},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Up applies pending migrations in file name order and returns their names.
func (m *Manager) Up(ctx context.Context) ([]string, error) {
	return m.run(ctx, m.migrations)
}

// Seed applies seed files that have not run yet. Seeds are recorded like
// migrations, so running it twice is a no-op.
func (m *Manager) Seed(ctx context.Context) ([]string, error) {
	return m.run(ctx, m.seeds)
}

// Down reverts the most recently applied migration using its .down.sql
// sibling and returns its name.
func (m *Manager) Down(ctx context.Context) (string, error) {
	if err := m.ensureTables(ctx); err != nil {
		return "", err
	}
	applied, err := m.applied(ctx, m.migrations.table)
	if err != nil {
		return "", err
	}
	if len(applied) == 0 {
		return "", ErrNothingToRevert
	}
	last := applied[len(applied)-1].Name
	file := path.Join(m.migrations.dir, strings.TrimSuffix(last, upSuffix)+downSuffix)
	if _, err := fs.Stat(m.fsys, file); err != nil {
		return "", fmt.Errorf("migrate: no down file for %s", last)
	}
	del := fmt.Sprintf(`delete from %s where name = $1`, m.migrations.table)
	if err := m.apply(ctx, file, last, del); err != nil {
		return "", err
	}
	m.log.Info("migration reverted", zap.String("name", last))
	return last, nil
}

// Status lists applied migrations in the order they ran, followed by the
// pending ones in file order.
func (m *Manager) Status(ctx context.Context) ([]Entry, error) {
	if err := m.ensureTables(ctx); err != nil {
		return nil, err
	}
	out, err := m.applied(ctx, m.migrations.table)
	if err != nil {
		return nil, err
	}
	pending, err := m.pending(m.migrations, out)
	if err != nil {
		return nil, err
	}
	for _, name := range pending {
		out = append(out, Entry{Name: name})
	}
	return out, nil
}

func (m *Manager) run(ctx context.Context, t track) ([]string, error) {
	if t.dir == "" {
		return nil, nil
	}
	if err := m.ensureTables(ctx); err != nil {
		return nil, err
	}
	applied, err := m.applied(ctx, t.table)
	if err != nil {
		return nil, err
	}
	pending, err := m.pending(t, applied)
	if err != nil {
		return nil, err
	}
	ins := fmt.Sprintf(`insert into %s (name) values ($1)`, t.table)
	for i, name := range pending {
		if err := m.apply(ctx, path.Join(t.dir, name), name, ins); err != nil {
			return pending[:i], err
		}
		m.log.Info("sql file applied", zap.String("table", t.table), zap.String("name", name))
	}
	return pending, nil
}

func (m *Manager) pending(t track, applied []Entry) ([]string, error) {
	names, err := listFiles(m.fsys, t.dir, t.suffix)
	if err != nil {
		return nil, err
	}
	done := make(map[string]struct{}, len(applied))
	for _, e := range applied {
		done[e.Name] = struct{}{}
	}
	var out []string
	for _, n := range names {
		if _, ok := done[n]; !ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *Manager) ensureTables(ctx context.Context) error {
	for _, table := range []string{m.migrations.table, m.seeds.table} {
		ddl := fmt.Sprintf(`create table if not exists %s (
			name text primary key,
			applied_at timestamptz not null default now()
		)`, table)
		if _, err := m.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("migrate: ensure %s: %w", table, err)
		}
	}
	return nil
}

// apply executes file and the bookkeeping statement in one transaction.
func (m *Manager) apply(ctx context.Context, file, name, bookkeeping string) error {
	body, err := fs.ReadFile(m.fsys, file)
	if err != nil {
		return fmt.Errorf("migrate: read %s: %w", file, err)
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range splitStatements(string(body)) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %s: %w", name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, bookkeeping, name); err != nil {
		return fmt.Errorf("migrate: record %s: %w", name, err)
	}
	return tx.Commit()
}

func (m *Manager) applied(ctx context.Context, table string) ([]Entry, error) {
	rows, err := m.db.QueryContext(ctx, fmt.Sprintf(`select name, applied_at from %s order by applied_at, name`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e := Entry{Applied: true}
		if err := rows.Scan(&e.Name, &e.AppliedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// listFiles returns the base names in dir ending in suffix, sorted. A
// missing directory yields no files.
func listFiles(fsys fs.FS, dir, suffix string) ([]string, error) {
	if fsys == nil || dir == "" {
		return nil, nil
	}
	entries, err := fs.ReadDir(fsys, dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// splitStatements cuts a script on semicolons that are outside single-quoted
// literals and "--" line comments. Empty statements are dropped.
func splitStatements(script string) []string {
	var (
		out     []string
		buf     strings.Builder
		quoted  bool
		comment bool
	)
	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			out = append(out, s)
		}
		buf.Reset()
	}
	for i := 0; i < len(script); i++ {
		c := script[i]
		switch {
		case comment:
			if c == '\n' {
				comment = false
				buf.WriteByte(c)
			}
			continue
		case !quoted && c == '-' && i+1 < len(script) && script[i+1] == '-':
			comment = true
			i++
			continue
		case c == '\'':
			quoted = !quoted
		case c == ';' && !quoted:
			flush()
			continue
		}
		buf.WriteByte(c)
	}
	flush()
	return out
}
