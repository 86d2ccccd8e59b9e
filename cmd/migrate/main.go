package main

import (
	"cmp"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"lambdaf-dashboard/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const usage = "usage: go run ./cmd/migrate [up|down|version|status] [steps]"

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	openLedger     = func(ctx context.Context, dsn string) (ledger, func(), error) {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return &pgLedger{pool: pool}, pool.Close, nil
	}
)

// File names look like 0001_create_lambda_f_records.up.sql.
var migrationFile = regexp.MustCompile(`^migrations/([0-9]+)_([a-z0-9_]+)\.(up|down)\.sql$`)

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

func (m migration) label() string {
	return fmt.Sprintf("%04d_%s", m.Version, m.Name)
}

// ledger tracks applied versions in schema_migrations. Apply runs a
// migration script and its bookkeeping row in one transaction.
type ledger interface {
	Ensure(ctx context.Context) error
	Applied(ctx context.Context) (map[int64]string, error)
	Apply(ctx context.Context, m migration, up bool) error
}

func main() {
	loadEnvFunc()

	dsn := strings.TrimSpace(loadConfigFunc().DatabaseURL)
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	l, closeLedger, err := openLedger(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer closeLedger()

	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		log.Fatalf("load migrations: %v", err)
	}

	if err := run(ctx, l, migrations, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, l ledger, migrations []migration, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}
	if err := l.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	switch args[0] {
	case "up":
		n, err := migrateUp(ctx, l, migrations)
		if err != nil {
			return fmt.Errorf("apply migrations up: %w", err)
		}
		log.Printf("migrations up complete (%d applied)", n)
	case "down":
		steps := 1
		if len(args) > 1 {
			v, err := strconv.Atoi(args[1])
			if err != nil || v <= 0 {
				return fmt.Errorf("invalid down steps: %q", args[1])
			}
			steps = v
		}
		n, err := migrateDown(ctx, l, migrations, steps)
		if err != nil {
			return fmt.Errorf("apply migrations down: %w", err)
		}
		log.Printf("migrations down complete (%d rolled back)", n)
	case "version":
		applied, err := l.Applied(ctx)
		if err != nil {
			return fmt.Errorf("read applied versions: %w", err)
		}
		if len(applied) == 0 {
			log.Println("no migrations applied")
			return nil
		}
		latest := slices.Max(sortedVersions(applied))
		log.Printf("current version: %d (%s)", latest, applied[latest])
	case "status":
		applied, err := l.Applied(ctx)
		if err != nil {
			return fmt.Errorf("read applied versions: %w", err)
		}
		for _, m := range migrations {
			state := "pending"
			if _, ok := applied[m.Version]; ok {
				state = "applied"
			}
			log.Printf("%s: %s", m.label(), state)
		}
		log.Printf("%d pending", len(pendingMigrations(migrations, applied)))
	default:
		return fmt.Errorf("unknown command %q. %s", args[0], usage)
	}
	return nil
}

func loadMigrations(fsys fs.FS) ([]migration, error) {
	paths, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New("no migration files found")
	}

	byVersion := make(map[int64]*migration)
	for _, p := range paths {
		parts := migrationFile.FindStringSubmatch(p)
		if parts == nil {
			return nil, fmt.Errorf("invalid migration filename: %s", p)
		}
		version, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse version in %s: %w", p, err)
		}

		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", p, err)
		}
		script := strings.TrimSpace(string(raw))
		if script == "" {
			return nil, fmt.Errorf("empty migration file: %s", p)
		}

		m := byVersion[version]
		if m == nil {
			m = &migration{Version: version, Name: parts[2]}
			byVersion[version] = m
		}
		if m.Name != parts[2] {
			return nil, fmt.Errorf("conflicting names for version %d: %s vs %s", version, m.Name, parts[2])
		}

		target := &m.UpSQL
		if parts[3] == "down" {
			target = &m.DownSQL
		}
		if *target != "" {
			return nil, fmt.Errorf("duplicate %s migration for version %d", parts[3], version)
		}
		*target = script
	}

	out := make([]migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.UpSQL == "" || m.DownSQL == "" {
			return nil, fmt.Errorf("migration %s must include both up and down files", m.label())
		}
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b migration) int { return cmp.Compare(a.Version, b.Version) })
	return out, nil
}

// pendingMigrations keeps the order of migrations, which loadMigrations
// sorts by version.
func pendingMigrations(migrations []migration, applied map[int64]string) []migration {
	var pending []migration
	for _, m := range migrations {
		if _, ok := applied[m.Version]; !ok {
			pending = append(pending, m)
		}
	}
	return pending
}

func migrateUp(ctx context.Context, l ledger, migrations []migration) (int, error) {
	applied, err := l.Applied(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, m := range pendingMigrations(migrations, applied) {
		if err := l.Apply(ctx, m, true); err != nil {
			return n, fmt.Errorf("%s up: %w", m.label(), err)
		}
		n++
	}
	return n, nil
}

// migrateDown rolls back the newest applied versions first.
func migrateDown(ctx context.Context, l ledger, migrations []migration, steps int) (int, error) {
	if steps <= 0 {
		return 0, errors.New("steps must be > 0")
	}
	applied, err := l.Applied(ctx)
	if err != nil {
		return 0, err
	}

	versions := sortedVersions(applied)
	slices.Reverse(versions)
	if len(versions) > steps {
		versions = versions[:steps]
	}

	n := 0
	for _, v := range versions {
		idx := slices.IndexFunc(migrations, func(m migration) bool { return m.Version == v })
		if idx < 0 {
			return n, fmt.Errorf("cannot find migration source for applied version %d", v)
		}
		if err := l.Apply(ctx, migrations[idx], false); err != nil {
			return n, fmt.Errorf("%s down: %w", migrations[idx].label(), err)
		}
		n++
	}
	return n, nil
}

func sortedVersions(applied map[int64]string) []int64 {
	versions := make([]int64, 0, len(applied))
	for v := range applied {
		versions = append(versions, v)
	}
	slices.Sort(versions)
	return versions
}

type pgLedger struct {
	pool *pgxpool.Pool
}

func (p *pgLedger) Ensure(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     BIGINT PRIMARY KEY,
    name        TEXT NOT NULL,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`)
	return err
}

func (p *pgLedger) Applied(ctx context.Context) (map[int64]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT version, name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	applied, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (migration, error) {
		var m migration
		err := row.Scan(&m.Version, &m.Name)
		return m, err
	})
	if err != nil {
		return nil, err
	}

	out := make(map[int64]string, len(applied))
	for _, m := range applied {
		out[m.Version] = m.Name
	}
	return out, nil
}

func (p *pgLedger) Apply(ctx context.Context, m migration, up bool) error {
	script, bookkeeping, args := m.UpSQL, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, []any{m.Version, m.Name}
	if !up {
		script, bookkeeping, args = m.DownSQL, `DELETE FROM schema_migrations WHERE version = $1`, []any{m.Version}
	}

	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, script); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, bookkeeping, args...); err != nil {
			return fmt.Errorf("update schema_migrations: %w", err)
		}
		return nil
	})
}
