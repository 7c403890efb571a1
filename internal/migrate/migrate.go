package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
)

// Migration is a single named schema change. Names embed a numeric sequence
// prefix; lexicographic order is application order. Up bodies must be safe
// to re-run against a partially initialized schema (create if absent, add
// column if absent).
type Migration struct {
	Name string
	Up   func(ctx context.Context, tx *sql.Tx) error
	Down func(ctx context.Context, tx *sql.Tx) error
}

// Runner applies migrations against a database and tracks which have run in
// the schema_migrations ledger table.
type Runner struct {
	db         *sql.DB
	migrations []Migration
}

// NewRunner returns a Runner over the built-in migration set.
func NewRunner(db *sql.DB) *Runner {
	return NewRunnerWith(db, All())
}

// NewRunnerWith returns a Runner over an explicit migration set, sorted by
// name.
func NewRunnerWith(db *sql.DB, migrations []Migration) *Runner {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, migrations: sorted}
}

func (r *Runner) ensureLedger(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create ledger: %w", err)
	}
	return nil
}

func (r *Runner) appliedSet(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// Migrate applies every pending migration in order. Each migration's schema
// change and ledger insert share one transaction; the first failure rolls
// that migration back and aborts the run. Returns the number applied.
func (r *Runner) Migrate(ctx context.Context) (int, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return 0, err
	}
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range r.migrations {
		if applied[m.Name] {
			continue
		}
		if err := r.runOne(ctx, m, true); err != nil {
			return count, fmt.Errorf("migration %s: %w", m.Name, err)
		}
		count++
	}
	return count, nil
}

// Rollback reverts only the most recently applied migration and removes its
// ledger entry. A failing Down keeps the ledger entry. Returns the name of
// the migration rolled back, or "" if none were applied.
func (r *Runner) Rollback(ctx context.Context) (string, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return "", err
	}

	var name string
	err := r.db.QueryRowContext(ctx, `
		SELECT name FROM schema_migrations ORDER BY name DESC LIMIT 1
	`).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("find last applied: %w", err)
	}

	var target *Migration
	for i := range r.migrations {
		if r.migrations[i].Name == name {
			target = &r.migrations[i]
			break
		}
	}
	if target == nil {
		return "", fmt.Errorf("migration %s is applied but unknown", name)
	}

	if err := r.runOne(ctx, *target, false); err != nil {
		return "", fmt.Errorf("rollback %s: %w", name, err)
	}
	return name, nil
}

func (r *Runner) runOne(ctx context.Context, m Migration, up bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if up {
		if err := m.Up(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO schema_migrations (name) VALUES (?)
		`, m.Name); err != nil {
			return fmt.Errorf("record applied: %w", err)
		}
	} else {
		if err := m.Down(ctx, tx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM schema_migrations WHERE name = ?
		`, m.Name); err != nil {
			return fmt.Errorf("remove ledger entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// MigrationStatus reports whether a single migration unit has been applied.
type MigrationStatus struct {
	Name    string
	Applied bool
}

// Report summarizes the state of every known migration unit.
type Report struct {
	Migrations []MigrationStatus
	Applied    int
	Pending    int
}

// Status reports applied/pending for every known migration plus counts.
func (r *Runner) Status(ctx context.Context) (*Report, error) {
	if err := r.ensureLedger(ctx); err != nil {
		return nil, err
	}
	applied, err := r.appliedSet(ctx)
	if err != nil {
		return nil, err
	}

	rep := &Report{}
	for _, m := range r.migrations {
		st := MigrationStatus{Name: m.Name, Applied: applied[m.Name]}
		if st.Applied {
			rep.Applied++
		} else {
			rep.Pending++
		}
		rep.Migrations = append(rep.Migrations, st)
	}
	return rep, nil
}
