package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
)

type migration struct {
	Version int
	Name    string
	Apply   func(ctx context.Context, tx *sql.Tx) error
}

// MigrationRunner applies pending schema migrations
type MigrationRunner struct {
	db         *sql.DB
	migrations []migration
}

func NewMigrationRunner(db *sql.DB) *MigrationRunner {
	return &MigrationRunner{
		db: db,
		migrations: []migration{
			{Version: 1, Name: "create_memories", Apply: migrateV001},
		},
	}
}

// Run enables WAL mode, creates the schema_migrations table and applies
// every migration not recorded there yet, in version order.
func (r *MigrationRunner) Run(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		return goerr.Wrap(err, "failed to set WAL mode")
	}

	if _, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return goerr.Wrap(err, "failed to create schema_migrations table")
	}

	for _, m := range r.migrations {
		applied, err := r.isApplied(ctx, m.Version)
		if err != nil {
			return goerr.Wrap(err, "failed to check migration", goerr.V("version", m.Version))
		}
		if applied {
			continue
		}

		if err := r.apply(ctx, m); err != nil {
			return goerr.Wrap(err, "failed to apply migration",
				goerr.V("version", m.Version),
				goerr.V("name", m.Name))
		}
	}

	return nil
}

// Version returns the highest applied migration version
func (r *MigrationRunner) Version(ctx context.Context) (int, error) {
	var version sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version); err != nil {
		return 0, goerr.Wrap(err, "failed to read schema version")
	}
	return int(version.Int64), nil
}

func (r *MigrationRunner) isApplied(ctx context.Context, version int) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *MigrationRunner) apply(ctx context.Context, m migration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() //nolint:errcheck

	if err := m.Apply(ctx, tx); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		m.Version, m.Name,
	); err != nil {
		return goerr.Wrap(err, "failed to record migration")
	}

	return tx.Commit()
}

func migrateV001(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE memories (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			title         TEXT NOT NULL DEFAULT '',
			content       TEXT NOT NULL DEFAULT '',
			memory_date   INTEGER NOT NULL,
			mood          TEXT NOT NULL DEFAULT '',
			tags          TEXT NOT NULL DEFAULT '[]',
			photos        TEXT NOT NULL DEFAULT '[]',
			audio_url     TEXT NOT NULL DEFAULT '',
			lat           REAL,
			lng           REAL,
			collaborators TEXT NOT NULL DEFAULT '[]',
			created_at    INTEGER NOT NULL,
			updated_at    INTEGER NOT NULL
		)`,
		`CREATE INDEX idx_memories_user_date ON memories (user_id, memory_date, created_at, id)`,
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to execute migration statement")
		}
	}
	return nil
}
