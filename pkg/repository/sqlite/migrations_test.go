package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Rajgohel2908/Memora/pkg/repository/sqlite"
)

func TestMigrationRunner_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "m.db"))
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = db.Close() })

	runner := sqlite.NewMigrationRunner(db)
	gt.NoError(t, runner.Run(ctx)).Required()
	gt.NoError(t, runner.Run(ctx)).Required()

	version, err := runner.Version(ctx)
	gt.NoError(t, err).Required()
	gt.Value(t, version).Equal(1)

	var count int
	gt.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)).Required()
	gt.Value(t, count).Equal(1)

	var journalMode string
	gt.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)).Required()
	gt.Value(t, journalMode).Equal("wal")
}

func TestNew_InMemory(t *testing.T) {
	repo, err := sqlite.New(context.Background(), ":memory:")
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = repo.Close() })

	count, err := repo.Memory().CountByUser(context.Background(), "nobody")
	gt.NoError(t, err).Required()
	gt.Value(t, count).Equal(0)
}
