package sqlite

import (
	"context"
	"database/sql"

	"github.com/m-mizutani/goerr/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Rajgohel2908/Memora/pkg/domain/interfaces"
)

// SQLite is a single-file repository for self-hosted deployments
type SQLite struct {
	db     *sql.DB
	memory *memoryRepository
}

var _ interfaces.Repository = &SQLite{}

// New opens the database at path, creating it when missing, and applies
// pending schema migrations. ":memory:" opens a private in-memory database.
func New(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	// An in-memory database exists per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to connect sqlite database", goerr.V("path", path))
	}

	if err := NewMigrationRunner(db).Run(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{
		db:     db,
		memory: newMemoryRepository(db),
	}, nil
}

func (s *SQLite) Memory() interfaces.MemoryRepository {
	return s.memory
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
