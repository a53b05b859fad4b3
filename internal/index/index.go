package index

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed schema.sql
var schemaSQL string

//go:embed upgrade_3_to_4.sql
var upgrade3To4SQL string

//go:embed upgrade_4_to_5.sql
var upgrade4To5SQL string

// currentSchemaVersion is the single schema version this build reads
// and writes. Stores at versions 3 and 4 are migrated sequentially at
// open time; anything else is refused.
const currentSchemaVersion = 5

// Index is an open handle on the resource index. It assumes a single
// logical writer: the database is opened with an exclusive lock and a
// single connection, and no internal locking is performed.
type Index struct {
	db       *sql.DB
	listener Listener
	signals  deleteSignals
}

// Open creates or opens the resource index at the given path. The
// schema is created if absent; stores at schema versions 3 and 4 are
// upgraded in place, one migration per step, each inside its own
// transaction.
func Open(path string) (*Index, error) {
	return open(path)
}

// OpenInMemory opens a fresh, private in-memory index. Used by tests
// and by tooling that needs a scratch store.
func OpenInMemory() (*Index, error) {
	return open(":memory:")
}

func open(dsn string) (*Index, error) {
	idx := &Index{}

	// Each open registers its own driver so that the scalar functions
	// reachable from the schema triggers close over exactly this
	// Index instance. The callbacks stay registered for the lifetime
	// of the handle.
	driver := "sqlite3_pacsindex_" + uuid.NewString()
	sql.Register(driver, &sqlite3.SQLiteDriver{
		ConnectHook: idx.registerSignalFunctions,
	})

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single logical writer: one connection, kept ready. The delete
	// signal collector relies on every statement using this one
	// connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	idx.db = db

	if err := idx.initializeSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// SetListener installs the capability that receives cascade-delete
// side effects. A nil listener suppresses dispatch.
func (idx *Index) SetListener(l Listener) {
	idx.listener = l
}

// Close releases the database connection.
func (idx *Index) Close() error {
	if idx.db == nil {
		return nil
	}
	return idx.db.Close()
}

// applyPragmas sets the required SQLite configuration: WAL journaling
// with exclusive locking (single logical writer) and foreign key
// enforcement, which the cascading deletes depend on.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
		"PRAGMA locking_mode = EXCLUSIVE",
		"PRAGMA wal_autocheckpoint = 1000",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// initializeSchema creates the logical schema if the store is fresh,
// then validates the stored schema version and applies pending
// migrations sequentially.
func (idx *Index) initializeSchema(ctx context.Context) error {
	created, err := idx.tableExists(ctx, "GlobalProperties")
	if err != nil {
		return err
	}

	if !created {
		log.Info().Msg("creating the database schema")
		if err := idx.execScript(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	raw, ok, err := idx.LookupGlobalProperty(ctx, GlobalPropertyDatabaseSchemaVersion)
	if err != nil {
		return err
	}
	if !ok {
		raw = "Unknown"
	}

	log.Info().Str("version", raw).Msg("database schema version")

	parsed, perr := strconv.ParseUint(raw, 10, 32)
	v := uint32(parsed)
	if perr != nil || (v != 3 && v != 4 && v != 5) {
		return &Error{
			Code:    ErrCodeIncompatibleVersion,
			Message: fmt.Sprintf("incompatible database schema version %q", raw),
		}
	}

	if v == 3 {
		log.Warn().Msg("upgrading database schema from version 3 to 4")
		if err := idx.execScript(ctx, upgrade3To4SQL); err != nil {
			return fmt.Errorf("upgrade 3 to 4: %w", err)
		}
		v = 4
	}

	if v == 4 {
		log.Warn().Msg("upgrading database schema from version 4 to 5")
		if err := idx.execScript(ctx, upgrade4To5SQL); err != nil {
			return fmt.Errorf("upgrade 4 to 5: %w", err)
		}
		v = 5
	}

	// Sanity check against a malformed migration script.
	if v != currentSchemaVersion {
		return errInternalf("schema version %d after migration, expected %d", v, currentSchemaVersion)
	}

	return nil
}

// execScript runs a multi-statement SQL script inside one transaction.
func (idx *Index) execScript(ctx context.Context, script string) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, script); err != nil {
		return err
	}

	return tx.Commit()
}

func (idx *Index) tableExists(ctx context.Context, name string) (bool, error) {
	var found string
	err := idx.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
		name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return true, nil
}
