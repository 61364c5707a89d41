/*
Package sqlite provides the SQLite-backed goal.Store.

PURPOSE:
  Default persistence for a single user's goal collection. The schema and
  queries live in store/sqlstore; this package opens the database with
  the right options.

WAL MODE:
  Opened with Write-Ahead Logging and foreign keys on. The pool is limited
  to one connection: the collection has a single writer anyway, and an
  in-memory database (":memory:") exists per connection.

USAGE:
  store, err := sqlite.New("./goals.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  repo := goal.NewRepository(store)

SEE ALSO:
  - store/sqlstore: shared SQL implementation
  - goal/store.go:  Store interface
*/
package sqlite

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/goal-engine/store/sqlstore"
)

// New creates a SQLite store at dbPath. Use ":memory:" for an in-memory
// database.
func New(dbPath string) (*sqlstore.Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store, err := sqlstore.New(db, sqlstore.SQLite)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}
