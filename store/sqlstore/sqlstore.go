/*
Package sqlstore persists the goal collection through database/sql.

PURPOSE:
  Shared by the SQLite and PostgreSQL backends. The SQL is identical
  except for placeholders, which the Dialect rewrites.

KEY TABLES:
  goals:           one row per goal, position = display order
  history_entries: one row per entry, position = order within the goal

WHOLE-COLLECTION SAVE:
  The core saves the full collection after each mutation. Save replaces
  both tables inside one transaction, so a reader never sees half a save.

VALUES:
  Decimals are stored as TEXT to keep them exact; dates as YYYY-MM-DD.

USAGE:
  db, _ := sql.Open("sqlite3", path)
  store, err := sqlstore.New(db, sqlstore.SQLite)
  goals, err := store.Load(ctx)

SEE ALSO:
  - store/sqlite:   SQLite constructor
  - store/postgres: PostgreSQL constructor
  - goal/store.go:  Store interface
*/
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/goal-engine/goal"
)

// Dialect captures the differences between SQL backends.
type Dialect struct {
	Name string

	// Numbered placeholders ($1, $2, ...) instead of ?.
	Numbered bool
}

var (
	SQLite   = Dialect{Name: "sqlite3"}
	Postgres = Dialect{Name: "postgres", Numbered: true}
)

// Rebind rewrites ? placeholders for the dialect.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Store implements goal.Store over a *sql.DB.
type Store struct {
	db      *sql.DB
	dialect Dialect
	mu      sync.RWMutex
}

// New wraps db and creates the schema if needed.
func New(db *sql.DB, dialect Dialect) (*Store, error) {
	s := &Store{db: db, dialect: dialect}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Dialect() Dialect { return s.dialect }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		category TEXT NOT NULL,
		kind TEXT NOT NULL,
		target_value TEXT NOT NULL,
		unit TEXT NOT NULL,
		current_value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS history_entries (
		id TEXT NOT NULL,
		goal_id TEXT NOT NULL REFERENCES goals(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		entry_date TEXT NOT NULL,
		value TEXT NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (goal_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_goal_position
		ON history_entries(goal_id, position)`,
}

func (s *Store) migrate() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// goal.Store
// =============================================================================

// Load returns the collection in display order with each goal's history
// in stored order.
func (s *Store) Load(ctx context.Context) ([]goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goals, err := s.loadGoals(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[goal.GoalID]int, len(goals))
	for i, g := range goals {
		index[g.ID] = i
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT goal_id, id, entry_date, value, note
		FROM history_entries
		ORDER BY goal_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			goalID, entryID, date, value, note string
		)
		if err := rows.Scan(&goalID, &entryID, &date, &value, &note); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		i, ok := index[goal.GoalID(goalID)]
		if !ok {
			continue
		}
		d, err := goal.ParseDate(date)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entryID, err)
		}
		v, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("entry %s: bad value %q: %w", entryID, value, err)
		}
		goals[i].History = append(goals[i].History, goal.HistoryEntry{
			ID:    goal.EntryID(entryID),
			Date:  d,
			Value: v,
			Note:  note,
		})
	}
	return goals, rows.Err()
}

func (s *Store) loadGoals(ctx context.Context) ([]goal.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, category, kind, target_value, unit, current_value
		FROM goals
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	goals := []goal.Goal{}
	for rows.Next() {
		var (
			g               goal.Goal
			target, current string
		)
		if err := rows.Scan(&g.ID, &g.Title, &g.Category, &g.Kind, &target, &g.Unit, &current); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if g.TargetValue, err = decimal.NewFromString(target); err != nil {
			return nil, fmt.Errorf("goal %s: bad target %q: %w", g.ID, target, err)
		}
		if g.CurrentValue, err = decimal.NewFromString(current); err != nil {
			return nil, fmt.Errorf("goal %s: bad current value %q: %w", g.ID, current, err)
		}
		g.History = []goal.HistoryEntry{}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

// Save replaces the stored collection atomically.
func (s *Store) Save(ctx context.Context, goals []goal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM history_entries"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM goals"); err != nil {
		return fmt.Errorf("failed to clear goals: %w", err)
	}

	insertGoal := s.dialect.Rebind(`
		INSERT INTO goals (id, position, title, category, kind, target_value, unit, current_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	insertEntry := s.dialect.Rebind(`
		INSERT INTO history_entries (id, goal_id, position, entry_date, value, note)
		VALUES (?, ?, ?, ?, ?, ?)`)

	for pos, g := range goals {
		_, err := tx.ExecContext(ctx, insertGoal,
			string(g.ID), pos, g.Title, string(g.Category), string(g.Kind),
			g.TargetValue.String(), g.Unit, g.CurrentValue.String())
		if err != nil {
			return fmt.Errorf("failed to save goal %s: %w", g.ID, err)
		}
		for i, e := range g.History {
			_, err := tx.ExecContext(ctx, insertEntry,
				string(e.ID), string(g.ID), i, e.Date.String(), e.Value.String(), e.Note)
			if err != nil {
				return fmt.Errorf("failed to save entry %s of goal %s: %w", e.ID, g.ID, err)
			}
		}
	}

	return tx.Commit()
}
