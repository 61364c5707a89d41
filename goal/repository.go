/*
repository.go - The goal collection and its mutation intents

PURPOSE:
  Repository owns the ordered goal collection. It is the only component
  with visible side effects: it validates intents, delegates entry changes
  to HistoryLedger, replaces the goal in the collection and saves.

LIFECYCLE:
  repo := goal.NewRepository(store)
  repo.Load(ctx)                   // once, at startup
  repo.RecordEntry(ctx, ...)       // mutate via intents
                                   // -> whole-collection save after each change

INTENTS:
  Create        validate, assign id, seed today's entry (numeric only)
  RecordEntry   append through the ledger (streak: same-day is a no-op)
  DeleteEntry   remove through the ledger (missing id: no-op)
  DeleteGoal    drop the goal and its history (missing id: no-op)
  QuickCheckIn  streak only: RecordEntry(done, today, CheckInNote)
  ToggleToday   streak only: undo today's check-in, or check in
  Reorder       permutation of the collection, no effect on goal data
  Replace       swap in a whole new collection (scenarios, imports)

  Every mutation returns the updated collection.

ERRORS:
  Validation failures are returned before anything changes. Saves are best
  effort: a failed save is logged and the in-memory state stays applied.

CONCURRENCY:
  A mutex serialises intents, so there is one writer at a time even when
  the repository sits behind an HTTP server.
*/
package goal

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Repository struct {
	Store  Store
	Ledger HistoryLedger

	// Now is the clock used for "today". Calendar days are taken in the
	// location of the returned time.
	Now func() time.Time

	// NewGoalID generates goal ids. Defaults to random UUIDs.
	NewGoalID func() GoalID

	mu    sync.Mutex
	goals []Goal
}

func NewRepository(store Store) *Repository {
	return &Repository{
		Store:     store,
		Ledger:    NewHistoryLedger(),
		Now:       time.Now,
		NewGoalID: func() GoalID { return GoalID(uuid.NewString()) },
		goals:     []Goal{},
	}
}

// Load reads the collection from the store. Goals that fail validation are
// skipped and logged; history is normalised so derived fields hold.
func (r *Repository) Load(ctx context.Context) error {
	goals, err := r.Store.Load(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.goals = make([]Goal, 0, len(goals))
	seen := make(map[GoalID]bool, len(goals))
	for _, g := range goals {
		if err := g.Validate(); err != nil {
			log.Printf("[Repository] Skipping stored goal %s: %v", g.ID, err)
			continue
		}
		if seen[g.ID] {
			log.Printf("[Repository] Skipping stored goal %s: duplicate id", g.ID)
			continue
		}
		seen[g.ID] = true
		r.goals = append(r.goals, r.Ledger.Normalize(g))
	}
	return nil
}

// Today is the current calendar day.
func (r *Repository) Today() Date { return DateOf(r.Now()) }

// =============================================================================
// READS
// =============================================================================

// Goals returns a copy of the collection in display order.
func (r *Repository) Goals() []Goal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Get returns one goal.
func (r *Repository) Get(id GoalID) (Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return Goal{}, ErrGoalNotFound
	}
	return r.goals[i].clone(), nil
}

// =============================================================================
// INTENTS
// =============================================================================

// Create validates the intent and puts the new goal at the top of the
// collection. A numeric goal is seeded with one entry dated today holding
// the initial value; a streak goal starts empty.
func (r *Repository) Create(ctx context.Context, in CreateInput) (Goal, error) {
	g, err := NewGoal(r.NewGoalID(), in)
	if err != nil {
		return Goal{}, err
	}
	if g.Kind == KindNumeric {
		g = r.Ledger.Append(g, r.Today(), decimal.NewFromFloat(in.Initial), StartNote)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.goals = append([]Goal{g}, r.goals...)
	r.saveLocked(ctx)
	return g.clone(), nil
}

// RecordEntry appends an entry to a goal. The date must be YYYY-MM-DD.
// Streak entries always carry StreakDoneValue, and a second entry for a
// recorded day is a no-op.
func (r *Repository) RecordEntry(ctx context.Context, id GoalID, value float64, date string, note string) ([]Goal, error) {
	d, err := ParseDate(date)
	if err != nil {
		return nil, err
	}
	v, err := DecimalFromFloat(value)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recordLocked(ctx, id, d, v, note)
}

// DeleteEntry removes one history entry. Missing goal or entry: no-op.
func (r *Repository) DeleteEntry(ctx context.Context, id GoalID, entryID EntryID) ([]Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return r.snapshotLocked(), nil
	}
	before := len(r.goals[i].History)
	r.goals[i] = r.Ledger.Remove(r.goals[i], entryID)
	if len(r.goals[i].History) != before {
		r.saveLocked(ctx)
	}
	return r.snapshotLocked(), nil
}

// DeleteGoal removes a goal with all of its history. Missing goal: no-op.
func (r *Repository) DeleteGoal(ctx context.Context, id GoalID) ([]Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return r.snapshotLocked(), nil
	}
	r.goals = append(r.goals[:i:i], r.goals[i+1:]...)
	r.saveLocked(ctx)
	return r.snapshotLocked(), nil
}

// QuickCheckIn records today's check-in on a streak goal. Already checked
// in today: no-op.
func (r *Repository) QuickCheckIn(ctx context.Context, id GoalID) ([]Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireStreakLocked(id); err != nil {
		return nil, err
	}
	return r.recordLocked(ctx, id, r.Today(), decimal.NewFromInt(StreakDoneValue), CheckInNote)
}

// ToggleToday undoes today's check-in when there is one, and checks in
// otherwise. Streak goals only.
func (r *Repository) ToggleToday(ctx context.Context, id GoalID) ([]Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireStreakLocked(id); err != nil {
		return nil, err
	}
	i := r.indexLocked(id)
	today := r.Today()
	if e, ok := r.goals[i].EntryOn(today); ok {
		r.goals[i] = r.Ledger.Remove(r.goals[i], e.ID)
		r.saveLocked(ctx)
		return r.snapshotLocked(), nil
	}
	return r.recordLocked(ctx, id, today, decimal.NewFromInt(StreakDoneValue), CheckInNote)
}

// Reorder arranges the collection in the given order. ids must be a
// permutation of the current goal ids.
func (r *Repository) Reorder(ctx context.Context, ids []GoalID) ([]Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(ids) != len(r.goals) {
		return nil, ErrInvalidOrder
	}
	byID := make(map[GoalID]Goal, len(r.goals))
	for _, g := range r.goals {
		byID[g.ID] = g
	}
	ordered := make([]Goal, 0, len(ids))
	for _, id := range ids {
		g, ok := byID[id]
		if !ok {
			return nil, ErrInvalidOrder
		}
		delete(byID, id)
		ordered = append(ordered, g)
	}

	r.goals = ordered
	r.saveLocked(ctx)
	return r.snapshotLocked(), nil
}

// Replace swaps in a whole collection, e.g. a demo scenario or an import.
// Every goal is validated first and goal ids must be unique; on error
// nothing changes.
func (r *Repository) Replace(ctx context.Context, goals []Goal) ([]Goal, error) {
	next := make([]Goal, 0, len(goals))
	seen := make(map[GoalID]bool, len(goals))
	for _, g := range goals {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		if seen[g.ID] {
			return nil, &ValidationError{Field: "goal id", Value: g.ID, Err: ErrDuplicateID}
		}
		seen[g.ID] = true
		next = append(next, r.Ledger.Normalize(g))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.goals = next
	r.saveLocked(ctx)
	return r.snapshotLocked(), nil
}

// =============================================================================
// INTERNALS (caller holds r.mu)
// =============================================================================

func (r *Repository) recordLocked(ctx context.Context, id GoalID, d Date, v decimal.Decimal, note string) ([]Goal, error) {
	i := r.indexLocked(id)
	if i < 0 {
		return nil, ErrGoalNotFound
	}
	if r.goals[i].Kind == KindStreak {
		v = decimal.NewFromInt(StreakDoneValue)
	}

	before := len(r.goals[i].History)
	r.goals[i] = r.Ledger.Append(r.goals[i], d, v, note)
	if len(r.goals[i].History) != before {
		r.saveLocked(ctx)
	}
	return r.snapshotLocked(), nil
}

func (r *Repository) requireStreakLocked(id GoalID) error {
	i := r.indexLocked(id)
	if i < 0 {
		return ErrGoalNotFound
	}
	if r.goals[i].Kind != KindStreak {
		return ErrNotStreakGoal
	}
	return nil
}

func (r *Repository) indexLocked(id GoalID) int {
	for i, g := range r.goals {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) snapshotLocked() []Goal {
	out := make([]Goal, len(r.goals))
	for i, g := range r.goals {
		out[i] = g.clone()
	}
	return out
}

func (r *Repository) saveLocked(ctx context.Context) {
	if r.Store == nil {
		return
	}
	if err := r.Store.Save(ctx, r.snapshotLocked()); err != nil {
		log.Printf("[Repository] Save failed: %v", err)
	}
}
