/*
ledger.go - A goal's entry log and its derived current value

PURPOSE:
  HistoryLedger is the only code that changes a goal's history. Every
  change also recomputes CurrentValue, so the two never drift apart.

INVARIANTS:
  1. ORDERED: history is ascending by date; equal dates keep insertion order
  2. DERIVED: CurrentValue == value of the last entry, or 0 when empty
  3. DAY-UNIQUE: a streak goal holds at most one entry per date
  4. IMMUTABLE: operations return a new Goal; the input is untouched and
     entries are never edited in place

NO-OPS (not errors):
  - Append on a streak goal for a date already recorded ("already checked in")
  - Remove of an id that is not in the history

  Both are benign races, e.g. a double tap on "check in".

BACKFILL:
  Entries may be recorded for past dates, so Append re-sorts the whole log
  instead of assuming the new entry is the latest.
*/
package goal

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// HISTORY LEDGER
// =============================================================================

type HistoryLedger struct {
	// NewID generates entry ids. Defaults to random UUIDs.
	NewID func() EntryID
}

func NewHistoryLedger() HistoryLedger {
	return HistoryLedger{NewID: func() EntryID { return EntryID(uuid.NewString()) }}
}

func (l HistoryLedger) newID() EntryID {
	if l.NewID == nil {
		return EntryID(uuid.NewString())
	}
	return l.NewID()
}

// Append records a value on a date under a fresh entry id.
func (l HistoryLedger) Append(g Goal, date Date, value decimal.Decimal, note string) Goal {
	return l.Insert(g, HistoryEntry{Date: date, Value: value, Note: note})
}

// Insert records an entry as given, generating an id when it has none.
// Used directly when replaying stored or seeded history.
func (l HistoryLedger) Insert(g Goal, e HistoryEntry) Goal {
	if g.tracker().UniqueDays() && g.CheckedInOn(e.Date) {
		return g
	}
	if e.ID == "" {
		e.ID = l.newID()
	}

	next := g.clone()
	next.History = append(next.History, e)
	sortHistory(next.History)
	next.CurrentValue = currentValueOf(next.History)
	return next
}

// Remove deletes the entry with the given id. This is the only way the
// current value can go back: the previous entry, or zero, becomes current.
func (l HistoryLedger) Remove(g Goal, id EntryID) Goal {
	idx := -1
	for i, e := range g.History {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return g
	}

	next := g.clone()
	next.History = append(next.History[:idx], next.History[idx+1:]...)
	next.CurrentValue = currentValueOf(next.History)
	return next
}

// Normalize restores the ledger invariants on a goal read from outside
// (storage, seed files): sorted history, later same-day duplicates dropped
// for streak goals, CurrentValue recomputed.
func (l HistoryLedger) Normalize(g Goal) Goal {
	next := g
	next.History = []HistoryEntry{}
	next.CurrentValue = decimal.Zero
	for _, e := range g.History {
		next = l.Insert(next, e)
	}
	return next
}

func sortHistory(h []HistoryEntry) {
	sort.SliceStable(h, func(i, j int) bool { return h[i].Date.Before(h[j].Date) })
}

func currentValueOf(h []HistoryEntry) decimal.Decimal {
	if len(h) == 0 {
		return decimal.Zero
	}
	return h[len(h)-1].Value
}
