/*
Package goal is the goal tracking engine.

PURPOSE:
  Records progress toward personal goals and derives everything the views
  show from a goal's dated history: the current value, completion
  percentage, streak statistics and a monthly activity map.

KEY CONCEPTS IN THIS FILE (types.go):
  - Goal:         A tracked objective, numeric or streak
  - HistoryEntry: One dated value in a goal's log
  - Kind:         numeric | streak, dispatched through Tracker
  - CreateInput:  Validated creation intent

DESIGN PRINCIPLES:
  1. Derived, not stored: CurrentValue is recomputed on every history
     mutation; progress, streaks and calendars are computed on read
  2. Precision: values use decimal.Decimal
  3. Immutability: ledger operations return a new Goal, entries are
     never edited in place

SEE ALSO:
  - ledger.go:     HistoryLedger (append/remove)
  - progress.go:   ProgressCalculator
  - streak.go:     StreakCalculator
  - calendar.go:   ActivityCalendarBuilder
  - repository.go: GoalRepository
*/
package goal

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORY
// =============================================================================

type Category string

const (
	CategoryEducation Category = "education"
	CategoryFinance   Category = "finance"
	CategoryHealth    Category = "health"
	CategorySocial    Category = "social"
	CategoryOther     Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryEducation, CategoryFinance, CategoryHealth, CategorySocial, CategoryOther:
		return true
	}
	return false
}

// =============================================================================
// KIND
// =============================================================================

type Kind string

const (
	KindNumeric Kind = "numeric"
	KindStreak  Kind = "streak"
)

const (
	// StreakTarget is the fixed target of every streak goal, in days.
	StreakTarget = 365

	// StreakUnit is the fixed unit of every streak goal.
	StreakUnit = "days"

	// StreakDoneValue is the sentinel value of a streak check-in. It marks
	// "done" and is not a magnitude.
	StreakDoneValue = 1

	// StartNote labels the seed entry of a numeric goal.
	StartNote = "Start"

	// CheckInNote labels entries recorded by a quick check-in.
	CheckInNote = "Daily check-in"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type GoalID string
type EntryID string

// =============================================================================
// GOAL & HISTORY
// =============================================================================

type HistoryEntry struct {
	ID    EntryID
	Date  Date
	Value decimal.Decimal
	Note  string
}

// Goal is a tracked objective. History is kept in ascending date order;
// entries sharing a date stay in insertion order.
type Goal struct {
	ID          GoalID
	Title       string
	Category    Category
	Kind        Kind
	TargetValue decimal.Decimal
	Unit        string

	// CurrentValue is derived: the value of the last history entry, or zero.
	// Only HistoryLedger writes it.
	CurrentValue decimal.Decimal

	History []HistoryEntry
}

// Initial returns the earliest entry. Its value fixes the progress direction.
func (g Goal) Initial() (HistoryEntry, bool) {
	if len(g.History) == 0 {
		return HistoryEntry{}, false
	}
	return g.History[0], true
}

// Latest returns the chronologically last entry.
func (g Goal) Latest() (HistoryEntry, bool) {
	if len(g.History) == 0 {
		return HistoryEntry{}, false
	}
	return g.History[len(g.History)-1], true
}

// InitialValue is the earliest entry's value, or zero for an empty history.
func (g Goal) InitialValue() decimal.Decimal {
	if e, ok := g.Initial(); ok {
		return e.Value
	}
	return decimal.Zero
}

// EntryOn returns the first entry recorded on the given day.
func (g Goal) EntryOn(d Date) (HistoryEntry, bool) {
	for _, e := range g.History {
		if e.Date.Equal(d) {
			return e, true
		}
	}
	return HistoryEntry{}, false
}

// CheckedInOn reports whether any entry exists for the given day.
func (g Goal) CheckedInOn(d Date) bool {
	_, ok := g.EntryOn(d)
	return ok
}

// Dates returns the date of every entry, duplicates included.
func (g Goal) Dates() []Date {
	dates := make([]Date, len(g.History))
	for i, e := range g.History {
		dates[i] = e.Date
	}
	return dates
}

// HistoryDescending returns entries newest first, for display.
func (g Goal) HistoryDescending() []HistoryEntry {
	out := make([]HistoryEntry, len(g.History))
	for i, e := range g.History {
		out[len(g.History)-1-i] = e
	}
	return out
}

func (g Goal) clone() Goal {
	c := g
	c.History = make([]HistoryEntry, len(g.History))
	copy(c.History, g.History)
	return c
}

// =============================================================================
// CREATION
// =============================================================================

// CreateInput is the creation intent. Target is a pointer so a missing
// target can be told apart from zero.
type CreateInput struct {
	Title    string
	Category Category
	Kind     Kind
	Initial  float64
	Target   *float64
	Unit     string
}

// NewGoal validates the intent and returns a goal with an empty history.
// Streak goals get the fixed target and unit whatever the input says.
func NewGoal(id GoalID, in CreateInput) (Goal, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Goal{}, &ValidationError{Field: "title", Value: in.Title, Err: ErrEmptyTitle}
	}
	if !in.Category.Valid() {
		return Goal{}, &ValidationError{Field: "category", Value: in.Category, Err: ErrUnknownCategory}
	}

	g := Goal{
		ID:           id,
		Title:        title,
		Category:     in.Category,
		Kind:         in.Kind,
		CurrentValue: decimal.Zero,
		History:      []HistoryEntry{},
	}

	switch in.Kind {
	case KindNumeric:
		if in.Target == nil || !finite(*in.Target) {
			var v any = "missing"
			if in.Target != nil {
				v = *in.Target
			}
			return Goal{}, &ValidationError{Field: "target", Value: v, Err: ErrInvalidTarget}
		}
		if !finite(in.Initial) {
			return Goal{}, &ValidationError{Field: "initial", Value: in.Initial, Err: ErrInvalidValue}
		}
		g.TargetValue = decimal.NewFromFloat(*in.Target)
		g.Unit = strings.TrimSpace(in.Unit)
	case KindStreak:
		g.TargetValue = decimal.NewFromInt(StreakTarget)
		g.Unit = StreakUnit
	default:
		return Goal{}, &ValidationError{Field: "type", Value: in.Kind, Err: ErrUnknownKind}
	}
	return g, nil
}

// Validate checks a goal that arrives from outside the repository
// (storage, seed documents).
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return &ValidationError{Field: "title", Value: g.Title, Err: ErrEmptyTitle}
	}
	if !g.Category.Valid() {
		return &ValidationError{Field: "category", Value: g.Category, Err: ErrUnknownCategory}
	}
	if _, err := g.Kind.Tracker(); err != nil {
		return err
	}
	seen := make(map[EntryID]bool, len(g.History))
	for _, e := range g.History {
		if e.ID == "" {
			continue
		}
		if seen[e.ID] {
			return &ValidationError{Field: "entry id", Value: e.ID, Err: ErrDuplicateID}
		}
		seen[e.ID] = true
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// DecimalFromFloat converts a caller-supplied value, rejecting NaN and ±Inf.
func DecimalFromFloat(f float64) (decimal.Decimal, error) {
	if !finite(f) {
		return decimal.Zero, &ValidationError{Field: "value", Value: f, Err: ErrInvalidValue}
	}
	return decimal.NewFromFloat(f), nil
}
