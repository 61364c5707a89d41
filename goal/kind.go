package goal

import (
	"github.com/shopspring/decimal"
)

// Tracker is the behaviour that differs between goal kinds. Every kind has
// exactly one implementation, returned by Kind.Tracker; adding a kind means
// adding an implementation, and the unexported method keeps the set closed.
type Tracker interface {
	// Percent is the goal's completion in [0, 100].
	Percent(g Goal) decimal.Decimal

	// Completed reports whether the goal has reached its target.
	Completed(g Goal) bool

	// UniqueDays reports whether at most one entry may exist per date.
	UniqueDays() bool

	tracker()
}

// Tracker returns the behaviour for the kind.
func (k Kind) Tracker() (Tracker, error) {
	switch k {
	case KindNumeric:
		return numericTracker{}, nil
	case KindStreak:
		return streakTracker{}, nil
	}
	return nil, &ValidationError{Field: "type", Value: k, Err: ErrUnknownKind}
}

// tracker resolves the goal's behaviour. Kinds are validated on creation
// and on load, so the numeric fallback is never reached in practice.
func (g Goal) tracker() Tracker {
	t, err := g.Kind.Tracker()
	if err != nil {
		return numericTracker{}
	}
	return t
}

// Percent is the goal's clamped completion percentage.
func (g Goal) Percent() decimal.Decimal { return g.tracker().Percent(g) }

// Completed reports whether the goal has reached its target.
func (g Goal) Completed() bool { return g.tracker().Completed(g) }

// =============================================================================
// NUMERIC
// =============================================================================

type numericTracker struct{}

func (numericTracker) tracker() {}

func (numericTracker) UniqueDays() bool { return false }

func (numericTracker) Percent(g Goal) decimal.Decimal {
	return Progress(g.InitialValue(), g.CurrentValue, g.TargetValue)
}

func (numericTracker) Completed(g Goal) bool {
	return IsCompleted(g.InitialValue(), g.CurrentValue, g.TargetValue)
}

// =============================================================================
// STREAK
// =============================================================================

type streakTracker struct{}

func (streakTracker) tracker() {}

func (streakTracker) UniqueDays() bool { return true }

// Percent counts recorded days toward StreakTarget.
func (streakTracker) Percent(g Goal) decimal.Decimal {
	days := decimal.NewFromInt(int64(distinctDays(g.Dates())))
	return clampPercent(days.Div(decimal.NewFromInt(StreakTarget)).Mul(hundred))
}

func (streakTracker) Completed(g Goal) bool {
	return distinctDays(g.Dates()) >= StreakTarget
}
