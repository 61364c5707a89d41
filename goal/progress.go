/*
progress.go - Completion percentage for numeric goals

DIRECTION:
  Derived on every call from the earliest entry, never stored:
    initial > target  -> decreasing (e.g. weight 82 kg -> 70 kg)
    otherwise         -> increasing (e.g. score 0 -> 120)

  Deleting the earliest entry therefore changes the direction basis to the
  next-earliest entry.

FORMULAS:
  decreasing: (initial - current) / (initial - target) * 100
  increasing: current / target * 100

  Always clamped to [0, 100].

GUARDS (no division by zero):
  initial == target: 100 when current <= target, else 0
  target == 0 (increasing): 100 when current >= 0, else 0
*/
package goal

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Direction string

const (
	Increasing Direction = "increasing"
	Decreasing Direction = "decreasing"
)

// DirectionOf classifies a numeric goal from its initial value and target.
func DirectionOf(initial, target decimal.Decimal) Direction {
	if initial.GreaterThan(target) {
		return Decreasing
	}
	return Increasing
}

// Progress returns the completion percentage in [0, 100].
func Progress(initial, current, target decimal.Decimal) decimal.Decimal {
	if initial.Equal(target) {
		if current.LessThanOrEqual(target) {
			return hundred
		}
		return decimal.Zero
	}

	var p decimal.Decimal
	switch DirectionOf(initial, target) {
	case Decreasing:
		p = initial.Sub(current).Div(initial.Sub(target)).Mul(hundred)
	case Increasing:
		if target.IsZero() {
			if current.GreaterThanOrEqual(target) {
				return hundred
			}
			return decimal.Zero
		}
		p = current.Div(target).Mul(hundred)
	}
	return clampPercent(p)
}

// IsCompleted classifies a numeric goal: a decreasing goal is done at or
// below target, an increasing goal at or above it.
// initial == target has no direction and uses the increasing rule.
func IsCompleted(initial, current, target decimal.Decimal) bool {
	if DirectionOf(initial, target) == Decreasing {
		return current.LessThanOrEqual(target)
	}
	return current.GreaterThanOrEqual(target)
}

// Direction is the goal's current progress direction.
func (g Goal) Direction() Direction { return DirectionOf(g.InitialValue(), g.TargetValue) }

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// =============================================================================
// AGGREGATES
// =============================================================================

// AggregateProgress is the mean of every goal's clamped percentage, or zero
// for an empty collection.
func AggregateProgress(goals []Goal) decimal.Decimal {
	if len(goals) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, g := range goals {
		sum = sum.Add(g.Percent())
	}
	return sum.Div(decimal.NewFromInt(int64(len(goals))))
}

// Summary is the dashboard view of a collection.
type Summary struct {
	Total     int
	Completed int
	Progress  decimal.Decimal
}

func Summarize(goals []Goal) Summary {
	s := Summary{Total: len(goals), Progress: AggregateProgress(goals)}
	for _, g := range goals {
		if g.Completed() {
			s.Completed++
		}
	}
	return s
}
