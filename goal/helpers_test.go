package goal_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/warp/goal-engine/goal"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func day(t *testing.T, s string) goal.Date {
	t.Helper()
	dt, err := goal.ParseDate(s)
	require.NoError(t, err)
	return dt
}

func numericGoal(t *testing.T, id string, target float64) goal.Goal {
	t.Helper()
	g, err := goal.NewGoal(goal.GoalID(id), goal.CreateInput{
		Title:    "Goal " + id,
		Category: goal.CategoryHealth,
		Kind:     goal.KindNumeric,
		Target:   &target,
		Unit:     "kg",
	})
	require.NoError(t, err)
	return g
}

func streakGoal(t *testing.T, id string) goal.Goal {
	t.Helper()
	g, err := goal.NewGoal(goal.GoalID(id), goal.CreateInput{
		Title:    "Streak " + id,
		Category: goal.CategoryOther,
		Kind:     goal.KindStreak,
	})
	require.NoError(t, err)
	return g
}

// sequentialIDs makes ledger ids predictable: e1, e2, ...
func sequentialIDs() func() goal.EntryID {
	n := 0
	return func() goal.EntryID {
		n++
		return goal.EntryID(fmt.Sprintf("e%d", n))
	}
}

// fixedClock returns a clock stuck at noon of the given day.
func fixedClock(t *testing.T, s string) func() time.Time {
	dt := day(t, s)
	return func() time.Time { return dt.Time().Add(12 * time.Hour) }
}
