package goal_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/goal-engine/goal"
	"github.com/warp/goal-engine/goal/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestRepository(t *testing.T, today string) (*goal.Repository, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	repo := goal.NewRepository(mem)
	repo.Now = fixedClock(t, today)
	repo.Ledger = goal.HistoryLedger{NewID: sequentialIDs()}

	n := 0
	repo.NewGoalID = func() goal.GoalID {
		n++
		return goal.GoalID(fmt.Sprintf("g%d", n))
	}
	require.NoError(t, repo.Load(context.Background()))
	return repo, mem
}

func createWeightGoal(t *testing.T, repo *goal.Repository) goal.Goal {
	t.Helper()
	g, err := repo.Create(context.Background(), goal.CreateInput{
		Title:    "Weight",
		Category: goal.CategoryHealth,
		Kind:     goal.KindNumeric,
		Initial:  82,
		Target:   ptr(70),
		Unit:     "kg",
	})
	require.NoError(t, err)
	return g
}

func createStreakGoal(t *testing.T, repo *goal.Repository) goal.Goal {
	t.Helper()
	g, err := repo.Create(context.Background(), goal.CreateInput{
		Title:    "Read",
		Category: goal.CategoryEducation,
		Kind:     goal.KindStreak,
	})
	require.NoError(t, err)
	return g
}

func find(t *testing.T, goals []goal.Goal, id goal.GoalID) goal.Goal {
	t.Helper()
	for _, g := range goals {
		if g.ID == id {
			return g
		}
	}
	t.Fatalf("goal %s not in collection", id)
	return goal.Goal{}
}

type failingStore struct{ store.Memory }

func (f *failingStore) Save(context.Context, []goal.Goal) error { return errors.New("disk full") }

// =============================================================================
// CREATE
// =============================================================================

func TestRepository_Create_NumericSeedsStartEntry(t *testing.T) {
	// GIVEN: An empty repository on Oct 5
	repo, mem := newTestRepository(t, "2025-10-05")

	// WHEN: Creating a weight goal starting at 82 kg
	g := createWeightGoal(t, repo)

	// THEN: One entry dated today carries the initial value
	require.Len(t, g.History, 1)
	assert.Equal(t, "2025-10-05", g.History[0].Date.String())
	assert.True(t, d(82).Equal(g.History[0].Value))
	assert.Equal(t, goal.StartNote, g.History[0].Note)
	assert.True(t, d(82).Equal(g.CurrentValue))
	assert.True(t, g.Percent().IsZero())

	// AND: The collection was saved
	assert.Equal(t, 1, mem.Saves())
}

func TestRepository_Create_StreakStartsEmpty(t *testing.T) {
	repo, _ := newTestRepository(t, "2025-10-05")

	g := createStreakGoal(t, repo)

	assert.Empty(t, g.History)
	assert.True(t, g.CurrentValue.IsZero())
	assert.Equal(t, goal.StreakUnit, g.Unit)
}

func TestRepository_Create_PrependsToCollection(t *testing.T) {
	repo, _ := newTestRepository(t, "2025-10-05")
	first := createWeightGoal(t, repo)
	second := createStreakGoal(t, repo)

	goals := repo.Goals()

	require.Len(t, goals, 2)
	assert.Equal(t, second.ID, goals[0].ID)
	assert.Equal(t, first.ID, goals[1].ID)
}

func TestRepository_Create_InvalidDoesNotSave(t *testing.T) {
	repo, mem := newTestRepository(t, "2025-10-05")

	_, err := repo.Create(context.Background(), goal.CreateInput{Title: "", Category: goal.CategoryOther, Kind: goal.KindStreak})

	assert.ErrorIs(t, err, goal.ErrEmptyTitle)
	assert.Empty(t, repo.Goals())
	assert.Equal(t, 0, mem.Saves())
}

// =============================================================================
// RECORD / DELETE ENTRY
// =============================================================================

func TestRepository_RecordEntry_UpdatesProgress(t *testing.T) {
	repo, _ := newTestRepository(t, "2025-10-05")
	g := createWeightGoal(t, repo)

	goals, err := repo.RecordEntry(context.Background(), g.ID, 76, "2025-10-10", "")

	require.NoError(t, err)
	updated := find(t, goals, g.ID)
	assert.True(t, d(76).Equal(updated.CurrentValue))
	assertPercent(t, 50, updated.Percent())
}

func TestRepository_RecordEntry_Validation(t *testing.T) {
	repo, mem := newTestRepository(t, "2025-10-05")
	g := createWeightGoal(t, repo)
	saves := mem.Saves()

	_, err := repo.RecordEntry(context.Background(), g.ID, 76, "10/10/2025", "")
	assert.ErrorIs(t, err, goal.ErrInvalidDate)

	_, err = repo.RecordEntry(context.Background(), "missing", 76, "2025-10-10", "")
	assert.ErrorIs(t, err, goal.ErrGoalNotFound)

	assert.Equal(t, saves, mem.Saves())
}

func TestRepository_RecordEntry_StreakForcesDoneValue(t *testing.T) {
	repo, _ := newTestRepository(t, "2025-10-05")
	g := createStreakGoal(t, repo)

	goals, err := repo.RecordEntry(context.Background(), g.ID, 7, "2025-10-04", "")

	require.NoError(t, err)
	updated := find(t, goals, g.ID)
	require.Len(t, updated.History, 1)
	assert.True(t, d(goal.StreakDoneValue).Equal(updated.History[0].Value))
}

func TestRepository_DeleteEntry_RestoresPreviousValue(t *testing.T) {
	// GIVEN: A weight goal with a second entry
	repo, _ := newTestRepository(t, "2025-10-05")
	g := createWeightGoal(t, repo)
	goals, err := repo.RecordEntry(context.Background(), g.ID, 76, "2025-10-10", "")
	require.NoError(t, err)
	latest, _ := find(t, goals, g.ID).Latest()

	// WHEN: Deleting that entry
	goals, err = repo.DeleteEntry(context.Background(), g.ID, latest.ID)

	// THEN: Current value and progress fall back to the start entry
	require.NoError(t, err)
	updated := find(t, goals, g.ID)
	assert.True(t, d(82).Equal(updated.CurrentValue))
	assert.True(t, updated.Percent().IsZero())
}

func TestRepository_DeleteEntry_MissingIsNoOp(t *testing.T) {
	repo, mem := newTestRepository(t, "2025-10-05")
	g := createWeightGoal(t, repo)
	saves := mem.Saves()

	goals, err := repo.DeleteEntry(context.Background(), g.ID, "nope")
	require.NoError(t, err)
	assert.Len(t, find(t, goals, g.ID).History, 1)

	_, err = repo.DeleteEntry(context.Background(), "missing", "nope")
	require.NoError(t, err)

	assert.Equal(t, saves, mem.Saves())
}

// =============================================================================
// CHECK-INS
// =============================================================================

func TestRepository_QuickCheckIn_IsIdempotent(t *testing.T) {
	// GIVEN: A streak goal
	repo, mem := newTestRepository(t, "2025-10-05")
	g := createStreakGoal(t, repo)

	// WHEN: Checking in twice on the same day
	_, err := repo.QuickCheckIn(context.Background(), g.ID)
	require.NoError(t, err)
	saves := mem.Saves()
	goals, err := repo.QuickCheckIn(context.Background(), g.ID)
	require.NoError(t, err)

	// THEN: One entry, one save
	updated := find(t, goals, g.ID)
	require.Len(t, updated.History, 1)
	assert.Equal(t, goal.CheckInNote, updated.History[0].Note)
	assert.Equal(t, saves, mem.Saves())
	assert.Equal(t, 1, updated.StreakStats(repo.Today()).Current)
}

func TestRepository_QuickCheckIn_RejectsNumeric(t *testing.T) {
	repo, _ := newTestRepository(t, "2025-10-05")
	g := createWeightGoal(t, repo)

	_, err := repo.QuickCheckIn(context.Background(), g.ID)
	assert.ErrorIs(t, err, goal.ErrNotStreakGoal)

	_, err = repo.QuickCheckIn(context.Background(), "missing")
	assert.ErrorIs(t, err, goal.ErrGoalNotFound)
}

func TestRepository_ToggleToday(t *testing.T) {
	repo, _ := newTestRepository(t, "2025-10-05")
	g := createStreakGoal(t, repo)

	goals, err := repo.ToggleToday(context.Background(), g.ID)
	require.NoError(t, err)
	assert.True(t, find(t, goals, g.ID).CheckedInOn(repo.Today()))

	goals, err = repo.ToggleToday(context.Background(), g.ID)
	require.NoError(t, err)
	assert.False(t, find(t, goals, g.ID).CheckedInOn(repo.Today()))
	assert.Empty(t, find(t, goals, g.ID).History)
}

func TestRepository_StreakAcrossDays(t *testing.T) {
	// GIVEN: Check-ins on three consecutive days
	repo, _ := newTestRepository(t, "2025-10-05")
	g := createStreakGoal(t, repo)
	for _, s := range []string{"2025-10-03", "2025-10-04", "2025-10-05"} {
		repo.Now = fixedClock(t, s)
		_, err := repo.QuickCheckIn(context.Background(), g.ID)
		require.NoError(t, err)
	}

	// WHEN: Looking the next day, before checking in
	repo.Now = fixedClock(t, "2025-10-06")
	got, err := repo.Get(g.ID)
	require.NoError(t, err)

	// THEN: The grace day keeps the streak
	assert.Equal(t, goal.StreakStats{Current: 3, Longest: 3, TotalDays: 3}, got.StreakStats(repo.Today()))
}

// =============================================================================
// DELETE GOAL / REORDER / REPLACE
// =============================================================================

func TestRepository_DeleteGoal(t *testing.T) {
	repo, mem := newTestRepository(t, "2025-10-05")
	a := createWeightGoal(t, repo)
	b := createStreakGoal(t, repo)

	goals, err := repo.DeleteGoal(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, b.ID, goals[0].ID)

	_, err = repo.Get(a.ID)
	assert.ErrorIs(t, err, goal.ErrGoalNotFound)

	saves := mem.Saves()
	_, err = repo.DeleteGoal(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, saves, mem.Saves())
}

func TestRepository_Reorder(t *testing.T) {
	repo, _ := newTestRepository(t, "2025-10-05")
	a := createWeightGoal(t, repo)
	b := createStreakGoal(t, repo)

	goals, err := repo.Reorder(context.Background(), []goal.GoalID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, a.ID, goals[0].ID)
	assert.Equal(t, b.ID, goals[1].ID)

	_, err = repo.Reorder(context.Background(), []goal.GoalID{a.ID})
	assert.ErrorIs(t, err, goal.ErrInvalidOrder)
	_, err = repo.Reorder(context.Background(), []goal.GoalID{a.ID, a.ID})
	assert.ErrorIs(t, err, goal.ErrInvalidOrder)
}

func TestRepository_Replace_ValidatesFirst(t *testing.T) {
	repo, _ := newTestRepository(t, "2025-10-05")
	existing := createWeightGoal(t, repo)

	bad := numericGoal(t, "x", 10)
	bad.Title = ""
	_, err := repo.Replace(context.Background(), []goal.Goal{numericGoal(t, "y", 5), bad})

	assert.ErrorIs(t, err, goal.ErrEmptyTitle)
	goals := repo.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, existing.ID, goals[0].ID)
}

func TestRepository_Replace_RejectsDuplicateIDs(t *testing.T) {
	// GIVEN: A repository with one goal
	repo, mem := newTestRepository(t, "2025-10-05")
	existing := createWeightGoal(t, repo)
	saves := mem.Saves()

	sameEntries := numericGoal(t, "y", 5)
	sameEntries.History = []goal.HistoryEntry{
		{ID: "e", Date: day(t, "2025-10-01"), Value: d(1)},
		{ID: "e", Date: day(t, "2025-10-02"), Value: d(2)},
	}

	tests := []struct {
		name  string
		goals []goal.Goal
		field string
	}{
		{"goal ids", []goal.Goal{numericGoal(t, "x", 10), numericGoal(t, "x", 20)}, "goal id"},
		{"entry ids", []goal.Goal{sameEntries}, "entry id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// WHEN
			_, err := repo.Replace(context.Background(), tt.goals)

			// THEN: Rejected as a client error and nothing changes
			require.ErrorIs(t, err, goal.ErrDuplicateID)
			assert.True(t, goal.IsClientError(err))
			var verr *goal.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)

			goals := repo.Goals()
			require.Len(t, goals, 1)
			assert.Equal(t, existing.ID, goals[0].ID)
			assert.Equal(t, saves, mem.Saves())
		})
	}
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestRepository_Load_SkipsInvalidAndNormalises(t *testing.T) {
	// GIVEN: A store holding one broken goal and one with a stale current value
	ok := numericGoal(t, "ok", 10)
	ok.History = []goal.HistoryEntry{
		{ID: "2", Date: day(t, "2025-10-02"), Value: d(5)},
		{ID: "1", Date: day(t, "2025-10-01"), Value: d(1)},
	}
	ok.CurrentValue = d(99)
	broken := numericGoal(t, "broken", 10)
	broken.Category = "travel"

	repo := goal.NewRepository(store.NewMemory(ok, broken))

	// WHEN
	require.NoError(t, repo.Load(context.Background()))

	// THEN
	goals := repo.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, goal.EntryID("1"), goals[0].History[0].ID)
	assert.True(t, d(5).Equal(goals[0].CurrentValue))
}

func TestRepository_Load_SkipsDuplicateGoalIDs(t *testing.T) {
	// GIVEN: A store holding two goals with the same id
	first := numericGoal(t, "x", 10)
	second := numericGoal(t, "x", 20)
	second.Title = "Second"

	repo := goal.NewRepository(store.NewMemory(first, second))

	// WHEN
	require.NoError(t, repo.Load(context.Background()))

	// THEN: The first one wins and deletion removes the id entirely
	goals := repo.Goals()
	require.Len(t, goals, 1)
	assert.Equal(t, first.Title, goals[0].Title)

	goals, err := repo.DeleteGoal(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestRepository_SaveFailureKeepsState(t *testing.T) {
	repo := goal.NewRepository(&failingStore{})
	repo.Now = fixedClock(t, "2025-10-05")

	g := createWeightGoal(t, repo)

	got, err := repo.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)
}

func TestRepository_ReturnedGoalsAreCopies(t *testing.T) {
	repo, _ := newTestRepository(t, "2025-10-05")
	g := createWeightGoal(t, repo)

	goals := repo.Goals()
	goals[0].History[0].Note = "tampered"

	got, err := repo.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, goal.StartNote, got.History[0].Note)
}

func TestRepository_ConcurrentCheckIns(t *testing.T) {
	repo, _ := newTestRepository(t, "2025-10-05")
	g := createStreakGoal(t, repo)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.QuickCheckIn(context.Background(), g.ID)
		}()
	}
	wg.Wait()

	got, err := repo.Get(g.ID)
	require.NoError(t, err)
	assert.Len(t, got.History, 1)
}
