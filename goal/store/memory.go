// Package store provides goal.Store implementations that need no database.
package store

import (
	"context"
	"sync"

	"github.com/warp/goal-engine/goal"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	goals []goal.Goal
	saves int
}

func NewMemory(seed ...goal.Goal) *Memory {
	return &Memory{goals: copyGoals(seed)}
}

func (m *Memory) Load(_ context.Context) ([]goal.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyGoals(m.goals), nil
}

// Save replaces the stored collection with a deep copy of goals.
func (m *Memory) Save(_ context.Context, goals []goal.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals = copyGoals(goals)
	m.saves++
	return nil
}

// Saves counts completed Save calls.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func copyGoals(goals []goal.Goal) []goal.Goal {
	out := make([]goal.Goal, len(goals))
	for i, g := range goals {
		out[i] = g
		out[i].History = append([]goal.HistoryEntry{}, g.History...)
	}
	return out
}
