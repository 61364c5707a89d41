package goal

import "context"

// Store persists the whole goal collection. The repository loads once at
// startup and saves the full collection after every successful mutation.
//
// Implementations must round-trip every Goal and HistoryEntry field and
// preserve collection order.
//
// IMPLEMENTATIONS:
//   - goal/store.Memory:     in-memory, for tests and dev
//   - goal/store.WriteQueue: single background writer around another Store
//   - store/sqlite:          SQLite
//   - store/postgres:        PostgreSQL
type Store interface {
	Load(ctx context.Context) ([]Goal, error)
	Save(ctx context.Context, goals []Goal) error
}
