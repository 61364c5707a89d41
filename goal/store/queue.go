/*
queue.go - Single background writer for the goal collection

PURPOSE:
  Saving the whole collection after every mutation is cheap for a personal
  log but still I/O. WriteQueue moves saves off the request path while
  keeping exactly one writer: Save hands over a snapshot and returns, and a
  single goroutine writes snapshots in order.

COALESCING:
  Only the newest pending snapshot matters. If a snapshot is still waiting
  when a newer one arrives, the older one is dropped.

USAGE:
  q := store.NewWriteQueue(sqliteStore)
  q.Start()
  defer q.Stop()          // drains the pending snapshot
  repo := goal.NewRepository(q)

  Before Start (or after Stop), Save writes synchronously.
*/
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/warp/goal-engine/goal"
)

type WriteQueue struct {
	Inner        goal.Store
	WriteTimeout time.Duration

	pending chan []goal.Goal
	stop    chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

func NewWriteQueue(inner goal.Store) *WriteQueue {
	return &WriteQueue{
		Inner:        inner,
		WriteTimeout: 30 * time.Second,
		pending:      make(chan []goal.Goal, 1),
	}
}

// Start launches the writer goroutine.
func (q *WriteQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.running {
		return
	}
	q.stop = make(chan struct{})
	q.running = true
	q.wg.Add(1)
	go q.run()

	log.Println("[WriteQueue] Started")
}

// Stop writes any pending snapshot and stops the writer.
func (q *WriteQueue) Stop() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		return
	}
	close(q.stop)
	q.wg.Wait()
	q.running = false
	log.Println("[WriteQueue] Stopped")
}

func (q *WriteQueue) Load(ctx context.Context) ([]goal.Goal, error) {
	return q.Inner.Load(ctx)
}

// Save enqueues a snapshot, replacing one that has not been written yet.
func (q *WriteQueue) Save(ctx context.Context, goals []goal.Goal) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.running {
		return q.Inner.Save(ctx, goals)
	}
	select {
	case <-q.pending:
	default:
	}
	q.pending <- goals
	return nil
}

func (q *WriteQueue) run() {
	defer q.wg.Done()

	for {
		select {
		case goals := <-q.pending:
			q.write(goals)
		case <-q.stop:
			select {
			case goals := <-q.pending:
				q.write(goals)
			default:
			}
			return
		}
	}
}

func (q *WriteQueue) write(goals []goal.Goal) {
	ctx, cancel := context.WithTimeout(context.Background(), q.WriteTimeout)
	defer cancel()

	if err := q.Inner.Save(ctx, goals); err != nil {
		log.Printf("[WriteQueue] Save failed (%d goals): %v", len(goals), err)
	}
}
