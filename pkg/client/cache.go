package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is how often the cache re-fetches in the background to
// catch changes made from another session.
const DefaultPollInterval = 30 * time.Second

// SyncCache mirrors the backend's task list and stats locally. It refreshes
// after every mutation and on a fixed polling interval; when a fetch fails it
// keeps serving the last good snapshot and marks it stale instead of clearing
// state. Mutations attempted while the backend is unreachable fail loudly;
// nothing is queued.
type SyncCache struct {
	client   *Client
	interval time.Duration
	logger   *slog.Logger

	mu       sync.RWMutex
	tasks    []Task
	stats    *Stats
	stale    bool
	lastSync time.Time
}

// NewSyncCache creates a cache over the client. A non-positive interval
// falls back to DefaultPollInterval.
func NewSyncCache(c *Client, interval time.Duration, logger *slog.Logger) *SyncCache {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &SyncCache{
		client:   c,
		interval: interval,
		logger:   logger,
		stale:    true,
	}
}

// Refresh re-fetches tasks and stats. On failure the cached snapshot is
// retained and marked stale, and the error is returned.
func (sc *SyncCache) Refresh(ctx context.Context) error {
	tasks, err := sc.client.Tasks(ctx)
	if err != nil {
		sc.markStale()
		return err
	}
	stats, err := sc.client.Stats(ctx)
	if err != nil {
		sc.markStale()
		return err
	}

	sc.mu.Lock()
	sc.tasks = tasks
	sc.stats = stats
	sc.stale = false
	sc.lastSync = time.Now()
	sc.mu.Unlock()
	return nil
}

// Tasks returns the last-known task list and whether it is stale.
// The returned slice is a copy.
func (sc *SyncCache) Tasks() ([]Task, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	tasks := make([]Task, len(sc.tasks))
	copy(tasks, sc.tasks)
	return tasks, sc.stale
}

// Stats returns the last-known stats and whether they are stale.
// Returns nil before the first successful refresh.
func (sc *SyncCache) Stats() (*Stats, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.stats == nil {
		return nil, sc.stale
	}
	stats := *sc.stats
	return &stats, sc.stale
}

// LastSync returns the time of the last successful refresh.
func (sc *SyncCache) LastSync() time.Time {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.lastSync
}

// CreateTask creates a task and refreshes the cache on success.
func (sc *SyncCache) CreateTask(ctx context.Context, task NewTask) (*Task, error) {
	created, err := sc.client.CreateTask(ctx, task)
	if err != nil {
		return nil, err
	}
	sc.refreshAfterMutation(ctx)
	return created, nil
}

// UpdateTask applies a partial update and refreshes the cache on success.
func (sc *SyncCache) UpdateTask(ctx context.Context, taskID int64, patch TaskPatch) (*TaskUpdate, error) {
	updated, err := sc.client.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return nil, err
	}
	sc.refreshAfterMutation(ctx)
	return updated, nil
}

// DeleteTask deletes a task and refreshes the cache on success.
func (sc *SyncCache) DeleteTask(ctx context.Context, taskID int64) error {
	if err := sc.client.DeleteTask(ctx, taskID); err != nil {
		return err
	}
	sc.refreshAfterMutation(ctx)
	return nil
}

// Run polls until ctx is cancelled. An immediate refresh runs first so the
// cache is warm before the first tick.
func (sc *SyncCache) Run(ctx context.Context) {
	if err := sc.Refresh(ctx); err != nil {
		sc.logger.Warn("Initial sync failed", "error", err)
	}

	ticker := time.NewTicker(sc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := sc.Refresh(ctx); err != nil {
				sc.logger.Warn("Background sync failed, serving cached state", "error", err)
			}
		}
	}
}

// refreshAfterMutation updates the mirror after a successful write. The
// mutation itself already succeeded, so a failed refresh only leaves the
// cache stale; the next poll retries.
func (sc *SyncCache) refreshAfterMutation(ctx context.Context) {
	if err := sc.Refresh(ctx); err != nil {
		sc.logger.Warn("Post-mutation sync failed", "error", err)
	}
}

func (sc *SyncCache) markStale() {
	sc.mu.Lock()
	sc.stale = true
	sc.mu.Unlock()
}
