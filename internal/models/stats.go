package models

// Badge is a single unlocked achievement. Unlocks are append-only: once a
// badge is stored for an account it is never removed or re-reported.
type Badge struct {
	// ID is the stable badge identifier (e.g. "first_step").
	ID string `json:"id"`

	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`

	// UnlockedAt is the Unix timestamp when the badge was earned.
	UnlockedAt int64 `json:"unlockedAt"`
}

// UserStats is the per-account aggregate record (1:1 with Account).
//
// Points are cumulative and only ever incremented by reward events. The
// stored completed/total counts are an informational snapshot; callers
// recompute them from the live task set at read time.
type UserStats struct {
	AccountID string `json:"userId"`

	// Points is the cumulative reward point total.
	Points int `json:"points"`

	// CompletedTasks and TotalTasks are recomputed from the task set on
	// every read; the stored values are never trusted.
	CompletedTasks int `json:"completedTasks"`
	TotalTasks     int `json:"totalTasks"`

	// Streak is the current run of consecutive active days.
	Streak int `json:"streak"`

	// LastActivity is the YYYY-MM-DD date of the most recent reward event,
	// empty if there has been none.
	LastActivity string `json:"lastActivity,omitempty"`

	Badges []Badge `json:"badges"`

	// LastUpdated is the Unix timestamp of the last stats write.
	LastUpdated int64 `json:"lastUpdated"`
}
