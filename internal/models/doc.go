// Package models defines the core domain models for the ZenStudy backend.
//
// # Models
//
//   - Account: a registered user identity with hashed credentials
//   - Task: a unit of study work with a deadline, effort estimate, priority
//     and completion status
//   - UserStats: per-account aggregate of reward points, streak, and badge
//     unlocks
//   - Badge: a single unlocked achievement with its unlock time
//
// # Design Principles
//
//  1. Tasks and stats are exclusively owned by their account and carry the
//     owning account ID; every storage operation is scoped by it.
//  2. Stored completed/total counts on UserStats are an informational
//     snapshot only; responses always recompute them from the live task set.
//  3. Relationships use ID fields instead of pointers to avoid circular
//     references.
package models
