package schedule

import "github.com/napolitain/solver-blueprint/internal/models"

// memoKey identifies a state independently of the minute it was reached at.
// The dominance flags are part of the key because they restrict the subtree.
type memoKey struct {
	Stock     [models.NumResources]int
	Producers [models.NumResources]int
	Flags     flags
}

// memoEntry is the earliest minute a key was fully searched and the value it returned.
// Reaching the same key at the same or a later minute leaves no more time to work
// with, so the stored value cannot be beaten from there.
type memoEntry struct {
	minute int
	result int
}

// MemoSize returns the number of cached states after a memoized Solve
func (s *Solver) MemoSize() int {
	return len(s.memo)
}
