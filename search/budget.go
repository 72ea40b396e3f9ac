package search

import "time"

// Budget bounds one search invocation. A zero Deadline means no time
// limit, a zero MaxNodes means no node limit, and a zero MaxDepth
// means deepening is bounded only by the board. At least one must be
// set. Node and depth budgets are deterministic and meant for tests;
// wall-clock budgets are the normal play configuration.
type Budget struct {
	Deadline time.Time
	MaxNodes uint64
	MaxDepth int
}

// TimeBudget returns a budget that expires d from now.
func TimeBudget(d time.Duration) Budget {
	return Budget{Deadline: time.Now().Add(d)}
}

// NodeBudget returns a budget that expires after n visited nodes.
func NodeBudget(n uint64) Budget {
	return Budget{MaxNodes: n}
}

// DepthBudget returns a budget that stops deepening after depth d.
// Every depth up to d is searched to completion, so the returned
// score is always from a fully explored iteration.
func DepthBudget(d int) Budget {
	return Budget{MaxDepth: d}
}

func (b Budget) valid() bool {
	return !b.Deadline.IsZero() || b.MaxNodes > 0 || b.MaxDepth > 0
}

// Expired reports whether the budget is exhausted. It is consulted
// cooperatively before each node expansion.
func (b Budget) Expired(nodes uint64) bool {
	if b.MaxNodes > 0 && nodes >= b.MaxNodes {
		return true
	}
	if !b.Deadline.IsZero() && !time.Now().Before(b.Deadline) {
		return true
	}
	return false
}
