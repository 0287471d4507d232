// Package dice provides the randomness abstraction, chance rolls and dice
// expressions used by the battle engine. Every random draw in the engine goes
// through a Source so tests and replays can force exact outcomes.
package dice

import (
	"fmt"
	"sort"
)

// Source is the randomness provider for every roll in the engine.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// ChanceResolution is the number of buckets a fractional chance is rolled against.
// A chance of 0.05 succeeds when Intn(ChanceResolution) < 500.
const ChanceResolution = 10_000

// Chance rolls a fractional probability p in [0, 1] against src.
// p <= 0 never succeeds and does not consume a draw; p >= 1 always succeeds
// and does not consume a draw.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Intn(ChanceResolution) < int(p*ChanceResolution)
}

// Between returns a uniform integer in [lo, hi].
// When lo >= hi it returns lo without consuming a draw.
func Between(src Source, lo, hi int) int {
	if lo >= hi {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// Percent draws a uniform integer in [0, 100).
func Percent(src Source) int {
	return src.Intn(100)
}

// RollResult holds the full audit trail for a single dice expression roll.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string: "2d6+3 → [4 5] +3 = 12".
func (r RollResult) String() string {
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Roll evaluates an Expression using the given Source.
//
// Precondition: expr must come from Parse; src must be non-nil.
func Roll(expr Expression, src Source) RollResult {
	rolled := make([]int, expr.Count)
	for i := range rolled {
		rolled[i] = src.Intn(expr.Sides) + 1
	}
	if expr.KeepHighest > 0 {
		sort.Sort(sort.Reverse(sort.IntSlice(rolled)))
		rolled = rolled[:expr.KeepHighest]
	}
	return RollResult{Expression: expr.Raw, Dice: rolled, Modifier: expr.Modifier}
}

// RollExpr parses expr and rolls it using src in a single call.
func RollExpr(expr string, src Source) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return Roll(e, src), nil
}
