package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression ready to be rolled.
// A flat expression such as "15" has Count == 0 and only a Modifier.
type Expression struct {
	Raw         string // original input string
	Count       int    // number of dice; 0 for a flat value
	Sides       int    // faces per die
	Modifier    int    // flat modifier (may be negative)
	KeepHighest int    // if > 0, keep only the N highest dice (e.g. 4d6kh3)
}

// Parse parses a dice expression.
// Supported forms: "15", "d20", "2d6", "2d6+3", "4d8-2", "4d6kh3", "4d6kh3+1".
func Parse(expr string) (Expression, error) {
	raw := expr
	s := strings.ToLower(strings.ReplaceAll(expr, " ", ""))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	dIdx := strings.IndexByte(s, 'd')
	if dIdx < 0 {
		flat, err := strconv.Atoi(s)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: %q is neither a dice expression nor an integer", raw)
		}
		return Expression{Raw: raw, Modifier: flat}, nil
	}

	count := 1
	if dIdx > 0 {
		n, err := strconv.Atoi(s[:dIdx])
		if err != nil || n < 1 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q", raw)
		}
		count = n
	}

	body, mod, err := splitModifier(s[dIdx+1:])
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
	}

	keep := 0
	if khIdx := strings.Index(body, "kh"); khIdx >= 0 {
		keep, err = strconv.Atoi(body[khIdx+2:])
		if err != nil || keep <= 0 || keep >= count {
			return Expression{}, fmt.Errorf("dice: kh value in %q must be > 0 and < count %d", raw, count)
		}
		body = body[:khIdx]
	}

	sides, err := strconv.Atoi(body)
	if err != nil || sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be an integer >= 2", raw)
	}

	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: mod, KeepHighest: keep}, nil
}

// splitModifier separates a trailing "+N" or "-N" from rest.
func splitModifier(rest string) (string, int, error) {
	idx := strings.IndexAny(rest, "+-")
	if idx < 0 {
		return rest, 0, nil
	}
	mod, err := strconv.Atoi(rest[idx:])
	if err != nil {
		return "", 0, err
	}
	return rest[:idx], mod, nil
}

// MustParse parses expr and panics on error. Useful for package-level constants.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}

// Min returns the smallest total the expression can produce.
func (e Expression) Min() int {
	n := e.Count
	if e.KeepHighest > 0 {
		n = e.KeepHighest
	}
	return n + e.Modifier
}

// Max returns the largest total the expression can produce.
func (e Expression) Max() int {
	n := e.Count
	if e.KeepHighest > 0 {
		n = e.KeepHighest
	}
	return n*e.Sides + e.Modifier
}
