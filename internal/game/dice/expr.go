package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed quantity expression such as "3", "1d3" or "2d4+1".
//
// Invariant: Count == 0 means a constant expression whose value is Modifier.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// RollResult is the audit trail of one Expression evaluation.
type RollResult struct {
	Expression string
	Dice       []int
	Modifier   int
}

// Total returns the sum of all dice plus the modifier.
//
// Postcondition: return value == sum(r.Dice) + r.Modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the result as "2d4+1 [3 2] +1 = 6".
func (r RollResult) String() string {
	return fmt.Sprintf("%s %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Parse parses a quantity expression. Accepted forms: "N", "dS", "NdS",
// "NdS+M" and "NdS-M".
//
// Postcondition: returns an Expression or a descriptive error.
func Parse(raw string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	d := strings.IndexByte(s, 'd')
	if d < 0 {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid constant %q: %w", raw, err)
		}
		return Expression{Raw: raw, Modifier: n}, nil
	}

	count := 1
	if d > 0 {
		n, err := strconv.Atoi(s[:d])
		if err != nil || n < 1 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q", raw)
		}
		count = n
	}

	rest := s[d+1:]
	mod := 0
	if i := strings.IndexAny(rest, "+-"); i > 0 {
		n, err := strconv.Atoi(rest[i:])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
		mod = n
		rest = rest[:i]
	}

	sides, err := strconv.Atoi(rest)
	if err != nil || sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q", raw)
	}
	return Expression{Raw: raw, Count: count, Sides: sides, Modifier: mod}, nil
}

// MustParse parses raw and panics on error.
func MustParse(raw string) Expression {
	e, err := Parse(raw)
	if err != nil {
		panic("dice: MustParse: " + err.Error())
	}
	return e
}

// Roll evaluates e with src, drawing exactly e.Count values.
func (e Expression) Roll(src Source) RollResult {
	rolled := make([]int, e.Count)
	for i := range rolled {
		rolled[i] = src.Intn(e.Sides) + 1
	}
	return RollResult{Expression: e.Raw, Dice: rolled, Modifier: e.Modifier}
}

// Min returns the smallest total the expression can produce.
func (e Expression) Min() int { return e.Count + e.Modifier }

// Max returns the largest total the expression can produce.
func (e Expression) Max() int { return e.Count*e.Sides + e.Modifier }
