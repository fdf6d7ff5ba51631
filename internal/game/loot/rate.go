// Package loot resolves monster kills into dropped items.
package loot

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rate is a drop probability in [0, 1]. In YAML it may be written as a
// number (0.05) or a fraction string ("1/100").
type Rate float64

// ParseRate parses a decimal or fractional probability.
//
// Postcondition: on success 0 <= result <= 1.
func ParseRate(s string) (Rate, error) {
	s = strings.TrimSpace(s)
	var v float64
	if strings.Contains(s, "/") {
		r, ok := new(big.Rat).SetString(s)
		if !ok {
			return 0, fmt.Errorf("loot: invalid fractional rate %q", s)
		}
		v, _ = r.Float64()
	} else {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("loot: invalid rate %q: %w", s, err)
		}
		v = f
	}
	if v < 0 || v > 1 {
		return 0, fmt.Errorf("loot: rate %q out of range [0, 1]", s)
	}
	return Rate(v), nil
}

// UnmarshalYAML accepts a number or a fraction string.
func (r *Rate) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("loot: rate must be a scalar, line %d", node.Line)
	}
	parsed, err := ParseRate(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = parsed
	return nil
}

// Merge combines two independent chances of the same item dropping:
// 1 - (1-a)(1-b).
//
// Postcondition: result >= max(a, b) for a, b in [0, 1].
func Merge(a, b Rate) Rate {
	return 1 - (1-a)*(1-b)
}
