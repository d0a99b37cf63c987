package nutrition

import (
	"fmt"
	"strings"
)

// MatchPolicy selects how a candidate that only contains reference keys is
// resolved.
type MatchPolicy int

const (
	// MatchLeftmostLongest picks the key that appears earliest in the
	// candidate, preferring the longer key when two start at the same place.
	MatchLeftmostLongest MatchPolicy = iota
	// MatchDeclarationOrder picks the first contained key in table order.
	MatchDeclarationOrder
)

func (p MatchPolicy) String() string {
	switch p {
	case MatchDeclarationOrder:
		return "declaration-order"
	default:
		return "leftmost-longest"
	}
}

// ParseMatchPolicy parses a policy name. An empty name selects the default.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "leftmost-longest":
		return MatchLeftmostLongest, nil
	case "declaration-order":
		return MatchDeclarationOrder, nil
	}
	return MatchLeftmostLongest, fmt.Errorf("unknown match policy %q", s)
}

// Resolver maps free-text food names to reference keys.
type Resolver struct {
	policy MatchPolicy
}

func NewResolver(policy MatchPolicy) *Resolver {
	return &Resolver{policy: policy}
}

// Policy returns the substring policy in use.
func (r *Resolver) Policy() MatchPolicy {
	return r.policy
}

// Resolve returns the reference key for candidate. Matching is
// case-insensitive: alias first, then exact key, then substring containment.
func (r *Resolver) Resolve(candidate string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(candidate))
	if name == "" {
		return "", false
	}

	if key, ok := aliases[name]; ok {
		return key, true
	}

	if _, ok := byKey[name]; ok {
		return name, true
	}

	if r.policy == MatchDeclarationOrder {
		for _, e := range table {
			if strings.Contains(name, e.Key) {
				return e.Key, true
			}
		}
		return "", false
	}

	best, bestPos := "", -1
	for _, e := range table {
		pos := strings.Index(name, e.Key)
		if pos < 0 {
			continue
		}
		if bestPos < 0 || pos < bestPos || (pos == bestPos && len(e.Key) > len(best)) {
			best, bestPos = e.Key, pos
		}
	}
	return best, bestPos >= 0
}
